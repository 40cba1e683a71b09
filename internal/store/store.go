// Package store loads the immutable record corpus queried by the ranker.
package store

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"qarag/internal/domain"
)

// Load errors. A store that fails validation must not serve queries, so all
// of these are fatal at startup.
var (
	ErrSchemaMismatch = errors.New("record vector dimension differs from store dimension")
	ErrDuplicateID    = errors.New("duplicate record id")
	ErrMalformed      = errors.New("malformed record")
)

// Store is an immutable collection of records with a uniform vector
// dimension. It is read-only after Load and safe to share across
// concurrent queries without synchronization. Corpus changes are made by
// loading a new store and swapping it wholesale, never by mutating one.
type Store struct {
	records   []domain.Record
	dimension int
}

// Load reads a JSON array of records from path and validates it.
// An empty array is a valid store with an undefined (zero) dimension.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read records file")
	}
	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "parse records file %s: %v", path, err)
	}
	return New(records)
}

// New validates records and builds a store. The first record fixes the
// vector dimension for the whole store.
func New(records []domain.Record) (*Store, error) {
	s := &Store{records: make([]domain.Record, 0, len(records))}
	seen := make(map[int]struct{}, len(records))
	for i, r := range records {
		if r.ID <= 0 {
			return nil, errors.Wrapf(ErrMalformed, "record %d: id must be a positive integer, got %d", i, r.ID)
		}
		if r.Question == "" {
			return nil, errors.Wrapf(ErrMalformed, "record id %d: empty question", r.ID)
		}
		if r.Answer == "" {
			return nil, errors.Wrapf(ErrMalformed, "record id %d: empty answer", r.ID)
		}
		if len(r.Vector) == 0 {
			return nil, errors.Wrapf(ErrMalformed, "record id %d: empty vector", r.ID)
		}
		if _, ok := seen[r.ID]; ok {
			return nil, errors.Wrapf(ErrDuplicateID, "id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
		if s.dimension == 0 {
			s.dimension = len(r.Vector)
		} else if len(r.Vector) != s.dimension {
			return nil, errors.Wrapf(ErrSchemaMismatch, "record id %d has dimension %d, store has %d", r.ID, len(r.Vector), s.dimension)
		}
		r.Links = dedupeLinks(r.Links)
		s.records = append(s.records, r)
	}
	return s, nil
}

// Size returns the number of records in the store.
func (s *Store) Size() int { return len(s.records) }

// Dimension returns the vector dimension shared by all records,
// or 0 for an empty store.
func (s *Store) Dimension() int { return s.dimension }

// Records returns the records in load order. Callers must not modify the
// returned slice.
func (s *Store) Records() []domain.Record { return s.records }

// dedupeLinks removes duplicate URLs, keeping first-seen order so that the
// store's contents are deterministic for a given source.
func dedupeLinks(links []string) []string {
	if len(links) < 2 {
		return links
	}
	seen := make(map[string]struct{}, len(links))
	out := links[:0]
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
