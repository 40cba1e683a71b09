// Package rank implements deterministic cosine-similarity top-k selection
// over a loaded record store.
package rank

import (
	"math"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"qarag/internal/domain"
	"qarag/internal/store"
)

var (
	// ErrDimensionMismatch is returned when the query vector's length does
	// not match the store's dimension. The query is rejected, never
	// truncated or padded.
	ErrDimensionMismatch = errors.New("query vector dimension mismatch")

	// ErrInvalidTopK is returned for a negative k.
	ErrInvalidTopK = errors.New("top-k must be >= 0")
)

// parallelThreshold is the store size above which scoring fans out across
// workers. Scores land in a preallocated slice by index, so the parallel
// path is byte-for-byte identical to the sequential one.
const parallelThreshold = 2048

// TopK scores every record in the store against query by cosine similarity
// and returns the k best, highest first. Ties are broken by store load
// order, so the result is reproducible for a given store and query across
// runs and process restarts.
//
// A zero-norm query or record vector has no defined cosine; its score is 0
// (maximally dissimilar) rather than NaN, applied per record. An empty
// store yields an empty result for any k >= 0 without touching the query.
func TopK(query []float64, s *store.Store, k int) ([]domain.RankedRecord, error) {
	if k < 0 {
		return nil, errors.Wrapf(ErrInvalidTopK, "got %d", k)
	}
	records := s.Records()
	if len(records) == 0 {
		return nil, nil
	}
	if len(query) != s.Dimension() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "query has %d, store has %d", len(query), s.Dimension())
	}
	if k == 0 {
		return nil, nil
	}

	scores := make([]float64, len(records))
	queryNorm := norm(query)
	if len(records) >= parallelThreshold {
		scoreParallel(query, queryNorm, records, scores)
	} else {
		for i := range records {
			scores[i] = cosine(query, queryNorm, records[i].Vector)
		}
	}

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		return i < j // load order wins on equal scores
	})

	if k > len(records) {
		k = len(records)
	}
	out := make([]domain.RankedRecord, k)
	for i := 0; i < k; i++ {
		idx := order[i]
		out[i] = domain.RankedRecord{Record: records[idx], Score: scores[idx]}
	}
	return out, nil
}

func scoreParallel(query []float64, queryNorm float64, records []domain.Record, scores []float64) {
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(records) + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				scores[i] = cosine(query, queryNorm, records[i].Vector)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail
}

// cosine computes dot(q, v) / (|q| * |v|) with the caller passing |q| so it
// is only computed once per scan. A zero norm on either side yields 0.
func cosine(q []float64, qNorm float64, v []float64) float64 {
	vNorm := norm(v)
	if qNorm == 0 || vNorm == 0 {
		return 0
	}
	dot := 0.0
	for i := range q {
		dot += q[i] * v[i]
	}
	return dot / (qNorm * vNorm)
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
