// Package pipeline orchestrates one query end-to-end: embed, rank, answer.
package pipeline

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qarag/internal/domain"
	"qarag/internal/rank"
	"qarag/internal/store"
)

// DefaultTopK is the number of records forwarded to the answering service
// when the caller does not ask for a specific count.
const DefaultTopK = 3

// Per-query failure classes from the external collaborators. Both are
// transient: the query fails with no partial answer, and the next query
// starts fresh.
var (
	ErrEmbedding = errors.New("embedding provider failed")
	ErrAnswering = errors.New("answering service failed")
)

var _ domain.QAService = (*Pipeline)(nil)

// Pipeline wires the store and ranker to the external collaborators. It
// holds no per-query state; one instance serves concurrent queries.
type Pipeline struct {
	store    *store.Store
	embedder domain.Embedder
	answerer domain.Answerer
	sink     domain.FeedbackSink
	logger   *zap.Logger
}

// New creates a pipeline over an already-loaded store.
func New(s *store.Store, embedder domain.Embedder, answerer domain.Answerer, sink domain.FeedbackSink, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{store: s, embedder: embedder, answerer: answerer, sink: sink, logger: logger}
}

// Ask answers a free-text query. topK <= 0 selects DefaultTopK. The
// returned answer has presentation markup stripped; the records are the
// ones the answering service saw, in rank order.
func (p *Pipeline) Ask(ctx context.Context, query string, topK int) (*domain.AskResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	vec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(ErrEmbedding, "%v", err)
	}
	ranked, err := rank.TopK(vec, p.store, topK)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("ranked records",
		zap.String("query", query),
		zap.Int("top_k", topK),
		zap.Int("matches", len(ranked)))

	raw, err := p.answerer.Answer(ctx, query, ranked)
	if err != nil {
		return nil, errors.Wrapf(ErrAnswering, "%v", err)
	}
	return &domain.AskResult{Answer: cleanAnswer(raw), Records: ranked}, nil
}

// RecordFeedback appends one feedback entry to the sink.
func (p *Pipeline) RecordFeedback(question, answer, feedback string) error {
	return p.sink.Append(question, answer, feedback)
}

// cleanAnswer strips the markup characters the answering model tends to
// insert. Formatting cleanup only; ranking is untouched by this step.
func cleanAnswer(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "*", ""))
}
