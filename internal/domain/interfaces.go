package domain

import "context"

// Record is a single retrievable question/answer unit from the knowledge base.
type Record struct {
	ID       int       `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Links    []string  `json:"links"`
	Vector   []float64 `json:"vector"`
}

// RankedRecord pairs a record with its similarity score against a query.
type RankedRecord struct {
	Record Record
	Score  float64
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Answerer synthesizes a free-form answer from the query and its ranked records.
type Answerer interface {
	Answer(ctx context.Context, query string, records []RankedRecord) (string, error)
}

// FeedbackSink persists user feedback about an answer. Write-only.
type FeedbackSink interface {
	Append(question, answer, feedback string) error
}

// QAService defines the operations exposed by the application core.
type QAService interface {
	Ask(ctx context.Context, query string, topK int) (*AskResult, error)
	RecordFeedback(question, answer, feedback string) error
}

// AskResult is the outcome of one query: the synthesized answer plus the
// records supplied to the answering service, in rank order.
type AskResult struct {
	Answer  string
	Records []RankedRecord
}
