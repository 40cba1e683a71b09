// Package answer provides the remote answering-service client that turns
// ranked records into a synthesized reply.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"qarag/internal/domain"
)

const systemPrompt = "You are a helpful assistant that summarizes and answers based on provided blocks."

var _ domain.Answerer = (*Client)(nil)

// Client calls an OpenAI-compatible chat-completions endpoint (OpenRouter by
// default) and implements domain.Answerer.
type Client struct {
	client *openai.Client
	model  string
}

// Config configures the answering client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewClient creates an answering client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing answering-service API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek/deepseek-r1-0528:free"
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	return &Client{client: openai.NewClientWithConfig(clientConfig), model: cfg.Model}, nil
}

// Answer sends the query and its ranked records to the model and returns the
// raw reply text. Presentation cleanup is the pipeline's job, not this
// client's.
func (c *Client) Answer(ctx context.Context, query string, records []domain.RankedRecord) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(query, records)},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt assembles the user prompt from the ranked records, preserving
// rank order so the model sees the most relevant block first.
func BuildPrompt(query string, records []domain.RankedRecord) string {
	var blocks strings.Builder
	for i, r := range records {
		if i > 0 {
			blocks.WriteString("\n\n")
		}
		fmt.Fprintf(&blocks, "Block %d:\nQuestion: %s\nAnswer: %s", i+1, r.Record.Question, r.Record.Answer)
		if len(r.Record.Links) > 0 {
			fmt.Fprintf(&blocks, "\nLinks: %s", strings.Join(r.Record.Links, ", "))
		}
	}
	return fmt.Sprintf(
		"Given the following blocks from a knowledge base, answer the user's question as best as possible. "+
			"If the answer is not present, say so.\n\n"+
			"User's question: %s\n\nBlocks:\n%s\n\n"+
			"Summarize and answer the question using the most relevant information. "+
			"Also, specify which block(s) the answer was taken from. "+
			"If any block has links, show them; otherwise, say 'No links'.",
		query, blocks.String(),
	)
}
