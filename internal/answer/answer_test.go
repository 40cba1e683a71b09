package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qarag/internal/domain"
)

func TestBuildPromptPreservesRankOrder(t *testing.T) {
	records := []domain.RankedRecord{
		{Record: domain.Record{ID: 3, Question: "third question", Answer: "third answer"}, Score: 0.9},
		{Record: domain.Record{ID: 1, Question: "first question", Answer: "first answer"}, Score: 0.5},
	}

	prompt := BuildPrompt("what happened?", records)

	assert.Contains(t, prompt, "User's question: what happened?")
	assert.Contains(t, prompt, "Block 1:\nQuestion: third question")
	assert.Contains(t, prompt, "Block 2:\nQuestion: first question")
	assert.Less(t, strings.Index(prompt, "third question"), strings.Index(prompt, "first question"))
}

func TestBuildPromptIncludesLinks(t *testing.T) {
	records := []domain.RankedRecord{
		{Record: domain.Record{ID: 1, Question: "q", Answer: "a", Links: []string{"https://a", "https://b"}}},
	}

	prompt := BuildPrompt("q?", records)
	assert.Contains(t, prompt, "Links: https://a, https://b")
}

func TestBuildPromptNoRecords(t *testing.T) {
	prompt := BuildPrompt("anything?", nil)
	assert.Contains(t, prompt, "User's question: anything?")
	assert.NotContains(t, prompt, "Block 1")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)

	c, err := NewClient(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, "deepseek/deepseek-r1-0528:free", c.model)
}
