package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientMissingKey(t *testing.T) {
	t.Setenv("QARAG_TEST_EMBED_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "QARAG_TEST_EMBED_KEY"})
	require.Error(t, err)
}

func embeddingsServer(t *testing.T, vector []float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vector},
			},
			"model": "text-embedding-3-small",
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestEmbed(t *testing.T) {
	srv := embeddingsServer(t, []float64{0.1, 0.2, 0.3})
	defer srv.Close()

	t.Setenv("QARAG_TEST_EMBED_KEY", "test-key")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "QARAG_TEST_EMBED_KEY", Dimension: 3})
	require.NoError(t, err)

	vec, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.3}, vec, 1e-6)
}

func TestEmbedUnexpectedDimension(t *testing.T) {
	srv := embeddingsServer(t, []float64{0.1, 0.2})
	defer srv.Close()

	t.Setenv("QARAG_TEST_EMBED_KEY", "test-key")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "QARAG_TEST_EMBED_KEY", Dimension: 3})
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3")
}
