package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "qa_blocks_with_vectors.json", cfg.Store.RecordsPath)
	assert.Equal(t, "feedback.jsonl", cfg.Store.FeedbackPath)
	assert.Equal(t, 3, cfg.Query.TopK)
	assert.Equal(t, "OPENROUTER_API_KEY", cfg.Answerer.APIKeyEnv)
}

func TestLoadAppliesDefaultsForGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  records_path: /data/records.json
query:
  top_k: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/records.json", cfg.Store.RecordsPath)
	assert.Equal(t, 5, cfg.Query.TopK)
	// Gaps filled from defaults.
	assert.Equal(t, "feedback.jsonl", cfg.Store.FeedbackPath)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.yaml")
	in := defaultConfig()
	in.Query.TopK = 7
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
