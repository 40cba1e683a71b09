package feedback

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendWritesOneLinePerEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.jsonl")
	sink := NewFileSink(path)

	require.NoError(t, sink.Append("q1", "a1", "yes"))
	require.NoError(t, sink.Append("q2", "a2", "no"))

	lines := readLines(t, path)
	require.Len(t, lines, 2)

	var first entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, entry{Question: "q1", Answer: "a1", Feedback: "yes"}, first)
}

func TestAppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.jsonl")
	sink := NewFileSink(path)
	require.NoError(t, sink.Append("q", "a", "yes"))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestConcurrentAppendsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.jsonl")
	sink := NewFileSink(path)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, sink.Append(fmt.Sprintf("q%d", i), "a", "yes"))
		}(i)
	}
	wg.Wait()

	lines := readLines(t, path)
	require.Len(t, lines, n)
	for _, line := range lines {
		var e entry
		require.NoError(t, json.Unmarshal([]byte(line), &e), "line %q", line)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}
