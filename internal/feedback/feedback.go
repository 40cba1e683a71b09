// Package feedback appends user feedback to a newline-delimited JSON log.
package feedback

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

type entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

// FileSink appends one JSON object per line to a file. The log is
// write-only from the pipeline's point of view; nothing here reads it back.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates a sink appending to path. The file is created on
// first append.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Append writes one feedback record as a single line. The line is written
// in one O_APPEND write so concurrent appends never interleave partial
// lines.
func (s *FileSink) Append(question, answer, feedback string) error {
	line, err := json.Marshal(entry{Question: question, Answer: answer, Feedback: feedback})
	if err != nil {
		return errors.Wrap(err, "marshal feedback")
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open feedback log")
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return errors.Wrap(err, "append feedback")
	}
	return nil
}
