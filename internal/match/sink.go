package match

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// ResultSink appends JSON lines to a writer. Safe for concurrent use
// so several runners can share one file.
type ResultSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewResultSink wraps an existing writer.
func NewResultSink(w io.Writer) *ResultSink {
	return &ResultSink{w: w}
}

// OpenResultSink creates or appends to a JSONL file.
func OpenResultSink(path string) (*ResultSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open result sink: %w", err)
	}
	return &ResultSink{w: f, closer: f}, nil
}

// Write appends one value as a single JSON line.
func (s *ResultSink) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// Close closes the underlying file if the sink owns one.
func (s *ResultSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
