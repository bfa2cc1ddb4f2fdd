package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/concave-dev/ledger/internal/audit"
)

// File appends one JSON document per line for every submission. The file is
// opened in append mode so restarts never truncate earlier records.
type File struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// NewFile opens (or creates) path for appending.
func NewFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file %s: %w", path, err)
	}
	return &File{path: path, f: f}, nil
}

// Handle writes the submission's wire shape followed by a newline.
func (s *File) Handle(_ context.Context, sub audit.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return fmt.Errorf("audit file %s is closed", s.path)
	}
	if _, err := s.f.Write(data); err != nil {
		return fmt.Errorf("failed to write audit file %s: %w", s.path, err)
	}
	return nil
}

// Close syncs and closes the file. Safe to call more than once.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	syncErr := s.f.Sync()
	closeErr := s.f.Close()
	s.f = nil
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}
