package tracing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink receives every step appended to a session log
type Sink interface {
	// Write persists a single step
	Write(step Step)

	// Flush flushes any buffered steps
	Flush() error

	// Close closes the sink
	Close() error
}

// FileSink persists steps as one JSON object per line
type FileSink struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// NewFileSink creates a JSONL sink named after the request in the current
// directory
func NewFileSink(name string) (*FileSink, error) {
	// Sanitize the name to prevent directory traversal
	sanitized := strings.ReplaceAll(name, "/", "_")
	sanitized = strings.ReplaceAll(sanitized, "\\", "_")
	sanitized = strings.ReplaceAll(sanitized, "..", "_")
	sanitized = strings.ReplaceAll(sanitized, ":", "_")

	fileName := fmt.Sprintf("trace_%s.jsonl", sanitized)

	currentDir, err := filepath.Abs(".")
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	filePath := filepath.Clean(filepath.Join(currentDir, fileName))
	if !strings.HasPrefix(filePath, currentDir) {
		return nil, fmt.Errorf("invalid file path: path escapes the intended directory")
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	return &FileSink{
		filePath: filePath,
		file:     file,
	}, nil
}

// Path returns the path of the trace file
func (s *FileSink) Path() string {
	return s.filePath
}

// Write persists a step to the file
func (s *FileSink) Write(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal step: %v\n", err)
		return
	}

	if _, err := s.file.Write(append(data, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write step: %v\n", err)
	}
}

// Flush flushes the underlying file
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.file.Sync()
}

// Close closes the underlying file
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.file.Close()
}
