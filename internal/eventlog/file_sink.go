package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const logSuffix = ".events.jsonl"

func LogPath(dir, id string) string {
	return filepath.Join(dir, id+logSuffix)
}

func BioPath(dir, id, playerID string) string {
	return filepath.Join(dir, id+".bios", playerID+".md")
}

// FileSink appends events as JSON lines to <dir>/<id>.events.jsonl.
type FileSink struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

func NewFileSink(dir, id string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("eventlog: create dir: %w", err)
	}
	path := LogPath(dir, id)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	return &FileSink{path: path, f: f}, nil
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Write(_ context.Context, ev Event) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return os.ErrClosed
	}
	_, err = s.f.Write(line)
	return err
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// WriteBio stores a markdown profile next to the log.
func WriteBio(dir, id, playerID, body string) error {
	path := BioPath(dir, id, playerID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(body), 0o644)
}
