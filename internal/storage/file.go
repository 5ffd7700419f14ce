package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the chat log as a single JSON array on disk.
// The mutex only serialises callers within this process.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to ensure history dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Error loading chat history: %v", err)
		}
		return []ChatTurn{}
	}
	var turns []ChatTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return []ChatTurn{}
	}
	if turns == nil {
		return []ChatTurn{}
	}
	return turns
}

func (s *FileStore) Save(turns []ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turns == nil {
		turns = []ChatTurn{}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	enc := json.NewEncoder(f)
	if err := enc.Encode(turns); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return nil
}
