// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStorage persists every key into one JSON object on disk.
//
// # Durability
//
// Each mutation rewrites the whole document through a temporary file and a
// rename, so a crash never leaves a half-written file behind.
type FileStorage struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	values map[string]string
}

// NewFileStorage opens (or lazily creates) the state file at path.
//
// A missing file is an empty store. A malformed file is logged and treated as
// empty; it is overwritten by the next mutation. Only I/O errors other than
// "not found" are returned.
func NewFileStorage(path string, logger *slog.Logger) (*FileStorage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage: state file path is required")
	}

	s := &FileStorage{
		path:   path,
		logger: logger,
		values: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file location.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *FileStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.persistLocked()
}

func (s *FileStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.persistLocked()
}

func (s *FileStorage) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("storage: read state file: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	var decoded map[string]string
	if err := json.Unmarshal(b, &decoded); err != nil {
		s.logger.Warn("state_file_malformed",
			slog.String("path", s.path),
			slog.Any("error", err),
		)
		return nil
	}
	for key, value := range decoded {
		s.values[key] = value
	}
	return nil
}

func (s *FileStorage) persistLocked() error {
	b, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode state file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("storage: mkdir state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".shop-state-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: replace state file: %w", err)
	}
	return nil
}
