package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-calendar/internal/ports/files"
)

type object struct {
	contentType string
	data        []byte
}

// Storage es un files.Storage in-memory para dev y tests.
type Storage struct {
	mu     sync.RWMutex
	byPath map[string]object
}

func NewStorage() *Storage {
	return &Storage{
		byPath: make(map[string]object),
	}
}

var _ files.Storage = (*Storage)(nil)

func (s *Storage) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" || len(data) == 0 {
		return "", errors.New("path and data required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.byPath[path] = object{contentType: contentType, data: cp}
	return path, nil
}

func (s *Storage) PublicURL(path string) string {
	return "memory://" + strings.TrimLeft(strings.TrimSpace(path), "/")
}

// Get expone el contenido subido (solo tests).
func (s *Storage) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byPath[strings.TrimLeft(path, "/")]
	if !ok {
		return nil, false
	}
	return o.data, true
}
