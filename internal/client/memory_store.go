package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStore keeps objects in process memory. It backs local runs without S3 and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
	baseURL string
}

// NewMemoryStore creates an empty store whose URLs are rooted at baseURL
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// UploadFile stores the whole stream under key
func (s *MemoryStore) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = data
	s.types[key] = contentType
	return s.GetFileURL(key), nil
}

// DeleteFile removes key; a missing key is not an error
func (s *MemoryStore) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	delete(s.types, key)
	return nil
}

// GetFileURL returns the URL for key
func (s *MemoryStore) GetFileURL(key string) string {
	return s.baseURL + "/" + key
}

// Get returns a copy of the object stored under key
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Len returns the number of stored objects
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

var _ ObjectStore = (*MemoryStore)(nil)
