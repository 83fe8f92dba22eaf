package files

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

var _ ObjectStore = (*MemoryStore)(nil)

// Object is an object held by MemoryStore.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps objects in process memory.
type MemoryStore struct {
	bucket  string
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryStore creates an empty store reporting bucket as its name.
func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{bucket: bucket, objects: make(map[string]Object)}
}

func (s *MemoryStore) Bucket() string {
	return s.bucket
}

func (s *MemoryStore) Put(ctx context.Context, path string, r io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return fmt.Errorf("failed to read object %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = Object{Data: buf.Bytes(), ContentType: contentType}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return fmt.Errorf("object %s: %w", path, domain.ErrNotFound)
	}
	delete(s.objects, path)
	return nil
}

// Object returns the object stored at path.
func (s *MemoryStore) Object(path string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	return obj, ok
}
