package tree

import (
	"context"
	"sync"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

var _ domain.TreeStore = (*MemoryStore)(nil)

// MemoryStore is an in-process tree store.
type MemoryStore struct {
	mu   sync.RWMutex
	root interface{}
}

// NewMemoryStore creates an empty tree store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (interface{}, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	segments, err := Split(path)
	if err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, exists := Get(s.root, segments)
	return value, exists, nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w, err := SetWrite(path, value)
	if err != nil {
		return err
	}
	s.apply([]Write{w})
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, values map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	writes, err := UpdateWrites(path, values)
	if err != nil {
		return err
	}
	s.apply(writes)
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	return s.Set(ctx, path, nil)
}

func (s *MemoryStore) apply(writes []Write) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = Apply(s.root, writes)
}
