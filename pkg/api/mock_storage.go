package api

import (
	"context"
	"sync"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/storage"
)

// MockDocumentStore wraps an in-memory engine, counting calls and optionally
// failing every operation that returns an error with a fixed one. NewID is
// counted but never fails. Used by handler tests.
type MockDocumentStore struct {
	mu     sync.Mutex
	engine *storage.StorageEngine
	calls  map[string]int
	err    error
}

var _ domain.DocumentStore = (*MockDocumentStore)(nil)

// NewMockDocumentStore creates a mock backed by a fresh in-memory engine
func NewMockDocumentStore(opts ...storage.StorageOption) *MockDocumentStore {
	return &MockDocumentStore{
		engine: storage.NewStorageEngine(opts...),
		calls:  make(map[string]int),
	}
}

// FailWith makes every later operation return err. Nil restores normal behavior.
func (m *MockDocumentStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how often the named operation ran, e.g. "Query".
func (m *MockDocumentStore) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockDocumentStore) record(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.err
}

func (m *MockDocumentStore) Query(ctx context.Context, collection string, q domain.Query) ([]domain.Snapshot, error) {
	if err := m.record("Query"); err != nil {
		return nil, err
	}
	return m.engine.Query(ctx, collection, q)
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, id string) (domain.Snapshot, error) {
	if err := m.record("Get"); err != nil {
		return domain.Snapshot{}, err
	}
	return m.engine.Get(ctx, collection, id)
}

func (m *MockDocumentStore) Add(ctx context.Context, collection string, data domain.Document) (domain.DocumentRef, error) {
	if err := m.record("Add"); err != nil {
		return domain.DocumentRef{}, err
	}
	return m.engine.Add(ctx, collection, data)
}

func (m *MockDocumentStore) Set(ctx context.Context, collection, id string, data domain.Document) error {
	if err := m.record("Set"); err != nil {
		return err
	}
	return m.engine.Set(ctx, collection, id, data)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection, id string, data domain.Document) error {
	if err := m.record("Update"); err != nil {
		return err
	}
	return m.engine.Update(ctx, collection, id, data)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := m.record("Delete"); err != nil {
		return err
	}
	return m.engine.Delete(ctx, collection, id)
}

func (m *MockDocumentStore) NewID(collection string) string {
	m.record("NewID")
	return m.engine.NewID(collection)
}
