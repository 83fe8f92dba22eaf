package domain

import "context"

// DocumentStore is an already-connected handle to a document store.
// Implementations are shared process-wide and safe for concurrent use.
type DocumentStore interface {
	// Query runs a read against one collection.
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	// Get reads one record. A missing record yields Exists=false, not an error.
	Get(ctx context.Context, collection, id string) (Snapshot, error)
	// Add stores data under a freshly generated id.
	Add(ctx context.Context, collection string, data Document) (DocumentRef, error)
	// Set stores data under id, replacing any existing record.
	Set(ctx context.Context, collection, id string, data Document) error
	// Update merges top-level fields into an existing record. Returns ErrNotFound
	// when no record exists under id.
	Update(ctx context.Context, collection, id string, data Document) error
	// Delete removes a record. Returns ErrNotFound when no record exists under id.
	Delete(ctx context.Context, collection, id string) error
	// NewID returns a fresh identifier without creating a record.
	NewID(collection string) string
}

// TreeStore is an already-connected handle to a hierarchical key-value store.
// Paths are slash-delimited; the empty path is the root.
type TreeStore interface {
	// Get reads the subtree at path. exists is false when nothing is stored there.
	Get(ctx context.Context, path string) (value interface{}, exists bool, err error)
	// Set replaces the subtree at path. A nil value removes it.
	Set(ctx context.Context, path string, value interface{}) error
	// Update merges values into the subtree at path. Keys may be relative child
	// paths; nil values remove the child.
	Update(ctx context.Context, path string, values map[string]interface{}) error
	// Remove deletes path and everything beneath it.
	Remove(ctx context.Context, path string) error
}
