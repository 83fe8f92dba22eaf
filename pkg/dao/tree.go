package dao

import (
	"context"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/tree"
)

// TreeDAO is a facade over one path in the keyed tree store.
type TreeDAO struct {
	store domain.TreeStore
	path  string
}

// NewTreeDAO binds an adapter to path, which is validated and normalized here.
func NewTreeDAO(store domain.TreeStore, path string) (*TreeDAO, error) {
	normalized, err := tree.Normalize(path)
	if err != nil {
		return nil, err
	}
	return &TreeDAO{store: store, path: normalized}, nil
}

// Path returns the bound path.
func (d *TreeDAO) Path() string {
	return d.path
}

// Get returns the subtree at the bound path, or an empty sequence when
// nothing is stored there. Use Lookup to tell the two apart.
func (d *TreeDAO) Get(ctx context.Context) (interface{}, error) {
	value, exists, err := d.store.Get(ctx, d.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []interface{}{}, nil
	}
	return value, nil
}

// Lookup returns the subtree and whether anything is stored at the path.
func (d *TreeDAO) Lookup(ctx context.Context) (interface{}, bool, error) {
	return d.store.Get(ctx, d.path)
}

// Set replaces the subtree. A nil value removes it.
func (d *TreeDAO) Set(ctx context.Context, value interface{}) error {
	return d.store.Set(ctx, d.path, value)
}

// Update merges values into the subtree, leaving other keys untouched.
func (d *TreeDAO) Update(ctx context.Context, values map[string]interface{}) error {
	return d.store.Update(ctx, d.path, values)
}

// Remove deletes the subtree.
func (d *TreeDAO) Remove(ctx context.Context) error {
	return d.store.Remove(ctx, d.path)
}
