package dao

import (
	"context"
	"testing"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTreeDAO(t *testing.T, path string) *TreeDAO {
	t.Helper()
	d, err := NewTreeDAO(tree.NewMemoryStore(), path)
	require.NoError(t, err)
	return d
}

func TestNewTreeDAO(t *testing.T) {
	d, err := NewTreeDAO(tree.NewMemoryStore(), "/users/")
	require.NoError(t, err)
	assert.Equal(t, "users", d.Path())

	_, err = NewTreeDAO(tree.NewMemoryStore(), "users/a.b")
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestTreeDAO_GetAbsentIsEmptySequence(t *testing.T) {
	ctx := context.Background()
	d := newTreeDAO(t, "users")

	value, err := d.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, value)

	value, exists, err := d.Lookup(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, value)
}

func TestTreeDAO_MergeKeepsUnspecifiedKeys(t *testing.T) {
	ctx := context.Background()
	d := newTreeDAO(t, "settings")

	require.NoError(t, d.Set(ctx, map[string]interface{}{"a": 1, "b": 2}))
	require.NoError(t, d.Update(ctx, map[string]interface{}{"b": 3}))

	value, err := d.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": float64(1), "b": float64(3)}, value)
}

func TestTreeDAO_OverwriteReplacesEverything(t *testing.T) {
	ctx := context.Background()
	d := newTreeDAO(t, "settings")

	require.NoError(t, d.Set(ctx, map[string]interface{}{"a": 1, "b": 2}))
	require.NoError(t, d.Set(ctx, map[string]interface{}{"c": 3}))

	value, err := d.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"c": float64(3)}, value)
}

func TestTreeDAO_RemoveThenGet(t *testing.T) {
	ctx := context.Background()
	d := newTreeDAO(t, "users/u1")

	require.NoError(t, d.Set(ctx, map[string]interface{}{"name": "Alice"}))
	require.NoError(t, d.Remove(ctx))

	value, err := d.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, value)
}

func TestTreeDAO_UpdateChildPaths(t *testing.T) {
	ctx := context.Background()
	d := newTreeDAO(t, "users")

	require.NoError(t, d.Set(ctx, map[string]interface{}{
		"u1": map[string]interface{}{"name": "Alice"},
		"u2": map[string]interface{}{"name": "Bob"},
	}))
	require.NoError(t, d.Update(ctx, map[string]interface{}{
		"u1/age": 30,
		"u2":     nil,
	}))

	value, err := d.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"u1": map[string]interface{}{"name": "Alice", "age": float64(30)},
	}, value)
}

func TestTreeDAO_SharesStore(t *testing.T) {
	ctx := context.Background()
	store := tree.NewMemoryStore()

	parent, err := NewTreeDAO(store, "users")
	require.NoError(t, err)
	child, err := NewTreeDAO(store, "users/u1")
	require.NoError(t, err)

	require.NoError(t, child.Set(ctx, "Alice"))
	value, err := parent.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"u1": "Alice"}, value)
}
