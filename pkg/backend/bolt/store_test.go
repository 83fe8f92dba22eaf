package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tree.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_GetEmpty(t *testing.T) {
	store := openTestStore(t)

	_, exists, err := store.Get(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, exists)

	_, exists, err = store.Get(context.Background(), "users/u1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_SetUpdateRemove(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Set(ctx, "users", map[string]interface{}{"a": 1, "b": 2}))
	require.NoError(t, store.Update(ctx, "users", map[string]interface{}{"b": 3}))

	value, exists, err := store.Get(ctx, "users")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, map[string]interface{}{"a": float64(1), "b": float64(3)}, value)

	require.NoError(t, store.Set(ctx, "users", map[string]interface{}{"c": 3}))
	value, _, err = store.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"c": float64(3)}, value)

	require.NoError(t, store.Set(ctx, "users/c", nil))
	_, exists, err = store.Get(ctx, "users")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_NestedPaths(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Set(ctx, "users/u1/name", "Alice"))
	require.NoError(t, store.Update(ctx, "", map[string]interface{}{"users/u2/name": "Bob", "posts/p1": "hi"}))

	root, exists, err := store.Get(ctx, "")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, map[string]interface{}{
		"users": map[string]interface{}{
			"u1": map[string]interface{}{"name": "Alice"},
			"u2": map[string]interface{}{"name": "Bob"},
		},
		"posts": map[string]interface{}{"p1": "hi"},
	}, root)

	require.NoError(t, store.Remove(ctx, "users/u1"))
	value, _, err := store.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"u2": map[string]interface{}{"name": "Bob"}}, value)

	require.NoError(t, store.Remove(ctx, ""))
	_, exists, err = store.Get(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	assert.ErrorIs(t, store.Set(ctx, "a$b", 1), domain.ErrInvalidPath)
	assert.ErrorIs(t, store.Set(ctx, "", "leaf"), domain.ErrInvalidArgument)
	_, _, err := store.Get(ctx, "a[0]")
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tree.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "users/u1", "Alice"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, exists, err := reopened.Get(ctx, "users/u1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "Alice", value)
}
