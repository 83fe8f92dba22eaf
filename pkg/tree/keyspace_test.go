package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapKeyspace is a Keyspace over a plain map.
type mapKeyspace map[string]interface{}

func (m mapKeyspace) Load(key string) (interface{}, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapKeyspace) Store(key string, value interface{}) error {
	if value == nil {
		delete(m, key)
		return nil
	}
	m[key] = value
	return nil
}

func (m mapKeyspace) Keys() ([]string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys, nil
}

func TestApplyToKeyspace(t *testing.T) {
	ks := mapKeyspace{}

	w, err := SetWrite("users/u1", map[string]interface{}{"name": "Alice"})
	require.NoError(t, err)
	require.NoError(t, ApplyToKeyspace(ks, []Write{w}))
	assert.Equal(t, map[string]interface{}{"u1": map[string]interface{}{"name": "Alice"}}, ks["users"])

	writes, err := UpdateWrites("", map[string]interface{}{"users/u2": "Bob", "posts/p1": "hello"})
	require.NoError(t, err)
	require.NoError(t, ApplyToKeyspace(ks, writes))

	value, exists, err := ReadFromKeyspace(ks, []string{"users", "u2"})
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "Bob", value)

	root, exists, err := ReadFromKeyspace(ks, nil)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, root, 2)

	// Replacing the root drops keys not in the new value
	w, err = SetWrite("", map[string]interface{}{"posts": "only"})
	require.NoError(t, err)
	require.NoError(t, ApplyToKeyspace(ks, []Write{w}))
	assert.Equal(t, mapKeyspace{"posts": "only"}, ks)

	w, err = SetWrite("posts", nil)
	require.NoError(t, err)
	require.NoError(t, ApplyToKeyspace(ks, []Write{w}))
	_, exists, err = ReadFromKeyspace(ks, nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEncodeDecodeNode(t *testing.T) {
	data, err := EncodeNode(map[string]interface{}{"a": float64(1)})
	require.NoError(t, err)
	value, err := DecodeNode(data)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, value)

	_, err = DecodeNode([]byte("{"))
	assert.Error(t, err)
}
