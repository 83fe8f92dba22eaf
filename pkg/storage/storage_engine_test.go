package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("doc-%d", n)
	}
}

func TestNewStorageEngine(t *testing.T) {
	tests := []struct {
		name           string
		options        []StorageOption
		dataFile       string
		backgroundSave bool
		saveInterval   time.Duration
	}{
		{
			name:         "default options",
			options:      []StorageOption{},
			saveInterval: 5 * time.Minute,
		},
		{
			name: "custom options",
			options: []StorageOption{
				WithDataFile("/tmp/data.godb"),
				WithBackgroundSave(1 * time.Minute),
			},
			dataFile:       "/tmp/data.godb",
			backgroundSave: true,
			saveInterval:   1 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewStorageEngine(tt.options...)

			assert.Equal(t, tt.dataFile, engine.dataFile)
			assert.Equal(t, tt.backgroundSave, engine.backgroundSave)
			assert.Equal(t, tt.saveInterval, engine.saveInterval)
			assert.NotNil(t, engine.collections)
			assert.NotNil(t, engine.newID)
			assert.NotNil(t, engine.stopChan)
		})
	}
}

func TestStorageEngine_AddAndGet(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine()
	defer engine.StopBackgroundWorkers()

	ref, err := engine.Add(ctx, "users", domain.Document{"name": "Alice", "age": 30})
	require.NoError(t, err)
	assert.Equal(t, "users", ref.Collection)
	assert.NotEmpty(t, ref.ID)

	snap, err := engine.Get(ctx, "users", ref.ID)
	require.NoError(t, err)
	assert.True(t, snap.Exists)
	assert.Equal(t, ref.ID, snap.ID)
	assert.Equal(t, "Alice", snap.Data["name"])
	assert.NotEmpty(t, snap.Position)

	missing, err := engine.Get(ctx, "users", "nope")
	require.NoError(t, err)
	assert.False(t, missing.Exists)
	assert.Equal(t, "nope", missing.ID)

	_, err = engine.Get(ctx, "users", "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestStorageEngine_StoredDataIsIsolated(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine()

	doc := domain.Document{"tags": []interface{}{"a"}, "profile": map[string]interface{}{"city": "Leeds"}}
	require.NoError(t, engine.Set(ctx, "users", "u1", doc))

	// Mutating the caller's document must not leak into the store
	doc["tags"].([]interface{})[0] = "changed"
	doc["profile"].(map[string]interface{})["city"] = "York"

	snap, err := engine.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a"}, snap.Data["tags"])
	assert.Equal(t, "Leeds", snap.Data["profile"].(map[string]interface{})["city"])

	// Nor must mutating a snapshot
	snap.Data["tags"] = "gone"
	again, err := engine.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a"}, again.Data["tags"])
}

func TestStorageEngine_SetKeepsStoreOrder(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine()

	require.NoError(t, engine.Set(ctx, "items", "a", domain.Document{"v": 1}))
	require.NoError(t, engine.Set(ctx, "items", "b", domain.Document{"v": 2}))
	require.NoError(t, engine.Set(ctx, "items", "a", domain.Document{"v": 3}))

	docs, err := engine.Query(ctx, "items", domain.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, 3, docs[0].Data["v"])
	assert.Equal(t, "b", docs[1].ID)
}

func TestStorageEngine_Update(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine()

	require.NoError(t, engine.Set(ctx, "users", "u1", domain.Document{"name": "Alice", "age": 30}))
	require.NoError(t, engine.Update(ctx, "users", "u1", domain.Document{"age": 31, "city": "Leeds"}))

	snap, err := engine.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.Document{"name": "Alice", "age": 31, "city": "Leeds"}, snap.Data)

	err = engine.Update(ctx, "users", "missing", domain.Document{"age": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = engine.Update(ctx, "nocollection", "u1", domain.Document{"age": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStorageEngine_Delete(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine()

	require.NoError(t, engine.Set(ctx, "users", "u1", domain.Document{"name": "Alice"}))
	require.NoError(t, engine.Delete(ctx, "users", "u1"))

	snap, err := engine.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.False(t, snap.Exists)

	assert.ErrorIs(t, engine.Delete(ctx, "users", "u1"), domain.ErrNotFound)
	assert.ErrorIs(t, engine.Delete(ctx, "other", "u1"), domain.ErrNotFound)
}

func TestStorageEngine_Query(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine(WithIDGenerator(sequentialIDs()))

	for _, doc := range []domain.Document{
		{"name": "Alice", "age": 30},
		{"name": "Bob", "age": 25},
		{"name": "Charlie", "age": 35},
	} {
		_, err := engine.Add(ctx, "users", doc)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		query    domain.Query
		expected []string
	}{
		{
			name:     "all in store order",
			query:    domain.Query{},
			expected: []string{"doc-1", "doc-2", "doc-3"},
		},
		{
			name: "filter",
			query: domain.Query{Filters: []domain.Filter{
				{Field: "age", Op: domain.OpGreaterThan, Value: 26},
			}},
			expected: []string{"doc-1", "doc-3"},
		},
		{
			name:     "order and limit",
			query:    domain.Query{Order: &domain.Order{Field: "age", Direction: domain.Descending}, Limit: 2},
			expected: []string{"doc-3", "doc-1"},
		},
		{
			name:     "start after",
			query:    domain.Query{StartAfter: &domain.Snapshot{ID: "doc-1", Exists: true}},
			expected: []string{"doc-2", "doc-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := engine.Query(ctx, "users", tt.query)
			require.NoError(t, err)
			ids := make([]string, len(docs))
			for i, doc := range docs {
				ids[i] = doc.ID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	t.Run("missing collection", func(t *testing.T) {
		docs, err := engine.Query(ctx, "nothing", domain.Query{})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := engine.Query(ctx, "users", domain.Query{Limit: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	})
}

func TestStorageEngine_ResumeAfterDeletedDocument(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine(WithIDGenerator(sequentialIDs()))

	for i := 0; i < 4; i++ {
		_, err := engine.Add(ctx, "items", domain.Document{"n": i})
		require.NoError(t, err)
	}

	first, err := engine.Query(ctx, "items", domain.Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)

	require.NoError(t, engine.Delete(ctx, "items", first[1].ID))

	cursor := domain.CursorFor(first[1])
	rest, err := engine.Query(ctx, "items", domain.Query{Limit: 2, StartAfter: cursor.Snapshot()})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "doc-3", rest[0].ID)
	assert.Equal(t, "doc-4", rest[1].ID)
}

func TestStorageEngine_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	engine := NewStorageEngine()

	const workers = 20
	const perWorker = 25

	var wg sync.WaitGroup
	ids := make(chan string, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ref, err := engine.Add(ctx, "items", domain.Document{"worker": w, "i": i})
				if assert.NoError(t, err) {
					ids <- ref.ID
				}
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)

	docs, err := engine.Query(ctx, "items", domain.Query{})
	require.NoError(t, err)
	assert.Len(t, docs, workers*perWorker)
}

func TestStorageEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewStorageEngine()
	_, err := engine.Add(ctx, "users", domain.Document{"name": "Alice"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = engine.Query(ctx, "users", domain.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorageEngine_GetMemoryStats(t *testing.T) {
	engine := NewStorageEngine()
	require.NoError(t, engine.Set(context.Background(), "users", "u1", domain.Document{"name": "Alice"}))

	stats := engine.GetMemoryStats()
	assert.Equal(t, 1, stats["collections"])
	assert.Contains(t, stats, "alloc_mb")
	assert.Contains(t, stats, "num_goroutines")
}
