package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageEngine_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	tempFile := filepath.Join(t.TempDir(), "data"+FileExtension)

	engine1 := NewStorageEngine(WithIDGenerator(sequentialIDs()))
	for _, doc := range []domain.Document{
		{"name": "Alice", "age": 30, "tags": []interface{}{"admin"}},
		{"name": "Bob", "age": 25},
		{"name": "Charlie", "age": 35},
	} {
		_, err := engine1.Add(ctx, "users", doc)
		require.NoError(t, err)
	}
	require.NoError(t, engine1.SaveToFile(tempFile))

	fileInfo, err := os.Stat(tempFile)
	require.NoError(t, err)
	assert.Greater(t, fileInfo.Size(), int64(0))

	engine2 := NewStorageEngine()
	require.NoError(t, engine2.LoadFromFile(tempFile))

	docs, err := engine2.Query(ctx, "users", domain.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, "doc-2", docs[1].ID)
	assert.Equal(t, "doc-3", docs[2].ID)
	assert.Equal(t, "Alice", docs[0].Data["name"])
	assert.EqualValues(t, 30, docs[0].Data["age"])
	assert.Equal(t, []interface{}{"admin"}, docs[0].Data["tags"])

	// New inserts land after the loaded records
	ref, err := engine2.Add(ctx, "users", domain.Document{"name": "Dana"})
	require.NoError(t, err)
	docs, err = engine2.Query(ctx, "users", domain.Query{})
	require.NoError(t, err)
	assert.Equal(t, ref.ID, docs[3].ID)
}

func TestStorageEngine_LoadFromFile_FileNotExists(t *testing.T) {
	engine := NewStorageEngine()
	err := engine.LoadFromFile(filepath.Join(t.TempDir(), "nonexistent.godb"))
	assert.NoError(t, err)
}

func TestStorageEngine_LoadFromFile_InvalidFile(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "invalid.godb")
	require.NoError(t, os.WriteFile(tempFile, []byte("invalid data"), 0644))

	engine := NewStorageEngine()
	err := engine.LoadFromFile(tempFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file header")
}

func TestStorageEngine_SaveWithoutDataFile(t *testing.T) {
	engine := NewStorageEngine()
	assert.Error(t, engine.SaveToFile(""))
}

func TestStorageEngine_SaveClearsDirtyState(t *testing.T) {
	ctx := context.Background()
	tempFile := filepath.Join(t.TempDir(), "data.godb")

	engine := NewStorageEngine(WithDataFile(tempFile))
	require.NoError(t, engine.Set(ctx, "users", "u1", domain.Document{"name": "Alice"}))
	assert.Equal(t, []string{"users"}, engine.dirtyCollections())

	require.NoError(t, engine.SaveToFile(tempFile))
	assert.Empty(t, engine.dirtyCollections())
}

func TestStorageEngine_BackgroundSave(t *testing.T) {
	ctx := context.Background()
	tempFile := filepath.Join(t.TempDir(), "data.godb")

	engine := NewStorageEngine(WithDataFile(tempFile), WithBackgroundSave(20*time.Millisecond))
	engine.StartBackgroundWorkers()
	defer engine.StopBackgroundWorkers()

	require.NoError(t, engine.Set(ctx, "users", "u1", domain.Document{"name": "Alice"}))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(tempFile)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStorageEngine_CloseSavesDirtyData(t *testing.T) {
	ctx := context.Background()
	tempFile := filepath.Join(t.TempDir(), "data.godb")

	engine := NewStorageEngine(WithDataFile(tempFile))
	require.NoError(t, engine.Set(ctx, "users", "u1", domain.Document{"name": "Alice"}))
	require.NoError(t, engine.Close())

	reloaded := NewStorageEngine()
	require.NoError(t, reloaded.LoadFromFile(tempFile))
	snap, err := reloaded.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.True(t, snap.Exists)
}

func TestFileHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf))
	assert.Equal(t, 8, buf.Len())

	header, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.Equal(t, uint8(FormatVersion), header.Version)

	_, err = ReadHeader(bytes.NewReader([]byte("NOPE\x02\x00\x00\x00")))
	assert.Error(t, err)

	_, err = ReadHeader(bytes.NewReader([]byte("GODB\x01\x00\x00\x00")))
	assert.Error(t, err)
}
