package storage

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// SaveToFile writes every collection to filename. The file is replaced
// atomically so a crash mid-save leaves the previous snapshot intact.
func (se *StorageEngine) SaveToFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("no data file configured")
	}

	storageData := se.exportData()

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	tempFile := filename + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := writeStorageData(file, storageData); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to rename data file: %w", err)
	}

	return nil
}

// LoadFromFile replaces the engine's contents with the snapshot in filename.
// A missing file is not an error; the engine simply starts empty.
func (se *StorageEngine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := ReadHeader(file); err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}

	var storageData StorageData
	dec := msgpack.NewDecoder(lz4.NewReader(bufio.NewReader(file)))
	if err := dec.Decode(&storageData); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	collections := make(map[string]*Collection, len(storageData.Collections))
	total := 0
	for collName, docs := range storageData.Collections {
		coll := NewCollection(collName)
		for _, doc := range docs {
			coll.records[doc.ID] = &record{data: domain.Document(doc.Data), seq: doc.Seq}
		}
		collections[collName] = coll
		total += len(docs)
	}

	se.mu.Lock()
	se.collections = collections
	atomic.StoreInt64(&se.seq, storageData.Seq)
	se.mu.Unlock()

	log.Printf("INFO: Loaded %d collections with %d documents from %s", len(collections), total, filename)
	return nil
}

// exportData copies every collection under its read lock.
func (se *StorageEngine) exportData() *StorageData {
	storageData := NewStorageData()

	se.mu.RLock()
	collections := make([]*Collection, 0, len(se.collections))
	for _, coll := range se.collections {
		collections = append(collections, coll)
	}
	se.mu.RUnlock()

	for _, coll := range collections {
		se.withCollectionWriteLock(coll.Name, func() error {
			docs := make([]StoredDocument, 0, len(coll.records))
			for id, rec := range coll.records {
				docs = append(docs, StoredDocument{
					ID:   id,
					Seq:  rec.seq,
					Data: map[string]interface{}(rec.data.DeepCopy()),
				})
			}
			sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
			storageData.Collections[coll.Name] = docs
			coll.State = CollectionStateLoaded
			return nil
		})
	}

	storageData.Seq = atomic.LoadInt64(&se.seq)
	storageData.Metadata["saved_at"] = time.Now().UTC().Format(time.RFC3339)
	return storageData
}

func writeStorageData(file *os.File, storageData *StorageData) error {
	buffered := bufio.NewWriter(file)
	if err := WriteHeader(buffered); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	zw := lz4.NewWriter(buffered)
	if err := msgpack.NewEncoder(zw).Encode(storageData); err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("failed to write compressed data: %w", err)
	}
	return nil
}

// saveDirtyCollections writes a snapshot when any collection changed since
// the last save.
func (se *StorageEngine) saveDirtyCollections() {
	dirty := se.dirtyCollections()
	if len(dirty) == 0 {
		log.Printf("DEBUG: No dirty collections to save")
		return
	}

	start := time.Now()
	log.Printf("INFO: Background save starting - %d dirty collections to save", len(dirty))
	if err := se.SaveToFile(se.dataFile); err != nil {
		log.Printf("ERROR: Background save failed: %v", err)
		se.markCollectionsDirty(dirty)
		return
	}
	log.Printf("INFO: Background save completed successfully - saved: %d collections in %v",
		len(dirty), time.Since(start))
}

func (se *StorageEngine) dirtyCollections() []string {
	se.mu.RLock()
	collections := make([]*Collection, 0, len(se.collections))
	for _, coll := range se.collections {
		collections = append(collections, coll)
	}
	se.mu.RUnlock()

	var dirty []string
	for _, coll := range collections {
		se.withCollectionReadLock(coll.Name, func() error {
			if coll.State == CollectionStateDirty {
				dirty = append(dirty, coll.Name)
			}
			return nil
		})
	}
	return dirty
}

func (se *StorageEngine) markCollectionsDirty(names []string) {
	for _, name := range names {
		if coll := se.lookupCollection(name); coll != nil {
			se.withCollectionWriteLock(name, func() error {
				coll.State = CollectionStateDirty
				return nil
			})
		}
	}
}
