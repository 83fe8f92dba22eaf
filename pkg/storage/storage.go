// Package storage implements an embedded document store. Collections live in
// memory and can be snapshotted to a single msgpack+lz4 file, loaded on start
// and saved on shutdown or by a background worker.
package storage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// CollectionLock provides per-collection concurrency control
type CollectionLock struct {
	mu sync.RWMutex
}

// StorageEngine is an in-process implementation of domain.DocumentStore.
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*Collection

	// Per-collection locks for better concurrency
	collectionLocks map[string]*CollectionLock
	locksMu         sync.RWMutex

	// Insertion sequence shared by all collections; defines store order.
	seq int64

	// Configuration
	dataFile       string
	backgroundSave bool
	saveInterval   time.Duration
	newID          func() string

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections:     make(map[string]*Collection),
		collectionLocks: make(map[string]*CollectionLock),
		saveInterval:    5 * time.Minute,
		newID:           newUUID,
		stopChan:        make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(engine)
	}

	return engine
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// getOrCreateCollectionLock gets or creates a lock for a collection
func (se *StorageEngine) getOrCreateCollectionLock(collName string) *CollectionLock {
	se.locksMu.RLock()
	if lock, exists := se.collectionLocks[collName]; exists {
		se.locksMu.RUnlock()
		return lock
	}
	se.locksMu.RUnlock()

	// Need to create the lock
	se.locksMu.Lock()
	defer se.locksMu.Unlock()

	// Double-check in case another goroutine created it
	if lock, exists := se.collectionLocks[collName]; exists {
		return lock
	}

	lock := &CollectionLock{}
	se.collectionLocks[collName] = lock
	return lock
}

// withCollectionReadLock executes a function with a read lock on the specified collection
func (se *StorageEngine) withCollectionReadLock(collName string, fn func() error) error {
	lock := se.getOrCreateCollectionLock(collName)
	lock.mu.RLock()
	defer lock.mu.RUnlock()
	return fn()
}

// withCollectionWriteLock executes a function with a write lock on the specified collection
func (se *StorageEngine) withCollectionWriteLock(collName string, fn func() error) error {
	lock := se.getOrCreateCollectionLock(collName)
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return fn()
}

// lookupCollection returns the collection or nil when it was never written.
func (se *StorageEngine) lookupCollection(collName string) *Collection {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.collections[collName]
}

// getOrCreateCollection returns the named collection, creating it on first write.
func (se *StorageEngine) getOrCreateCollection(collName string) (*Collection, error) {
	if collName == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	se.mu.Lock()
	defer se.mu.Unlock()
	if coll, ok := se.collections[collName]; ok {
		return coll, nil
	}
	coll := NewCollection(collName)
	se.collections[collName] = coll
	return coll, nil
}

// nextSeq hands out the next insertion sequence number.
func (se *StorageEngine) nextSeq() int64 {
	return atomic.AddInt64(&se.seq, 1)
}
