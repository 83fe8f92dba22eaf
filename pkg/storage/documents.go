package storage

import (
	"context"
	"fmt"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/query"
)

var _ domain.DocumentStore = (*StorageEngine)(nil)

// Query runs a read against a collection. A collection that was never
// written reads as empty.
func (se *StorageEngine) Query(ctx context.Context, collName string, q domain.Query) ([]domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	coll := se.lookupCollection(collName)
	if coll == nil {
		return []domain.Snapshot{}, nil
	}

	var docs []domain.Snapshot
	se.withCollectionReadLock(collName, func() error {
		docs = coll.snapshots()
		return nil
	})

	return query.Apply(docs, q)
}

// Get retrieves a specific document by its ID
func (se *StorageEngine) Get(ctx context.Context, collName, docID string) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	if docID == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: empty document id", domain.ErrInvalidArgument)
	}

	snap := domain.Snapshot{ID: docID}
	coll := se.lookupCollection(collName)
	if coll == nil {
		return snap, nil
	}

	se.withCollectionReadLock(collName, func() error {
		if rec, ok := coll.records[docID]; ok {
			snap = coll.snapshot(docID, rec)
		}
		return nil
	})
	return snap, nil
}

// Add inserts a document under a newly generated ID
func (se *StorageEngine) Add(ctx context.Context, collName string, doc domain.Document) (domain.DocumentRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.DocumentRef{}, err
	}
	coll, err := se.getOrCreateCollection(collName)
	if err != nil {
		return domain.DocumentRef{}, err
	}

	ref := domain.DocumentRef{Collection: collName}
	err = se.withCollectionWriteLock(collName, func() error {
		id := se.newID()
		if _, exists := coll.records[id]; exists {
			return fmt.Errorf("generated id %s already exists in collection %s", id, collName)
		}
		coll.records[id] = &record{data: doc.DeepCopy(), seq: se.nextSeq()}
		coll.markDirty()
		ref.ID = id
		return nil
	})
	if err != nil {
		return domain.DocumentRef{}, err
	}
	return ref, nil
}

// Set stores a document under docID, replacing any existing one. A replaced
// document keeps its position in store order.
func (se *StorageEngine) Set(ctx context.Context, collName, docID string, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if docID == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidArgument)
	}
	coll, err := se.getOrCreateCollection(collName)
	if err != nil {
		return err
	}

	return se.withCollectionWriteLock(collName, func() error {
		if rec, exists := coll.records[docID]; exists {
			rec.data = doc.DeepCopy()
		} else {
			coll.records[docID] = &record{data: doc.DeepCopy(), seq: se.nextSeq()}
		}
		coll.markDirty()
		return nil
	})
}

// Update merges top-level fields into an existing document
func (se *StorageEngine) Update(ctx context.Context, collName, docID string, updates domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	coll := se.lookupCollection(collName)
	if coll == nil {
		return fmt.Errorf("document with id %s in collection %s: %w", docID, collName, domain.ErrNotFound)
	}

	return se.withCollectionWriteLock(collName, func() error {
		rec, exists := coll.records[docID]
		if !exists {
			return fmt.Errorf("document with id %s in collection %s: %w", docID, collName, domain.ErrNotFound)
		}

		// Copy on write so snapshots handed out earlier never change
		merged := rec.data.Clone()
		if merged == nil {
			merged = domain.Document{}
		}
		for key, value := range updates {
			merged[key] = domain.DeepCopyValue(value)
		}
		rec.data = merged
		coll.markDirty()
		return nil
	})
}

// Delete removes a specific document by its ID
func (se *StorageEngine) Delete(ctx context.Context, collName, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	coll := se.lookupCollection(collName)
	if coll == nil {
		return fmt.Errorf("document with id %s in collection %s: %w", docID, collName, domain.ErrNotFound)
	}

	return se.withCollectionWriteLock(collName, func() error {
		if _, exists := coll.records[docID]; !exists {
			return fmt.Errorf("document with id %s in collection %s: %w", docID, collName, domain.ErrNotFound)
		}
		delete(coll.records, docID)
		coll.markDirty()
		return nil
	})
}

// NewID returns a fresh identifier. Collection is unused; ids are unique
// across the engine.
func (se *StorageEngine) NewID(collName string) string {
	return se.newID()
}

// CollectionNames returns the names of collections holding data.
func (se *StorageEngine) CollectionNames() []string {
	se.mu.RLock()
	defer se.mu.RUnlock()
	names := make([]string, 0, len(se.collections))
	for name := range se.collections {
		names = append(names, name)
	}
	return names
}
