package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

type CollectionState int

const (
	CollectionStateLoaded CollectionState = iota
	CollectionStateDirty
)

// record is a stored document with its insertion sequence.
type record struct {
	data domain.Document
	seq  int64
}

// Collection holds the documents of one collection.
// Callers must hold the collection lock.
type Collection struct {
	Name         string
	State        CollectionState
	LastModified time.Time

	records map[string]*record
}

// NewCollection creates a new collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:         name,
		State:        CollectionStateLoaded,
		LastModified: time.Now(),
		records:      make(map[string]*record),
	}
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	return len(c.records)
}

func (c *Collection) markDirty() {
	c.State = CollectionStateDirty
	c.LastModified = time.Now()
}

// snapshots returns copies of every document in insertion order.
func (c *Collection) snapshots() []domain.Snapshot {
	ids := make([]string, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return c.records[ids[i]].seq < c.records[ids[j]].seq
	})

	out := make([]domain.Snapshot, len(ids))
	for i, id := range ids {
		out[i] = c.snapshot(id, c.records[id])
	}
	return out
}

func (c *Collection) snapshot(id string, rec *record) domain.Snapshot {
	return domain.Snapshot{
		ID:       id,
		Data:     rec.data.DeepCopy(),
		Exists:   true,
		Position: formatPosition(rec.seq),
	}
}

// formatPosition renders a sequence number so that positions sort lexically.
func formatPosition(seq int64) string {
	return fmt.Sprintf("%020d", seq)
}
