package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor is the wire form of a resume point for cursor pagination.
type Cursor struct {
	ID       string `json:"id"`
	Position string `json:"pos,omitempty"`
}

// CursorFor builds the cursor that resumes right after snap.
func CursorFor(snap Snapshot) *Cursor {
	return &Cursor{ID: snap.ID, Position: snap.Position}
}

// Snapshot returns a resume-point snapshot for this cursor. Data is left empty;
// stores that order by field values re-read the record by ID.
func (c *Cursor) Snapshot() *Snapshot {
	return &Snapshot{ID: c.ID, Position: c.Position, Exists: true}
}

// EncodeCursor encodes a cursor to base64
func EncodeCursor(cursor *Cursor) (string, error) {
	data, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor decodes a base64 cursor
func DecodeCursor(encoded string) (*Cursor, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode cursor: %v", ErrInvalidQuery, err)
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal cursor: %v", ErrInvalidQuery, err)
	}
	if cursor.ID == "" && cursor.Position == "" {
		return nil, fmt.Errorf("%w: empty cursor", ErrInvalidQuery)
	}

	return &cursor, nil
}

// PageWindow translates a page size and 1-based page number into an offset
// and limit. Page numbers below 1, including 0 for "not given", mean page 1.
func PageWindow(size, page int) (offset, limit int, err error) {
	if size <= 0 {
		return 0, 0, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidQuery, size)
	}
	if page < 1 {
		page = 1
	}
	return size * (page - 1), size, nil
}

// Page is a slice of results with the cursor to continue from.
type Page struct {
	Documents  []Snapshot `json:"documents"`
	HasNext    bool       `json:"has_next"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewPage builds a Page from results read with the given limit. When the
// page is full a next cursor pointing at its last record is attached.
func NewPage(docs []Snapshot, limit int) (*Page, error) {
	page := &Page{Documents: docs}
	if page.Documents == nil {
		page.Documents = []Snapshot{}
	}
	if limit > 0 && len(docs) == limit {
		next, err := EncodeCursor(CursorFor(docs[len(docs)-1]))
		if err != nil {
			return nil, err
		}
		page.HasNext = true
		page.NextCursor = next
	}
	return page, nil
}
