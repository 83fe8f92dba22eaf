package query

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// Apply evaluates q over docs, which must be in store order and carry
// positions that sort lexically in that order. Filters run first, then
// ordering, the start-after resume point, offset and limit.
func Apply(docs []domain.Snapshot, q domain.Query) ([]domain.Snapshot, error) {
	out := make([]domain.Snapshot, 0, len(docs))
	for _, doc := range docs {
		if MatchesAll(doc.Data, q.Filters) {
			out = append(out, doc)
		}
	}

	if q.Order != nil {
		out = Sort(out, *q.Order)
	}

	if q.StartAfter != nil {
		start, err := resumeIndex(out, *q.StartAfter, q.Order)
		if err != nil {
			return nil, err
		}
		out = out[start:]
	}

	return Window(out, q.Offset, q.Limit), nil
}

// Sort orders docs by a field. Records without the field are dropped; ties
// keep their incoming order.
func Sort(docs []domain.Snapshot, order domain.Order) []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(docs))
	for _, doc := range docs {
		if _, ok := doc.Data[order.Field]; ok {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := Compare(out[i].Data[order.Field], out[j].Data[order.Field])
		if order.Direction == domain.Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Window skips offset records and keeps at most limit. Limit 0 keeps the rest.
func Window(docs []domain.Snapshot, offset, limit int) []domain.Snapshot {
	if offset >= len(docs) {
		return []domain.Snapshot{}
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}

// resumeIndex finds where reading resumes after the cursor snapshot.
func resumeIndex(docs []domain.Snapshot, cursor domain.Snapshot, order *domain.Order) (int, error) {
	if cursor.ID != "" {
		for i, doc := range docs {
			if doc.ID == cursor.ID {
				return i + 1, nil
			}
		}
	}

	// The record is not in the result any more; locate the resume point from
	// the cursor's own sort key.
	if cursor.Position == "" {
		return 0, fmt.Errorf("%w: resume document %q", domain.ErrNotFound, cursor.ID)
	}
	var cursorValue interface{}
	if order != nil {
		v, ok := cursor.Data[order.Field]
		if !ok {
			return 0, fmt.Errorf("%w: resume document %q has no field %q", domain.ErrNotFound, cursor.ID, order.Field)
		}
		cursorValue = v
	}

	for i, doc := range docs {
		if order != nil {
			c := Compare(doc.Data[order.Field], cursorValue)
			if order.Direction == domain.Descending {
				c = -c
			}
			if c > 0 {
				return i, nil
			}
			if c < 0 {
				continue
			}
		}
		if doc.Position > cursor.Position {
			return i, nil
		}
	}
	return len(docs), nil
}
