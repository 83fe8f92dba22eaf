package tree

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// Write replaces the value at Path. A nil Value removes it.
type Write struct {
	Path  []string
	Value interface{}
}

// SetWrite builds the write for overwriting path with value.
func SetWrite(path string, value interface{}) (Write, error) {
	segments, err := Split(path)
	if err != nil {
		return Write{}, err
	}
	normalized, err := NormalizeValue(value)
	if err != nil {
		return Write{}, err
	}
	if len(segments) == 0 {
		if _, err := Children(normalized); err != nil {
			return Write{}, err
		}
	}
	return Write{Path: segments, Value: normalized}, nil
}

// UpdateWrites expands a merge at path into one write per key. Keys may be
// relative child paths. One key may not be an ancestor of another.
func UpdateWrites(path string, values map[string]interface{}) ([]Write, error) {
	base, err := Split(path)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	writes := make([]Write, 0, len(keys))
	for _, key := range keys {
		rel, err := Split(key)
		if err != nil {
			return nil, err
		}
		if len(rel) == 0 {
			return nil, fmt.Errorf("%w: empty update key", domain.ErrInvalidPath)
		}
		normalized, err := NormalizeValue(values[key])
		if err != nil {
			return nil, fmt.Errorf("update key %q: %w", key, err)
		}
		full := make([]string, 0, len(base)+len(rel))
		full = append(full, base...)
		full = append(full, rel...)
		writes = append(writes, Write{Path: full, Value: normalized})
	}

	for i := range writes {
		for j := range writes {
			if i != j && hasPrefix(writes[j].Path, writes[i].Path) {
				return nil, fmt.Errorf("%w: update key %q is an ancestor of %q",
					domain.ErrInvalidPath, Join(writes[i].Path), Join(writes[j].Path))
			}
		}
	}
	return writes, nil
}

// Apply runs writes against node in order and returns the new value.
func Apply(node interface{}, writes []Write) interface{} {
	for _, w := range writes {
		node = Set(node, w.Path, w.Value)
	}
	return node
}

// GroupByTopKey splits writes by their first segment, trimming it from each
// path. Writes to the root itself are not allowed here.
func GroupByTopKey(writes []Write) (map[string][]Write, error) {
	groups := make(map[string][]Write)
	for _, w := range writes {
		if len(w.Path) == 0 {
			return nil, fmt.Errorf("%w: root write cannot be grouped", domain.ErrInvalidPath)
		}
		top := w.Path[0]
		groups[top] = append(groups[top], Write{Path: w.Path[1:], Value: w.Value})
	}
	return groups, nil
}
