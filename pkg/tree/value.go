package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// NormalizeValue converts v to plain JSON types (maps, sequences, float64,
// string, bool) and prunes empty maps and sequences. A nil result means
// nothing is stored.
func NormalizeValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: value is not JSON encodable: %v", domain.ErrInvalidArgument, err)
	}
	var out interface{}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return prune(out)
}

// prune drops empty containers and checks map keys.
func prune(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, e := range t {
			if err := ValidateKey(k); err != nil {
				return nil, err
			}
			pruned, err := prune(e)
			if err != nil {
				return nil, err
			}
			if pruned == nil {
				delete(t, k)
				continue
			}
			t[k] = pruned
		}
		if len(t) == 0 {
			return nil, nil
		}
		return t, nil
	case []interface{}:
		empty := true
		for i, e := range t {
			pruned, err := prune(e)
			if err != nil {
				return nil, err
			}
			t[i] = pruned
			if pruned != nil {
				empty = false
			}
		}
		if empty {
			return nil, nil
		}
		return t, nil
	default:
		return v, nil
	}
}

// Children returns the top-level entries of a root value. Only maps can sit
// at the root of a store.
func Children(root interface{}) (map[string]interface{}, error) {
	switch t := root.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: root value must be an object, got %T", domain.ErrInvalidArgument, root)
	}
}
