package tree

import (
	"strconv"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// Get reads the value at segments below node. The result is a copy.
func Get(node interface{}, segments []string) (interface{}, bool) {
	for _, seg := range segments {
		switch t := node.(type) {
		case map[string]interface{}:
			child, ok := t[seg]
			if !ok {
				return nil, false
			}
			node = child
		case []interface{}:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			node = t[i]
		default:
			return nil, false
		}
	}
	if node == nil {
		return nil, false
	}
	return domain.DeepCopyValue(node), true
}

// Set returns node with the value at segments replaced. value must already be
// normalized; nil removes it. node itself is never modified, and parents left
// empty are pruned.
func Set(node interface{}, segments []string, value interface{}) interface{} {
	if value == nil {
		if _, exists := Get(node, segments); !exists {
			return node
		}
	}
	return set(node, segments, value)
}

func set(node interface{}, segments []string, value interface{}) interface{} {
	if len(segments) == 0 {
		return value
	}

	children := childMap(node)
	child := set(children[segments[0]], segments[1:], value)
	if child == nil {
		delete(children, segments[0])
	} else {
		children[segments[0]] = child
	}
	if len(children) == 0 {
		return nil
	}
	if _, wasSequence := node.([]interface{}); wasSequence {
		if seq, ok := sequenceOf(children); ok {
			return seq
		}
	}
	return children
}

// sequenceOf converts children back to a sequence when its keys are exactly
// the indices 0..n-1.
func sequenceOf(children map[string]interface{}) ([]interface{}, bool) {
	seq := make([]interface{}, len(children))
	for k, v := range children {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= len(seq) || strconv.Itoa(i) != k {
			return nil, false
		}
		seq[i] = v
	}
	return seq, true
}

// childMap returns a shallow copy of node as a map. Sequences become maps
// keyed by index, and set turns them back while the indices stay dense;
// leaves are replaced.
func childMap(node interface{}) map[string]interface{} {
	switch t := node.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t)+1)
		for k, v := range t {
			out[k] = v
		}
		return out
	case []interface{}:
		out := make(map[string]interface{}, len(t)+1)
		for i, v := range t {
			if v != nil {
				out[strconv.Itoa(i)] = v
			}
		}
		return out
	default:
		return make(map[string]interface{})
	}
}
