package tree

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Keyspace holds one subtree per top-level key. Backends implement it over a
// single transaction so that ApplyToKeyspace commits atomically.
type Keyspace interface {
	// Load returns the subtree stored under key.
	Load(key string) (value interface{}, exists bool, err error)
	// Store replaces the subtree under key. A nil value deletes the key.
	Store(key string, value interface{}) error
	// Keys lists every top-level key.
	Keys() ([]string, error)
}

// ReadFromKeyspace reads the value at segments.
func ReadFromKeyspace(ks Keyspace, segments []string) (interface{}, bool, error) {
	if len(segments) == 0 {
		keys, err := ks.Keys()
		if err != nil {
			return nil, false, err
		}
		root := make(map[string]interface{}, len(keys))
		for _, key := range keys {
			value, exists, err := ks.Load(key)
			if err != nil {
				return nil, false, err
			}
			if exists {
				root[key] = value
			}
		}
		if len(root) == 0 {
			return nil, false, nil
		}
		return root, true, nil
	}

	top, exists, err := ks.Load(segments[0])
	if err != nil || !exists {
		return nil, false, err
	}
	value, exists := Get(top, segments[1:])
	return value, exists, nil
}

// ApplyToKeyspace runs writes against ks. A write to the root replaces every
// top-level key.
func ApplyToKeyspace(ks Keyspace, writes []Write) error {
	var grouped []Write
	for _, w := range writes {
		if len(w.Path) > 0 {
			grouped = append(grouped, w)
			continue
		}
		if err := replaceRoot(ks, w.Value); err != nil {
			return err
		}
	}

	groups, err := GroupByTopKey(grouped)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		current, _, err := ks.Load(key)
		if err != nil {
			return err
		}
		if err := ks.Store(key, Apply(current, groups[key])); err != nil {
			return err
		}
	}
	return nil
}

func replaceRoot(ks Keyspace, value interface{}) error {
	children, err := Children(value)
	if err != nil {
		return err
	}
	keys, err := ks.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, keep := children[key]; !keep {
			if err := ks.Store(key, nil); err != nil {
				return err
			}
		}
	}
	for key, child := range children {
		if err := ks.Store(key, child); err != nil {
			return err
		}
	}
	return nil
}

// EncodeNode serializes a subtree for a keyspace backend.
func EncodeNode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding node: %w", err)
	}
	return data, nil
}

// DecodeNode parses a subtree written by EncodeNode.
func DecodeNode(data []byte) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	return value, nil
}
