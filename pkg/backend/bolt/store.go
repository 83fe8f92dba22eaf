// Package bolt implements the keyed tree store on bbolt. Each top-level key
// of the tree is one JSON value in a single bucket.
package bolt

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/tree"
)

// DefaultBucket holds the tree unless another bucket is given.
const DefaultBucket = "tree"

var _ domain.TreeStore = (*Store)(nil)

// Store implements domain.TreeStore using bbolt (embedded B+ tree).
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open creates or opens a bbolt database at the given path.
func Open(path string) (*Store, error) {
	return OpenBucket(path, DefaultBucket)
}

// OpenBucket opens the database at path and keeps the tree in bucket.
func OpenBucket(path, bucket string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return &Store{db: db, bucket: []byte(bucket)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, path string) (interface{}, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	segments, err := tree.Split(path)
	if err != nil {
		return nil, false, err
	}

	var (
		value  interface{}
		exists bool
	)
	err = s.db.View(func(tx *bolt.Tx) error {
		value, exists, err = tree.ReadFromKeyspace(&keyspace{bucket: tx.Bucket(s.bucket)}, segments)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return value, exists, nil
}

func (s *Store) Set(ctx context.Context, path string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w, err := tree.SetWrite(path, value)
	if err != nil {
		return err
	}
	return s.apply([]tree.Write{w})
}

func (s *Store) Update(ctx context.Context, path string, values map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	writes, err := tree.UpdateWrites(path, values)
	if err != nil {
		return err
	}
	return s.apply(writes)
}

func (s *Store) Remove(ctx context.Context, path string) error {
	return s.Set(ctx, path, nil)
}

func (s *Store) apply(writes []tree.Write) error {
	if len(writes) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		return tree.ApplyToKeyspace(&keyspace{bucket: b}, writes)
	})
}

// keyspace adapts a bucket to tree.Keyspace. A nil bucket reads as empty.
type keyspace struct {
	bucket *bolt.Bucket
}

func (k *keyspace) Load(key string) (interface{}, bool, error) {
	if k.bucket == nil {
		return nil, false, nil
	}
	data := k.bucket.Get([]byte(key))
	if data == nil {
		return nil, false, nil
	}
	value, err := tree.DecodeNode(data)
	if err != nil {
		return nil, false, fmt.Errorf("key %q: %w", key, err)
	}
	return value, true, nil
}

func (k *keyspace) Store(key string, value interface{}) error {
	if value == nil {
		return k.bucket.Delete([]byte(key))
	}
	data, err := tree.EncodeNode(value)
	if err != nil {
		return err
	}
	return k.bucket.Put([]byte(key), data)
}

func (k *keyspace) Keys() ([]string, error) {
	if k.bucket == nil {
		return nil, nil
	}
	var keys []string
	err := k.bucket.ForEach(func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	return keys, err
}
