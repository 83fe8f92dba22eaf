// Package redis implements the keyed tree store on Redis. The whole tree
// lives in one hash: each field is a top-level key holding a JSON subtree.
// Writes run in WATCH transactions on that hash.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/tree"
)

// DefaultPrefix names the hash holding the tree.
const DefaultPrefix = "gobaas:tree"

// maxTxRetries bounds optimistic retries when the hash changes mid-write.
const maxTxRetries = 10

var _ domain.TreeStore = (*Store)(nil)

// Store implements domain.TreeStore on a Redis hash.
type Store struct {
	client *redis.Client
	key    string

	// beforeCommit, when set, runs inside the watch window ahead of EXEC.
	beforeCommit func()
}

// Connect creates a client from opts and pings the server.
func Connect(ctx context.Context, opts *redis.Options, prefix string) (*Store, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging redis at %s: %w", opts.Addr, wrapErr(err))
	}
	return New(client, prefix), nil
}

// New wraps an existing client. An empty prefix means DefaultPrefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, key: prefix}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, path string) (interface{}, bool, error) {
	segments, err := tree.Split(path)
	if err != nil {
		return nil, false, err
	}

	ks := &keyspace{ctx: ctx, cmd: s.client, key: s.key}
	if len(segments) == 0 {
		if err := ks.loadAll(); err != nil {
			return nil, false, err
		}
	}
	return tree.ReadFromKeyspace(ks, segments)
}

func (s *Store) Set(ctx context.Context, path string, value interface{}) error {
	w, err := tree.SetWrite(path, value)
	if err != nil {
		return err
	}
	return s.apply(ctx, []tree.Write{w})
}

func (s *Store) Update(ctx context.Context, path string, values map[string]interface{}) error {
	writes, err := tree.UpdateWrites(path, values)
	if err != nil {
		return err
	}
	return s.apply(ctx, writes)
}

func (s *Store) Remove(ctx context.Context, path string) error {
	return s.Set(ctx, path, nil)
}

func (s *Store) apply(ctx context.Context, writes []tree.Write) error {
	if len(writes) == 0 {
		return nil
	}

	txf := func(tx *redis.Tx) error {
		ks := &keyspace{ctx: ctx, cmd: tx, key: s.key, pending: make(map[string]interface{})}
		if err := tree.ApplyToKeyspace(ks, writes); err != nil {
			return err
		}
		if s.beforeCommit != nil {
			s.beforeCommit()
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return ks.flush(pipe)
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("error writing tree: %w", wrapErr(err))
		}
		return nil
	}
	return fmt.Errorf("error writing tree: %w", domain.Transient(redis.TxFailedErr))
}

// keyspace adapts the tree hash to tree.Keyspace. Stores are buffered in
// pending until flush.
type keyspace struct {
	ctx     context.Context
	cmd     redis.Cmdable
	key     string
	pending map[string]interface{}

	// all caches a full HGETALL read.
	all map[string]string
}

func (k *keyspace) loadAll() error {
	all, err := k.cmd.HGetAll(k.ctx, k.key).Result()
	if err != nil {
		return fmt.Errorf("error reading tree: %w", wrapErr(err))
	}
	k.all = all
	return nil
}

func (k *keyspace) Load(field string) (interface{}, bool, error) {
	if value, ok := k.pending[field]; ok {
		return value, value != nil, nil
	}

	var raw string
	if k.all != nil {
		v, ok := k.all[field]
		if !ok {
			return nil, false, nil
		}
		raw = v
	} else {
		v, err := k.cmd.HGet(k.ctx, k.key, field).Result()
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("error reading %q: %w", field, wrapErr(err))
		}
		raw = v
	}

	value, err := tree.DecodeNode([]byte(raw))
	if err != nil {
		return nil, false, fmt.Errorf("key %q: %w", field, err)
	}
	return value, true, nil
}

func (k *keyspace) Store(field string, value interface{}) error {
	k.pending[field] = value
	return nil
}

func (k *keyspace) Keys() ([]string, error) {
	if k.all != nil {
		keys := make([]string, 0, len(k.all))
		for field := range k.all {
			keys = append(keys, field)
		}
		return keys, nil
	}
	keys, err := k.cmd.HKeys(k.ctx, k.key).Result()
	if err != nil {
		return nil, fmt.Errorf("error listing tree keys: %w", wrapErr(err))
	}
	return keys, nil
}

func (k *keyspace) flush(pipe redis.Pipeliner) error {
	for field, value := range k.pending {
		if value == nil {
			pipe.HDel(k.ctx, k.key, field)
			continue
		}
		data, err := tree.EncodeNode(value)
		if err != nil {
			return err
		}
		pipe.HSet(k.ctx, k.key, field, data)
	}
	return nil
}

// wrapErr marks connection failures and timeouts as transient.
func wrapErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return domain.Transient(err)
	}
	return err
}
