// Package platform builds the process-wide store handles from configuration.
// Handles are connected once and shared by every adapter.
package platform

import (
	"context"
	"fmt"
	"log"

	goredis "github.com/redis/go-redis/v9"

	"github.com/adfharrison1/go-baas/pkg/backend/bolt"
	"github.com/adfharrison1/go-baas/pkg/backend/mongo"
	"github.com/adfharrison1/go-baas/pkg/backend/redis"
	"github.com/adfharrison1/go-baas/pkg/backend/sqlite"
	"github.com/adfharrison1/go-baas/pkg/config"
	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/files"
	"github.com/adfharrison1/go-baas/pkg/storage"
	"github.com/adfharrison1/go-baas/pkg/tree"
)

// Platform holds the connected handles.
type Platform struct {
	Docs  domain.DocumentStore
	Trees domain.TreeStore
	// Files is nil when uploads are not configured.
	Files files.ObjectStore

	closers []func(ctx context.Context) error
}

// Open connects every configured store. On failure the stores opened so far
// are closed again.
func Open(ctx context.Context, cfg *config.Config) (*Platform, error) {
	p := &Platform{}

	if err := p.openDocStore(ctx, cfg.DocStore); err != nil {
		p.Close(ctx)
		return nil, err
	}
	if err := p.openTreeStore(ctx, cfg.Tree); err != nil {
		p.Close(ctx)
		return nil, err
	}
	if err := p.openFiles(ctx, cfg.Files); err != nil {
		p.Close(ctx)
		return nil, err
	}
	return p, nil
}

func (p *Platform) openDocStore(ctx context.Context, cfg config.DocStoreConfig) error {
	switch cfg.Backend {
	case config.BackendMemory:
		var opts []storage.StorageOption
		if cfg.DataFile != "" {
			opts = append(opts, storage.WithDataFile(cfg.DataFile))
		}
		if cfg.BackgroundSave > 0 {
			opts = append(opts, storage.WithBackgroundSave(cfg.BackgroundSave))
			log.Printf("INFO: Background save enabled: every %v", cfg.BackgroundSave)
		} else {
			log.Printf("WARN: Background save disabled - data only saved on graceful shutdown")
		}

		engine := storage.NewStorageEngine(opts...)
		if cfg.DataFile != "" {
			log.Printf("INFO: Loading data from: %s", cfg.DataFile)
			if err := engine.LoadFromFile(cfg.DataFile); err != nil {
				return fmt.Errorf("loading %s: %w", cfg.DataFile, err)
			}
		}
		engine.StartBackgroundWorkers()
		p.Docs = engine
		p.closers = append(p.closers, func(context.Context) error { return engine.Close() })

	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		log.Printf("INFO: Using SQLite document store at %s", cfg.SQLitePath)
		p.Docs = store
		p.closers = append(p.closers, func(context.Context) error { return store.Close() })

	case config.BackendMongo:
		store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		log.Printf("INFO: Using MongoDB document store, database %s", cfg.MongoDatabase)
		p.Docs = store
		p.closers = append(p.closers, store.Close)

	default:
		return fmt.Errorf("%w: %q", config.ErrDocBackendUnknown, cfg.Backend)
	}
	return nil
}

func (p *Platform) openTreeStore(ctx context.Context, cfg config.TreeConfig) error {
	switch cfg.Backend {
	case config.BackendMemory:
		p.Trees = tree.NewMemoryStore()

	case config.BackendBolt:
		store, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return err
		}
		log.Printf("INFO: Using bbolt tree store at %s", cfg.BoltPath)
		p.Trees = store
		p.closers = append(p.closers, func(context.Context) error { return store.Close() })

	case config.BackendRedis:
		store, err := redis.Connect(ctx, &goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisPrefix)
		if err != nil {
			return err
		}
		log.Printf("INFO: Using Redis tree store at %s", cfg.RedisAddr)
		p.Trees = store
		p.closers = append(p.closers, func(context.Context) error { return store.Close() })

	default:
		return fmt.Errorf("%w: %q", config.ErrTreeBackendUnknown, cfg.Backend)
	}
	return nil
}

func (p *Platform) openFiles(ctx context.Context, cfg config.FilesConfig) error {
	if cfg.Bucket == "" {
		log.Printf("INFO: File uploads disabled - no bucket configured")
		return nil
	}
	store, err := files.NewGCSStore(ctx, cfg.Bucket, cfg.CredentialsFile)
	if err != nil {
		return err
	}
	p.Files = store
	p.closers = append(p.closers, func(context.Context) error { return store.Close() })
	return nil
}

// Close releases the handles in reverse order of opening.
func (p *Platform) Close(ctx context.Context) error {
	var firstErr error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](ctx); err != nil {
			log.Printf("ERROR: Closing store failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	p.closers = nil
	return firstErr
}
