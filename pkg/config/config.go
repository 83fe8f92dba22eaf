// Package config loads process configuration from an optional file,
// GOBAAS_ environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
)

// Configuration keys.
const (
	KeyServerPort = "server.port"

	KeyDocBackend        = "docstore.backend"
	KeyDocDataFile       = "docstore.data_file"
	KeyDocBackgroundSave = "docstore.background_save"
	KeyDocSQLitePath     = "docstore.sqlite_path"
	KeyDocMongoURI       = "docstore.mongo_uri"
	KeyDocMongoDatabase  = "docstore.mongo_database"

	KeyTreeBackend       = "tree.backend"
	KeyTreeBoltPath      = "tree.bolt_path"
	KeyTreeRedisAddr     = "tree.redis_addr"
	KeyTreeRedisPassword = "tree.redis_password"
	KeyTreeRedisDB       = "tree.redis_db"
	KeyTreeRedisPrefix   = "tree.redis_prefix"

	KeyFilesBucket          = "files.bucket"
	KeyFilesCredentialsFile = "files.credentials_file"
)

// EnvPrefix prefixes environment overrides, e.g. GOBAAS_SERVER_PORT.
const EnvPrefix = "GOBAAS"

// Validation errors.
var (
	ErrPortEmpty          = errors.New("server port cannot be empty")
	ErrDocBackendUnknown  = errors.New("unknown document store backend")
	ErrTreeBackendUnknown = errors.New("unknown tree store backend")
	ErrSQLitePathEmpty    = errors.New("sqlite backend requires docstore.sqlite_path")
	ErrMongoURIEmpty      = errors.New("mongo backend requires docstore.mongo_uri and docstore.mongo_database")
	ErrBoltPathEmpty      = errors.New("bolt backend requires tree.bolt_path")
	ErrRedisAddrEmpty     = errors.New("redis backend requires tree.redis_addr")
	ErrNegativeInterval   = errors.New("docstore.background_save cannot be negative")
)

type Config struct {
	Server   ServerConfig
	DocStore DocStoreConfig
	Tree     TreeConfig
	Files    FilesConfig
}

type ServerConfig struct {
	Port string
}

type DocStoreConfig struct {
	Backend string
	// DataFile is the snapshot file of the memory backend. Empty disables
	// persistence.
	DataFile       string
	BackgroundSave time.Duration
	SQLitePath     string
	MongoURI       string
	MongoDatabase  string
}

type TreeConfig struct {
	Backend       string
	BoltPath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// FilesConfig configures uploads. An empty Bucket disables them.
type FilesConfig struct {
	Bucket          string
	CredentialsFile string
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServerPort, "8080")
	v.SetDefault(KeyDocBackend, BackendMemory)
	v.SetDefault(KeyDocDataFile, "go-baas_data.godb")
	v.SetDefault(KeyDocBackgroundSave, time.Duration(0))
	v.SetDefault(KeyDocSQLitePath, "go-baas.db")
	v.SetDefault(KeyDocMongoDatabase, "gobaas")
	v.SetDefault(KeyTreeBackend, BackendMemory)
	v.SetDefault(KeyTreeBoltPath, "go-baas_tree.db")
	v.SetDefault(KeyTreeRedisAddr, "localhost:6379")
	v.SetDefault(KeyTreeRedisDB, 0)
	v.SetDefault(KeyTreeRedisPrefix, "gobaas:tree")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile into v when given and decodes the result.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("go-baas")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper decodes the configuration keys of v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port: v.GetString(KeyServerPort),
		},
		DocStore: DocStoreConfig{
			Backend:        strings.ToLower(v.GetString(KeyDocBackend)),
			DataFile:       v.GetString(KeyDocDataFile),
			BackgroundSave: v.GetDuration(KeyDocBackgroundSave),
			SQLitePath:     v.GetString(KeyDocSQLitePath),
			MongoURI:       v.GetString(KeyDocMongoURI),
			MongoDatabase:  v.GetString(KeyDocMongoDatabase),
		},
		Tree: TreeConfig{
			Backend:       strings.ToLower(v.GetString(KeyTreeBackend)),
			BoltPath:      v.GetString(KeyTreeBoltPath),
			RedisAddr:     v.GetString(KeyTreeRedisAddr),
			RedisPassword: v.GetString(KeyTreeRedisPassword),
			RedisDB:       v.GetInt(KeyTreeRedisDB),
			RedisPrefix:   v.GetString(KeyTreeRedisPrefix),
		},
		Files: FilesConfig{
			Bucket:          v.GetString(KeyFilesBucket),
			CredentialsFile: v.GetString(KeyFilesCredentialsFile),
		},
	}
}

// Validate checks backend names and the settings each backend needs.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return ErrPortEmpty
	}

	switch c.DocStore.Backend {
	case BackendMemory:
		if c.DocStore.BackgroundSave < 0 {
			return ErrNegativeInterval
		}
	case BackendSQLite:
		if c.DocStore.SQLitePath == "" {
			return ErrSQLitePathEmpty
		}
	case BackendMongo:
		if c.DocStore.MongoURI == "" || c.DocStore.MongoDatabase == "" {
			return ErrMongoURIEmpty
		}
	default:
		return fmt.Errorf("%w: %q", ErrDocBackendUnknown, c.DocStore.Backend)
	}

	switch c.Tree.Backend {
	case BackendMemory:
	case BackendBolt:
		if c.Tree.BoltPath == "" {
			return ErrBoltPathEmpty
		}
	case BackendRedis:
		if c.Tree.RedisAddr == "" {
			return ErrRedisAddrEmpty
		}
	default:
		return fmt.Errorf("%w: %q", ErrTreeBackendUnknown, c.Tree.Backend)
	}
	return nil
}
