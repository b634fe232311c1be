// Package cache stores fetched pages and generated mind maps.
//
// A [Cache] is a byte store with per-entry expiry. Four backends exist:
// [FileCache] for the CLI, [MemoryCache] for a single server process,
// [RedisCache] for servers sharing a cache, and [NullCache] when caching is
// disabled. [New] picks one from a [Config].
//
// Keys come from a [Keyer] so that callers never build key strings by hand:
//
//	keys := cache.NewDefaultKeyer()
//	data, ok, err := c.Get(ctx, keys.PageKey(url))
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Entry lifetimes.
const (
	TTLPage = 24 * time.Hour
	TTLMap  = 6 * time.Hour
)

// Key types reported to cache hooks.
const (
	KeyTypePage = "page"
	KeyTypeMap  = "map"
)

// Cache is a byte store with optional expiry. A ttl of zero never expires.
// Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [New].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// ErrUnknownBackend is returned by [New] for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// DefaultRedisPrefix scopes keys in a shared redis when no prefix is
// configured.
const DefaultRedisPrefix = "wikimap:"

// Config selects and configures a backend.
type Config struct {
	Backend   string // file, memory, redis or none; empty means file
	Dir       string // FileCache directory
	Size      int    // MemoryCache capacity in entries
	RedisAddr string // host:port for RedisCache
	KeyPrefix string // Prepended to every key; redis defaults to DefaultRedisPrefix
}

// Keyer returns the key builder matching cfg. Keys are scoped by KeyPrefix,
// or by [DefaultRedisPrefix] on the redis backend.
func (cfg Config) Keyer() Keyer {
	prefix := cfg.KeyPrefix
	if prefix == "" && cfg.Backend == BackendRedis {
		prefix = DefaultRedisPrefix
	}
	if prefix == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(nil, prefix)
}

// New opens the backend named by cfg.Backend.
func New(cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		c, err = NewFileCache(cfg.Dir)
	case BackendMemory:
		c, err = NewMemoryCache(cfg.Size)
	case BackendRedis:
		c, err = NewRedisCache(cfg.RedisAddr)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
