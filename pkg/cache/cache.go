// Package cache provides byte-level caches for API responses.
//
// The [Cache] interface is implemented by:
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared cache for long-running processes
//   - [NullCache]: never stores anything (caching disabled)
//
// [Scoped] prefixes keys so several clients can share one backend without
// colliding. [FromConfig] picks a backend from the response_cache settings.
package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/meetingkit/pkg/config"
)

// Cache stores opaque byte payloads with a per-entry TTL.
// A TTL of 0 means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// FromConfig builds the cache selected by cfg.
// The file backend defaults to the user cache directory when cfg.Dir is empty.
func FromConfig(cfg config.ResponseCacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", config.CacheNone:
		return NewNullCache(), nil
	case config.CacheFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileCache(dir)
	case config.CacheRedis:
		return NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), "meetingkit:"), nil
	default:
		return nil, errors.New("unknown cache backend: " + cfg.Backend)
	}
}

// DefaultDir returns the cache directory using XDG standard (~/.cache/meetingkit/).
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "meetingkit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "meetingkit"), nil
}

// NullCache backs the "none" backend: every Get misses and writes are dropped.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
