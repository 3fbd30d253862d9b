package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache and prefixes every key.
// Clients of different kinds share one backend through separate scopes:
//
//	users := cache.NewScoped(backend, "user:")
//	rooms := cache.NewScoped(backend, "room:")
//
// Close is a no-op; the owner of the inner cache closes it.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a prefixed view of inner. A nil inner behaves like [NullCache].
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NewNullCache()
	}
	if s, ok := inner.(*Scoped); ok {
		return &Scoped{inner: s.inner, prefix: s.prefix + prefix}
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Prefix returns the full key prefix of this scope.
func (s *Scoped) Prefix() string { return s.prefix }

// Get reads key within the scope.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set writes key within the scope.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes key within the scope.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close does nothing.
func (s *Scoped) Close() error { return nil }

var _ Cache = (*Scoped)(nil)
