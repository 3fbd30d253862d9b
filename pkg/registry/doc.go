// Package registry lazily constructs and caches one API client per kind.
//
// # Overview
//
// A [Registry] is a factory over the fixed set of [clients.Kind] values
// (meeting, user, room, recording, webhook, sync). It hands every
// constructor the current configuration and the shared transport, keeps at
// most one handle per kind while caching is enabled, and counts what it did:
//
//	reg := registry.New(cfg, transport.New(cfg), registry.WithLogger(logger))
//	m, err := reg.Meeting()          // constructed
//	m2, _ := reg.Meeting()           // same handle, cache_hits+1
//	stats := reg.CreationStats()     // cache_hit_rate 0.5
//
// # Configuration
//
// [Registry.Configure] accepts exactly these keys:
//
//	cache_enabled  bool
//	timeout        positive seconds (int, int64, float64), time.Duration or "15s"
//	debug          bool
//	base_url       absolute http or https URL
//
// Any other key, a value of the wrong type or an invalid value fails the
// whole call with INVALID_CONFIG and changes nothing. Accepted values apply
// to handles constructed afterwards; cached handles keep the settings they
// were built with until [Registry.Reset].
//
// Turning cache_enabled off leaves existing entries in place but stops
// consulting them, so every create constructs a fresh handle.
//
// # Errors
//
//   - UNKNOWN_CLIENT_KIND: the kind or label is not one of the fixed kinds
//   - INVALID_CONFIG: rejected Configure call
//   - CLIENT_CONSTRUCTION: a kind constructor failed
//
// [Registry.BatchCreate] never fails as a whole; per-label failures are
// reported in its result.
//
// # Concurrency
//
// All methods are safe for concurrent use. Constructors run under the
// registry lock and must not perform I/O.
package registry
