// Package prom implements the observability hooks on top of Prometheus.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/meetingkit/pkg/observability"
)

// Collector implements RegistryHooks, CacheHooks and HTTPHooks using Prometheus.
type Collector struct {
	clientsCreated     *prometheus.CounterVec
	clientCacheHits    *prometheus.CounterVec
	constructionErrors *prometheus.CounterVec
	configures         prometheus.Counter
	resets             prometheus.Counter
	constructionTime   *prometheus.HistogramVec

	responseCache *prometheus.CounterVec
	responseBytes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpErrors   *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector creates a collector whose metrics are registered on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		clientsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetingkit_clients_created_total",
				Help: "Total number of API client handles constructed",
			},
			[]string{"kind"},
		),
		clientCacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetingkit_client_cache_hits_total",
				Help: "Total number of client requests served from the registry cache",
			},
			[]string{"kind"},
		),
		constructionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetingkit_client_construction_errors_total",
				Help: "Total number of failed client constructions",
			},
			[]string{"kind"},
		),
		configures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meetingkit_registry_configurations_total",
				Help: "Total number of accepted registry reconfigurations",
			},
		),
		resets: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meetingkit_registry_resets_total",
				Help: "Total number of registry resets",
			},
		),
		constructionTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetingkit_client_construction_seconds",
				Help:    "Client construction duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"kind"},
		),
		responseCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetingkit_response_cache_total",
				Help: "Response cache lookups and writes by result",
			},
			[]string{"key_type", "result"},
		),
		responseBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetingkit_response_cache_bytes_total",
				Help: "Bytes written to the response cache",
			},
			[]string{"key_type"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetingkit_http_requests_total",
				Help: "Total number of API responses by status code",
			},
			[]string{"method", "path", "status"},
		),
		httpErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetingkit_http_errors_total",
				Help: "Total number of API requests that failed before a response",
			},
			[]string{"method", "path"},
		),
		httpLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetingkit_http_latency_seconds",
				Help:    "API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "path"},
		),
	}
}

// OnClientCreated counts a constructed handle.
func (c *Collector) OnClientCreated(kind string, duration time.Duration) {
	c.clientsCreated.WithLabelValues(kind).Inc()
	c.constructionTime.WithLabelValues(kind).Observe(duration.Seconds())
}

// OnCacheHit counts a registry cache hit.
func (c *Collector) OnCacheHit(kind string) {
	c.clientCacheHits.WithLabelValues(kind).Inc()
}

// OnConstructionError counts a failed construction.
func (c *Collector) OnConstructionError(kind string, _ error) {
	c.constructionErrors.WithLabelValues(kind).Inc()
}

// OnConfigure counts an accepted reconfiguration.
func (c *Collector) OnConfigure(_ []string) {
	c.configures.Inc()
}

// OnReset counts a registry reset.
func (c *Collector) OnReset(_ int) {
	c.resets.Inc()
}

// CacheHooks returns an adapter exposing the response cache counters as
// observability.CacheHooks. It is separate because its OnCacheHit signature
// differs from the registry hook of the same name.
func (c *Collector) CacheHooks() observability.CacheHooks {
	return cacheHooks{c}
}

type cacheHooks struct{ c *Collector }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.c.responseCache.WithLabelValues(keyType, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.c.responseCache.WithLabelValues(keyType, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.c.responseCache.WithLabelValues(keyType, "set").Inc()
	h.c.responseBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest is a no-op; requests are counted when they complete.
func (c *Collector) OnRequest(context.Context, string, string, string) {}

// OnResponse counts a response and records its latency.
func (c *Collector) OnResponse(_ context.Context, method, _, path string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}

// OnError counts a request that never produced a response.
func (c *Collector) OnError(_ context.Context, method, _, path string, _ error) {
	c.httpErrors.WithLabelValues(method, path).Inc()
}

// Install registers c as the process-wide registry, cache and HTTP hooks.
func (c *Collector) Install() {
	observability.SetRegistryHooks(c)
	observability.SetCacheHooks(c.CacheHooks())
	observability.SetHTTPHooks(c)
}

var (
	_ observability.RegistryHooks = (*Collector)(nil)
	_ observability.HTTPHooks     = (*Collector)(nil)
	_ observability.CacheHooks    = cacheHooks{}
)
