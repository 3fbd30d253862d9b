package registry

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meetingkit/pkg/cache"
	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/clients/datasync"
	"github.com/matzehuels/meetingkit/pkg/clients/meeting"
	"github.com/matzehuels/meetingkit/pkg/clients/recording"
	"github.com/matzehuels/meetingkit/pkg/clients/room"
	"github.com/matzehuels/meetingkit/pkg/clients/user"
	"github.com/matzehuels/meetingkit/pkg/clients/webhook"
	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/errors"
	"github.com/matzehuels/meetingkit/pkg/observability"
	"github.com/matzehuels/meetingkit/pkg/transport"
)

// Constructor builds a handle for one kind.
type Constructor func(p clients.Params) (clients.Handle, error)

// Registry caches client handles per kind. The zero value is not usable;
// create one with [New].
type Registry struct {
	mu sync.Mutex

	cfg       config.Config
	transport transport.Transport
	respCache cache.Cache
	logger    *log.Logger
	hooks     observability.RegistryHooks
	overrides map[clients.Kind]Constructor

	opts   Options
	cached map[clients.Kind]clients.Handle
	stats  Stats
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger. Debug messages cover construction and cache hits.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCache sets the response cache handed to every constructed client.
func WithCache(c cache.Cache) Option {
	return func(r *Registry) { r.respCache = c }
}

// WithHooks overrides the hooks captured from [observability.Registry].
func WithHooks(h observability.RegistryHooks) Option {
	return func(r *Registry) {
		if h != nil {
			r.hooks = h
		}
	}
}

// WithConstructor replaces the constructor of one kind.
// Invalid kinds are ignored.
func WithConstructor(kind clients.Kind, fn Constructor) Option {
	return func(r *Registry) {
		if kind.Valid() && fn != nil {
			r.overrides[kind] = fn
		}
	}
}

// New creates a registry over cfg and t. The initial options are taken from
// cfg; credentials are not validated here but by the kinds that need them.
func New(cfg config.Config, t transport.Transport, opts ...Option) *Registry {
	r := &Registry{
		cfg:       cfg,
		transport: t,
		logger:    log.New(io.Discard),
		hooks:     observability.Registry(),
		overrides: make(map[clients.Kind]Constructor),
		opts:      optionsFromConfig(cfg),
		cached:    make(map[clients.Kind]clients.Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create returns a handle for kind. With caching enabled an existing handle
// is returned and counted as a cache hit; otherwise a new handle is built and
// counted as a creation. Construction errors are returned and nothing is
// counted or stored.
func (r *Registry) Create(kind clients.Kind) (clients.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(kind)
}

// CreateByName resolves label with [clients.ParseKind] and calls Create.
func (r *Registry) CreateByName(label string) (clients.Handle, error) {
	kind, err := clients.ParseKind(label)
	if err != nil {
		return nil, err
	}
	return r.Create(kind)
}

// Get is an alias of Create: it always returns a handle, building it on first access.
func (r *Registry) Get(kind clients.Kind) (clients.Handle, error) {
	return r.Create(kind)
}

func (r *Registry) createLocked(kind clients.Kind) (clients.Handle, error) {
	ctor, ok := r.constructor(kind)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownClientKind, "unknown client kind %s", kind)
	}
	label := kind.String()

	if r.opts.CacheEnabled {
		if h, ok := r.cached[kind]; ok {
			r.stats.CacheHits++
			r.hooks.OnCacheHit(label)
			r.logger.Debug("client cache hit", "kind", label)
			return h, nil
		}
	}

	start := time.Now()
	h, err := ctor(r.paramsLocked(kind))
	if err == nil && h == nil {
		err = errors.New(errors.ErrCodeInternal, "constructor returned no handle")
	}
	if err != nil {
		if !errors.Is(err, errors.ErrCodeClientConstruction) {
			err = clients.ConstructionError(kind, err)
		}
		r.hooks.OnConstructionError(label, err)
		r.logger.Debug("client construction failed", "kind", label, "err", err)
		return nil, err
	}
	elapsed := time.Since(start)

	r.stats.TotalCreations++
	if r.opts.CacheEnabled {
		r.cached[kind] = h
	}
	r.hooks.OnClientCreated(label, elapsed)
	r.logger.Debug("client created", "kind", label, "cached", r.opts.CacheEnabled, "took", elapsed)
	return h, nil
}

func (r *Registry) constructor(kind clients.Kind) (Constructor, bool) {
	if fn, ok := r.overrides[kind]; ok {
		return fn, true
	}
	return defaultConstructor(kind)
}

// paramsLocked snapshots the configuration with the current options applied.
func (r *Registry) paramsLocked(kind clients.Kind) clients.Params {
	cfg := r.cfg
	cfg.CacheEnabled = r.opts.CacheEnabled
	cfg.Timeout = config.Duration{Duration: r.opts.Timeout}
	cfg.Debug = r.opts.Debug
	cfg.BaseURL = r.opts.BaseURL

	logger := r.logger.With("client", kind.String())
	if r.opts.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return clients.Params{
		Config:    cfg,
		Transport: r.transport,
		Cache:     r.respCache,
		Logger:    logger,
	}
}

// defaultConstructor maps every kind to its package constructor.
func defaultConstructor(kind clients.Kind) (Constructor, bool) {
	switch kind {
	case clients.KindMeeting:
		return adapt(meeting.New), true
	case clients.KindUser:
		return adapt(user.New), true
	case clients.KindRoom:
		return adapt(room.New), true
	case clients.KindRecording:
		return adapt(recording.New), true
	case clients.KindWebhook:
		return adapt(webhook.New), true
	case clients.KindSync:
		return adapt(datasync.New), true
	}
	return nil, false
}

// adapt converts a typed constructor so a failed call yields a nil Handle
// instead of a typed nil pointer.
func adapt[T clients.Handle](fn func(clients.Params) (T, error)) Constructor {
	return func(p clients.Params) (clients.Handle, error) {
		h, err := fn(p)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
}

// IsCreated reports whether a handle for kind is currently cached.
func (r *Registry) IsCreated(kind clients.Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cached[kind]
	return ok
}

// CreatedKinds returns the cached kinds in kind order.
func (r *Registry) CreatedKinds() []clients.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createdKindsLocked()
}

func (r *Registry) createdKindsLocked() []clients.Kind {
	kinds := make([]clients.Kind, 0, len(r.cached))
	for k := range r.cached {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Reset drops every cached handle and counts the reset. Handles already
// returned to callers stay usable but are no longer tracked.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := len(r.cached)
	r.cached = make(map[clients.Kind]clients.Handle)
	r.stats.Resets++
	r.hooks.OnReset(dropped)
	r.logger.Debug("client registry reset", "dropped", dropped)
}

// Options returns the current options.
func (r *Registry) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// Meeting returns the meeting client.
func (r *Registry) Meeting() (*meeting.Client, error) { return typed[*meeting.Client](r, clients.KindMeeting) }

// User returns the user client.
func (r *Registry) User() (*user.Client, error) { return typed[*user.Client](r, clients.KindUser) }

// Room returns the room client.
func (r *Registry) Room() (*room.Client, error) { return typed[*room.Client](r, clients.KindRoom) }

// Recording returns the recording client.
func (r *Registry) Recording() (*recording.Client, error) {
	return typed[*recording.Client](r, clients.KindRecording)
}

// Webhook returns the webhook decoder.
func (r *Registry) Webhook() (*webhook.Client, error) { return typed[*webhook.Client](r, clients.KindWebhook) }

// Sync returns the data syncer.
func (r *Registry) Sync() (*datasync.Syncer, error) { return typed[*datasync.Syncer](r, clients.KindSync) }

func typed[T clients.Handle](r *Registry, kind clients.Kind) (T, error) {
	var zero T
	h, err := r.Create(kind)
	if err != nil {
		return zero, err
	}
	v, ok := h.(T)
	if !ok {
		return zero, errors.New(errors.ErrCodeInternal, "%s constructor returned %T, want %T", kind, h, zero)
	}
	return v, nil
}
