package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meetingkit/pkg/cache"
	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/errors"
	"github.com/matzehuels/meetingkit/pkg/observability"
	"github.com/matzehuels/meetingkit/pkg/transport"
)

// Handle is a constructed client of one kind.
type Handle interface {
	Kind() Kind
}

// Params is everything a kind constructor receives.
type Params struct {
	Config    config.Config       // snapshot taken when the handle is built
	Transport transport.Transport // shared by all kinds
	Cache     cache.Cache         // response cache; nil disables caching
	Logger    *log.Logger         // nil discards
}

// Client provides shared request and caching functionality for all HTTP-backed kinds.
// Kind clients embed it and so implement [Handle].
type Client struct {
	kind      Kind
	transport transport.Transport
	cache     cache.Cache
	ttl       time.Duration
	baseURL   string
	timeout   time.Duration
	logger    *log.Logger
}

// NewClient creates the base client for kind from p.
// The response cache is scoped to the kind so kinds never share keys.
func NewClient(kind Kind, p Params) (*Client, error) {
	if !kind.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownClientKind, "unknown client kind %d", uint8(kind))
	}
	if p.Transport == nil {
		return nil, ConstructionError(kind, errors.New(errors.ErrCodeInvalidInput, "transport is required"))
	}
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		kind:      kind,
		transport: p.Transport,
		cache:     cache.NewScoped(p.Cache, kind.String()+":"),
		ttl:       p.Config.ResponseCache.TTL.Duration,
		baseURL:   p.Config.BaseURL,
		timeout:   p.Config.Timeout.Duration,
		logger:    logger,
	}, nil
}

// Kind returns the kind this client was built for.
func (c *Client) Kind() Kind { return c.kind }

// BaseURL returns the endpoint captured at construction.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout captured at construction.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Logger returns the client's logger.
func (c *Client) Logger() *log.Logger { return c.logger }

// Get performs a GET and decodes the JSON response into v.
func (c *Client) Get(ctx context.Context, path string, query url.Values, v any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, v)
}

// Post performs a POST with a JSON body and decodes the response into v.
func (c *Client) Post(ctx context.Context, path string, body, v any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, v)
}

// Put performs a PUT with a JSON body and decodes the response into v.
func (c *Client) Put(ctx context.Context, path string, body, v any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, v)
}

// Delete performs a DELETE and decodes the response into v (which may be nil).
func (c *Client) Delete(ctx context.Context, path string, query url.Values, v any) error {
	return c.Do(ctx, http.MethodDelete, path, query, nil, v)
}

// Do sends one request through the transport.
// The configured timeout bounds the call unless ctx has an earlier deadline.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, v any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.transport.Do(ctx, &transport.Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Body:    body,
		BaseURL: c.baseURL,
	})
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

// Cached retrieves v from the response cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
// Cache failures are logged and never fail the call.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	hooks := observability.Cache()
	keyType := c.kind.String()

	if !refresh {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Debug("response cache read failed", "kind", keyType, "key", key, "err", err)
		}
		if ok && json.Unmarshal(data, v) == nil {
			hooks.OnCacheHit(ctx, keyType)
			return nil
		}
		hooks.OnCacheMiss(ctx, keyType)
	}

	if err := fetch(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Debug("response cache write failed", "kind", keyType, "key", key, "err", err)
		return nil
	}
	hooks.OnCacheSet(ctx, keyType, len(data))
	return nil
}

// Invalidate drops key from the response cache.
func (c *Client) Invalidate(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// RequireCredentials reports INVALID_CONFIG when cfg lacks what the platform
// needs to authenticate: app id, secret id and secret key for jwt, or app id
// and access token for oauth2.
func RequireCredentials(cfg config.Config) error {
	var missing []string
	if cfg.AppID == "" {
		missing = append(missing, "app_id")
	}
	switch cfg.AuthType {
	case config.AuthOAuth2:
		if cfg.AccessToken == "" {
			missing = append(missing, "access_token")
		}
	default:
		if cfg.SecretID == "" {
			missing = append(missing, "secret_id")
		}
		if cfg.SecretKey == "" {
			missing = append(missing, "secret_key")
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeConfiguration, "missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ConstructionError wraps err as a CLIENT_CONSTRUCTION failure for kind.
func ConstructionError(kind Kind, err error) error {
	return errors.Wrap(errors.ErrCodeClientConstruction, err, "construct %s client", kind)
}

// Page is the pagination envelope shared by list endpoints.
type Page struct {
	TotalCount  int `json:"total_count"`
	CurrentSize int `json:"current_size"`
	CurrentPage int `json:"current_page"`
	TotalPage   int `json:"total_page"`
}

// HasNext reports whether another page follows.
func (p Page) HasNext() bool {
	return p.CurrentPage < p.TotalPage
}
