package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/errors"
	"github.com/matzehuels/meetingkit/pkg/observability"
)

// Transport performs one API call.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request describes an API call relative to the base URL.
type Request struct {
	Method string
	Path   string     // e.g. "/v1/meetings"
	Query  url.Values // optional
	Body   any        // JSON-encoded when non-nil

	// BaseURL overrides the transport's base URL for this request.
	BaseURL string
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrap(errors.ErrCodeAPI, err, "decode response")
	}
	return nil
}

// HTTP is the net/http implementation of [Transport].
// It is safe for concurrent use.
type HTTP struct {
	client  *http.Client
	baseURL string
	cfg     config.Config
	logger  *log.Logger
	now     func() time.Time
	newID   func() uuid.UUID
}

// Option configures an [HTTP] transport.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTP) {
		if c != nil {
			t.client = c
		}
	}
}

// WithLogger sets the logger used for debug request tracing.
func WithLogger(l *log.Logger) Option {
	return func(t *HTTP) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock overrides the time source used for signature timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *HTTP) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDSource overrides the generator for nonces and request ids.
func WithIDSource(fn func() uuid.UUID) Option {
	return func(t *HTTP) {
		if fn != nil {
			t.newID = fn
		}
	}
}

// New creates an HTTP transport for the credentials in cfg.
// The http.Client timeout is cfg.Timeout; callers may shorten it per request
// through the context.
func New(cfg config.Config, opts ...Option) *HTTP {
	t := &HTTP{
		client:  &http.Client{Timeout: cfg.Timeout.Duration},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cfg:     cfg,
		logger:  log.New(io.Discard),
		now:     time.Now,
		newID:   uuid.New,
	}
	if t.baseURL == "" {
		t.baseURL = config.DefaultBaseURL
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseURL returns the default endpoint of the transport.
func (t *HTTP) BaseURL() string { return t.baseURL }

// Do sends req and returns the response for 2xx statuses.
func (t *HTTP) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Path == "" || !strings.HasPrefix(req.Path, "/") {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request path must start with /")
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode %s %s body", method, req.Path)
		}
		body = b
	}

	uri := req.Path
	if len(req.Query) > 0 {
		uri += "?" + req.Query.Encode()
	}
	base := t.baseURL
	if req.BaseURL != "" {
		base = strings.TrimRight(req.BaseURL, "/")
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, base+uri, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build %s %s", method, req.Path)
	}
	requestID := t.newID().String()
	t.setHeaders(httpReq.Header, method, uri, string(body), requestID)

	host := httpReq.URL.Host
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, req.Path)
	t.logger.Debug("api request", "method", method, "path", req.Path, "request_id", requestID)

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		hooks.OnError(ctx, method, host, req.Path, err)
		return nil, classify(ctx, err, method, req.Path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnError(ctx, method, host, req.Path, err)
		return nil, classify(ctx, err, method, req.Path)
	}
	hooks.OnResponse(ctx, method, host, req.Path, resp.StatusCode, elapsed)
	t.logger.Debug("api response", "method", method, "path", req.Path, "status", resp.StatusCode, "took", elapsed)

	if err := checkStatus(resp, data); err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (t *HTTP) setHeaders(h http.Header, method, uri, body, requestID string) {
	h.Set("Content-Type", "application/json")
	h.Set("AppId", t.cfg.AppID)
	h.Set("SdkId", t.cfg.SDKID)
	h.Set("X-TC-Registered", "1")
	h.Set("X-TC-Request-Id", requestID)

	if t.cfg.AuthType == config.AuthOAuth2 {
		h.Set("AccessToken", t.cfg.AccessToken)
		h.Set("OpenId", t.cfg.OperatorID)
		return
	}

	ts := t.now().Unix()
	nonce := Nonce(t.newID())
	h.Set("X-TC-Key", t.cfg.SecretID)
	h.Set("X-TC-Timestamp", strconv.FormatInt(ts, 10))
	h.Set("X-TC-Nonce", nonce)
	h.Set("X-TC-Signature", Sign(t.cfg.SecretKey, method, uri, body, t.cfg.SecretID, nonce, ts))
}

// apiError is the error envelope returned by the platform.
type apiError struct {
	ErrorInfo struct {
		ErrorCode    int    `json:"error_code"`
		NewErrorCode int    `json:"new_error_code"`
		Message      string `json:"message"`
	} `json:"error_info"`
}

func checkStatus(resp *http.Response, body []byte) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	msg := http.StatusText(code)
	var env apiError
	if json.Unmarshal(body, &env) == nil && env.ErrorInfo.Message != "" {
		msg = env.ErrorInfo.Message
	}
	path := resp.Request.URL.Path

	switch code {
	case http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, "%s: %s", path, msg)
	case http.StatusForbidden:
		return errors.New(errors.ErrCodeForbidden, "%s: %s", path, msg)
	case http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: %s", path, msg)
	case http.StatusTooManyRequests:
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{RetryAfter: retry, Message: msg}, "%s", path)
	default:
		if env.ErrorInfo.ErrorCode != 0 {
			return errors.New(errors.ErrCodeAPI, "%s: status %d: %s (code %d)", path, code, msg, env.ErrorInfo.ErrorCode)
		}
		return errors.New(errors.ErrCodeAPI, "%s: status %d: %s", path, code, msg)
	}
}

func classify(ctx context.Context, err error, method, path string) error {
	if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s %s timed out", method, path)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

var _ Transport = (*HTTP)(nil)
