// Package server exposes a client registry over HTTP for inspection.
//
// Routes:
//
//	GET    /healthz          liveness
//	GET    /clients          creation stats
//	POST   /clients/{kind}   create one kind
//	POST   /clients:batch    create several kinds, {"kinds": [...]}
//	POST   /clients:reset    drop cached handles
//	PATCH  /config           reconfigure, body is an options object
//	GET    /metrics          Prometheus metrics (when a gatherer is set)
//	GET    /webhook          callback URL verification
//	POST   /webhook          event callbacks
//
// Errors are rendered as {"code": ..., "message": ...}.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/meetingkit/pkg/buildinfo"
	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/clients/webhook"
	"github.com/matzehuels/meetingkit/pkg/errors"
	"github.com/matzehuels/meetingkit/pkg/registry"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 64 << 10

// Option configures the server.
type Option func(*server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer enables GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *server) { s.gatherer = g }
}

// WithEventHandler sets the function receiving webhook events.
// By default events are logged and acknowledged.
func WithEventHandler(fn func(context.Context, *webhook.Event) error) Option {
	return func(s *server) {
		if fn != nil {
			s.onEvent = fn
		}
	}
}

type server struct {
	reg      *registry.Registry
	logger   *log.Logger
	gatherer prometheus.Gatherer
	onEvent  func(context.Context, *webhook.Event) error
}

// New builds the router over reg.
func New(reg *registry.Registry, opts ...Option) http.Handler {
	s := &server{
		reg:    reg,
		logger: log.New(io.Discard),
	}
	s.onEvent = s.logEvent
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Get("/clients", s.stats)
	r.Post("/clients:batch", s.batch)
	r.Post("/clients:reset", s.reset)
	r.Post("/clients/{kind}", s.create)
	r.Patch("/config", s.configure)
	r.HandleFunc("/webhook", s.webhook)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *server) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.CreationStats())
}

type createResponse struct {
	Kind   string `json:"kind"`
	Cached bool   `json:"cached"`
}

func (s *server) create(w http.ResponseWriter, r *http.Request) {
	kind, err := clients.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	h, err := s.reg.Create(kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Kind: h.Kind().String(), Cached: s.reg.IsCreated(kind)})
}

type batchRequest struct {
	Kinds []string `json:"kinds"`
}

func (s *server) batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.reg.BatchCreate(req.Kinds...))
}

func (s *server) reset(w http.ResponseWriter, _ *http.Request) {
	s.reg.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) configure(w http.ResponseWriter, r *http.Request) {
	var options map[string]any
	if err := decodeBody(r, &options); err != nil {
		writeError(w, err)
		return
	}
	if err := s.reg.Configure(options); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.reg.CreationStats())
}

func (s *server) webhook(w http.ResponseWriter, r *http.Request) {
	wh, err := s.reg.Webhook()
	if err != nil {
		writeError(w, err)
		return
	}
	wh.Handler(s.onEvent).ServeHTTP(w, r)
}

func (s *server) logEvent(_ context.Context, ev *webhook.Event) error {
	s.logger.Info("webhook event", "event", ev.Name, "trace_id", ev.TraceID, "items", len(ev.Payload))
	return nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: err.Error()})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeUnknownClientKind, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConfiguration, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeClientConstruction:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
