package server

import (
	"context"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/elix-dev/elix/internal/config"
	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/element"
	"github.com/elix-dev/elix/pkg/loop"
	"github.com/elix-dev/elix/pkg/middleware"
	"github.com/elix-dev/elix/pkg/render"
)

const tracerName = "github.com/elix-dev/elix/pkg/server"

// ShutdownTimeout bounds how long ListenAndServe waits for requests to
// finish once its context is done.
const ShutdownTimeout = 10 * time.Second

// Factory builds the element a page or session serves. It runs inside a
// turn of sched's loop. The element must not be connected yet.
type Factory func(sched *render.Scheduler, opts element.Options) (*element.Element, error)

// Options configures a Server.
type Options struct {
	// Config supplies the server, loop, state and metrics settings.
	// Default: config.New().
	Config *config.Config

	// NewElement builds one element per page view and per session. Required.
	NewElement Factory

	// Registry receives the server's metrics and backs the metrics
	// endpoint. Default: a fresh registry.
	Registry *prometheus.Registry

	// TracerProvider traces requests and renders.
	// Default: the global otel tracer provider.
	TracerProvider trace.TracerProvider

	// Logger receives server logs. Default: slog.Default().
	Logger *slog.Logger

	// Title is the page title. Default: "elix".
	Title string
}

// Server serves elements over HTTP and WebSocket.
type Server struct {
	cfg        *config.Config
	newElement Factory
	title      string

	registry      *prometheus.Registry
	metrics       *Metrics
	renderMetrics *render.Metrics

	upgrader websocket.Upgrader
	handler  http.Handler

	mu       sync.Mutex
	sessions map[*session]struct{}

	tracer trace.Tracer
	logger *slog.Logger
}

// New creates a Server. It fails if NewElement is missing or the config is
// invalid.
func New(opts Options) (*Server, error) {
	if opts.NewElement == nil {
		return nil, errors.New("E021").WithDetail("server needs an element factory")
	}
	if opts.Config == nil {
		opts.Config = config.New()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = "elix"
	}

	cfg := opts.Config
	s := &Server{
		cfg:        cfg,
		newElement: opts.NewElement,
		title:      opts.Title,
		registry:   opts.Registry,
		metrics:    newMetrics(opts.Registry, cfg.Metrics.Namespace),
		renderMetrics: render.NewMetrics(
			render.WithRegistry(opts.Registry),
			render.WithNamespace(cfg.Metrics.Namespace),
		),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.Server.ReadBufferSize,
			WriteBufferSize: cfg.Server.WriteBufferSize,
			CheckOrigin:     checkOrigin(cfg.Server.AllowedOrigins),
		},
		sessions: make(map[*session]struct{}),
		tracer:   opts.TracerProvider.Tracer(tracerName),
		logger:   opts.Logger.With("component", "server"),
	}
	s.handler = s.routes(opts.TracerProvider)
	return s, nil
}

func (s *Server) routes(tp trace.TracerProvider) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(s.logger))
	if s.cfg.Metrics.Enabled {
		r.Use(middleware.Prometheus(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(s.cfg.Metrics.Namespace),
		))
	}
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerProvider(tp),
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz"
		}),
	))

	r.Get("/", s.handlePage)
	r.Get("/client.js", s.handleClient)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the server's routes for mounting in another router or
// an httptest server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves on the configured address until ctx is done, then
// closes every session and shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.cfg.Server.Address)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		s.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		s.logger.Info("server shutdown complete")
		return nil
	}
}

// Close ends every live session. The handler keeps serving new requests.
func (s *Server) Close() {
	s.mu.Lock()
	live := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()

	for _, sess := range live {
		sess.close(websocket.CloseGoingAway, "server shutdown")
	}
}

func (s *Server) elementOptions(logger *slog.Logger) element.Options {
	return element.Options{
		MaxPasses: s.cfg.State.MaxPasses,
		Logger:    logger,
		Tracer:    s.tracer,
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div data-elix-root>{{.Body}}</div>
<script src="/client.js"></script>
</body>
</html>
`))

// handlePage renders a fresh element on a private loop and writes the page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	l := loop.New(loop.Options{QueueSize: s.cfg.Loop.QueueSize, Logger: s.logger})
	defer l.Close()

	var renderErr error
	sched := render.NewScheduler(l, render.Options{
		Metrics: s.renderMetrics,
		Tracer:  s.tracer,
		Logger:  s.logger,
		OnError: func(_ render.Renderer, err error) { renderErr = err },
	})

	var el *element.Element
	var err error
	l.Turn(func() {
		el, err = s.newElement(sched, s.elementOptions(s.logger))
		if err == nil {
			el.Connect()
		}
	})
	if err == nil {
		err = renderErr
	}
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{s.title, template.HTML(el.HTML())}); err != nil {
		s.logger.Debug("page write failed", "error", err)
	}
}

// handleWebSocket upgrades the request and serves a session on it until
// the connection ends.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(s, conn)
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	s.metrics.sessionsActive.Inc()
	s.metrics.sessionsTotal.Inc()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		s.metrics.sessionsActive.Dec()
	}()

	sess.run(r.Context())
}

// checkOrigin allows the listed origins, or every origin when the list
// holds "*". An empty list leaves gorilla's same-origin check in place.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		return slices.Contains(allowed, r.Header.Get("Origin"))
	}
}
