package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/assets"
	"github.com/vango-dev/routekit/pkg/middleware"
	"github.com/vango-dev/routekit/pkg/router"
	"github.com/vango-dev/routekit/pkg/views"
)

// Options configures New.
type Options struct {
	// Router is the application's routing authority. Required.
	Router *router.Router

	// Config holds server settings. Nil uses DefaultConfig.
	Config *Config

	// Assets serves the client bundle. Nil disables the asset endpoint.
	Assets assets.Store

	// Resolver maps bundle names to asset URLs in the document.
	// Nil resolves names unchanged under Config.AssetPrefix.
	Resolver *assets.Resolver

	// NotFound renders unmatched locations. Default: views.NotFound.
	NotFound router.Renderable

	// Metrics records request, navigation and channel metrics.
	Metrics *middleware.Metrics

	// Gatherer exposes metrics at Config.MetricsPath when set.
	Gatherer prometheus.Gatherer

	// Tracing wraps every request in an OpenTelemetry span.
	Tracing []middleware.OTelOption

	// Logger receives request and channel logs. Default: slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP and WebSocket front of a routekit application.
type Server struct {
	router   *router.Router
	config   *Config
	assets   assets.Store
	resolver *assets.Resolver
	notFound router.Renderable
	metrics  *middleware.Metrics
	logger   *slog.Logger
	handler  http.Handler

	upgrader websocket.Upgrader

	mu         sync.Mutex
	sessions   map[string]*navSession
	httpServer *http.Server

	active atomic.Int64
	opened atomic.Uint64
}

// New creates a server for opts.Router.
func New(opts Options) (*Server, error) {
	if opts.Router == nil {
		return nil, errors.New("server: router is required")
	}

	config := opts.Config.withDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	resolver := opts.Resolver
	if resolver == nil {
		resolver = assets.NewResolver(nil, config.AssetPrefix)
	}
	notFound := opts.NotFound
	if notFound == nil {
		notFound = views.NotFound
	}

	s := &Server{
		router:   opts.Router,
		config:   config,
		assets:   opts.Assets,
		resolver: resolver,
		notFound: notFound,
		metrics:  opts.Metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		sessions: make(map[string]*navSession),
	}
	s.handler = s.routes(opts)
	return s, nil
}

func (s *Server) routes(opts Options) http.Handler {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(requestLogger(s.logger))
	if opts.Tracing != nil {
		mux.Use(middleware.Trace(opts.Tracing...))
	}
	if s.metrics != nil {
		mux.Use(s.metrics.Handler)
	}

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		mux.Method(http.MethodGet, s.config.MetricsPath, promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Get(s.config.NavPath, s.handleNav)

	if s.assets != nil {
		prefix := strings.TrimSuffix(s.config.AssetPrefix, "/")
		mux.Handle(prefix+"/*", http.StripPrefix(prefix, assets.Handler(s.assets)))
	}

	mux.Get("/*", s.handlePage)
	mux.Head("/*", s.handlePage)
	return mux
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Router returns the router the server resolves against.
func (s *Server) Router() *router.Router {
	return s.router
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Stats reports navigation channel activity.
type Stats struct {
	ActiveSessions int64
	TotalSessions  uint64
}

// Stats returns current channel counters.
func (s *Server) Stats() Stats {
	return Stats{
		ActiveSessions: s.active.Load(),
		TotalSessions:  s.opened.Load(),
	}
}

// Run listens on Config.Address and serves until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return rkerrors.New("S005").WithRoute(s.config.Address).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			"address", ln.Addr().String(),
			"history", s.router.History().Mode(),
			"base", s.router.History().Base())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every navigation channel and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	sessions := make([]*navSession, 0, len(s.sessions))
	for _, ns := range s.sessions {
		sessions = append(sessions, ns)
	}
	srv := s.httpServer
	s.mu.Unlock()

	for _, ns := range sessions {
		ns.close(websocket.CloseGoingAway, "server shutting down")
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
