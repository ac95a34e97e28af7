package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/api/http"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/api/middleware"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/api/ws"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/launcher"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/project"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/domain/session"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/desktop"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/monitoring"
)

const streamPath = "/stream"

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	sessions   *session.Manager
	hub        *ws.Hub
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	registry   *prometheus.Registry
}

// Option customizes the server's collaborators
type Option func(*options)

type options struct {
	launcher launcher.Launcher
	mover    launcher.WindowMover
	registry *prometheus.Registry
}

// WithLauncher replaces the process launcher
func WithLauncher(l launcher.Launcher) Option {
	return func(o *options) { o.launcher = l }
}

// WithWindowMover replaces the window mover
func WithWindowMover(m launcher.WindowMover) Option {
	return func(o *options) { o.mover = m }
}

// WithRegistry uses reg for Prometheus metrics instead of a fresh registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.launcher == nil {
		o.launcher = desktop.NewExecLauncher(logger.Component("launcher"))
	}
	if o.mover == nil {
		o.mover = desktop.NewPlacementRecorder(logger.Component("placement"))
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	logger.Info("Initializing Workspace Launcher",
		zap.String("port", cfg.Server.Port),
		zap.String("project_dir", cfg.Project.Dir),
		zap.Duration("launch_timeout", cfg.Launch.Timeout),
		zap.Int("launch_concurrency", cfg.Launch.Concurrency),
	)

	metrics := monitoring.NewMetrics(o.registry)

	hub := ws.NewHub(logger.Component("ws")).WithMetrics(metrics)
	coordinator := launcher.NewCoordinator(o.launcher, o.mover, launcher.Config{
		Timeout:      cfg.Launch.Timeout,
		Concurrency:  cfg.Launch.Concurrency,
		Rate:         cfg.Launch.Rate,
		PollInterval: cfg.Launch.PollInterval,
	}, logger.Component("coordinator")).WithMetrics(metrics)
	sessions := session.NewManager(coordinator, hub, logger.Component("session"))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Component("http")))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Bool("global", cfg.RateLimit.Global),
		)
		limits := middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}
		if cfg.RateLimit.Global {
			router.Use(middleware.GlobalRateLimit(limits))
		} else {
			router.Use(middleware.RateLimit(limits))
		}
	}

	handlers := apihttp.NewHandlers(sessions, apihttp.ProjectSource{
		Dir:     cfg.Project.Dir,
		Pattern: cfg.Project.Pattern,
	}, hub, metrics, logger.Component("api"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Session endpoints
	router.GET("/sessions", handlers.ListSessions)
	router.POST("/sessions", handlers.StartSession)
	router.GET("/sessions/current", handlers.CurrentSession)
	router.GET("/sessions/:id", handlers.GetSession)
	router.DELETE("/sessions/:id", handlers.CancelSession)

	router.GET("/projects", handlers.ListProjects)

	// WebSocket
	router.GET(streamPath, hub.HandleConnection)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})))
	router.GET("/metrics/json", handlers.MetricsSnapshot)

	s := &Server{
		router:   router,
		sessions: sessions,
		hub:      hub,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		registry: o.registry,
	}
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the root handler. JSON responses are gzip compressed;
// the WebSocket stream bypasses compression so it can be hijacked.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(streamPath, s.router)
	mux.Handle("/", gzhttp.GzipHandler(s.router))
	return mux
}

// Sessions returns the session manager
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Restore loads a project file and starts restoring it
func (s *Server) Restore(ctx context.Context, path string) (*session.Session, error) {
	p, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	return s.sessions.Start(ctx, p)
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, cancels the running session and
// disconnects progress observers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop http server: %w", err))
	}
	if err := s.sessions.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop session: %w", err))
	}
	s.hub.Close()

	if err := s.logger.Sync(); err != nil {
		s.logger.Debug("Logger sync failed", zap.Error(err))
	}

	s.logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
