package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fsgate/fsgate/internal/api/middleware"
	"github.com/fsgate/fsgate/internal/config"
	"github.com/fsgate/fsgate/internal/fsops"
	gatehttp "github.com/fsgate/fsgate/internal/http"
	"github.com/fsgate/fsgate/internal/infrastructure/monitoring"
	"github.com/fsgate/fsgate/internal/logging"
	"github.com/fsgate/fsgate/internal/providers"
	"github.com/fsgate/fsgate/internal/service"
	"github.com/fsgate/fsgate/internal/ws"
)

// Server is the assembled gateway.
type Server struct {
	cfg      *config.Config
	log      *logging.Logger
	registry *service.Registry
	resolver *fsops.Resolver
	httpSrv  *http.Server
}

// New builds the gateway from configuration. The allowed root is
// canonicalized once here; every subsequent path check is relative to
// the canonical form.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	resolver, err := fsops.NewResolver(cfg.Gateway.AllowedRoot)
	if err != nil {
		return nil, fmt.Errorf("initialize allowed root: %w", err)
	}

	registry := service.NewRegistry()
	fsProvider := providers.NewFilesystem(resolver, log)
	if err := registry.Register(fsProvider); err != nil {
		return nil, fmt.Errorf("register filesystem provider: %w", err)
	}

	metrics := monitoring.NewMetrics()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handlers := gatehttp.NewHandlers(registry, metrics, log, resolver.Root())
	wsHandler := ws.NewHandler(registry, metrics, log)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/services", handlers.Services)
	router.POST("/services/execute", handlers.Execute)
	router.GET("/stream", wsHandler.Stream)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		cfg:      cfg,
		log:      log,
		registry: registry,
		resolver: resolver,
		httpSrv: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}, nil
}

// Run starts serving and blocks until the listener fails or the server
// is shut down.
func (s *Server) Run() error {
	s.log.Info("gateway listening",
		zap.String("addr", s.httpSrv.Addr),
		zap.String("allowed_root", s.resolver.Root()),
	)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("gateway shutting down")
	return s.httpSrv.Shutdown(ctx)
}
