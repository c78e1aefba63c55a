package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/appshell/internal/api/http"
	"github.com/GriffinCanCode/appshell/internal/api/middleware"
	"github.com/GriffinCanCode/appshell/internal/api/ws"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/monitoring"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
)

// Deps are the components served over HTTP. Nil components leave their
// endpoints empty or unregistered.
type Deps struct {
	Hub       *ws.Hub
	Catalog   apihttp.Catalog
	Menus     apihttp.Menus
	Activator apihttp.Activator
	App       apihttp.Application
	Runtime   apihttp.Runtime
	History   apihttp.History
	Metrics   *monitoring.Metrics
	Logger    *logging.Logger
}

// Server wraps the loopback HTTP server and its router
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New creates a server for cfg serving deps
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	log := logger.Component("server")

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	if deps.Metrics != nil {
		router.Use(monitoring.Middleware(deps.Metrics))
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.Server.AllowOrigins
	router.Use(middleware.CORS(corsCfg))
	if cfg.RateLimit.Enabled {
		log.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	var connections apihttp.Connections
	if deps.Hub != nil {
		connections = deps.Hub
	}
	handlers := apihttp.NewHandlers(apihttp.Options{
		Catalog:     deps.Catalog,
		Menus:       deps.Menus,
		Activator:   deps.Activator,
		App:         deps.App,
		Runtime:     deps.Runtime,
		Connections: connections,
		History:     deps.History,
		Logger:      logger.Logger,
	})

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/launches", handlers.ListLaunches)

	// Bridge
	if deps.Hub != nil {
		router.GET("/bridge", deps.Hub.HandleConnection)
	}
	router.GET("/bridge/operations", handlers.ListOperations)

	// Menus
	router.GET("/menus", handlers.GetMenus)
	router.POST("/menus/:id/activate", handlers.ActivateMenuItem)

	// Window and content
	router.POST("/window/drop", handlers.DropFiles)
	router.POST("/logs", handlers.StreamLogs)
	if cfg.Server.ContentDir != "" {
		router.GET(apihttp.ContentPrefix+"/*filepath", apihttp.ContentHandler(cfg.Server.ContentDir))
	}

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return &Server{router: router, http: httpServer, log: log}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until Shutdown is called
func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones. Hijacked
// websocket connections are closed by their hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server...")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
