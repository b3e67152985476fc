// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/account"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/productlist-backend/internal/infrastructure/database/redis"
	"github.com/your-org/productlist-backend/internal/interfaces/http/handlers"
	"github.com/your-org/productlist-backend/internal/interfaces/http/middleware"
	"github.com/your-org/productlist-backend/internal/interfaces/http/routes"
	"github.com/your-org/productlist-backend/internal/pkg/messages"
	"github.com/your-org/productlist-backend/internal/pkg/pdf"
	"golang.org/x/sync/errgroup"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	db         *postgres.DB
	redis      *redis.Client
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, logger *logrus.Logger) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

// NewListService wires the list engine to PostgreSQL and Redis
func NewListService(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, logger logrus.FieldLogger) *productlist.Service {
	accounts := postgres.NewAccountRepository(db.GetDB())
	catalog := redis.NewCachedCatalog(postgres.NewCatalog(db.GetDB()), redisClient.GetClient(), cfg.ProductList.CatalogCacheTTL, logger)
	privacy := redis.NewPrivacyCache(redisClient.GetClient(), cfg.ProductList.PrivacyCacheTTL)

	lists := productlist.NewService(postgres.NewListStore(db.GetDB()), catalog, accounts.Directory(), cfg.ProductList, logger)
	lists.Observe(privacy)
	lists.UseCache(privacy)
	return lists
}

// Start starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on environment
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.startedAt = time.Now()

	s.logger.WithField("port", s.config.Server.Port).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
	s.gin.Use(middleware.RateLimit(s.config, s.redis.GetClient(), s.logger))
	s.gin.Use(middleware.RequestSizeLimit(1 << 20))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	bundle := messages.Default()
	lists := NewListService(s.config, s.db, s.redis, s.logger)
	accounts := account.NewService(postgres.NewAccountRepository(s.db.GetDB()), s.config, s.logger)

	routes.SetupRoutes(s.gin.Group("/api/v1"), routes.Handlers{
		Auth:        handlers.NewAuthHandler(accounts, lists, bundle, s.logger),
		Wishlist:    handlers.NewWishlistHandler(lists, bundle, s.config),
		Registry:    handlers.NewRegistryHandler(lists, pdf.NewService(s.config), bundle, s.config, s.logger),
		ProductList: handlers.NewProductListHandler(lists, bundle),
	}, s.config)
}

// probe checks the database and Redis concurrently
func (s *Server) probe(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.Health(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.probe(c.Request.Context()); err != nil {
		s.logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
