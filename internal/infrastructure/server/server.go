package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ctxopt/internal/host"
	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/monitoring"
)

const (
	shutdownTimeout = 5 * time.Second

	defaultOutputBytes = 4 * 1024
	maxOutputBytes     = 64 * 1024
)

// SessionSource reports the hosted session.
type SessionSource interface {
	Stats() host.Stats
	RecentOutput(n int) []byte
}

// Config defines status server configuration.
type Config struct {
	Address     string
	Development bool
	RateLimit   RateLimitConfig
}

// Server exposes metrics and session status over HTTP
type Server struct {
	router  *gin.Engine
	config  Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// New creates a status server. gatherer is the registry metrics were
// registered on.
func New(cfg Config, session SessionSource, gatherer prometheus.Gatherer, metrics *monitoring.Metrics, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("server")

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		router.Use(RateLimit(cfg.RateLimit))
	}

	router.GET("/health", func(c *gin.Context) {
		stats := session.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"session_id": stats.SessionID,
			"running":    stats.Running,
		})
	})
	router.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, session.Stats())
	})
	router.GET("/session/output", func(c *gin.Context) {
		n, err := outputBytes(c.Query("bytes"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", session.RecentOutput(n))
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	router.GET("/metrics/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	})

	return &Server{
		router:  router,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// outputBytes parses the bytes query parameter, capped at maxOutputBytes.
func outputBytes(raw string) (int, error) {
	if raw == "" {
		return defaultOutputBytes, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bytes must be a non-negative integer, got %q", raw)
	}
	return min(n, maxOutputBytes), nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting status server", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("status server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down status server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down status server: %w", err)
	}
	return nil
}
