package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"cashpulse/internal/config"
	analysishandlers "cashpulse/internal/handlers/analysis"
	httputil "cashpulse/internal/http"
	"cashpulse/internal/logging"
	"cashpulse/internal/services/analysis"
	"cashpulse/internal/version"
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

func main() {
	// Load configuration
	cfg = config.Load()
	logger = logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := SetupDependencies(cfg); err != nil {
		logger.Fatalf("Failed to initialize: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      SetupRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    cfg.ListenAddr,
			"version": version.Get().Short(),
			"locale":  cfg.Locale,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}

// SetupDependencies builds the analyzer from configuration and hands it to
// the handler packages. Invalid policy files and locales are fatal.
func SetupDependencies(c *config.Config) error {
	cfg = c
	if logger == nil {
		logger = logging.New(c.LogLevel, c.LogFormat)
	}
	for _, w := range c.Warnings {
		logger.Warn(w)
	}

	policy, err := analysis.LoadPolicy(c.PolicyFile)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}
	catalog, err := analysis.CatalogFor(c.Locale)
	if err != nil {
		return err
	}

	a, err := analysis.New(
		analysis.WithPolicy(policy),
		analysis.WithCatalog(catalog),
		analysis.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	analysishandlers.Initialize(a, logger, c.MaxBodyBytes)

	logger.WithFields(logrus.Fields{
		"estimator":   policy.Estimator,
		"policy_file": c.PolicyFile,
	}).Debug("Analyzer ready")
	return nil
}

// SetupRouter creates the router with middleware and routes
func SetupRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(httputil.CORS(cfg.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.ErrorResponse(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.ErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	analysishandlers.RegisterRoutes(r)

	return r
}
