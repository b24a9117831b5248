package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubmanager/infrastructure/config"
	"clubmanager/infrastructure/di"
	"clubmanager/interfaces/http/rest"
	"clubmanager/interfaces/http/rest/middleware"
	"clubmanager/pkg/auth"
	"clubmanager/pkg/observability"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	shutdownTracing, err := observability.InitTracing(ctx, "clubmanager-api", cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Without an upstream authorizer tokens are verified here. Unsigned tokens
	// are only accepted in development.
	parser, err := auth.NewTokenParser(cfg.JWTSecret, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("JWT_SECRET is required outside development", zap.Error(err))
	}

	opts := rest.Options{
		AllowedOrigins:    cfg.AllowedOrigins,
		RequestsPerMinute: cfg.RateLimitPerMinute,
	}
	if cfg.MetricsBackend == config.MetricsPrometheus {
		opts.MetricsHandler = promhttp.Handler()
	}

	router := rest.NewRouter(
		container.Membership,
		middleware.BearerClaims{Parser: parser},
		container.ErrorHandler,
		container.Metrics,
		logger,
		opts,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("storeBackend", cfg.StoreBackend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown error", zap.Error(err))
	}
	_ = logger.Sync()

	log.Println("Server stopped")
}
