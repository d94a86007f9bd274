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

	"github.com/zatekoja/premier-landing/backend/internal/adapters/events"
	"github.com/zatekoja/premier-landing/backend/internal/api/handlers"
	"github.com/zatekoja/premier-landing/backend/internal/api/middleware"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	"github.com/zatekoja/premier-landing/backend/pkg/config"
)

// The relay streams form events published by the web processes to browsers
// that connect with their session id, so streams can be scaled apart from
// the page servers.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-sse", cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()
	logger.Info().Msg("starting SSE relay")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is required: it is the only source of events for the relay
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Redis.RedisAddr()).Msg("failed to initialize Redis client")
	}
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	sseHandler := handlers.NewSSEHandler(eventBus)

	// Set up router
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := redisClient.Ping(r.Context()); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// SSE streaming endpoints
	mux.HandleFunc("GET /api/stream/forms", sseHandler.StreamFormUpdates)
	mux.HandleFunc("GET /api/stream/stats", sseHandler.Stats)

	// Apply middleware
	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,  // Longer timeout for SSE
		WriteTimeout:      0,                 // No timeout for SSE streaming
		IdleTimeout:       120 * time.Second, // Allow long-lived connections
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("SSE relay listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("SSE relay failed")
			stop()
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()
	logger.Info().Int("clients", sseHandler.GetClientCount()).Msg("SSE relay shutting down")

	// Close the bus first so open streams end and Shutdown does not wait on them
	if err := eventBus.Close(); err != nil {
		logger.Error().Err(err).Msg("error closing event bus")
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("SSE relay stopped")
}
