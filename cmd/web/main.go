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

	"golang.org/x/sync/errgroup"

	"github.com/zatekoja/premier-landing/backend/internal/adapters/cache"
	"github.com/zatekoja/premier-landing/backend/internal/adapters/events"
	"github.com/zatekoja/premier-landing/backend/internal/adapters/submission"
	"github.com/zatekoja/premier-landing/backend/internal/api/handlers"
	"github.com/zatekoja/premier-landing/backend/internal/api/middleware"
	"github.com/zatekoja/premier-landing/backend/internal/api/routes"
	"github.com/zatekoja/premier-landing/backend/internal/application/forms"
	"github.com/zatekoja/premier-landing/backend/internal/application/services"
	"github.com/zatekoja/premier-landing/backend/internal/application/tabs"
	"github.com/zatekoja/premier-landing/backend/internal/application/visibility"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	"github.com/zatekoja/premier-landing/backend/internal/web"
	"github.com/zatekoja/premier-landing/backend/pkg/config"
)

const idempotencyTTL = 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis is optional; without it the process keeps events, rate limits
	// and idempotency records to itself
	var (
		redisClient   *redis.Client
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.RedisAddr()).Msg("redis unavailable, running standalone")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, "premier:")
			eventBus = events.NewRedisEventBus(redisClient)
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis client initialized")
		}
	}
	if eventBus == nil {
		eventBus = events.NewMemoryEventBus()
	}

	transport, err := submission.NewTransport(cfg.Submission, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Str("transport", cfg.Submission.Transport).Msg("failed to create submission transport")
	}
	logger.Info().Str("transport", transport.Name()).Msg("submission transport ready")

	// Page copy and templates
	content, err := web.LoadContent(cfg.Content.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load page content")
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to compile templates")
	}

	clock := forms.NewSystemClock(cfg.Forms.Location())
	sessionService := services.NewSessionService(transport, eventBus, metrics, services.SessionConfig{
		TTL:           cfg.Session.TTL,
		SweepInterval: cfg.Session.SweepInterval,
		SubmitTimeout: cfg.Submission.Timeout,
		SuccessWindows: map[entities.FormKind]time.Duration{
			entities.FormKindAppointment:   cfg.Forms.AppointmentSuccessWindow,
			entities.FormKindConsult:       cfg.Forms.ConsultSuccessWindow,
			entities.FormKindSupportTicket: cfg.Forms.SupportSuccessWindow,
		},
		Clock:      clock,
		Tabs:       content.Tabs,
		DefaultTab: defaultTab(content.Tabs),
		CTA:        visibility.DefaultOptions(),
	})

	// Initialize handlers
	router := routes.NewRouter(
		routes.Handlers{
			Page:   handlers.NewPageHandler(renderer, content, clock.Now),
			Form:   handlers.NewFormHandler(cacheProvider, cfg.Submission.RateLimit, cfg.Submission.RateWindow, metrics),
			Tab:    handlers.NewTabHandler(),
			CTA:    handlers.NewCTAHandler(),
			SSE:    handlers.NewSSEHandler(eventBus),
			Static: web.StaticHandler(),
		},
		middleware.SessionMiddleware(sessionService, middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Env == "production",
		}),
		middleware.NewIdempotencyMiddleware(cacheProvider, cfg.Session.CookieName, idempotencyTTL),
		metrics,
	)

	// Create HTTP server. Form event streams are long-lived, so there is no
	// write timeout.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sessionService.Run(observability.WithLogger(gctx, *logger))
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("server shutting down")

		// Closing the bus ends open form streams so Shutdown does not wait on them
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return
	}
	logger.Info().Msg("server stopped")
}

// defaultTab prefers the appointment tab and falls back to the first one
func defaultTab(list []entities.Tab) entities.TabID {
	for _, tab := range list {
		if tab.ID == tabs.DefaultTab {
			return tab.ID
		}
	}
	if len(list) > 0 {
		return list[0].ID
	}
	return tabs.DefaultTab
}
