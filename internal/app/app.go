// Package app wires the booking edge service together and runs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cartedge/coursecart/internal/catalog"
	"github.com/cartedge/coursecart/internal/checkout"
	"github.com/cartedge/coursecart/internal/config"
	"github.com/cartedge/coursecart/internal/event"
	"github.com/cartedge/coursecart/internal/gateway"
	"github.com/cartedge/coursecart/internal/guest"
	handler "github.com/cartedge/coursecart/internal/handler/http"
	"github.com/cartedge/coursecart/internal/reconciler"
	"github.com/cartedge/coursecart/pkg/health"
	"github.com/cartedge/coursecart/pkg/httpclient"
	pkgkafka "github.com/cartedge/coursecart/pkg/kafka"
	"github.com/cartedge/coursecart/pkg/tracing"
)

// App wires together all dependencies and runs the edge service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "coursecart",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Redis client for the guest cart store.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Kafka producer; events are advisory and can be switched off entirely.
	var producer *pkgkafka.Producer
	var events event.Publisher = event.NopPublisher{}
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Backend HTTP clients, breaker-wrapped per downstream concern.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	catalogClient := catalog.NewClient(
		httpclient.NewBreakerClient(baseClient, httpclient.DefaultBreakerConfig("catalog"), logger),
		cfg.BackendBaseURL,
	)
	cartGateway := gateway.NewCartGateway(
		httpclient.NewBreakerClient(baseClient, httpclient.DefaultBreakerConfig("cart"), logger),
		cfg.BackendBaseURL,
	)

	// Core services.
	guestTTL := time.Duration(cfg.GuestCartTTL) * time.Hour
	guestStore := guest.NewStore(rdb, guestTTL)
	carts := reconciler.New(guestStore, cartGateway, events)
	orchestrator := checkout.New(carts, cartGateway, events, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("backend", func(ctx context.Context) error {
		resp, err := baseClient.Get(ctx, cfg.BackendBaseURL+"/api/courses/")
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("backend answered %d", resp.StatusCode)
		}
		return nil
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Carts:         carts,
		Catalog:       catalogClient,
		Checkout:      orchestrator,
		HealthHandler: healthHandler,
		Logger:        logger,
		CORSOrigins:   cfg.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
