// Package app wires the service together and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/m-akash/e-commerce-inventory-api/internal/auth"
	"github.com/m-akash/e-commerce-inventory-api/internal/cache"
	"github.com/m-akash/e-commerce-inventory-api/internal/config"
	"github.com/m-akash/e-commerce-inventory-api/internal/event"
	handler "github.com/m-akash/e-commerce-inventory-api/internal/handler/http"
	"github.com/m-akash/e-commerce-inventory-api/internal/repository/postgres"
	"github.com/m-akash/e-commerce-inventory-api/internal/service"
	"github.com/m-akash/e-commerce-inventory-api/internal/storage"
	"github.com/m-akash/e-commerce-inventory-api/internal/storage/httpapi"
	"github.com/m-akash/e-commerce-inventory-api/internal/storage/memory"
	"github.com/m-akash/e-commerce-inventory-api/migrations"
	"github.com/m-akash/e-commerce-inventory-api/pkg/database"
	"github.com/m-akash/e-commerce-inventory-api/pkg/health"
	"github.com/m-akash/e-commerce-inventory-api/pkg/httpclient"
	"github.com/m-akash/e-commerce-inventory-api/pkg/kafka"
	"github.com/m-akash/e-commerce-inventory-api/pkg/middleware"
)

const accessTokenTTL = 24 * time.Hour

// App holds the wired service and its long-lived resources.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
	server   *http.Server
}

// New builds the application: database pool, migrations, Kafka producer,
// storage backend, optional Redis cache, and the HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)

	store, err := newStorage(cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var (
		redisClient  *redis.Client
		productCache *cache.ProductCache
	)
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisConfig())
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		productCache = cache.NewProductCache(redisClient, cfg.CacheTTL, logger)
	}

	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	publisher := event.NewKafkaPublisher(producer)

	svc := service.NewProductService(productRepo, categoryRepo, store, productCache, publisher, logger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, accessTokenTTL)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", producer.Ping)
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.RouterConfig{
		Products:   handler.NewProductHandler(svc, logger),
		Categories: handler.NewCategoryHandler(svc, logger),
		Health:     healthHandler,
		Auth:       jwtManager,
		CORS:       corsCfg,
		Logger:     logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		server:   server,
	}, nil
}

// newStorage selects the blob storage backend from configuration.
func newStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendHTTP:
		client := httpclient.New(httpclient.DefaultConfig())
		breaker := httpclient.NewBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("blob-service"), logger)
		return httpapi.New(breaker, httpapi.Config{
			APIURL:        cfg.BlobAPIURL,
			PublicBaseURL: cfg.StorageBaseURL,
		}, logger), nil
	case config.StorageBackendMemory:
		return memory.New(cfg.StorageBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server listening",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return a.Shutdown()
	}
}

// Shutdown stops the HTTP server gracefully and closes all resources.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error

	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	if err := a.producer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close kafka producer: %w", err))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis client: %w", err))
		}
	}

	a.pool.Close()

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
