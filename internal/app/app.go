package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/internal/bootstrap"
	"github.com/RocketPartners/ping-pong-app-sub004/internal/config"
	"github.com/RocketPartners/ping-pong-app-sub004/internal/server"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/analytics"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/progress"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
)

// App holds all application dependencies and manages the application
// lifecycle.
type App struct {
	cfg           *config.Config
	apiServer     *server.APIServer
	metricsServer *server.MetricsServer
	redisClient   *redis.Client
	aggregator    *analytics.Aggregator

	refreshCancel context.CancelFunc
	refreshDone   chan struct{}
}

// New creates and initializes a new application instance. Components are
// initialized in dependency order: Redis, evaluators, catalog, stores,
// analytics, notifications, coordinator, servers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	evaluators, err := bootstrap.InitEvaluators()
	if err != nil {
		return nil, fmt.Errorf("failed to init evaluators: %w", err)
	}

	catalogHolder, err := bootstrap.InitCatalog(cfg.CatalogPath, evaluators)
	if err != nil {
		return nil, fmt.Errorf("failed to init catalog: %w", err)
	}

	progressStore := progress.NewRedisStore(app.redisClient, progress.RedisStoreConfig{})
	statTracker := service.NewRedisStatTracker(app.redisClient, service.RedisStatTrackerConfig{})

	app.aggregator = bootstrap.InitAnalytics(catalogHolder, progressStore, cfg)

	notifier := bootstrap.InitNotifier(app.redisClient, app.aggregator.CompletionRate, cfg)

	coordinator := bootstrap.InitCoordinator(
		catalogHolder,
		progressStore,
		evaluators,
		statTracker,
		notifier,
		cfg,
	)

	app.apiServer = server.NewAPIServer(
		cfg.HTTPPort,
		coordinator,
		notifier,
		app.aggregator,
		catalogHolder,
		app.redisClient,
	)
	if err := app.apiServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup API server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries))

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// startAnalyticsRefresh runs a background loop that recomputes population
// analytics on a fixed interval. Unlock notifications read completion
// rates from these snapshots, so the loop primes them once at startup.
func (a *App) startAnalyticsRefresh(ctx context.Context) {
	interval := time.Duration(a.cfg.AnalyticsRefreshIntervalMs) * time.Millisecond
	refreshCtx, cancel := context.WithCancel(ctx)
	a.refreshCancel = cancel
	a.refreshDone = make(chan struct{})

	go func() {
		defer close(a.refreshDone)

		if err := a.aggregator.Recalculate(refreshCtx, analytics.ScopeAll()); err != nil {
			logrus.Warnf("initial analytics refresh failed: %v", err)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				if err := a.aggregator.Recalculate(refreshCtx, analytics.ScopeAll()); err != nil {
					logrus.Warnf("analytics refresh failed: %v", err)
				}
			}
		}
	}()

	logrus.Infof("analytics refresh loop started (interval %s)", interval)
}
