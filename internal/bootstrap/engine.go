package bootstrap

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/internal/config"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/analytics"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/engine"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/evaluate"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/notify"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/progress"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
)

// InitEvaluators creates the evaluator registry with all builtin
// condition evaluators registered.
func InitEvaluators() (*evaluate.Registry, error) {
	registry := evaluate.NewRegistry()
	if err := evaluate.RegisterBuiltins(registry); err != nil {
		return nil, fmt.Errorf("failed to register builtin evaluators: %w", err)
	}

	logrus.Infof("registered %d condition evaluators", registry.Count())
	return registry, nil
}

// InitNotifier creates the notification pipeline backed by Redis, with
// rarity thresholds and retention from config.
func InitNotifier(client *redis.Client, rates notify.CompletionRateFunc, cfg *config.Config) *notify.Pipeline {
	pipeline := notify.NewPipeline(client, rates, notify.PipelineConfig{
		RetentionWindow: time.Duration(cfg.NotificationRetentionDays) * 24 * time.Hour,
		MaxPerPlayer:    cfg.NotificationMaxPerPlayer,
		Thresholds:      notify.DefaultThresholds(),
	})

	logrus.Infof("initialized notification pipeline (retention %dd, max %d per player)",
		cfg.NotificationRetentionDays, cfg.NotificationMaxPerPlayer)
	return pipeline
}

// InitAnalytics creates the population analytics aggregator.
func InitAnalytics(holder *CatalogHolder, store progress.Store, cfg *config.Config) *analytics.Aggregator {
	aggregator := analytics.NewAggregator(
		func() *catalog.Catalog {
			cat, _ := holder.Get()
			return cat
		},
		store,
		analytics.Config{
			TrendWindow:        time.Duration(cfg.AnalyticsTrendWindowDays) * 24 * time.Hour,
			MinSampleSize:      cfg.AnalyticsMinSampleSize,
			AttentionRateBelow: cfg.AnalyticsAttentionRate,
		},
	)

	logrus.Infof("initialized analytics aggregator (trend window %dd)", cfg.AnalyticsTrendWindowDays)
	return aggregator
}

// InitCoordinator wires the evaluation coordinator.
func InitCoordinator(
	holder *CatalogHolder,
	store progress.Store,
	evaluators *evaluate.Registry,
	tracker service.StatTracker,
	notifier *notify.Pipeline,
	cfg *config.Config,
) *engine.Coordinator {
	coordinator := engine.NewCoordinator(holder.Get, store, evaluators, tracker, notifier, engine.Config{
		ResetToken:      cfg.ResetToken,
		RecalcChunkSize: cfg.RecalcChunkSize,
	})

	logrus.Infof("initialized evaluation coordinator (recalc chunk size %d)", cfg.RecalcChunkSize)
	return coordinator
}
