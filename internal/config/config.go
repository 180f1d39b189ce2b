package config

// Config holds all application configuration loaded from environment
// variables, parsed via github.com/caarlos0/env struct tags.
type Config struct {
	// Server configuration
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8081"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"achievement-engine"`

	// Redis configuration
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	// Achievement catalog configuration
	CatalogPath string `env:"CATALOG_PATH" envDefault:"config/achievements.yaml"`

	// Evaluation configuration
	RecalcChunkSize int    `env:"RECALC_CHUNK_SIZE" envDefault:"100"`
	ResetToken      string `env:"RESET_CONFIRMATION_TOKEN" envDefault:"RESET_ALL_ACHIEVEMENTS"`

	// Notification configuration
	NotificationRetentionDays int `env:"NOTIFICATION_RETENTION_DAYS" envDefault:"30"`
	NotificationMaxPerPlayer  int `env:"NOTIFICATION_MAX_PER_PLAYER" envDefault:"100"`

	// Analytics configuration
	AnalyticsTrendWindowDays   int     `env:"ANALYTICS_TREND_WINDOW_DAYS" envDefault:"7"`
	AnalyticsMinSampleSize     int     `env:"ANALYTICS_MIN_SAMPLE_SIZE" envDefault:"10"`
	AnalyticsAttentionRate     float64 `env:"ANALYTICS_ATTENTION_RATE" envDefault:"0.01"`
	AnalyticsRefreshIntervalMs int     `env:"ANALYTICS_REFRESH_INTERVAL_MS" envDefault:"300000"`
}
