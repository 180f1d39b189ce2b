package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// In production (Docker/K8s), environment variables are injected
	// directly and no .env file exists.
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}

	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if c.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}

	if c.ResetToken == "" {
		return fmt.Errorf("RESET_CONFIRMATION_TOKEN is required")
	}

	if c.RecalcChunkSize < 1 {
		return fmt.Errorf("invalid RECALC_CHUNK_SIZE: %d (must be positive)", c.RecalcChunkSize)
	}

	if c.AnalyticsAttentionRate < 0 || c.AnalyticsAttentionRate > 1 {
		return fmt.Errorf("invalid ANALYTICS_ATTENTION_RATE: %f (must be 0-1)", c.AnalyticsAttentionRate)
	}

	return nil
}
