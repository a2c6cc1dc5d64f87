package app

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.PostgresDSN != "" {
		t.Errorf("expected empty PostgresDSN, got %s", cfg.PostgresDSN)
	}
	if cfg.CatalogURL != "" {
		t.Errorf("expected empty CatalogURL, got %s", cfg.CatalogURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel info, got %s", cfg.LogLevel)
	}
	if cfg.IdempotencyCleanupInterval <= 0 {
		t.Error("expected positive IdempotencyCleanupInterval")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CHECKOUT_HTTP_ADDR", ":18080")
	t.Setenv("CHECKOUT_METRICS_ADDR", ":19090")
	t.Setenv("CHECKOUT_CATALOG_URL", "http://catalog.local")
	t.Setenv("CHECKOUT_POSTGRES_DSN", "postgres://localhost/checkout")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("CHECKOUT_LOG_LEVEL", "debug")
	t.Setenv("CHECKOUT_IDEMPOTENCY_CLEANUP_INTERVAL", "1m")

	cfg := ConfigFromEnv()

	if cfg.HTTPAddr != ":18080" {
		t.Errorf("unexpected HTTPAddr: %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":19090" {
		t.Errorf("unexpected MetricsAddr: %s", cfg.MetricsAddr)
	}
	if cfg.CatalogURL != "http://catalog.local" {
		t.Errorf("unexpected CatalogURL: %s", cfg.CatalogURL)
	}
	if cfg.PostgresDSN != "postgres://localhost/checkout" {
		t.Errorf("unexpected PostgresDSN: %s", cfg.PostgresDSN)
	}
	if cfg.KafkaBrokers != "broker-1:9092,broker-2:9092" {
		t.Errorf("unexpected KafkaBrokers: %s", cfg.KafkaBrokers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if cfg.IdempotencyCleanupInterval != time.Minute {
		t.Errorf("unexpected cleanup interval: %s", cfg.IdempotencyCleanupInterval)
	}
}

func TestConfigFromEnvInvalidInterval(t *testing.T) {
	t.Setenv("CHECKOUT_IDEMPOTENCY_CLEANUP_INTERVAL", "potato")

	cfg := ConfigFromEnv()
	if cfg.IdempotencyCleanupInterval != DefaultConfig().IdempotencyCleanupInterval {
		t.Errorf("expected default cleanup interval, got %s", cfg.IdempotencyCleanupInterval)
	}
}
