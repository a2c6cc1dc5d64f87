package app

import (
	"os"
	"strings"
	"time"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	// HTTPAddr — адрес REST API.
	HTTPAddr string
	// MetricsAddr — адрес служебного сервера (/metrics, пробы).
	MetricsAddr string
	// CatalogURL — базовый URL удалённого каталога товаров.
	// Пустое значение включает in-process mock каталога.
	CatalogURL string
	// PostgresDSN — строка подключения к PostgreSQL.
	// Пустое значение включает in-memory хранилище.
	PostgresDSN string
	// KafkaBrokers — список брокеров через запятую. Пустое значение
	// отключает публикацию событий.
	KafkaBrokers string
	// LogLevel — уровень логирования logrus (debug/info/warn/error).
	LogLevel string
	// IdempotencyCleanupInterval — период очистки протухших ключей.
	IdempotencyCleanupInterval time.Duration
}

// DefaultConfig возвращает базовую конфигурацию для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:                   ":8080",
		MetricsAddr:                ":9090",
		LogLevel:                   "info",
		IdempotencyCleanupInterval: 10 * time.Minute,
	}
}

// ConfigFromEnv накладывает переменные окружения на дефолты.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(os.Getenv("CHECKOUT_HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKOUT_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKOUT_CATALOG_URL")); v != "" {
		cfg.CatalogURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKOUT_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKOUT_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKOUT_IDEMPOTENCY_CLEANUP_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.IdempotencyCleanupInterval = d
		}
	}
	return cfg
}
