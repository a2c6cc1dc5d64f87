package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	catalogadapter "github.com/vladislavdragonenkov/checkout/internal/adapter/catalog"
	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/health"
	catalogmock "github.com/vladislavdragonenkov/checkout/internal/service/catalog"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
	"github.com/vladislavdragonenkov/checkout/internal/version"
)

// Dependencies — собранные инфраструктурные зависимости приложения.
type Dependencies struct {
	Repo     domain.OrderRepository
	IdemRepo domain.IdempotencyRepository
	Catalog  domain.CatalogClient
	Store    *postgres.Store
	Health   *health.Handler
	Logger   *log.Entry
}

// NewDependencies выбирает реализации по конфигурации:
// PostgreSQL против in-memory и удалённый каталог против mock.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Health: health.NewHandler(version.String()),
		Logger: logger,
	}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		deps.Store = store
		deps.Repo = postgres.NewOrderRepository(store)
		deps.IdemRepo = postgres.NewIdempotencyRepository(store)
		deps.Health.RegisterChecker("postgres", health.NewSimpleChecker("postgres", store.Ping))
		logger.Info("using postgres storage")
	} else {
		deps.Repo = memory.NewOrderRepository()
		deps.IdemRepo = memory.NewIdempotencyRepository()
		logger.Warn("CHECKOUT_POSTGRES_DSN is empty, using in-memory storage")
	}

	if cfg.CatalogURL != "" {
		client := catalogadapter.NewHTTPClient(cfg.CatalogURL, logger)
		deps.Catalog = client
		deps.Health.RegisterChecker("catalog", health.NewSimpleChecker("catalog", client.Ping))
		logger.WithField("catalog_url", cfg.CatalogURL).Info("using remote product catalog")
	} else {
		mock := catalogmock.NewMockClient()
		seedDemoCatalog(mock)
		deps.Catalog = mock
		logger.Warn("CHECKOUT_CATALOG_URL is empty, using in-process mock catalog")
	}

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}

// seedDemoCatalog наполняет mock-каталог товарами для локального запуска.
func seedDemoCatalog(mock *catalogmock.MockClient) {
	mock.AddProduct(domain.ProductSnapshot{ID: "demo-keyboard", Name: "Keyboard", PriceMinor: 4990, Quantity: 25})
	mock.AddProduct(domain.ProductSnapshot{ID: "demo-mouse", Name: "Mouse", PriceMinor: 1990, Quantity: 40})
	mock.AddProduct(domain.ProductSnapshot{ID: "demo-monitor", Name: "Monitor", PriceMinor: 24990, Quantity: 10})
}
