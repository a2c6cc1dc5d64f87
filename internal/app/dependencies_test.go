package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"

	catalogmock "github.com/vladislavdragonenkov/checkout/internal/service/catalog"
)

func TestNewDependenciesMemoryMode(t *testing.T) {
	logger := log.NewEntry(log.New())
	logger.Logger.SetLevel(log.ErrorLevel)

	deps, err := NewDependencies(context.Background(), DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("NewDependencies: %v", err)
	}
	defer deps.Close()

	if deps.Repo == nil {
		t.Fatal("expected order repository")
	}
	if deps.IdemRepo == nil {
		t.Fatal("expected idempotency repository")
	}
	if deps.Store != nil {
		t.Fatal("expected no postgres store without DSN")
	}
	if deps.Health == nil {
		t.Fatal("expected health handler")
	}

	// Без CatalogURL поднимается mock с demo-товарами.
	mock, ok := deps.Catalog.(*catalogmock.MockClient)
	if !ok {
		t.Fatalf("expected mock catalog, got %T", deps.Catalog)
	}
	if mock.Stock("demo-keyboard") <= 0 {
		t.Fatal("expected demo catalog to be seeded")
	}
}

func TestNewDependenciesRemoteCatalog(t *testing.T) {
	logger := log.NewEntry(log.New())
	logger.Logger.SetLevel(log.ErrorLevel)

	cfg := DefaultConfig()
	cfg.CatalogURL = "http://catalog.local"

	deps, err := NewDependencies(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("NewDependencies: %v", err)
	}
	defer deps.Close()

	if _, ok := deps.Catalog.(*catalogmock.MockClient); ok {
		t.Fatal("expected HTTP catalog client, got mock")
	}
}
