package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestHTTPClient_FetchProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/products/product-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"product-1","name":"Widget","price_minor":1000,"quantity":5}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	snapshot, err := client.FetchProduct(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("FetchProduct: %v", err)
	}
	if snapshot.Name != "Widget" || snapshot.PriceMinor != 1000 || snapshot.Quantity != 5 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestHTTPClient_FetchProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	_, err := client.FetchProduct(context.Background(), "missing")

	var notFound *domain.ProductNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
	if notFound.ProductID != "missing" {
		t.Fatalf("unexpected product id: %s", notFound.ProductID)
	}
}

func TestHTTPClient_FetchProductServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	if _, err := client.FetchProduct(context.Background(), "product-1"); !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestHTTPClient_FetchProductTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер мёртв до первого запроса

	client := NewHTTPClient(srv.URL, nil)
	if _, err := client.FetchProduct(context.Background(), "product-1"); !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestHTTPClient_ReserveStock(t *testing.T) {
	var gotPath, gotQuantity string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method %s", r.Method)
		}
		gotPath = r.URL.Path
		gotQuantity = r.URL.Query().Get("quantity")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	if err := client.ReserveStock(context.Background(), "product-1", 3); err != nil {
		t.Fatalf("ReserveStock: %v", err)
	}
	if gotPath != "/api/products/product-1/reduce-stock" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotQuantity != "3" {
		t.Fatalf("unexpected quantity %s", gotQuantity)
	}
}

func TestHTTPClient_ReserveStockInsufficient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"insufficient_stock","available":2}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	err := client.ReserveStock(context.Background(), "product-1", 5)

	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 2 || insufficient.Requested != 5 {
		t.Fatalf("unexpected error details: %+v", insufficient)
	}
}

func TestHTTPClient_ReserveStockUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	if err := client.ReserveStock(context.Background(), "product-1", 1); !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestHTTPClient_RestoreStock(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	if err := client.RestoreStock(context.Background(), "product-1", 2); err != nil {
		t.Fatalf("RestoreStock: %v", err)
	}
	if gotPath != "/api/products/product-1/restore-stock" {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestHTTPClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	srv.Close()
	if err := client.Ping(context.Background()); !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}
