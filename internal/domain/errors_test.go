package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestProductNotFoundError_Message(t *testing.T) {
	err := &domain.ProductNotFoundError{ProductID: "product-7"}
	if !strings.Contains(err.Error(), "product-7") {
		t.Fatalf("message must carry the product id: %q", err.Error())
	}

	var target *domain.ProductNotFoundError
	if !errors.As(error(err), &target) {
		t.Fatal("errors.As must match the typed error")
	}
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &domain.InsufficientStockError{ProductID: "product-2", Available: 1, Requested: 100}

	msg := err.Error()
	for _, want := range []string{"product-2", "1", "100"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q must contain %q", msg, want)
		}
	}
}

func TestReservationLeakError_Unwrap(t *testing.T) {
	cause := &domain.InsufficientStockError{ProductID: "product-2", Available: 0, Requested: 5}
	leak := &domain.ReservationLeakError{
		ProductIDs: []string{"product-1", "product-3"},
		Cause:      cause,
	}

	var stockErr *domain.InsufficientStockError
	if !errors.As(error(leak), &stockErr) {
		t.Fatal("leak must unwrap to the root cause")
	}
	if !strings.Contains(leak.Error(), "product-1, product-3") {
		t.Fatalf("leak message must list unreleased products: %q", leak.Error())
	}
}

func TestIsVersionConflict(t *testing.T) {
	if !domain.IsVersionConflict(domain.ErrOrderVersionConflict) {
		t.Fatal("expected version conflict match")
	}
	if domain.IsVersionConflict(domain.ErrOrderNotFound) {
		t.Fatal("not found must not be a version conflict")
	}
}
