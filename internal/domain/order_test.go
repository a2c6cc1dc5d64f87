package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func validOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:      "order-1",
		OwnerID: "user-1",
		Status:  domain.OrderStatusCreated,
		Lines: []domain.OrderLine{
			{ID: "line-1", ProductID: "product-1", Qty: 2, PriceMinor: 1000, CreatedAt: now},
			{ID: "line-2", ProductID: "product-2", Qty: 1, PriceMinor: 500, CreatedAt: now},
		},
		TotalMinor: 2500,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestOrder_ValidateInvariants_OK(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestOrder_ValidateInvariants_Violations(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*domain.Order)
		wantErr error
	}{
		{
			name:    "missing owner",
			mutate:  func(o *domain.Order) { o.OwnerID = "" },
			wantErr: domain.ErrOwnerRequired,
		},
		{
			name:    "no lines",
			mutate:  func(o *domain.Order) { o.Lines = nil; o.TotalMinor = 0 },
			wantErr: domain.ErrLinesRequired,
		},
		{
			name:    "zero qty",
			mutate:  func(o *domain.Order) { o.Lines[0].Qty = 0; o.TotalMinor = 500 },
			wantErr: domain.ErrLineQtyInvalid,
		},
		{
			name:    "negative price",
			mutate:  func(o *domain.Order) { o.Lines[1].PriceMinor = -1; o.TotalMinor = 1999 },
			wantErr: domain.ErrLinePriceInvalid,
		},
		{
			name:    "total mismatch",
			mutate:  func(o *domain.Order) { o.TotalMinor = 9999 },
			wantErr: domain.ErrTotalMismatch,
		},
		{
			name:    "unknown status",
			mutate:  func(o *domain.Order) { o.Status = "archived" },
			wantErr: domain.ErrStatusInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.mutate(&order)

			errs := order.ValidateInvariants()
			found := false
			for _, err := range errs {
				if errors.Is(err, tc.wantErr) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %v among violations, got %v", tc.wantErr, errs)
			}
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusCreated,
		domain.OrderStatusPaid,
		domain.OrderStatusShipped,
		domain.OrderStatusCancelled,
	} {
		if !status.Valid() {
			t.Fatalf("status %q must be valid", status)
		}
	}

	if domain.OrderStatus("SHIPPED").Valid() {
		t.Fatal("status values are case sensitive")
	}
	if domain.OrderStatus("").Valid() {
		t.Fatal("empty status must be invalid")
	}
}
