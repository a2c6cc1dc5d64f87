package checkout_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
)

func TestAssembleLines_TotalAndOrder(t *testing.T) {
	now := time.Now().UTC()
	reserved := []checkout.ReservedItem{
		{Snapshot: domain.ProductSnapshot{ID: "product-1", PriceMinor: 1000, Quantity: 3}, Qty: 2},
		{Snapshot: domain.ProductSnapshot{ID: "product-2", PriceMinor: 250, Quantity: 10}, Qty: 4},
	}

	lines, total := checkout.AssembleLines(reserved, now)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ProductID != "product-1" || lines[1].ProductID != "product-2" {
		t.Fatalf("line order must follow request order: %+v", lines)
	}
	if lines[0].PriceMinor != 1000 {
		t.Fatalf("line price must capture snapshot price, got %d", lines[0].PriceMinor)
	}
	if total != 2*1000+4*250 {
		t.Fatalf("unexpected total: %d", total)
	}
	if lines[0].ID == "" || lines[0].ID == lines[1].ID {
		t.Fatal("lines must get distinct non-empty ids")
	}
}

func TestAssembleLines_Empty(t *testing.T) {
	lines, total := checkout.AssembleLines(nil, time.Now().UTC())
	if len(lines) != 0 || total != 0 {
		t.Fatalf("expected empty assembly, got %d lines, total %d", len(lines), total)
	}
}
