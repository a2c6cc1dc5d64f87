package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestIdempotencyRepository_CreateProcessing(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttlAt := time.Now().UTC().Add(time.Hour)

	record, err := repo.CreateProcessing("key-1", "hash-1", ttlAt)
	if err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("expected processing status, got %s", record.Status)
	}
	if record.Key != "key-1" || record.RequestHash != "hash-1" {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestIdempotencyRepository_CreateProcessingDuplicate(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttlAt := time.Now().UTC().Add(time.Hour)

	if _, err := repo.CreateProcessing("key-1", "hash-1", ttlAt); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}

	existing, err := repo.CreateProcessing("key-1", "hash-1", ttlAt)
	if !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		t.Fatalf("expected ErrIdempotencyKeyAlreadyExists, got %v", err)
	}
	if existing.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("expected existing record returned, got %+v", existing)
	}
}

func TestIdempotencyRepository_CreateProcessingHashMismatch(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttlAt := time.Now().UTC().Add(time.Hour)

	if _, err := repo.CreateProcessing("key-1", "hash-1", ttlAt); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if _, err := repo.CreateProcessing("key-1", "hash-other", ttlAt); !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("expected ErrIdempotencyHashMismatch, got %v", err)
	}
}

func TestIdempotencyRepository_CreateProcessingValidation(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttlAt := time.Now().UTC().Add(time.Hour)

	if _, err := repo.CreateProcessing("  ", "hash", ttlAt); !errors.Is(err, domain.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
	if _, err := repo.CreateProcessing("key", "  ", ttlAt); !errors.Is(err, domain.ErrIdempotencyRequestHashRequired) {
		t.Fatalf("expected ErrIdempotencyRequestHashRequired, got %v", err)
	}
}

func TestIdempotencyRepository_ExpiredKeyReusable(t *testing.T) {
	repo := NewIdempotencyRepository()
	expired := time.Now().UTC().Add(-time.Minute)

	if _, err := repo.CreateProcessing("key-1", "hash-1", expired); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if _, err := repo.Get("key-1"); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("expected expired record hidden, got %v", err)
	}

	// Протухший ключ можно занять заново, даже с другим хешом.
	if _, err := repo.CreateProcessing("key-1", "hash-other", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("CreateProcessing after expiry: %v", err)
	}
}

func TestIdempotencyRepository_MarkDone(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttlAt := time.Now().UTC().Add(time.Hour)

	if _, err := repo.CreateProcessing("key-1", "hash-1", ttlAt); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if err := repo.MarkDone("key-1", []byte(`{"id":"order-1"}`), 201); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	record, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Status != domain.IdempotencyStatusDone {
		t.Fatalf("expected done status, got %s", record.Status)
	}
	if record.HTTPStatus != 201 || string(record.ResponseBody) != `{"id":"order-1"}` {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestIdempotencyRepository_MarkFailed(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttlAt := time.Now().UTC().Add(time.Hour)

	if _, err := repo.CreateProcessing("key-1", "hash-1", ttlAt); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if err := repo.MarkFailed("key-1", []byte(`{"code":"insufficient_stock"}`), 400); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	record, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Status != domain.IdempotencyStatusFailed || record.HTTPStatus != 400 {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestIdempotencyRepository_MarkUnknownKey(t *testing.T) {
	repo := NewIdempotencyRepository()

	if err := repo.MarkDone("missing", nil, 200); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("expected ErrIdempotencyKeyNotFound, got %v", err)
	}
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	repo := NewIdempotencyRepository()
	now := time.Now().UTC()

	if _, err := repo.CreateProcessing("stale-1", "hash", now.Add(-time.Hour)); err != nil {
		t.Fatalf("CreateProcessing stale-1: %v", err)
	}
	if _, err := repo.CreateProcessing("stale-2", "hash", now.Add(-time.Minute)); err != nil {
		t.Fatalf("CreateProcessing stale-2: %v", err)
	}
	if _, err := repo.CreateProcessing("fresh", "hash", now.Add(time.Hour)); err != nil {
		t.Fatalf("CreateProcessing fresh: %v", err)
	}

	deleted, err := repo.DeleteExpired(now, 10)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	if _, err := repo.Get("fresh"); err != nil {
		t.Fatalf("fresh record should survive: %v", err)
	}
}
