package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestIdempotencyRepositoryIntegration_CreateAndGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

	ttlAt := time.Now().UTC().Add(time.Hour)
	record, err := repo.CreateProcessing("key-1", "hash-1", ttlAt)
	if err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("expected processing status, got %s", record.Status)
	}

	got, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RequestHash != "hash-1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestIdempotencyRepositoryIntegration_DuplicateAndMismatch(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

	ttlAt := time.Now().UTC().Add(time.Hour)
	if _, err := repo.CreateProcessing("key-1", "hash-1", ttlAt); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}

	existing, err := repo.CreateProcessing("key-1", "hash-1", ttlAt)
	if !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		t.Fatalf("expected ErrIdempotencyKeyAlreadyExists, got %v", err)
	}
	if existing.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("expected existing record, got %+v", existing)
	}

	if _, err := repo.CreateProcessing("key-1", "hash-other", ttlAt); !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("expected ErrIdempotencyHashMismatch, got %v", err)
	}
}

func TestIdempotencyRepositoryIntegration_ExpiredKeyReusable(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

	if _, err := repo.CreateProcessing("key-1", "hash-1", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("CreateProcessing expired: %v", err)
	}
	if _, err := repo.Get("key-1"); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("expected expired record hidden, got %v", err)
	}

	// Протухший ключ перезанимается новым запросом.
	record, err := repo.CreateProcessing("key-1", "hash-other", time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateProcessing after expiry: %v", err)
	}
	if record.RequestHash != "hash-other" {
		t.Fatalf("expected fresh record, got %+v", record)
	}
}

func TestIdempotencyRepositoryIntegration_MarkDoneAndReplay(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

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
	if record.Status != domain.IdempotencyStatusDone || record.HTTPStatus != 201 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if string(record.ResponseBody) != `{"id":"order-1"}` {
		t.Fatalf("unexpected response body: %s", record.ResponseBody)
	}
}

func TestIdempotencyRepositoryIntegration_MarkFailed(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

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

func TestIdempotencyRepositoryIntegration_DeleteExpired(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

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
