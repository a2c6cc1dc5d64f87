package domain

import (
	"context"
	"time"
)

// CatalogClient описывает контракт вызова удалённого каталога товаров.
// Порт намеренно без retry-логики: политику повторов выбирает вызывающий,
// потому что FetchProduct — чистое чтение, а ReserveStock — нет.
type CatalogClient interface {
	// FetchProduct возвращает срез данных о товаре или *ProductNotFoundError.
	FetchProduct(ctx context.Context, productID string) (ProductSnapshot, error)

	// ReserveStock списывает qty единиц товара на стороне каталога.
	// Вызов НЕ идемпотентен: повтор после таймаута с неизвестным исходом
	// может списать сток дважды.
	// Ошибки: *ProductNotFoundError, *InsufficientStockError, ErrCatalogUnavailable.
	ReserveStock(ctx context.Context, productID string, qty int32) error

	// RestoreStock возвращает qty единиц товара (компенсация ReserveStock).
	RestoreStock(ctx context.Context, productID string, qty int32) error
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}
