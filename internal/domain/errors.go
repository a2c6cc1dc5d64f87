package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Ошибка отсутствующего владельца заказа.
	ErrOwnerRequired = errors.New("owner_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// Ошибка отрицательной суммы заказа.
	ErrTotalNegative = errors.New("total_minor must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrLineQtyInvalid = errors.New("line qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrLinePriceInvalid = errors.New("line price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match lines sum")
	// Ошибка статуса вне закрытого перечня.
	ErrStatusInvalid = errors.New("order status is not a known status")
	// Ошибка отсутствующего идентификатора товара в позиции запроса.
	ErrProductIDRequired = errors.New("product_id is required")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists — попытка вставить заказ с занятым ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrUnauthenticated — у запроса нет валидной личности.
	ErrUnauthenticated = errors.New("caller is not authenticated")
	// ErrForbidden — операция не разрешена ролями вызывающего.
	ErrForbidden = errors.New("caller is not allowed to perform this operation")
	// ErrCatalogUnavailable — каталог недоступен или ответил не по контракту.
	// Транзиентная ошибка: чтение можно повторить, списание — нет.
	ErrCatalogUnavailable = errors.New("catalog temporarily unavailable")

	// Ошибки контракта идемпотентности.
	ErrIdempotencyKeyRequired         = errors.New("idempotency key is required")
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	ErrIdempotencyKeyAlreadyExists    = errors.New("idempotency key already exists")
	ErrIdempotencyKeyNotFound         = errors.New("idempotency key not found")
	// ErrIdempotencyHashMismatch — тот же ключ прислан с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key reused with different request")
	// ErrIdempotencyInFlight — запрос с этим ключом ещё обрабатывается.
	ErrIdempotencyInFlight = errors.New("request with this idempotency key is still processing")
)

// ProductNotFoundError — товар отсутствует в каталоге.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found in catalog", e.ProductID)
}

// InsufficientStockError — на складе меньше, чем запрошено.
type InsufficientStockError struct {
	ProductID string
	Available int32
	Requested int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// ReservationLeakError — компенсация не смогла вернуть сток по части позиций.
// Несёт список товаров, учёт по которым разошёлся, и первопричину провала
// оформления; сама компенсация провалилась поверх неё.
type ReservationLeakError struct {
	ProductIDs []string
	Cause      error
}

func (e *ReservationLeakError) Error() string {
	return fmt.Sprintf("stock restore failed for products [%s] after: %v",
		strings.Join(e.ProductIDs, ", "), e.Cause)
}

// Unwrap отдаёт первопричину, чтобы errors.Is/As видели исходный сбой.
func (e *ReservationLeakError) Unwrap() error {
	return e.Cause
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
