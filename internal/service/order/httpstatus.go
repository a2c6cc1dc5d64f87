package order

import (
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// HTTPStatus отображает ошибки ядра на статусы, которые ожидает HTTP-слой.
// Используется и транспортом, и кэшем идемпотентности, чтобы повтор
// неудачного запроса воспроизводил тот же статус.
//
//	ProductNotFound / InsufficientStock / валидация -> 400
//	заказ не найден                                 -> 404
//	Forbidden                                       -> 403
//	Unauthenticated                                 -> 401
//	конфликт или гонка idempotency-key              -> 409
//	PartialReservationLeak                          -> 500 (с алертингом)
//	каталог недоступен                              -> 502
func HTTPStatus(err error) int {
	var (
		notFound *domain.ProductNotFoundError
		stock    *domain.InsufficientStockError
		leak     *domain.ReservationLeakError
		replayed *ReplayedError
	)

	switch {
	case errors.As(err, &replayed):
		return replayed.HTTPStatus
	case errors.As(err, &leak):
		return http.StatusInternalServerError
	case errors.As(err, &notFound), errors.As(err, &stock):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLinesRequired),
		errors.Is(err, domain.ErrLineQtyInvalid),
		errors.Is(err, domain.ErrProductIDRequired),
		errors.Is(err, domain.ErrStatusInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrIdempotencyHashMismatch),
		errors.Is(err, domain.ErrIdempotencyInFlight),
		errors.Is(err, domain.ErrOrderAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
