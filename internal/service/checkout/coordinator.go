// Package checkout реализует координацию резервирования стока:
// последовательное списание по позициям заказа и компенсацию
// в обратном порядке при любом сбое.
package checkout

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// ReservedItem — успешно зарезервированная позиция: срез каталога на момент
// резервирования плюс запрошенное количество.
type ReservedItem struct {
	Snapshot domain.ProductSnapshot
	Qty      int32
}

// RetryConfig управляет повторами чтения каталога.
// Списание стока не повторяется никогда: вызов не идемпотентен.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Coordinator превращает последовательность запрошенных позиций либо в полный
// набор резервов, либо в чистый отказ: заказ не создан, сток возвращён.
type Coordinator struct {
	catalog domain.CatalogClient
	logger  *log.Entry
	metrics *metrics.CheckoutMetrics
	retry   RetryConfig
}

// NewCoordinator создаёт рабочий экземпляр координатора.
func NewCoordinator(catalog domain.CatalogClient, logger *log.Entry) *Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Coordinator{
		catalog: catalog,
		logger:  logger,
		metrics: metrics.NewCheckoutMetrics(),
		retry:   DefaultRetryConfig(),
	}
}

// NewCoordinatorWithoutMetrics создаёт координатор без метрик (для тестов).
func NewCoordinatorWithoutMetrics(catalog domain.CatalogClient, retry RetryConfig, logger *log.Entry) *Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Coordinator{
		catalog: catalog,
		logger:  logger,
		metrics: nil,
		retry:   retry,
	}
}

// Reserve обрабатывает позиции строго последовательно и в порядке запроса:
// решение по позиции i+1 зависит от актуального стока, а откат обязан
// раскручиваться в обратном порядке. Для каждой позиции:
//
//  1. FetchProduct — нет товара, вся заявка падает с *ProductNotFoundError;
//  2. проверка стока — меньше запрошенного, падаем с *InsufficientStockError;
//  3. ReserveStock — списываем, и позиция попадает в журнал отката.
//
// Любой сбой на шаге k компенсирует k-1 уже сделанных резервов.
// Если компенсация сама провалилась, наружу уходит *ReservationLeakError
// со списком товаров, по которым учёт разошёлся.
func (c *Coordinator) Reserve(ctx context.Context, items []domain.ItemRequest) ([]ReservedItem, error) {
	reserved := make([]ReservedItem, 0, len(items))

	for _, item := range items {
		snapshot, err := c.fetchWithRetry(ctx, item.ProductID)
		if err != nil {
			return nil, c.rollback(ctx, reserved, err)
		}

		if snapshot.Quantity < item.Qty {
			stockErr := &domain.InsufficientStockError{
				ProductID: item.ProductID,
				Available: snapshot.Quantity,
				Requested: item.Qty,
			}
			return nil, c.rollback(ctx, reserved, stockErr)
		}

		if err := c.reserveStock(ctx, item.ProductID, item.Qty); err != nil {
			// Таймаут оставляет исход списания неизвестным. Считаем позицию
			// списанной и включаем её в откат: двойной restore каталог сверит
			// сам, а молча потерять сток нельзя.
			if errors.Is(err, domain.ErrCatalogUnavailable) {
				reserved = append(reserved, ReservedItem{Snapshot: snapshot, Qty: item.Qty})
			}
			return nil, c.rollback(ctx, reserved, err)
		}

		if c.metrics != nil {
			c.metrics.RecordReservation()
		}
		reserved = append(reserved, ReservedItem{Snapshot: snapshot, Qty: item.Qty})
	}

	return reserved, nil
}

// Release возвращает сток по всем переданным резервам в обратном порядке.
// Используется и внутри Reserve, и снаружи — когда заказ не удалось
// персистить уже после успешного резервирования.
func (c *Coordinator) Release(ctx context.Context, reserved []ReservedItem) error {
	var leaked []string

	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := c.restoreStock(ctx, item.Snapshot.ID, item.Qty); err != nil {
			c.logger.WithError(err).WithField("product_id", item.Snapshot.ID).
				Error("stock restore failed, accounting diverged")
			if c.metrics != nil {
				c.metrics.RecordReservationLeak()
			}
			leaked = append(leaked, item.Snapshot.ID)
			continue
		}
		if c.metrics != nil {
			c.metrics.RecordCompensation()
		}
	}

	if len(leaked) > 0 {
		return &domain.ReservationLeakError{ProductIDs: leaked}
	}
	return nil
}

// rollback компенсирует сделанные резервы и возвращает итоговую ошибку заявки:
// первопричину, либо ReservationLeakError поверх неё, если откат не полон.
func (c *Coordinator) rollback(ctx context.Context, reserved []ReservedItem, cause error) error {
	if len(reserved) == 0 {
		return cause
	}

	c.logger.WithError(cause).WithField("reserved_count", len(reserved)).
		Warn("reservation failed, rolling back")

	if err := c.Release(ctx, reserved); err != nil {
		var leak *domain.ReservationLeakError
		if errors.As(err, &leak) {
			return &domain.ReservationLeakError{ProductIDs: leak.ProductIDs, Cause: cause}
		}
		return err
	}
	return cause
}

// fetchWithRetry читает товар из каталога с ограниченным числом повторов.
// Повторяется только ErrCatalogUnavailable: чтение — безопасная операция,
// бизнес-отказы (нет товара) повторять бессмысленно.
func (c *Coordinator) fetchWithRetry(ctx context.Context, productID string) (domain.ProductSnapshot, error) {
	var lastErr error
	delay := c.retry.InitialDelay

	attempts := c.retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		snapshot, err := c.catalog.FetchProduct(ctx, productID)
		if c.metrics != nil {
			c.metrics.RecordCatalogCall("fetch_product", time.Since(start))
		}
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			return domain.ProductSnapshot{}, err
		}

		lastErr = err
		if attempt == attempts {
			break
		}

		c.logger.WithError(err).WithFields(log.Fields{
			"product_id": productID,
			"attempt":    attempt,
			"delay":      delay,
		}).Warn("catalog read failed, retrying")

		select {
		case <-ctx.Done():
			return domain.ProductSnapshot{}, ctx.Err()
		case <-time.After(delay):
		}

		// Экспоненциальная задержка с ограничением.
		delay = time.Duration(float64(delay) * c.retry.BackoffFactor)
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}

	return domain.ProductSnapshot{}, lastErr
}

func (c *Coordinator) reserveStock(ctx context.Context, productID string, qty int32) error {
	start := time.Now()
	err := c.catalog.ReserveStock(ctx, productID, qty)
	if c.metrics != nil {
		c.metrics.RecordCatalogCall("reserve_stock", time.Since(start))
	}
	return err
}

func (c *Coordinator) restoreStock(ctx context.Context, productID string, qty int32) error {
	start := time.Now()
	err := c.catalog.RestoreStock(ctx, productID, qty)
	if c.metrics != nil {
		c.metrics.RecordCatalogCall("restore_stock", time.Since(start))
	}
	return err
}
