// Package order реализует прикладные операции над заказами.
// Каждая операция начинается с authorization gate и получает
// CallerContext явно — внутри ядра личность не пересоздаётся.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
	"github.com/vladislavdragonenkov/checkout/internal/service/auth"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
)

const defaultListLimit = 100

// StockReserver — то, что сервису нужно от координатора резервирования.
type StockReserver interface {
	Reserve(ctx context.Context, items []domain.ItemRequest) ([]checkout.ReservedItem, error)
	Release(ctx context.Context, reserved []checkout.ReservedItem) error
}

// Service связывает gate, координатор резервирования и хранилище заказов.
type Service struct {
	repo     domain.OrderRepository
	reserver StockReserver
	gate     *auth.Gate
	idemRepo domain.IdempotencyRepository
	events   kafka.EventPublisher
	metrics  *metrics.CheckoutMetrics
	logger   *log.Entry
}

// Option настраивает Service.
type Option func(*Service)

// WithIdempotency включает дедупликацию создания заказа по idempotency-key.
func WithIdempotency(repo domain.IdempotencyRepository) Option {
	return func(s *Service) { s.idemRepo = repo }
}

// WithEvents включает публикацию событий жизненного цикла и алертов.
func WithEvents(pub kafka.EventPublisher) Option {
	return func(s *Service) { s.events = pub }
}

// WithMetrics включает prometheus-метрики workflow.
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService конструирует сервис с зависимостями.
func NewService(repo domain.OrderRepository, reserver StockReserver, gate *auth.Gate, logger *log.Entry, options ...Option) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	if gate == nil {
		gate = auth.NewGate(logger)
	}

	s := &Service{
		repo:     repo,
		reserver: reserver,
		gate:     gate,
		logger:   logger,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Create оформляет заказ: резервирует сток по всем позициям, собирает
// и персистит агрегат. Заказ пишется в хранилище только после того,
// как все резервы прошли; при сбое записи резервы возвращаются.
// Непустой idemKey включает дедупликацию повторных запросов.
func (s *Service) Create(ctx context.Context, caller domain.CallerContext, items []domain.ItemRequest, idemKey string) (domain.Order, error) {
	if err := s.gate.RequireAuthenticated(caller); err != nil {
		return domain.Order{}, err
	}
	if err := validateItems(items); err != nil {
		return domain.Order{}, err
	}

	if s.idemRepo != nil && idemKey != "" {
		return s.createIdempotent(ctx, caller, items, idemKey)
	}
	return s.createInternal(ctx, caller, items)
}

func (s *Service) createInternal(ctx context.Context, caller domain.CallerContext, items []domain.ItemRequest) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCheckoutDuration(time.Since(start))
		}
	}()

	reserved, err := s.reserver.Reserve(ctx, items)
	if err != nil {
		s.recordFailure(caller, err)
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	lines, total := checkout.AssembleLines(reserved, now)

	order := domain.Order{
		ID:         uuid.NewString(),
		OwnerID:    caller.UserID,
		Status:     domain.OrderStatusCreated,
		Lines:      lines,
		TotalMinor: total,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		// Сток уже списан — вернуть перед отказом.
		s.releaseAfterFailure(ctx, order.ID, reserved, errs[0])
		return domain.Order{}, errs[0]
	}

	if err := s.repo.Create(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		s.releaseAfterFailure(ctx, order.ID, reserved, err)
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.publishOrderEvent(kafka.EventTypeOrderCreated, order)

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"owner_id":    order.OwnerID,
		"total_minor": order.TotalMinor,
		"lines":       len(order.Lines),
	}).Info("order created")

	return order, nil
}

// Get возвращает заказ владельцу или администратору.
func (s *Service) Get(ctx context.Context, caller domain.CallerContext, id string) (domain.Order, error) {
	if err := s.gate.RequireAuthenticated(caller); err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.gate.AuthorizeOrderRead(caller, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ListOwn возвращает заказы вызывающего. Выборка жёстко ограничена
// его собственной личностью: чужой ownerID сюда передать нельзя.
func (s *Service) ListOwn(ctx context.Context, caller domain.CallerContext, limit int) ([]domain.Order, error) {
	if err := s.gate.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListByOwner(caller.UserID, limit)
}

// ListAll возвращает все заказы; только для ADMIN.
func (s *Service) ListAll(ctx context.Context, caller domain.CallerContext, limit int) ([]domain.Order, error) {
	if err := s.gate.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListAll(limit)
}

// UpdateStatus переводит заказ в новый статус; только для ADMIN.
// Целевой статус ограничен закрытым перечнем. Реализует retry с
// exponential backoff для обработки version conflicts.
func (s *Service) UpdateStatus(ctx context.Context, caller domain.CallerContext, id string, status domain.OrderStatus) (domain.Order, error) {
	if err := s.gate.RequireAdmin(caller); err != nil {
		return domain.Order{}, err
	}
	if !status.Valid() {
		return domain.Order{}, domain.ErrStatusInvalid
	}

	const maxRetries = 3
	const baseDelay = 10 * time.Millisecond

	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if order.Status == status {
			return order, nil
		}

		order.Status = status
		order.UpdatedAt = time.Now().UTC()

		saveErr := s.repo.Save(order)
		if saveErr == nil {
			order.Version++
			s.publishOrderEvent(kafka.EventTypeOrderStatusChanged, order)
			s.logger.WithFields(log.Fields{
				"order_id": order.ID,
				"status":   order.Status,
			}).Info("order status updated")
			return order, nil
		}

		if !domain.IsVersionConflict(saveErr) || attempt == maxRetries-1 {
			s.logger.WithError(saveErr).WithFields(log.Fields{
				"order_id": id,
				"attempt":  attempt + 1,
			}).Error("failed to persist status")
			return domain.Order{}, saveErr
		}

		s.logger.WithFields(log.Fields{
			"order_id": id,
			"attempt":  attempt + 1,
		}).Warn("version conflict detected, retrying")

		// Перезагружаем свежую версию заказа.
		fresh, loadErr := s.repo.Get(id)
		if loadErr != nil {
			return domain.Order{}, loadErr
		}
		order = fresh

		select {
		case <-ctx.Done():
			return domain.Order{}, ctx.Err()
		case <-time.After(baseDelay * time.Duration(1<<uint(attempt))):
		}
	}

	return domain.Order{}, domain.ErrOrderVersionConflict
}

// releaseAfterFailure возвращает уже списанный сток, когда заказ не удалось
// довести до записи. Провал компенсации поднимается алертом.
func (s *Service) releaseAfterFailure(ctx context.Context, orderRef string, reserved []checkout.ReservedItem, cause error) {
	s.recordFailure(domain.CallerContext{}, cause)

	if err := s.reserver.Release(ctx, reserved); err != nil {
		var leak *domain.ReservationLeakError
		if errors.As(err, &leak) {
			s.publishStockAlert(orderRef, leak.ProductIDs, cause)
		}
		s.logger.WithError(err).WithField("order_ref", orderRef).
			Error("stock release after persist failure incomplete")
	}
}

func (s *Service) recordFailure(caller domain.CallerContext, err error) {
	if s.metrics != nil {
		s.metrics.RecordOrderFailed(failureReason(err))
	}

	var leak *domain.ReservationLeakError
	if errors.As(err, &leak) {
		// Утечка на этапе резервирования: заказа ещё нет, ссылаемся на владельца.
		s.publishStockAlert(caller.UserID, leak.ProductIDs, err)
	}
}

func (s *Service) publishOrderEvent(eventType kafka.EventType, order domain.Order) {
	if s.events == nil {
		return
	}
	event := kafka.NewOrderEvent(eventType, order.ID, order.OwnerID, string(order.Status), order.TotalMinor)
	if err := s.events.PublishOrderEvent(event); err != nil {
		// События best-effort: заказ уже создан/обновлён, оформление не прерываем.
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   order.ID,
		}).Warn("failed to publish order event")
	}
}

func (s *Service) publishStockAlert(orderRef string, productIDs []string, cause error) {
	if s.events == nil {
		return
	}
	alert := kafka.NewStockAlert(orderRef, productIDs, cause.Error())
	if err := s.events.PublishStockAlert(alert); err != nil {
		s.logger.WithError(err).WithField("order_ref", orderRef).
			Error("failed to publish stock alert")
	}
}

func validateItems(items []domain.ItemRequest) error {
	if len(items) == 0 {
		return domain.ErrLinesRequired
	}
	for _, item := range items {
		if item.ProductID == "" {
			return domain.ErrProductIDRequired
		}
		if item.Qty <= 0 {
			return domain.ErrLineQtyInvalid
		}
	}
	return nil
}

func failureReason(err error) string {
	var (
		notFound *domain.ProductNotFoundError
		stock    *domain.InsufficientStockError
		leak     *domain.ReservationLeakError
	)
	switch {
	case errors.As(err, &leak):
		return "reservation_leak"
	case errors.As(err, &notFound):
		return "product_not_found"
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return "catalog_unavailable"
	default:
		return "other"
	}
}
