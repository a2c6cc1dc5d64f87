package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События заказа
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"

	// Алерты по стоку
	EventTypeReservationLeak EventType = "stock.reservation_leak"
)

// Topics для Kafka
const (
	TopicOrderEvents = "checkout.order.events"
	TopicStockAlerts = "checkout.stock.alerts"
)

// OrderEvent представляет событие жизненного цикла заказа.
type OrderEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	OwnerID    string    `json:"owner_id"`
	Status     string    `json:"status"`
	TotalMinor int64     `json:"total_minor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// StockAlert сигнализирует о невозвращённых резервах: по перечисленным
// товарам сток был списан, а компенсация не прошла.
type StockAlert struct {
	EventType  EventType `json:"event_type"`
	OrderRef   string    `json:"order_ref"`
	ProductIDs []string  `json:"product_ids"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа.
func NewOrderEvent(eventType EventType, orderID, ownerID, status string, totalMinor int64) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		OwnerID:    ownerID,
		Status:     status,
		TotalMinor: totalMinor,
		Timestamp:  time.Now(),
	}
}

// NewStockAlert создает алерт по невозвращённым резервам.
func NewStockAlert(orderRef string, productIDs []string, reason string) *StockAlert {
	return &StockAlert{
		EventType:  EventTypeReservationLeak,
		OrderRef:   orderRef,
		ProductIDs: productIDs,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}
