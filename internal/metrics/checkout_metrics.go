package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики workflow оформления заказа.
type CheckoutMetrics struct {
	// Счётчики заказов
	ordersCreated prometheus.Counter
	ordersFailed  *prometheus.CounterVec

	// Счётчики работы со стоком
	reservations     prometheus.Counter
	compensations    prometheus.Counter
	reservationLeaks prometheus.Counter

	// Гистограммы времени выполнения
	checkoutDuration    prometheus.Histogram
	catalogCallDuration *prometheus.HistogramVec
}

// NewCheckoutMetrics создаёт новый экземпляр метрик checkout.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_created_total",
			Help: "Total number of orders successfully created",
		}),
		ordersFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_failed_total",
			Help: "Total number of order creations failed grouped by reason",
		}, []string{"reason"}),
		reservations: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_stock_reservations_total",
			Help: "Total number of successful remote stock reservations",
		}),
		compensations: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_stock_compensations_total",
			Help: "Total number of stock restore calls issued during rollback",
		}),
		reservationLeaks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_stock_reservation_leaks_total",
			Help: "Total number of reservations the rollback could not restore",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Duration of the whole order creation workflow in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		catalogCallDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "checkout_catalog_call_duration_seconds",
			Help:    "Duration of remote catalog calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"op"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик успешно созданных заказов.
func (m *CheckoutMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderFailed увеличивает счётчик неудачных оформлений с причиной.
func (m *CheckoutMetrics) RecordOrderFailed(reason string) {
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// RecordReservation увеличивает счётчик успешных списаний стока.
func (m *CheckoutMetrics) RecordReservation() {
	m.reservations.Inc()
}

// RecordCompensation увеличивает счётчик компенсирующих возвратов.
func (m *CheckoutMetrics) RecordCompensation() {
	m.compensations.Inc()
}

// RecordReservationLeak увеличивает счётчик невозвращённых резервов.
func (m *CheckoutMetrics) RecordReservationLeak() {
	m.reservationLeaks.Inc()
}

// RecordCheckoutDuration записывает время полного оформления заказа.
func (m *CheckoutMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordCatalogCall записывает время вызова каталога по типу операции.
func (m *CheckoutMetrics) RecordCatalogCall(op string, duration time.Duration) {
	m.catalogCallDuration.WithLabelValues(op).Observe(duration.Seconds())
}
