package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики конвейера оформления заказов.
type OrderMetrics struct {
	// Счётчики исходов оформления
	ordersCreated      prometheus.Counter
	validationRejected prometheus.Counter
	catalogRejected    prometheus.Counter
	totalMismatches    prometheus.Counter
	storeFailures      prometheus.Counter

	// Гистограммы времени выполнения
	submitDuration prometheus.Histogram
	lookupDuration prometheus.Histogram

	// Счётчик событий outbox
	outboxEvents prometheus.Counter
}

// NewOrderMetrics создаёт метрики в default-регистраторе Prometheus.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders accepted and persisted",
		}),
		validationRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_validation_rejected_total",
			Help: "Total number of submissions rejected by structural validation",
		}),
		catalogRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_catalog_rejected_total",
			Help: "Total number of submissions rejected by catalog resolution",
		}),
		totalMismatches: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_total_mismatch_total",
			Help: "Total number of submissions rejected by total reconciliation",
		}),
		storeFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_store_failures_total",
			Help: "Total number of order persistence failures",
		}),
		submitDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_submit_duration_seconds",
			Help:    "Duration of the full submit pipeline in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		lookupDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_catalog_lookup_duration_seconds",
			Help:    "Duration of the catalog fan-out in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_outbox_events_total",
			Help: "Total number of order events enqueued to the outbox",
		}),
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

// RecordOrderCreated увеличивает счётчик принятых заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordValidationRejected увеличивает счётчик отказов валидации.
func (m *OrderMetrics) RecordValidationRejected() {
	if m == nil {
		return
	}
	m.validationRejected.Inc()
}

// RecordCatalogRejected увеличивает счётчик отказов разрешения каталога.
func (m *OrderMetrics) RecordCatalogRejected() {
	if m == nil {
		return
	}
	m.catalogRejected.Inc()
}

// RecordTotalMismatch увеличивает счётчик расхождений суммы.
func (m *OrderMetrics) RecordTotalMismatch() {
	if m == nil {
		return
	}
	m.totalMismatches.Inc()
}

// RecordStoreFailure увеличивает счётчик сбоев хранилища.
func (m *OrderMetrics) RecordStoreFailure() {
	if m == nil {
		return
	}
	m.storeFailures.Inc()
}

// RecordSubmitDuration фиксирует длительность полного конвейера оформления.
func (m *OrderMetrics) RecordSubmitDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.submitDuration.Observe(d.Seconds())
}

// RecordLookupDuration фиксирует длительность fan-out по каталогу.
func (m *OrderMetrics) RecordLookupDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.lookupDuration.Observe(d.Seconds())
}

// RecordOutboxEvent увеличивает счётчик событий, поставленных в outbox.
func (m *OrderMetrics) RecordOutboxEvent() {
	if m == nil {
		return
	}
	m.outboxEvents.Inc()
}
