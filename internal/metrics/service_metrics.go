package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServiceMetrics содержит метрики доменных операций.
type ServiceMetrics struct {
	// Счётчики операций клиентов
	customersCreated prometheus.Counter
	customersUpdated prometheus.Counter
	customersDeleted prometheus.Counter

	// Счётчики операций заказов
	ordersCreated  prometheus.Counter
	ordersFinished prometheus.Counter
	ordersCanceled prometheus.Counter
	commentsAdded  prometheus.Counter

	// Гистограмма времени выполнения операций
	operationDuration *prometheus.HistogramVec

	// Счётчики событий timeline и outbox
	timelineEvents prometheus.Counter
	outboxEvents   prometheus.Counter

	// Gauge для открытых заказов
	openOrders prometheus.Gauge
}

// NewServiceMetrics создаёт новый экземпляр доменных метрик.
func NewServiceMetrics() *ServiceMetrics {
	return newServiceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newServiceMetricsWithRegisterer(registerer prometheus.Registerer) *ServiceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ServiceMetrics{
		customersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_customers_created_total",
			Help: "Total number of customers created",
		}),
		customersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_customers_updated_total",
			Help: "Total number of customers updated",
		}),
		customersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_customers_deleted_total",
			Help: "Total number of customers deleted",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_service_orders_created_total",
			Help: "Total number of service orders created",
		}),
		ordersFinished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_service_orders_finished_total",
			Help: "Total number of service orders finished",
		}),
		ordersCanceled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_service_orders_canceled_total",
			Help: "Total number of service orders canceled",
		}),
		commentsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_service_order_comments_total",
			Help: "Total number of comments added to service orders",
		}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "soms_operation_duration_seconds",
			Help:    "Duration of domain operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_timeline_events_total",
			Help: "Total number of timeline events recorded",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "soms_outbox_events_total",
			Help: "Total number of outbox events enqueued",
		}),
		openOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "soms_open_service_orders",
			Help: "Number of service orders currently in OPEN status",
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

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
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

// RecordCustomerCreated увеличивает счётчик созданных клиентов.
func (m *ServiceMetrics) RecordCustomerCreated() {
	m.customersCreated.Inc()
}

// RecordCustomerUpdated увеличивает счётчик обновлённых клиентов.
func (m *ServiceMetrics) RecordCustomerUpdated() {
	m.customersUpdated.Inc()
}

// RecordCustomerDeleted увеличивает счётчик удалённых клиентов.
func (m *ServiceMetrics) RecordCustomerDeleted() {
	m.customersDeleted.Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов и число открытых.
func (m *ServiceMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
	m.openOrders.Inc()
}

// RecordOrderFinished увеличивает счётчик завершённых заказов.
func (m *ServiceMetrics) RecordOrderFinished() {
	m.ordersFinished.Inc()
	m.openOrders.Dec()
}

// RecordOrderCanceled увеличивает счётчик отменённых заказов.
func (m *ServiceMetrics) RecordOrderCanceled() {
	m.ordersCanceled.Inc()
	m.openOrders.Dec()
}

// RecordCommentAdded увеличивает счётчик комментариев.
func (m *ServiceMetrics) RecordCommentAdded() {
	m.commentsAdded.Inc()
}

// RecordOperationDuration записывает время выполнения доменной операции.
func (m *ServiceMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *ServiceMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *ServiceMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
