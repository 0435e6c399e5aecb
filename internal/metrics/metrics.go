package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Metrics records business and HTTP metrics. A nil *Metrics records nothing.
type Metrics struct {
	ordersPlaced  prometheus.Counter
	orderRevenue  prometheus.Counter
	orderRejected *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prolens",
			Name:      "orders_placed_total",
			Help:      "Orders committed by checkout.",
		}),
		orderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prolens",
			Name:      "order_amount_total",
			Help:      "Sum of total_amount over placed orders.",
		}),
		orderRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prolens",
			Name:      "orders_rejected_total",
			Help:      "Checkouts rolled back, by error code.",
		}, []string{"code"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prolens",
			Name:      "order_status_changes_total",
			Help:      "Admin status updates, by kind and target status.",
		}, []string{"kind", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prolens",
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "prolens",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.ordersPlaced,
		m.orderRevenue,
		m.orderRejected,
		m.statusChanges,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// OrderPlaced counts a committed order.
func (m *Metrics) OrderPlaced(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderRevenue.Add(total.InexactFloat64())
}

// OrderRejected counts a rolled back checkout.
func (m *Metrics) OrderRejected(code string) {
	if m == nil {
		return
	}
	m.orderRejected.WithLabelValues(code).Inc()
}

// StatusChanged counts an applied admin transition. kind is "status" or "payment".
func (m *Metrics) StatusChanged(kind, status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(kind, status).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
