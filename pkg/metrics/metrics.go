// Package metrics exposes storefront counters on a dedicated prometheus
// registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brewbuddy"

type Metrics struct {
	registry *prometheus.Registry

	OrdersPlaced  *prometheus.CounterVec
	OrderRevenue  prometheus.Counter
	StatusChanges *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed, by order type.",
		}, []string{"order_type"}),
		OrderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_dollars_total",
			Help:      "Sum of order totals including tax.",
		}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Order status transitions, by new status.",
		}, []string{"status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OrdersPlaced,
		m.OrderRevenue,
		m.StatusChanges,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// TrackSessions reports the number of running session actors. Call it once.
func (m *Metrics) TrackSessions(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Session actors currently running.",
	}, func() float64 { return float64(count()) }))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderPlaced and OrderStatusChanged make Metrics an orders.Sink.
func (m *Metrics) OrderPlaced(_ context.Context, _ string, order models.Order) error {
	m.OrdersPlaced.WithLabelValues(string(order.OrderType)).Inc()
	m.OrderRevenue.Add(order.TotalAmount.InexactFloat64())
	return nil
}

func (m *Metrics) OrderStatusChanged(_ context.Context, _ string, order models.Order, _ models.OrderStatus) error {
	m.StatusChanges.WithLabelValues(string(order.Status)).Inc()
	return nil
}
