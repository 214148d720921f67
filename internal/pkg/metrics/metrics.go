// Package metrics collects order settlement telemetry with Prometheus.
// Every Collector owns its registry, so tests can build as many as they like.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector provides order lifecycle metrics collection.
type Collector struct {
	registry *prometheus.Registry

	ordersCreated   *prometheus.CounterVec
	ordersSettled   *prometheus.CounterVec
	voucherOps      *prometheus.CounterVec
	paymentTotal    *prometheus.CounterVec
	paymentLatency  prometheus.Histogram
	notifications   *prometheus.CounterVec
	expiryScheduled prometheus.Gauge
}

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "catering"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of orders created",
		},
		[]string{"mode", "voucher"},
	)

	c.ordersSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "settled_total",
			Help:      "Total number of orders reaching a terminal status",
		},
		[]string{"status", "trigger"},
	)

	c.voucherOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vouchers",
			Name:      "operations_total",
			Help:      "Total number of voucher operations",
		},
		[]string{"operation", "result"},
	)

	c.paymentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "captures_total",
			Help:      "Total number of payment capture attempts",
		},
		[]string{"result"},
	)

	c.paymentLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "capture_duration_seconds",
			Help:      "Time taken by the payment gateway to answer a capture",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
	)

	c.notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Total number of order notifications by event",
		},
		[]string{"event", "result"},
	)

	c.expiryScheduled = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "expiry",
			Name:      "scheduled",
			Help:      "Number of armed order expiry timers",
		},
	)

	c.registry.MustRegister(
		c.ordersCreated,
		c.ordersSettled,
		c.voucherOps,
		c.paymentTotal,
		c.paymentLatency,
		c.notifications,
		c.expiryScheduled,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry to expose over HTTP.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordOrderCreated(mode string, withVoucher bool) {
	v := "none"
	if withVoucher {
		v = "redeemed"
	}
	c.ordersCreated.WithLabelValues(mode, v).Inc()
}

// RecordOrderSettled counts a terminal transition; trigger is "execute" or "expiry".
func (c *Collector) RecordOrderSettled(status, trigger string) {
	c.ordersSettled.WithLabelValues(status, trigger).Inc()
}

func (c *Collector) RecordVoucherOperation(operation string, err error) {
	c.voucherOps.WithLabelValues(operation, result(err)).Inc()
}

func (c *Collector) RecordPaymentCapture(duration time.Duration, paid bool, err error) {
	r := "paid"
	switch {
	case err != nil:
		r = "error"
	case !paid:
		r = "declined"
	}
	c.paymentTotal.WithLabelValues(r).Inc()
	c.paymentLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordNotification(event string, err error) {
	c.notifications.WithLabelValues(event, result(err)).Inc()
}

func (c *Collector) RecordExpiryScheduled(count int) {
	c.expiryScheduled.Set(float64(count))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
