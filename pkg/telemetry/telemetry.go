package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StoreOps counts low-level store operations by kind.
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdfeed_store_ops_total",
			Help: "Store operations by kind.",
		},
		[]string{"op"},
	)

	// FanoutWrites counts individual index writes applied through batches.
	FanoutWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "birdfeed_fanout_writes_total",
			Help: "Derived index writes applied through atomic batches.",
		},
	)

	// Notifications counts fan-out notifications by type.
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdfeed_notifications_total",
			Help: "Notifications written, by type.",
		},
		[]string{"type"},
	)

	// OpDuration observes service-level operation latency.
	OpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "birdfeed_op_duration_seconds",
			Help:    "Service operation duration.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(StoreOps)
	prometheus.MustRegister(FanoutWrites)
	prometheus.MustRegister(Notifications)
	prometheus.MustRegister(OpDuration)
}

// Observe records the duration of op since start.
func Observe(op string, start time.Time) {
	OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
