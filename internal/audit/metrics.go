package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments exported by the audit engine.
type Metrics struct {
	// Ingestion
	TransactionsSubmitted prometheus.Counter
	TransactionsRejected  prometheus.Counter
	QueueDepth            prometheus.Gauge

	// Packing
	TransactionsPacked    prometheus.Counter
	TransactionsOversized prometheus.Counter
	BatchesPerSubmission  prometheus.Histogram
	PackDuration          prometheus.Histogram

	// Delivery
	SubmissionsDelivered prometheus.Counter
	SinkFailures         prometheus.Counter

	// Workers
	WorkersActive   prometheus.Gauge
	TriggersDropped prometheus.Counter
}

// NewMetrics registers the audit instruments under namespace on reg. A nil
// registerer creates unregistered instruments, which keeps tests that build
// many engines from colliding on the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "transactions_submitted_total",
			Help:      "Total number of transactions accepted into the audit queue",
		}),
		TransactionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "transactions_rejected_total",
			Help:      "Total number of transactions refused by the audit engine",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "queue_depth",
			Help:      "Number of transactions waiting to be packed",
		}),
		TransactionsPacked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "transactions_packed_total",
			Help:      "Total number of transactions placed into batches",
		}),
		TransactionsOversized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "transactions_oversized_total",
			Help:      "Total number of transactions dropped for exceeding the batch value cap",
		}),
		BatchesPerSubmission: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "batches_per_submission",
			Help:      "Number of batches in each delivered submission",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		PackDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "pack_duration_seconds",
			Help:      "Time spent packing one drained slice",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		SubmissionsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "submissions_delivered_total",
			Help:      "Total number of submissions accepted by the sink",
		}),
		SinkFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "sink_failures_total",
			Help:      "Total number of submissions the sink failed to accept",
		}),
		WorkersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "workers_active",
			Help:      "Number of drain-and-pack workers currently running",
		}),
		TriggersDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "triggers_dropped_total",
			Help:      "Total number of triggers dropped because all worker permits were held",
		}),
	}
}
