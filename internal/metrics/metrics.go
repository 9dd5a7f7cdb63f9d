// Package metrics exposes a dedicated Prometheus registry for the ALNS
// driver (§12), separate from the default registry so an embedding
// program's own metrics don't collide with these.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for run metrics.
	Registry = prometheus.NewRegistry()

	// Iterations counts ALNS iterations executed, labeled by instance and
	// incremented once per iteration so long runs don't wait until the end.
	Iterations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "alns_iterations_total", Help: "ALNS iterations executed."},
		[]string{"instance"},
	)
	// Acceptances counts trial outcomes by acceptance class.
	Acceptances = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "alns_acceptances_total", Help: "ALNS trial outcomes by class."},
		[]string{"instance", "class"}, // "best", "improve", "sa_accept", "reject"
	)
	// OperatorSelections counts how often each destroy/insertion operator
	// is chosen by the roulette-wheel selector.
	OperatorSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "alns_operator_selections_total", Help: "Operator selections by catalog and id."},
		[]string{"catalog", "operator"}, // catalog: "destroy" or "insertion"
	)
	// RunDuration records wall-clock run duration in seconds.
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "alns_run_duration_seconds", Help: "ALNS run duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"instance", "status"},
	)
	// WebhookDeliveries counts webhook delivery outcomes by event type and status.
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
		[]string{"event_type", "status"},
	)
	// WebhookLatency tracks webhook delivery latencies in milliseconds.
	WebhookLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "webhook_delivery_latency_ms", Help: "Webhook delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
		[]string{"event_type", "status"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector to Registry, plus the
// standard Go/process collectors.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Iterations)
		Registry.MustRegister(Acceptances)
		Registry.MustRegister(OperatorSelections)
		Registry.MustRegister(RunDuration)
		Registry.MustRegister(WebhookDeliveries)
		Registry.MustRegister(WebhookLatency)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
