// Package metrics defines the Prometheus metrics exported by netman.
//
// Metrics live on a package registry rather than the global default so tests
// and embedders get a predictable set. Naming follows Prometheus conventions:
// a netman_ prefix, _total for counters and a unit suffix for histograms.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every netman metric plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

var (
	// OperationsTotal counts broker invocations by runner, kind, operation and outcome.
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netman_operations_total",
			Help: "Total automation invocations by runner, kind, operation and success.",
		},
		[]string{"runner", "kind", "operation", "success"},
	)

	// OperationDurationSeconds is a histogram of invocation duration.
	OperationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netman_operation_duration_seconds",
			Help:    "Duration of automation invocations in seconds.",
			Buckets: []float64{.001, .01, .1, .5, 1, 5, 15, 60, 300},
		},
		[]string{"runner", "kind"},
	)

	// ProbesTotal counts connectivity probes by reachability.
	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netman_probes_total",
			Help: "Total device connectivity probes by reachability.",
		},
		[]string{"reachable"},
	)

	// ProbeLatencySeconds is a histogram of reported probe latency.
	ProbeLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netman_probe_latency_seconds",
			Help:    "Reported device probe latency in seconds.",
			Buckets: prometheus.LinearBuckets(.01, .01, 10),
		},
	)

	// DevicesReachable is the number of reachable devices seen by the last sweep.
	DevicesReachable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netman_devices_reachable",
			Help: "Reachable devices in the most recent status sweep.",
		},
	)
)

func init() {
	Registry.MustRegister(
		OperationsTotal,
		OperationDurationSeconds,
		ProbesTotal,
		ProbeLatencySeconds,
		DevicesReachable,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordOperation records one completed broker invocation.
func RecordOperation(runner, kind, operation string, success bool, duration time.Duration) {
	OperationsTotal.WithLabelValues(runner, kind, operation, strconv.FormatBool(success)).Inc()
	OperationDurationSeconds.WithLabelValues(runner, kind).Observe(duration.Seconds())
}

// RecordProbe records one connectivity probe.
func RecordProbe(reachable bool, latencyMs float64) {
	ProbesTotal.WithLabelValues(strconv.FormatBool(reachable)).Inc()
	ProbeLatencySeconds.Observe(latencyMs / 1000)
}

// RecordSweep records the reachable count of a full status sweep.
func RecordSweep(reachable int) {
	DevicesReachable.Set(float64(reachable))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
