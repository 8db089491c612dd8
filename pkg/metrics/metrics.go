// Package metrics provides Prometheus instrumentation for outgoing backend
// calls.
//
// The storefront client records a duration histogram, a total counter and an
// in-flight gauge for every request it makes. There is no scrape endpoint —
// this is a client, not a server — so `vitrine metrics` dumps the gathered
// families in the standard text exposition format instead.
package metrics

import (
	"bytes"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	// RequestDuration tracks how long each backend call takes,
	// broken down by method, operation and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vitrine",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend API requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "operation", "status"},
	)

	// RequestTotal counts all backend calls.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitrine",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of backend API requests.",
		},
		[]string{"method", "operation", "status"},
	)

	// RequestInFlight tracks concurrently outstanding backend calls.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vitrine",
		Subsystem: "api",
		Name:      "requests_in_flight",
		Help:      "Number of backend API requests currently in flight.",
	})
)

// DefaultRegistry is the Prometheus registry used by the client.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
	)
}

// ObserveRequest records one completed backend call.
// status is the HTTP status code as a string, or "error" for transport
// failures that never produced a response.
func ObserveRequest(method, operation, status string, start time.Time) {
	elapsed := time.Since(start).Seconds()
	RequestDuration.WithLabelValues(method, operation, status).Observe(elapsed)
	RequestTotal.WithLabelValues(method, operation, status).Inc()
}

// Dump renders every gathered metric family in the Prometheus text format.
func Dump() (string, error) {
	families, err := DefaultRegistry.Gather()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, fam := range families {
		if err := enc.Encode(fam); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
