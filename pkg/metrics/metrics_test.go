package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vitrine/pkg/metrics"
)

func TestObserveRequestAndDump(t *testing.T) {
	metrics.ObserveRequest("GET", "products.list", "200", time.Now().Add(-10*time.Millisecond))
	metrics.ObserveRequest("POST", "cart.add", "error", time.Now())

	out, err := metrics.Dump()
	require.NoError(t, err)

	assert.Contains(t, out, "vitrine_api_requests_total")
	assert.Contains(t, out, "vitrine_api_request_duration_seconds")
	assert.Contains(t, out, `operation="products.list"`)
	assert.Contains(t, out, `status="error"`)
}

func TestInFlightGauge(t *testing.T) {
	metrics.RequestInFlight.Inc()
	metrics.RequestInFlight.Dec()

	out, err := metrics.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "vitrine_api_requests_in_flight")
}
