package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestInitMetrics_RegistersAllInstruments(t *testing.T) {
	meter := sdkmetric.NewMeterProvider().Meter("test")

	require.NoError(t, InitMetrics(meter))

	assert.NotNil(t, httpServerRequestTotal)
	assert.NotNil(t, httpServerDuration)
	assert.NotNil(t, httpServerRequestSize)
	assert.NotNil(t, httpServerResponseSize)
	assert.NotNil(t, httpServerActiveRequests)
}
