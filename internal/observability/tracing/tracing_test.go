package tracing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/infrastructure/logger"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background(), logger.Discard(), Options{ServiceName: "medops"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.True(t, strings.Contains(Sampler(0).Description(), "AlwaysOnSampler"))
	assert.True(t, strings.Contains(Sampler(1).Description(), "AlwaysOnSampler"))
	assert.True(t, strings.Contains(Sampler(0.25).Description(), "TraceIDRatioBased{0.25}"))
}

func TestTracerName(t *testing.T) {
	assert.NotNil(t, Tracer("storage"))
}
