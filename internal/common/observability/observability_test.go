package observability

import (
	"context"
	"testing"
	"time"

	"pro-discovery/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestObservability_RecordAndShutdown(t *testing.T) {
	obs := New("pro-discovery-test", zaptest.NewLogger(t))

	assert.NotPanics(t, func() {
		obs.Record(context.Background(), "search", "success", 12*time.Millisecond)
	})
	require.NoError(t, obs.Shutdown(context.Background()))
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	obs.Record(context.Background(), "facets", "success", time.Millisecond)
	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tracing, err := NewTracerProvider(config.TracingConfig{Enabled: false}, "pro-discovery", "test")
	require.NoError(t, err)

	_, span := tracing.Tracer().Start(context.Background(), "discovery.search")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	assert.NoError(t, tracing.Shutdown(context.Background()))
}
