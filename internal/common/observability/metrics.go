// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// Observability holds the otel meter instruments shared by the API and the workers.
type Observability struct {
	meterProvider *metric.MeterProvider
	requests      otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
}

// New registers an otel meter provider backed by the Prometheus exporter.
// On exporter failure it returns a no-op value.
func New(serviceName string, log *zap.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", zap.Error(err))
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requests, _ := meter.Int64Counter(
		"discovery.requests",
		otelmetric.WithDescription("Number of discovery operations"),
	)
	duration, _ := meter.Float64Histogram(
		"discovery.duration",
		otelmetric.WithDescription("Discovery operation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		requests:      requests,
		duration:      duration,
	}
}

// Record counts one operation and its duration.
func (o *Observability) Record(ctx context.Context, operation, outcome string, elapsed time.Duration) {
	if o == nil || o.requests == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	o.requests.Add(ctx, 1, attrs)
	o.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
