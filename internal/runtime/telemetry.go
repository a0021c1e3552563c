package runtime

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("marketin.runtime")
	meter  = otel.Meter("marketin.runtime")
)

// Event outcomes recorded on the events counter.
const (
	outcomeSent      = "sent"
	outcomeSkipped   = "skipped"
	outcomeDuplicate = "duplicate"
)

var (
	eventsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		eventsTotal, metricsErr = meter.Int64Counter(
			"marketin_events_total",
			metric.WithDescription("Tracking calls by event kind and outcome"),
		)
	})
	return metricsErr
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Client."+name, trace.WithAttributes(attrs...))
}

func recordEvent(ctx context.Context, span trace.Span, kind, outcome string) {
	span.SetAttributes(
		attribute.String("marketin.event.kind", kind),
		attribute.String("marketin.event.outcome", outcome),
	)
	if err := initMetrics(); err != nil {
		return
	}
	eventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}
