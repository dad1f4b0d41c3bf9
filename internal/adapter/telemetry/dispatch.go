package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// dispatcher matches the registry's Dispatch method.
type dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error)
}

// Dispatcher wraps a tool dispatcher with a span and call metrics per
// dispatch.
type Dispatcher struct {
	next     dispatcher
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// WrapDispatcher instruments d. It uses the global providers, so it
// is a no-op pass-through until Setup has run.
func WrapDispatcher(d dispatcher) (*Dispatcher, error) {
	meter := otel.Meter("rigpilot/dispatch")
	calls, err := meter.Int64Counter("rigpilot.tool.calls",
		metric.WithDescription("Tool dispatch count"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("rigpilot.tool.duration",
		metric.WithDescription("Tool dispatch duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		next:     d,
		tracer:   otel.Tracer("rigpilot/dispatch"),
		calls:    calls,
		duration: duration,
	}, nil
}

// Dispatch runs the wrapped dispatch inside a span named after the tool.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	ctx, span := d.tracer.Start(ctx, "tool."+name,
		trace.WithAttributes(attribute.String("tool.name", name)))
	defer span.End()

	start := time.Now()
	result, err := d.next.Dispatch(ctx, name, args)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	attrs := metric.WithAttributes(
		attribute.String("tool.name", name),
		attribute.Bool("error", err != nil),
	)
	d.calls.Add(ctx, 1, attrs)
	d.duration.Record(ctx, elapsed, attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}
