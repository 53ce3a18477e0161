package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config holds OpenTelemetry configuration.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	CollectorAddr  string
	SampleRatio    float64
}

// Telemetry holds the tracer provider and tracer.
type Telemetry struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	config   *Config
}

var globalTelemetry *Telemetry

// Init initializes OpenTelemetry. With Enabled=false a no-op tracer is
// installed so StartSpan stays safe to call everywhere.
func Init(ctx context.Context, cfg *Config) (*Telemetry, error) {
	if cfg == nil || !cfg.Enabled {
		name := ""
		if cfg != nil {
			name = cfg.ServiceName
		}
		globalTelemetry = &Telemetry{
			tracer: otel.Tracer(name),
			config: cfg,
		}
		return globalTelemetry, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.CollectorAddr),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	globalTelemetry = &Telemetry{
		provider: provider,
		tracer:   provider.Tracer(cfg.ServiceName),
		config:   cfg,
	}

	return globalTelemetry, nil
}

// Shutdown flushes and stops the tracer provider.
func Shutdown(ctx context.Context) error {
	if globalTelemetry != nil && globalTelemetry.provider != nil {
		return globalTelemetry.provider.Shutdown(ctx)
	}
	return nil
}

// Get returns the global telemetry instance.
func Get() *Telemetry {
	return globalTelemetry
}

// Tracer returns the tracer.
func (t *Telemetry) Tracer() trace.Tracer {
	return t.tracer
}

// StartSpan starts a span on the global tracer. Safe to call before Init.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if globalTelemetry == nil || globalTelemetry.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return globalTelemetry.tracer.Start(ctx, name, opts...)
}

// SpanFromContext returns the current span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
