package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ExporterConfig configures the optional OTLP/gRPC trace exporter. A zero
// Recorder never dials anything -- wiring this in is an explicit opt-in
// step, never a requirement to run the solver (spec.md §6's telemetry
// surface is informative, not load-bearing).
type ExporterConfig struct {
	Endpoint string // e.g. "localhost:4317"
	Insecure bool
}

// NewTracerProvider dials endpoint and returns an sdktrace.TracerProvider
// exporting spans over OTLP/gRPC; callers must call Shutdown(ctx) on the
// returned provider before exiting to flush pending spans.
func NewTracerProvider(ctx context.Context, cfg ExporterConfig) (*sdktrace.TracerProvider, error) {
	dialOpts := []grpc.DialOption{grpc.WithBlock()}
	if cfg.Insecure {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.DialContext(ctx, cfg.Endpoint, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial OTLP collector at %s: %w", cfg.Endpoint, err)
	}

	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(otlptracegrpc.WithGRPCConn(conn)))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName("vrp-solver"),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
