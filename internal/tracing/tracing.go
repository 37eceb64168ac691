// Package tracing installs the global OpenTelemetry tracer provider used by
// the otelhttp server and client wrappers.
package tracing

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type Options struct {
	ServiceName string
	// Endpoint is an OTLP gRPC collector address. Empty means spans are
	// sampled and propagated but not exported.
	Endpoint string
	Insecure bool
}

// Setup registers the provider and the W3C propagators. The returned func
// flushes and stops it.
func Setup(ctx context.Context, opts Options, log *zap.Logger) (func(context.Context) error, error) {
	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))),
	}

	if opts.Endpoint != "" {
		exOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			exOpts = append(exOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, exOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "create trace exporter")
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
		log.Info("tracing enabled", zap.String("otlp_endpoint", opts.Endpoint))
	} else {
		log.Info("tracing enabled (no exporter configured)")
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}
