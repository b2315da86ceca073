// Package telemetry installs the OpenTelemetry tracer provider and hands out
// named tracers to the generator, graph builder, path finder and agent.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "bspwalk"
	serviceVersion = "0.1.0"

	honeycombEndpoint = "api.honeycomb.io"
)

// Options controls Setup.
type Options struct {
	// Enabled exports spans over OTLP HTTP. When false every tracer is a no-op.
	Enabled bool
	// Logger receives internal OpenTelemetry errors.
	Logger logr.Logger

	// HoneycombAPIKey sends spans to Honeycomb unless an OTLP endpoint is
	// already set through OTEL_EXPORTER_OTLP_ENDPOINT.
	HoneycombAPIKey  string
	HoneycombDataset string
}

// Shutdown flushes pending spans and stops the provider.
type Shutdown func(context.Context) error

// Setup installs the global tracer provider described by opts. The exporter
// otherwise follows the standard OTEL_* environment variables.
func Setup(ctx context.Context, opts Options) (Shutdown, error) {
	otel.SetLogger(opts.Logger)

	if !opts.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, exporterOptions(opts, os.Getenv)...)
	if err != nil {
		return nil, err
	}

	// Schemaless so it never conflicts with the SDK's default schema URL
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(resourceAttributes()...)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the tracer for one component, e.g. Tracer("world").
func Tracer(component string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + component)
}

// exporterOptions points the exporter at Honeycomb when an API key is given.
func exporterOptions(opts Options, getenv func(string) string) []otlptracehttp.Option {
	if opts.HoneycombAPIKey == "" {
		return nil
	}
	headers := map[string]string{"x-honeycomb-team": opts.HoneycombAPIKey}
	if opts.HoneycombDataset != "" {
		headers["x-honeycomb-dataset"] = opts.HoneycombDataset
	}
	out := []otlptracehttp.Option{otlptracehttp.WithHeaders(headers)}
	if getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
		out = append(out, otlptracehttp.WithEndpoint(honeycombEndpoint))
	}
	return out
}

func resourceAttributes() []attribute.KeyValue {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return []attribute.KeyValue{
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
		attribute.String("host.name", host),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.name", "go"),
		attribute.String("process.runtime.version", runtime.Version()),
	}
}
