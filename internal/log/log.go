// Package log provides the structured logging and tracing helpers used
// throughout wasmcrid: a context-scoped StartSpan paired with level-based
// Infof/Debugf/Warnf/Errorf calls, backed by logrus for the log record and
// OpenTelemetry for the span.
package log

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	logger = logrus.StandardLogger()
	tracer = otel.Tracer("github.com/wasmcri/wasmcrid")
)

// InitTracing points the process-wide tracer at an OTLP/gRPC collector
// reachable at endpoint (e.g. "localhost:4317") and returns a func that
// flushes and closes the exporter on shutdown. A caller that never invokes
// InitTracing gets the default no-op tracer, so StartSpan is always safe to
// call regardless of whether tracing is configured.
func InitTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create otlp trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName("wasmcrid"),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	tracer = provider.Tracer("github.com/wasmcri/wasmcrid")

	return provider.Shutdown, nil
}

// SetLevel configures the verbosity of the standard logger. An unknown level
// is rejected with an error and leaves the current level unchanged.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}

// StartSpan starts a tracing span named after the calling function and
// returns the derived context together with the span, so callers write the
// idiom `ctx, span := log.StartSpan(ctx); defer span.End()` at the top of
// every RPC method without having to name the span themselves.
func StartSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, callerName())
}

func callerName() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	name := fn.Name()
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// Debugf logs at debug level, annotated with the span's trace ID when present.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Debugf(format, args...)
}

// Infof logs at info level.
func Infof(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Infof(format, args...)
}

// Warnf logs at warn level.
func Warnf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Warnf(format, args...)
}

// Errorf logs at error level.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Errorf(format, args...)
}

func entryFor(ctx context.Context) *logrus.Entry {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return logrus.NewEntry(logger)
	}
	return logger.WithField("trace_id", span.TraceID().String())
}
