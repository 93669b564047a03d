package trace

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Exporter kinds accepted by ExporterConfig.Exporter.
const (
	ExporterOTLPHTTP = "otlp-http"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterFile     = "file"
)

// ExporterConfig selects where finished session traces go.
type ExporterConfig struct {
	Enabled     bool
	Exporter    string // otlp-http (default), otlp-grpc or file
	Endpoint    string
	File        string
	ServiceName string
	Insecure    bool
}

// OTLPExporter exports session traces through an OpenTelemetry span
// exporter.
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	closer   io.Closer
}

// NewOTLPExporter creates the exporter cfg asks for. It returns nil when
// tracing is disabled and OTEL_EXPORTER_OTLP_ENDPOINT is unset.
func NewOTLPExporter(ctx context.Context, cfg ExporterConfig) (*OTLPExporter, error) {
	endpoint := cfg.Endpoint
	if env := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); env != "" {
		endpoint = env
		cfg.Enabled = true
	}
	if !cfg.Enabled {
		return nil, nil
	}
	service := serviceName(cfg.ServiceName)

	switch cfg.Exporter {
	case ExporterFile:
		if cfg.File == "" {
			return nil, fmt.Errorf("tracing file exporter: file is required")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // G304: user-configured trace path
		if err != nil {
			return nil, fmt.Errorf("opening trace file: %w", err)
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating file exporter: %w", err)
		}
		e := NewExporter(exp, service)
		e.closer = f
		return e, nil

	case ExporterOTLPGRPC:
		if endpoint == "" {
			return nil, nil
		}
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating otlp grpc exporter: %w", err)
		}
		return NewExporter(exp, service), nil

	case "", ExporterOTLPHTTP:
		if endpoint == "" {
			return nil, nil
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		return NewExporter(exp, service), nil
	}
	return nil, fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
}

// NewExporter wraps any span exporter, batching spans to it.
func NewExporter(exp sdktrace.SpanExporter, service string) *OTLPExporter {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(service),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer("panelshell/panel"),
	}
}

func serviceName(configured string) string {
	if env := os.Getenv("OTEL_SERVICE_NAME"); env != "" {
		return env
	}
	if configured != "" {
		return configured
	}
	return "panelshell"
}

// ExportTrace exports t with its original timing under its trace id.
func (e *OTLPExporter) ExportTrace(ctx context.Context, t *Trace) error {
	if e == nil || t.RootSpan == nil {
		return nil
	}
	traceID, err := hexToTraceID(t.ID)
	if err != nil {
		return err
	}
	root := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: oteltrace.FlagsSampled,
	})
	e.exportSpan(oteltrace.ContextWithSpanContext(ctx, root), t.RootSpan)
	return nil
}

func (e *OTLPExporter) exportSpan(ctx context.Context, span *Span) {
	spanCtx, s := e.tracer.Start(ctx, span.Name, oteltrace.WithTimestamp(span.StartTime))
	attrs := make([]attribute.KeyValue, 0, len(span.Attributes))
	for k, v := range span.Attributes {
		attrs = append(attrs, attribute.String("panelshell."+k, v))
	}
	s.SetAttributes(attrs...)

	for _, child := range span.Children {
		e.exportSpan(spanCtx, child)
	}
	s.End(oteltrace.WithTimestamp(span.End()))
}

func hexToTraceID(s string) (oteltrace.TraceID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return oteltrace.TraceID{}, fmt.Errorf("trace id %q: %w", s, err)
	}
	if len(b) != 16 {
		return oteltrace.TraceID{}, fmt.Errorf("trace id %q: want 16 bytes, got %d", s, len(b))
	}
	var id oteltrace.TraceID
	copy(id[:], b)
	return id, nil
}

// Shutdown flushes and closes the exporter.
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	err := e.provider.Shutdown(ctx)
	if e.closer != nil {
		if cerr := e.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
