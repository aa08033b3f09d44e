package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"atscheck/internal/errors"
	"atscheck/internal/pipeline"
	"atscheck/internal/semantic"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds the application's instruments.
type Metrics struct {
	AnalysesTotal    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	FindingsTotal    metric.Int64Counter
	KnockoutRisk     metric.Int64Counter

	SemanticRequests metric.Int64Counter
	SemanticDuration metric.Float64Histogram
	SemanticTokens   metric.Int64Histogram

	RateLimitHits metric.Int64Counter
}

// Manager owns the OpenTelemetry providers. A nil or disabled Manager
// records nothing.
type Manager struct {
	settings         Settings
	logger           *errors.Logger
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	prometheusServer *http.Server
}

// NewManager sets up tracing and metrics according to settings.
func NewManager(settings Settings, logger *errors.Logger) (*Manager, error) {
	om := &Manager{settings: settings, logger: logger}
	if !settings.Enabled {
		return om, nil
	}

	res, err := om.newResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	if settings.Tracing {
		if err := om.initTracing(res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if settings.Metrics {
		readers, err := om.setupMetricReaders()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		if err := om.initMetrics(res, readers...); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	logger.Info("Observability initialized",
		"service", settings.ServiceName,
		"tracing", settings.Tracing,
		"metrics", settings.Metrics,
		"prometheus", settings.Prometheus.Enabled,
		"otlp", settings.OTLP.Enabled)
	return om, nil
}

// newResource describes this process to exporters.
func (om *Manager) newResource() (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(om.settings.ServiceName),
		semconv.ServiceVersion(om.settings.ServiceVersion),
	}
	if om.settings.ServiceInstance != "" {
		attrs = append(attrs, attribute.String("service.instance.id", om.settings.ServiceInstance))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
}

// initTracing sets up the tracer provider. Spans go to the console, to OTLP,
// or nowhere.
func (om *Manager) initTracing(res *resource.Resource) error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.settings.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if om.settings.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.settings.OTLP.Enabled:
		exporter, err = om.createOTLPExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(om.settings.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// setupMetricReaders builds one reader per enabled exporter.
func (om *Manager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if om.settings.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.settings.CollectionInterval)))
	}

	if om.settings.OTLP.Enabled {
		reader, err := om.createOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if om.settings.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(om.settings.Prometheus)
		if err != nil {
			return nil, err
		}
		readers = append(readers, reader)
		om.prometheusServer = StartPrometheusServer(mux, om.settings.Prometheus.Port, om.logger)
		if om.prometheusServer != nil {
			om.shutdownFuncs = append(om.shutdownFuncs, om.prometheusServer.Shutdown)
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

// initMetrics creates the meter provider and instruments.
func (om *Manager) initMetrics(res *resource.Resource, readers ...sdkmetric.Reader) error {
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(opts...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(om.settings.ServiceName))
	if err != nil {
		return err
	}
	om.metrics = metrics
	return nil
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AnalysesTotal, err = meter.Int64Counter("atscheck_analyses_total",
		metric.WithDescription("Total number of resume analyses")); err != nil {
		return nil, fmt.Errorf("failed to create analyses metric: %w", err)
	}
	if m.AnalysisDuration, err = meter.Float64Histogram("atscheck_analysis_duration_seconds",
		metric.WithDescription("Time spent running the analysis pipeline"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create analysis duration metric: %w", err)
	}
	if m.FindingsTotal, err = meter.Int64Counter("atscheck_findings_total",
		metric.WithDescription("Findings reported, by severity")); err != nil {
		return nil, fmt.Errorf("failed to create findings metric: %w", err)
	}
	if m.KnockoutRisk, err = meter.Int64Counter("atscheck_knockout_risk_total",
		metric.WithDescription("Analyses by knockout risk level")); err != nil {
		return nil, fmt.Errorf("failed to create knockout risk metric: %w", err)
	}
	if m.SemanticRequests, err = meter.Int64Counter("atscheck_semantic_requests_total",
		metric.WithDescription("Semantic match attempts, by status")); err != nil {
		return nil, fmt.Errorf("failed to create semantic request metric: %w", err)
	}
	if m.SemanticDuration, err = meter.Float64Histogram("atscheck_semantic_duration_seconds",
		metric.WithDescription("Time spent waiting on the semantic provider"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create semantic duration metric: %w", err)
	}
	if m.SemanticTokens, err = meter.Int64Histogram("atscheck_semantic_token_usage",
		metric.WithDescription("Token usage for semantic matches (input, output, total)"),
		metric.WithUnit("tokens")); err != nil {
		return nil, fmt.Errorf("failed to create semantic token metric: %w", err)
	}
	if m.RateLimitHits, err = meter.Int64Counter("atscheck_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits")); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}
	return m, nil
}

func (om *Manager) enabled() bool {
	return om != nil && om.metrics != nil
}

// RecordAnalysis records one pipeline run. source names the entry point
// (cli, http, mcp, watch).
func (om *Manager) RecordAnalysis(ctx context.Context, source string, report *pipeline.Report, elapsed time.Duration, err error) {
	if !om.enabled() {
		return
	}
	m := om.metrics
	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.Bool("success", err == nil),
	}
	if report != nil {
		attrs = append(attrs, attribute.Bool("has_job", report.HasJob))
	}
	m.AnalysesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.AnalysisDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))

	if report == nil {
		return
	}
	for severity, n := range report.Summary.Severity {
		m.FindingsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("severity", string(severity))))
	}
	if report.KnockoutRisk != nil {
		m.KnockoutRisk.Add(ctx, 1, metric.WithAttributes(attribute.String("risk", string(report.KnockoutRisk.Risk))))
	}
}

// SemanticObserver returns a hook for semantic.Service.WithObserver.
func (om *Manager) SemanticObserver() semantic.Observer {
	return func(ctx context.Context, res semantic.Result, elapsed time.Duration) {
		if !om.enabled() {
			return
		}
		m := om.metrics
		attrs := []attribute.KeyValue{
			attribute.String("status", string(res.Status)),
			attribute.String("provider", res.Provider),
			attribute.String("model", res.Model),
		}
		m.SemanticRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
		m.SemanticDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))

		if res.TokenUsage == nil {
			return
		}
		for _, tt := range []struct {
			tokenType string
			value     int64
		}{
			{"input", res.TokenUsage.InputTokens},
			{"output", res.TokenUsage.OutputTokens},
			{"total", res.TokenUsage.TotalTokens},
		} {
			m.SemanticTokens.Record(ctx, tt.value, metric.WithAttributes(
				attribute.String("model", res.Model),
				attribute.String("token_type", tt.tokenType)))
		}
	}
}

// RecordRateLimitHit counts a rejected request. by is "ip" or "api_key".
func (om *Manager) RecordRateLimitHit(ctx context.Context, by string) {
	if !om.enabled() {
		return
	}
	om.metrics.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("by", by)))
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (om *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if om == nil || !om.settings.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	opts := []otelhttp.Option{}
	if om.tracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(om.tracerProvider))
	}
	if om.meterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(om.meterProvider))
	}
	return otelhttp.NewMiddleware(om.settings.ServiceName, opts...)
}

// Tracer returns a tracer for the service
func (om *Manager) Tracer(name string) oteltrace.Tracer {
	if om == nil || om.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown flushes exporters and stops the metrics server.
func (om *Manager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// createOTLPExporter creates an OTLP HTTP trace exporter
func (om *Manager) createOTLPExporter() (trace.SpanExporter, error) {
	otlpConfig := om.settings.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

// createOTLPMetricsReader creates an OTLP HTTP metrics reader
func (om *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	otlpConfig := om.settings.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.settings.CollectionInterval)), nil
}
