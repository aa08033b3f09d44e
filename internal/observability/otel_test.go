package observability

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atscheck/internal/config"
	"atscheck/internal/errors"
	"atscheck/internal/findings"
	"atscheck/internal/knockout"
	"atscheck/internal/pipeline"
	"atscheck/internal/semantic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

var testLogger = errors.NewLoggerTo(io.Discard, slog.LevelError)

func newTestManager(t *testing.T) (*Manager, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	om := &Manager{
		settings: Settings{Enabled: true, ServiceName: "atscheck-test", Metrics: true},
		logger:   testLogger,
	}
	require.NoError(t, om.initMetrics(resource.Empty(), reader))
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestDisabledManagerIsNoop(t *testing.T) {
	om, err := NewManager(Settings{Enabled: false}, testLogger)
	require.NoError(t, err)

	ctx := context.Background()
	om.RecordAnalysis(ctx, "cli", &pipeline.Report{}, time.Second, nil)
	om.SemanticObserver()(ctx, semantic.Result{}, time.Second)
	om.RecordRateLimitHit(ctx, "ip")
	assert.NotNil(t, om.Tracer("test"))
	assert.NoError(t, om.Shutdown(ctx))

	var nilManager *Manager
	nilManager.RecordAnalysis(ctx, "cli", nil, 0, nil)
	assert.NoError(t, nilManager.Shutdown(ctx))
}

func TestRecordAnalysis(t *testing.T) {
	om, reader := newTestManager(t)
	report := &pipeline.Report{
		HasJob:       true,
		KnockoutRisk: &knockout.RiskResult{Risk: knockout.RiskHigh},
		Summary: findings.Summary{
			Total:    3,
			Severity: map[findings.Severity]int{findings.SeverityCritical: 1, findings.SeverityHigh: 2},
		},
	}

	om.RecordAnalysis(context.Background(), "cli", report, 120*time.Millisecond, nil)

	data := collect(t, reader)
	assert.EqualValues(t, 1, sumOf(t, data["atscheck_analyses_total"]))
	assert.EqualValues(t, 3, sumOf(t, data["atscheck_findings_total"]))
	assert.EqualValues(t, 1, sumOf(t, data["atscheck_knockout_risk_total"]))

	hist, ok := data["atscheck_analysis_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.EqualValues(t, 1, hist.DataPoints[0].Count)
}

func TestSemanticObserverRecordsTokens(t *testing.T) {
	om, reader := newTestManager(t)
	observe := om.SemanticObserver()

	observe(context.Background(), semantic.Result{
		Status:     semantic.StatusComplete,
		Provider:   "gemini",
		Model:      "gemini-2.0-flash",
		TokenUsage: &semantic.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, 2*time.Second)
	observe(context.Background(), semantic.Result{Status: semantic.StatusFailed}, time.Second)

	data := collect(t, reader)
	assert.EqualValues(t, 2, sumOf(t, data["atscheck_semantic_requests_total"]))

	tokens, ok := data["atscheck_semantic_token_usage"].(metricdata.Histogram[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range tokens.DataPoints {
		total += dp.Sum
	}
	assert.EqualValues(t, 30, total)
}

func TestRecordRateLimitHit(t *testing.T) {
	om, reader := newTestManager(t)
	om.RecordRateLimitHit(context.Background(), "ip")
	om.RecordRateLimitHit(context.Background(), "api_key")

	assert.EqualValues(t, 2, sumOf(t, collect(t, reader)["atscheck_rate_limit_hits_total"]))
}

func TestHTTPMiddlewarePassesThroughWhenDisabled(t *testing.T) {
	var om *Manager
	handler := om.HTTPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestSettingsFromDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true

	s := SettingsFrom(cfg, "1.2.3")
	assert.Equal(t, "atscheck", s.ServiceName)
	assert.Equal(t, "1.2.3", s.ServiceVersion)
	assert.Equal(t, 15*time.Second, s.CollectionInterval)
}

func TestPrometheusConfigDefaults(t *testing.T) {
	def := GetPrometheusConfig(nil)
	assert.True(t, def.Enabled)
	assert.Equal(t, "/metrics", def.Endpoint)
	assert.Equal(t, "9464", def.Port)

	reader, mux, err := SetupPrometheusExporter(PrometheusConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, reader)
	assert.Nil(t, mux)
	assert.Nil(t, StartPrometheusServer(nil, "9464", nil))
}
