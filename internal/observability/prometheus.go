package observability

import (
	"fmt"
	"net/http"
	"time"

	"atscheck/internal/config"
	"atscheck/internal/errors"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig holds Prometheus-specific configuration
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// SetupPrometheusExporter creates a Prometheus metric reader and the mux
// serving it.
func SetupPrometheusExporter(config PrometheusConfig) (metric.Reader, *http.ServeMux, error) {
	if !config.Enabled {
		return nil, nil, nil
	}

	// The exporter doubles as an OTel metric reader
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	// Scrape path defaults to the Prometheus convention
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}
	mux := http.NewServeMux()
	// promhttp serves the default registry, which the OTel exporter registers to.
	mux.Handle(endpoint, promhttp.Handler())

	return exporter, mux, nil
}

// StartPrometheusServer serves mux on the loopback interface in the
// background. The returned server is nil when mux is nil.
func StartPrometheusServer(mux *http.ServeMux, port string, logger *errors.Logger) *http.Server {
	if mux == nil {
		return nil
	}

	// Metrics are served on loopback only
	addr := "127.0.0.1:" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Serve in the background; errors after startup are only logged
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogError(err, "Prometheus server error", "addr", addr)
		}
	}()
	logger.Info("Prometheus metrics server started", "addr", "http://"+addr)

	return server
}

// GetPrometheusConfig creates Prometheus configuration from provided config
func GetPrometheusConfig(cfg *config.Config) PrometheusConfig {
	if cfg != nil {
		return PrometheusConfig{
			Enabled:  cfg.Observability.Prometheus.Enabled,
			Endpoint: cfg.Observability.Prometheus.Endpoint,
			Port:     cfg.Observability.Prometheus.Port,
		}
	}
	// Without a config, fall back to the exporter's standard port
	return PrometheusConfig{
		Enabled:  true,
		Endpoint: "/metrics",
		Port:     "9464",
	}
}
