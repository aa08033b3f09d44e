package observability

import (
	"time"

	"atscheck/internal/config"
)

// Settings is the flattened observability configuration the manager needs.
type Settings struct {
	Enabled            bool
	ServiceName        string
	ServiceVersion     string
	ServiceInstance    string
	Tracing            bool
	SampleRate         float64
	Metrics            bool
	CollectionInterval time.Duration
	ConsoleOutput      bool
	PrettyPrint        bool
	Prometheus         PrometheusConfig
	OTLP               config.OTLPConfig
}

// SettingsFrom derives Settings from the application config. The service
// version falls back to the binary version.
func SettingsFrom(cfg *config.Config, version string) Settings {
	obs := cfg.Observability

	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}
	serviceName := obs.ServiceName
	if serviceName == "" {
		serviceName = "atscheck"
	}
	interval := obs.Metrics.CollectionInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	return Settings{
		Enabled:            obs.Enabled,
		ServiceName:        serviceName,
		ServiceVersion:     serviceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Tracing:            obs.Tracing.Enabled,
		SampleRate:         obs.Tracing.SampleRate,
		Metrics:            obs.Metrics.Enabled,
		CollectionInterval: interval,
		ConsoleOutput:      obs.Console.Enabled,
		PrettyPrint:        obs.Console.PrettyPrint,
		Prometheus:         GetPrometheusConfig(cfg),
		OTLP:               obs.OTLP,
	}
}
