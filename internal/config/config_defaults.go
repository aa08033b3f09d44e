package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 2*1024*1024) // 2MB

	// Analysis
	v.SetDefault("analysis.confirmationsFile", ".atscheck-confirmations.yaml")
	v.SetDefault("analysis.watch.debounce", 500*time.Millisecond)

	// Semantic matching is opt-in: resume text only leaves the machine after consent.
	v.SetDefault("semantic.enabled", false)
	v.SetDefault("semantic.provider", "gemini")
	v.SetDefault("semantic.model", "gemini-2.0-flash")
	v.SetDefault("semantic.timeout", 45*time.Second)
	v.SetDefault("semantic.apiKey", "")
	v.SetDefault("semantic.maxRetries", 2)
	v.SetDefault("semantic.temperature", 0.1)
	v.SetDefault("semantic.useSystemPrompts", true)

	v.SetDefault("semantic.circuitBreaker.enabled", true)
	v.SetDefault("semantic.circuitBreaker.maxRequests", 3)
	v.SetDefault("semantic.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("semantic.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("semantic.circuitBreaker.minRequests", 3)
	v.SetDefault("semantic.circuitBreaker.failureThreshold", 0.6)

	// Server binds to loopback so resume content stays on the device.
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8765")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 4*1024*1024)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.cipherSuites", []string{})
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 120)
	v.SetDefault("server.rateLimit.burstCapacity", 20)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// Vault
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.semanticKey", "")

	// Observability
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "atscheck")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9464")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
