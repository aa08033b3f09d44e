package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
		Semantic: SemanticConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     30 * time.Second,
			MaxRetries:  2,
			Temperature: 0.1,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 0.6,
			},
		},
		Server: ServerConfig{Host: "127.0.0.1", Port: "8765", TLS: TLSConfig{Mode: "disabled"}},
	}
}

func TestValidateSemanticOptIn(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled semantic matching should not need an API key: %v", err)
	}

	cfg.Semantic.Enabled = true
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "API key is required") {
		t.Fatalf("expected missing API key error, got %v", err)
	}

	cfg.Semantic.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateDefersSemanticKeyToVault(t *testing.T) {
	cfg := validConfig()
	cfg.Semantic.Enabled = true
	cfg.Vault.Enabled = true
	cfg.Vault.Secrets.SemanticKey = "secret/data/atscheck/semantic"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("a vault-supplied key should satisfy validation, got %v", err)
	}
	if cfg.Semantic.APIKey != "" {
		t.Errorf("validation must not modify the config, got key %q", cfg.Semantic.APIKey)
	}
}

func TestSemanticValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SemanticConfig)
		wantErr string
	}{
		{"unknown provider", func(s *SemanticConfig) { s.Provider = "other" }, "unsupported semantic provider"},
		{"no model", func(s *SemanticConfig) { s.Model = "" }, "model is required"},
		{"zero timeout", func(s *SemanticConfig) { s.Timeout = 0 }, "timeout must be positive"},
		{"negative retries", func(s *SemanticConfig) { s.MaxRetries = -1 }, "maxRetries"},
		{"temperature", func(s *SemanticConfig) { s.Temperature = 3 }, "temperature"},
		{"breaker threshold", func(s *SemanticConfig) { s.CircuitBreaker.FailureThreshold = 0 }, "failureThreshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validConfig().Semantic
			s.Enabled = true
			s.APIKey = "key"
			tt.mutate(&s)
			err := s.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	cfg := validConfig()
	cfg.App.DefaultFormat = "pdf"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid default format error")
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr bool
	}{
		{"disabled", TLSConfig{Mode: "disabled"}, false},
		{"empty mode", TLSConfig{}, false},
		{"server", TLSConfig{Mode: "server", CertFile: "c.pem", KeyFile: "k.pem"}, false},
		{"server without key", TLSConfig{Mode: "server", CertFile: "c.pem"}, true},
		{"mutual", TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem", CAFile: "ca.pem"}, false},
		{"mutual without CA", TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem"}, true},
		{"bad policy", TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem", CAFile: "ca.pem", ClientAuthPolicy: "maybe"}, true},
		{"bad version", TLSConfig{Mode: "server", CertFile: "c.pem", KeyFile: "k.pem", MinVersion: "1.0"}, true},
		{"bad mode", TLSConfig{Mode: "sometimes"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.TLS = tt.tls
			err := cfg.ValidateTLSConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTLSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("ATSCHECK_SERVER_APIKEYS", " a ,b")
	t.Setenv("GEMINI_API_KEY", "gemini-env")

	cfg := validConfig()
	cfg.Server.TLS = TLSConfig{Mode: "mutual"}
	cfg.Observability.ServiceName = "atscheck"
	cfg.applyFallbacks()

	if got := strings.Join(cfg.Server.APIKeys, "|"); got != "a|b" {
		t.Errorf("expected API keys from env, got %q", got)
	}
	if cfg.Semantic.APIKey != "gemini-env" {
		t.Errorf("expected GEMINI_API_KEY fallback, got %q", cfg.Semantic.APIKey)
	}
	if cfg.Server.TLS.ClientAuthPolicy != "require" || cfg.Server.TLS.MinVersion != "1.2" {
		t.Errorf("expected TLS defaults, got %+v", cfg.Server.TLS)
	}
	if !strings.HasPrefix(cfg.Observability.ServiceInstance, "atscheck-") {
		t.Errorf("unexpected service instance %q", cfg.Observability.ServiceInstance)
	}
}

func TestApplyFallbacksKeepsConfiguredKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-env")
	cfg := validConfig()
	cfg.Semantic.APIKey = "configured"
	cfg.applyFallbacks()
	if cfg.Semantic.APIKey != "configured" {
		t.Errorf("configured key should win, got %q", cfg.Semantic.APIKey)
	}
}
