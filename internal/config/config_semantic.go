package config

import (
	"fmt"
	"time"
)

// SemanticConfig holds the optional LLM semantic-match configuration. Enabled
// is the user's consent to send resume and job text to the provider.
type SemanticConfig struct {
	Enabled          bool                 `mapstructure:"enabled"`
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          time.Duration        `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       int                  `mapstructure:"maxRetries"`
	Temperature      float32              `mapstructure:"temperature"`
	UseSystemPrompts bool                 `mapstructure:"useSystemPrompts"`
	Prompts          PromptConfig         `mapstructure:"prompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// PromptConfig holds customisable prompts for the semantic match. Inline
// values lose to the matching *File setting.
type PromptConfig struct {
	SystemPrompt     string `mapstructure:"systemPrompt"`
	SystemPromptFile string `mapstructure:"systemPromptFile"`
	UserPrompt       string `mapstructure:"userPrompt"`
	UserPromptFile   string `mapstructure:"userPromptFile"`
}

var supportedProviders = map[string]bool{"gemini": true}

// Validate checks the semantic settings. A disabled configuration is always
// valid.
func (s *SemanticConfig) Validate() error {
	if !s.Enabled {
		return nil
	}
	if !supportedProviders[s.Provider] {
		return fmt.Errorf("unsupported semantic provider: %s", s.Provider)
	}
	if s.APIKey == "" {
		return fmt.Errorf("semantic API key is required when semantic matching is enabled (set ATSCHECK_SEMANTIC_APIKEY)")
	}
	if s.Model == "" {
		return fmt.Errorf("semantic model is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("semantic timeout must be positive")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("semantic maxRetries must not be negative")
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("semantic temperature must be between 0 and 2")
	}
	cb := s.CircuitBreaker
	if cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
		return fmt.Errorf("circuitBreaker.failureThreshold must be in (0, 1]")
	}
	return nil
}

// GetSemanticConfig returns the semantic configuration with prompts loaded
// from files taking precedence over inline prompts.
func (c *Config) GetSemanticConfig() SemanticConfig {
	cfg := c.Semantic
	loaded := GetLoadedPrompts()
	if loaded.SystemPrompt != "" {
		cfg.Prompts.SystemPrompt = loaded.SystemPrompt
	}
	if loaded.UserPrompt != "" {
		cfg.Prompts.UserPrompt = loaded.UserPrompt
	}
	return cfg
}
