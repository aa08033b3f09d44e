// Package semantic is the optional boundary to a hosted language model that
// rates how well a resume fits a job description. Nothing here runs unless
// the user has consented, and failures come back as data so the rule-based
// analysis never waits on or breaks because of the provider.
package semantic

import (
	"context"
	"time"

	"atscheck/internal/config"
)

// Status says whether a semantic score is available.
type Status string

const (
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	// StatusSkipped is the "not yet analyzed" state: no call was made.
	StatusSkipped Status = "skipped"
)

// TokenUsage represents token usage information from provider responses
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

// Result is what the boundary hands back. Score is only meaningful when
// Success is true.
type Result struct {
	Score      int         `json:"score"`
	Success    bool        `json:"success"`
	Status     Status      `json:"status"`
	Error      string      `json:"error,omitempty"`
	Rationale  string      `json:"rationale,omitempty"`
	Provider   string      `json:"provider,omitempty"`
	Model      string      `json:"model,omitempty"`
	TokenUsage *TokenUsage `json:"tokenUsage,omitempty"`
}

// Config is the per-call provider configuration.
type Config struct {
	// Consent must be true before any text is sent to the provider.
	Consent          bool
	Model            string
	Temperature      float32
	Timeout          time.Duration
	UseSystemPrompts bool
	SystemPrompt     string
	UserPrompt       string
}

// ConfigFrom derives the per-call configuration from application settings.
func ConfigFrom(c config.SemanticConfig) Config {
	return Config{
		Consent:          c.Enabled,
		Model:            c.Model,
		Temperature:      c.Temperature,
		Timeout:          c.Timeout,
		UseSystemPrompts: c.UseSystemPrompts,
		SystemPrompt:     c.Prompts.SystemPrompt,
		UserPrompt:       c.Prompts.UserPrompt,
	}
}

// Matcher scores resume and job text semantically. Implementations never
// return an error: provider failures are reported through Result.
type Matcher interface {
	Analyze(ctx context.Context, resumeText, jobText string, cfg Config) Result
}

// Skipped returns the result used when no call was attempted.
func Skipped(reason string) Result {
	return Result{Status: StatusSkipped, Error: reason}
}

// Disabled is a Matcher for runs without a configured provider.
type Disabled struct{}

func (Disabled) Analyze(context.Context, string, string, Config) Result {
	return Skipped("Semantic matching is not configured.")
}
