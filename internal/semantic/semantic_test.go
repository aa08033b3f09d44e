package semantic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"atscheck/internal/config"
	apperrors "atscheck/internal/errors"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

var testLogger = apperrors.NewLoggerTo(io.Discard, slog.LevelDebug)

type fakeProvider struct {
	assessment Assessment
	usage      *TokenUsage
	err        error
	wait       bool
	panics     bool
	calls      int
	lastReq    Request
}

func (f *fakeProvider) Assess(ctx context.Context, req Request) (Assessment, *TokenUsage, error) {
	f.calls++
	f.lastReq = req
	if f.panics {
		panic("boom")
	}
	if f.wait {
		<-ctx.Done()
		return Assessment{}, nil, ctx.Err()
	}
	return f.assessment, f.usage, f.err
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Close() error { return nil }

var consented = Config{Consent: true, Model: "fake-model", UseSystemPrompts: true}

func TestAnalyzeRequiresConsent(t *testing.T) {
	p := &fakeProvider{assessment: Assessment{Score: 80}}
	res := NewServiceWithProvider(p, "m", testLogger).Analyze(context.Background(), "resume", "job", Config{})

	assert.Equal(t, StatusSkipped, res.Status)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "consent")
	assert.Zero(t, p.calls, "no text may leave the device without consent")
}

func TestAnalyzeSkipsEmptyInput(t *testing.T) {
	p := &fakeProvider{}
	svc := NewServiceWithProvider(p, "m", testLogger)
	assert.Equal(t, StatusSkipped, svc.Analyze(context.Background(), "  ", "job", consented).Status)
	assert.Equal(t, StatusSkipped, svc.Analyze(context.Background(), "resume", "", consented).Status)
	assert.Zero(t, p.calls)
}

func TestAnalyzeSuccess(t *testing.T) {
	usage := &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}
	p := &fakeProvider{assessment: Assessment{Score: 140, Rationale: " Strong Go match. "}, usage: usage}

	var observed Result
	svc := NewServiceWithProvider(p, "default-model", testLogger).
		WithObserver(func(_ context.Context, r Result, _ time.Duration) { observed = r })

	res := svc.Analyze(context.Background(), "Go engineer", "Go role", Config{Consent: true})
	assert.True(t, res.Success)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, 100, res.Score, "scores are clamped")
	assert.Equal(t, "Strong Go match.", res.Rationale)
	assert.Equal(t, "default-model", res.Model)
	assert.Equal(t, "fake", res.Provider)
	assert.Equal(t, usage, res.TokenUsage)
	assert.Equal(t, res, observed)
	assert.Equal(t, "Go engineer", p.lastReq.ResumeText)
}

func TestAnalyzeFailureIsReturnedAsData(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota exceeded")}
	res := NewServiceWithProvider(p, "m", testLogger).Analyze(context.Background(), "r", "j", consented)

	assert.False(t, res.Success)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "Semantic provider request failed", res.Error)
}

func TestAnalyzeTimeout(t *testing.T) {
	p := &fakeProvider{wait: true}
	cfg := consented
	cfg.Timeout = 10 * time.Millisecond

	res := NewServiceWithProvider(p, "m", testLogger).Analyze(context.Background(), "r", "j", cfg)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "Semantic match timed out", res.Error)
}

func TestAnalyzeRecoversProviderPanic(t *testing.T) {
	p := &fakeProvider{panics: true}
	res := NewServiceWithProvider(p, "m", testLogger).Analyze(context.Background(), "r", "j", consented)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "panicked")
}

func TestAnalyzeOpenBreaker(t *testing.T) {
	p := &fakeProvider{err: fmt.Errorf("wrapped: %w", gobreaker.ErrOpenState)}
	res := NewServiceWithProvider(p, "m", testLogger).Analyze(context.Background(), "r", "j", consented)
	assert.Equal(t, "Semantic provider is temporarily unavailable", res.Error)
}

func TestDisabledMatcher(t *testing.T) {
	var m Matcher = Disabled{}
	res := m.Analyze(context.Background(), "r", "j", consented)
	assert.Equal(t, StatusSkipped, res.Status)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.SemanticConfig{
		Enabled:     true,
		Model:       "gemini-2.0-flash",
		Temperature: 0.2,
		Timeout:     time.Second,
		Prompts:     config.PromptConfig{SystemPrompt: "sys", UserPrompt: "usr"},
	})
	assert.True(t, cfg.Consent)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, "sys", cfg.SystemPrompt)
	assert.Equal(t, "usr", cfg.UserPrompt)
}

func TestBuildPrompts(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		system, user := buildPrompts(Request{ResumeText: "RESUME", JobText: "JOB", Config: Config{UseSystemPrompts: true}})
		assert.Equal(t, DefaultSystemPrompt, system)
		assert.Contains(t, user, "RESUME")
		assert.Contains(t, user, "JOB")
		assert.NotContains(t, user, resumePlaceholder)
	})

	t.Run("custom template without placeholders", func(t *testing.T) {
		_, user := buildPrompts(Request{ResumeText: "RESUME", JobText: "JOB", Config: Config{UserPrompt: "Score this.", UseSystemPrompts: true}})
		assert.True(t, strings.HasPrefix(user, "Score this."))
		assert.Contains(t, user, "RESUME")
	})

	t.Run("system prompt folded in", func(t *testing.T) {
		system, user := buildPrompts(Request{ResumeText: "R", JobText: "J", Config: Config{SystemPrompt: "Be strict."}})
		assert.Empty(t, system)
		assert.True(t, strings.HasPrefix(user, "Be strict."))
	})

	t.Run("placeholders in text are not expanded", func(t *testing.T) {
		_, user := buildPrompts(Request{ResumeText: "mentions {{job}}", JobText: "JOB", Config: Config{UseSystemPrompts: true}})
		assert.Contains(t, user, "mentions {{job}}")
	})
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"unavailable", fmt.Errorf("call: %w", &googleapi.Error{Code: http.StatusServiceUnavailable}), true},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, false},
		{"genai server error", genai.APIError{Code: http.StatusInternalServerError}, true},
		{"genai bad request", genai.APIError{Code: http.StatusBadRequest}, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("nope"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	g := &GeminiProvider{maxRetries: 3, logger: testLogger}
	calls := 0
	_, err := g.executeWithRetry(context.Background(), func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, &googleapi.Error{Code: http.StatusForbidden}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *googleapi.Error
	assert.True(t, errors.As(err, &apiErr))
}

func TestBuildMatchSchema(t *testing.T) {
	cfg := buildMatchSchema(0.2)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.ElementsMatch(t, []string{"score", "rationale"}, cfg.ResponseSchema.Required)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-6)

	assert.Nil(t, buildMatchSchema(0).Temperature)
}

func TestExtractTokenUsage(t *testing.T) {
	assert.Nil(t, extractTokenUsage(nil))
	usage := extractTokenUsage(&genai.GenerateContentResponse{UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount: 12, CandidatesTokenCount: 3, TotalTokenCount: 15,
	}})
	assert.Equal(t, &TokenUsage{InputTokens: 12, OutputTokens: 3, TotalTokens: 15}, usage)
}
