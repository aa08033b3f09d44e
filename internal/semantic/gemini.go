package semantic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"atscheck/internal/config"
	apperrors "atscheck/internal/errors"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	retryInitialInterval = time.Second
	retryMaxInterval     = 30 * time.Second
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client     *genai.Client
	model      string
	maxRetries int
	breaker    *Breaker[*genai.GenerateContentResponse]
	logger     *apperrors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider from the semantic settings
func NewGeminiProvider(ctx context.Context, cfg *config.SemanticConfig, logger *apperrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewSemanticError(apperrors.ErrCodeMissingAPIKey, "Gemini API key is not configured", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.NewSemanticError(apperrors.ErrCodeSemanticFailed, "Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:     client,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		breaker:    NewBreaker[*genai.GenerateContentResponse]("gemini", cfg.CircuitBreaker, logger),
		logger:     logger,
	}, nil
}

// Name implements Provider
func (g *GeminiProvider) Name() string { return "gemini" }

// Close implements Provider. The Gemini client holds no resources in
// single-shot use.
func (g *GeminiProvider) Close() error { return nil }

// BreakerStats returns circuit breaker statistics
func (g *GeminiProvider) BreakerStats() map[string]any {
	stats := g.breaker.Stats()
	stats["healthy"] = g.breaker.IsHealthy()
	return stats
}

// Assess implements Provider
func (g *GeminiProvider) Assess(ctx context.Context, req Request) (Assessment, *TokenUsage, error) {
	var out Assessment

	model := req.Config.Model
	if model == "" {
		model = g.model
	}

	tracer := otel.Tracer("atscheck.semantic.gemini")
	ctx, span := tracer.Start(ctx, "gemini.semantic_match")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", model),
		attribute.Float64("ai.temperature", float64(req.Config.Temperature)),
		attribute.Int("input.resume_length", len(req.ResumeText)),
		attribute.Int("input.job_length", len(req.JobText)),
	)

	systemPrompt, userPrompt := buildPrompts(req)
	genCfg := buildMatchSchema(req.Config.Temperature)
	if systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, model, genai.Text(userPrompt), genCfg)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return out, nil, err
	}

	if err := json.Unmarshal([]byte(result.Text()), &out); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return out, nil, apperrors.NewSemanticError("SEMANTIC_RESPONSE_PARSE_FAILED", "Failed to parse Gemini response", err)
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("semantic.score", out.Score))
	return out, usage, nil
}

// executeWithRetry retries transient failures with exponential backoff.
// Errors that are not worth retrying stop the loop immediately.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	attempts := 0
	operation := func() (*genai.GenerateContentResponse, error) {
		attempts++
		resp, err := fn()
		if err != nil && !isRetryableError(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.MaxInterval = retryMaxInterval

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(g.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			g.logger.Warn("Retrying semantic match",
				"attempt", attempts,
				"max_retries", g.maxRetries,
				"next_in", next.String(),
				"error", err.Error())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("semantic match failed after %d attempt(s): %w", attempts, err)
	}
	if attempts > 1 {
		g.logger.Info("Semantic match succeeded after retry", "attempts", attempts)
	}
	return resp, nil
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// buildMatchSchema creates the structured-output schema for a semantic match
func buildMatchSchema(temperature float32) *genai.GenerateContentConfig {
	lowest, highest := 0.0, 100.0
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"score":     {Type: genai.TypeInteger, Minimum: &lowest, Maximum: &highest},
				"rationale": {Type: genai.TypeString},
			},
			Required: []string{"score", "rationale"},
		},
	}
	if temperature > 0 {
		cfg.Temperature = genai.Ptr(temperature)
	}
	return cfg
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
