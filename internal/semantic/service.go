package semantic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atscheck/internal/config"
	apperrors "atscheck/internal/errors"

	"github.com/sony/gobreaker/v2"
)

const (
	minScore = 0
	maxScore = 100
)

// Observer is notified after every attempted match.
type Observer func(ctx context.Context, result Result, elapsed time.Duration)

// Service is the Matcher used by the application. It enforces consent,
// applies the timeout and turns provider failures into results.
type Service struct {
	provider Provider
	model    string
	logger   *apperrors.Logger
	observer Observer
}

var _ Matcher = (*Service)(nil)

// NewService creates the semantic service for the configured provider
func NewService(ctx context.Context, cfg *config.SemanticConfig, logger *apperrors.Logger) (*Service, error) {
	logger.Debug("Initializing semantic service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries,
		"use_system_prompts", cfg.UseSystemPrompts)

	var provider Provider
	switch cfg.Provider {
	case "gemini":
		p, err := NewGeminiProvider(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		provider = p
	default:
		return nil, apperrors.NewConfigError(apperrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported semantic provider: %s", cfg.Provider), nil)
	}

	return NewServiceWithProvider(provider, cfg.Model, logger), nil
}

// NewServiceWithProvider wraps an existing provider.
func NewServiceWithProvider(provider Provider, model string, logger *apperrors.Logger) *Service {
	return &Service{provider: provider, model: model, logger: logger}
}

// WithObserver registers fn to receive every result.
func (s *Service) WithObserver(fn Observer) *Service {
	s.observer = fn
	return s
}

// Provider returns the underlying provider.
func (s *Service) Provider() Provider { return s.provider }

// Close releases the provider.
func (s *Service) Close() error { return s.provider.Close() }

// Analyze implements Matcher.
func (s *Service) Analyze(ctx context.Context, resumeText, jobText string, cfg Config) (res Result) {
	if !cfg.Consent {
		return Skipped("Semantic matching needs your consent before resume text is sent to " + s.provider.Name() + ".")
	}
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobText) == "" {
		return Skipped("Semantic matching needs both resume and job description text.")
	}

	model := cfg.Model
	if model == "" {
		model = s.model
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = s.failure(apperrors.NewInternalError(apperrors.ErrCodeSemanticFailed,
				"semantic provider panicked", fmt.Errorf("%v", r)), model)
		}
		if s.observer != nil {
			s.observer(ctx, res, time.Since(start))
		}
	}()

	assessment, usage, err := s.provider.Assess(ctx, Request{ResumeText: resumeText, JobText: jobText, Config: cfg})
	if err != nil {
		return s.failure(s.classify(ctx, err), model)
	}

	s.logger.Debug("Semantic match complete", "provider", s.provider.Name(), "model", model, "score", assessment.Score)
	return Result{
		Score:      max(minScore, min(maxScore, assessment.Score)),
		Success:    true,
		Status:     StatusComplete,
		Rationale:  strings.TrimSpace(assessment.Rationale),
		Provider:   s.provider.Name(),
		Model:      model,
		TokenUsage: usage,
	}
}

// classify maps provider errors onto the application taxonomy.
func (s *Service) classify(ctx context.Context, err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewSemanticError(apperrors.ErrCodeSemanticTimeout, "Semantic match timed out", err)
	case errors.Is(err, context.Canceled):
		return apperrors.NewSemanticError(apperrors.ErrCodeSemanticFailed, "Semantic match was cancelled", err)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.NewSemanticError(apperrors.ErrCodeSemanticFailed, "Semantic provider is temporarily unavailable", err)
	case errors.As(err, &appErr):
		return appErr
	default:
		return apperrors.NewSemanticError(apperrors.ErrCodeSemanticFailed, "Semantic provider request failed", err)
	}
}

func (s *Service) failure(err error, model string) Result {
	s.logger.LogError(err, "Semantic match failed", "provider", s.provider.Name(), "model", model)

	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	return Result{
		Status:   StatusFailed,
		Error:    msg,
		Provider: s.provider.Name(),
		Model:    model,
	}
}
