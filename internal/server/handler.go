package server

import (
	"context"
	"fmt"
	"net/http"

	"atscheck/internal/coverage"
	"atscheck/internal/errors"
	"atscheck/internal/keywords"
	"atscheck/internal/pipeline"
	"atscheck/internal/recruiter"
	"atscheck/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "atscheck.api"

// startSpan opens a span for an endpoint.
func (s *Server) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return s.Metrics.Tracer(tracerName).Start(r.Context(), name,
		trace.WithAttributes(attribute.String("request.id", requestIDFrom(r.Context()))))
}

// fail records err on span and writes the matching error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, span trace.Span, title string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, title)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, title, "endpoint", r.URL.Path, "request_id", requestIDFrom(r.Context()))
	}
	writeAppError(w, r, title, err, status)
}

// analyzeHandler runs the full pipeline.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.analyze")
	defer span.End()

	var req types.AnalyzeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, r, span, "Invalid request body", err)
		return
	}

	answers, err := s.Runner.Answers(req.Confirmations)
	if err != nil {
		s.fail(w, r, span, "Failed to load stored answers", err)
		return
	}
	in := pipeline.Input{
		Artifact:      req.Artifact(),
		JobText:       req.JobDescription,
		Confirmations: answers,
	}
	span.SetAttributes(
		attribute.Int("request.resume_length", len(in.Artifact.Text)),
		attribute.Int("request.job_length", len(in.JobText)),
		attribute.Bool("request.semantic", req.Semantic),
	)

	// Consent is given per request on top of the configured opt-in.
	runner := *s.Runner
	runner.SemanticConfig.Consent = req.Semantic && s.Runner.SemanticConfig.Consent

	report, err := runner.Analyze(ctx, "http", in)
	if err != nil {
		s.fail(w, r, span, "Analysis failed", err)
		return
	}

	span.SetAttributes(
		attribute.Int("parse_health", report.ParseHealth.ParseHealth),
		attribute.Int("findings", report.Summary.Total),
		attribute.String("semantic.status", string(report.Semantic.Status)),
	)
	writeJSON(w, http.StatusOK, report)
}

// keywordsHandler extracts keywords from a job description.
func (s *Server) keywordsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "api.keywords")
	defer span.End()

	var req types.JobRequest
	if err := decodeValid(r, &req); err != nil {
		s.fail(w, r, span, "Invalid request body", err)
		return
	}

	var ks keywords.KeywordSet
	if err := recoverStage("keywords", func() { ks = keywords.Extract(req.JobDescription) }); err != nil {
		s.fail(w, r, span, "Keyword extraction failed", err)
		return
	}
	span.SetAttributes(attribute.Int("keywords.critical", len(ks.Critical)), attribute.Int("keywords.optional", len(ks.Optional)))
	writeJSON(w, http.StatusOK, ks)
}

// knockoutsHandler detects and enhances knockouts for a resume and job.
func (s *Server) knockoutsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "api.knockouts")
	defer span.End()

	var req types.MatchRequest
	if err := decodeValid(r, &req); err != nil {
		s.fail(w, r, span, "Invalid request body", err)
		return
	}

	report, err := s.Runner.Knockouts(req.ResumeText, req.JobDescription, req.Confirmations)
	if err != nil {
		s.fail(w, r, span, "Knockout detection failed", err)
		return
	}
	span.SetAttributes(attribute.Int("knockouts", len(report.Items)), attribute.String("knockouts.risk", string(report.Risk.Risk)))
	writeJSON(w, http.StatusOK, report)
}

// coverageHandler scores keyword coverage.
func (s *Server) coverageHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "api.coverage")
	defer span.End()

	var req types.MatchRequest
	if err := decodeValid(r, &req); err != nil {
		s.fail(w, r, span, "Invalid request body", err)
		return
	}

	var result coverage.Result
	if err := recoverStage("coverage", func() {
		result = coverage.Calculate(req.ResumeText, keywords.Extract(req.JobDescription))
	}); err != nil {
		s.fail(w, r, span, "Coverage calculation failed", err)
		return
	}
	span.SetAttributes(attribute.Int("coverage.score", result.Score))
	writeJSON(w, http.StatusOK, result)
}

// recruiterHandler scores recruiter search visibility.
func (s *Server) recruiterHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "api.recruiter")
	defer span.End()

	var req types.MatchRequest
	if err := decodeValid(r, &req); err != nil {
		s.fail(w, r, span, "Invalid request body", err)
		return
	}

	var result recruiter.Result
	if err := recoverStage("recruiter", func() {
		result = recruiter.Calculate(req.ResumeText, req.JobDescription, keywords.Extract(req.JobDescription))
	}); err != nil {
		s.fail(w, r, span, "Recruiter scoring failed", err)
		return
	}
	span.SetAttributes(attribute.Int("recruiter.score", result.Score))
	writeJSON(w, http.StatusOK, result)
}

type validatable interface {
	Validate() error
}

// decodeValid parses the body into v and runs its struct validation.
func decodeValid(r *http.Request, v validatable) error {
	if err := parseJSONRequest(r, v); err != nil {
		return err
	}
	return v.Validate()
}

// recoverStage runs fn, turning a panic into a PatternEngineError.
func recoverStage(stage string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.NewPatternEngineError(stage, fmt.Errorf("%v", rec))
		}
	}()
	fn()
	return nil
}
