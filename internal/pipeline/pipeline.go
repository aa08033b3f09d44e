// Package pipeline composes the analyzers into a single report.
//
// The order is fixed: parse health, then (when a job description is present)
// keyword extraction, coverage, knockout detection, stored user answers,
// resume enhancement, risk aggregation and recruiter search. The optional
// semantic match runs alongside the rules, is waited on for a bounded time
// and never fails the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"atscheck/internal/coverage"
	"atscheck/internal/errors"
	"atscheck/internal/findings"
	"atscheck/internal/keywords"
	"atscheck/internal/knockout"
	"atscheck/internal/parsehealth"
	"atscheck/internal/recruiter"
	"atscheck/internal/semantic"
	"atscheck/internal/types"

	"golang.org/x/sync/errgroup"
)

// DefaultSemanticWait bounds the semantic branch when no timeout is configured.
const DefaultSemanticWait = 30 * time.Second

// Input is what a single analysis looks at.
type Input struct {
	Artifact types.ResumeArtifact
	JobText  string
	// Confirmations are stored user answers keyed by knockout id.
	Confirmations map[string]bool
}

// Options control a run.
type Options struct {
	// Matcher is the semantic boundary. Nil skips semantic matching.
	Matcher        semantic.Matcher
	SemanticConfig semantic.Config
	// AsOf anchors "present" in experience date ranges. Zero means now.
	AsOf   time.Time
	Logger *errors.Logger
}

// Report is the composed result of a run. Job-dependent sections are nil
// when no job description was supplied.
type Report struct {
	ParseHealth  parsehealth.Scores      `json:"parseHealth"`
	HasJob       bool                    `json:"hasJobDescription"`
	Keywords     *keywords.KeywordSet    `json:"keywords,omitempty"`
	Coverage     *coverage.Result        `json:"coverage,omitempty"`
	Knockouts    []knockout.EnhancedItem `json:"knockouts,omitempty"`
	KnockoutRisk *knockout.RiskResult    `json:"knockoutRisk,omitempty"`
	Recruiter    *recruiter.Result       `json:"recruiterSearch,omitempty"`
	Semantic     semantic.Result         `json:"semantic"`
	Findings     []findings.Finding      `json:"findings"`
	Summary      findings.Summary        `json:"summary"`
}

// Run executes the pipeline. It fails only for malformed input or an
// internal rule failure; semantic problems are reported in Report.Semantic.
func Run(ctx context.Context, in Input, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = errors.NewLoggerTo(io.Discard, slog.LevelError)
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	if err := in.Artifact.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{HasJob: strings.TrimSpace(in.JobText) != ""}

	var semDone chan semantic.Result
	semCtx, cancelSem := context.WithCancel(ctx)
	defer cancelSem()
	if opts.Matcher != nil && report.HasJob {
		// Buffered so an abandoned matcher can still finish and exit.
		semDone = make(chan semantic.Result, 1)
		go func() {
			semDone <- opts.Matcher.Analyze(semCtx, in.Artifact.Text, in.JobText, opts.SemanticConfig)
		}()
	}

	if err := runRules(ctx, report, in, asOf); err != nil {
		logger.LogError(err, "Analysis failed")
		return nil, err
	}

	switch {
	case opts.Matcher == nil:
		report.Semantic = semantic.Skipped("Semantic matching is not configured.")
	case !report.HasJob:
		report.Semantic = semantic.Skipped("Semantic matching needs a job description.")
	default:
		report.Semantic = awaitSemantic(ctx, semDone, opts.SemanticConfig.Timeout)
		if report.Semantic.Status == semantic.StatusFailed {
			logger.Warn("Semantic match unavailable", "reason", report.Semantic.Error)
		}
	}

	report.Findings = findings.Sort(report.Findings)
	report.Summary = findings.Summarize(report.Findings)

	logger.Debug("Analysis complete",
		"has_job", report.HasJob,
		"parse_health", report.ParseHealth.ParseHealth,
		"findings", report.Summary.Total,
		"semantic_status", report.Semantic.Status,
		"duration", time.Since(start).String())
	return report, nil
}

// awaitSemantic waits for the semantic branch once the rules are done. The
// wait is bounded by timeout (DefaultSemanticWait when unset) and by ctx, so
// a matcher that ignores cancellation cannot hold the report back.
func awaitSemantic(ctx context.Context, done <-chan semantic.Result, timeout time.Duration) semantic.Result {
	if timeout <= 0 {
		timeout = DefaultSemanticWait
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res
	case <-timer.C:
		return semantic.Result{Status: semantic.StatusFailed, Error: "Semantic match timed out"}
	case <-ctx.Done():
		return semantic.Result{Status: semantic.StatusFailed, Error: "Semantic match was cancelled"}
	}
}

// runRules fills every rule-based section of report. Keyword extraction,
// coverage and recruiter search form one branch; knockout detection runs
// beside it.
func runRules(ctx context.Context, report *Report, in Input, asOf time.Time) error {
	var health parsehealth.Result
	if err := guard("parse-health", func() (err error) {
		health, err = parsehealth.Analyze(in.Artifact)
		return err
	}); err != nil {
		return err
	}
	report.ParseHealth = health.Scores
	merged := append([]findings.Finding{}, health.Findings...)

	if !report.HasJob {
		report.Findings = merged
		return nil
	}

	resumeText := in.Artifact.Text
	var (
		ks  keywords.KeywordSet
		cov coverage.Result
		rec recruiter.Result
		ko  KnockoutReport
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := guard("keywords", func() error {
			ks = keywords.Extract(in.JobText)
			return nil
		}); err != nil {
			return err
		}
		if err := guard("coverage", func() error {
			cov = coverage.Calculate(resumeText, ks)
			return nil
		}); err != nil {
			return err
		}
		return guard("recruiter", func() error {
			rec = recruiter.Calculate(resumeText, in.JobText, ks)
			return nil
		})
	})
	g.Go(func() (err error) {
		ko, err = Knockouts(resumeText, in.JobText, in.Confirmations, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	report.Keywords = &ks
	report.Coverage = &cov
	report.Knockouts = ko.Items
	report.KnockoutRisk = &ko.Risk
	report.Recruiter = &rec
	merged = append(merged, cov.Findings...)
	merged = append(merged, ko.Risk.Findings...)

	report.Findings = merged
	return nil
}

// KnockoutReport is the knockout section on its own.
type KnockoutReport struct {
	Items []knockout.EnhancedItem `json:"items"`
	Risk  knockout.RiskResult     `json:"risk"`
}

// Knockouts detects knockout requirements, overlays stored answers, checks
// the rest against the resume and aggregates the risk.
func Knockouts(resumeText, jobText string, confirmations map[string]bool, asOf time.Time) (KnockoutReport, error) {
	var out KnockoutReport
	err := guard("knockouts", func() error {
		items := knockout.Detect(jobText)
		items = knockout.ApplyAnswers(items, confirmations)
		out.Items = knockout.EnhanceAsOf(items, resumeText, jobText, asOf)
		out.Risk = knockout.CalculateRisk(knockout.Items(out.Items))
		return nil
	})
	return out, err
}

// guard runs one analyzer stage and turns a panic into a PatternEngineError.
func guard(stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewPatternEngineError(stage, fmt.Errorf("%v", r))
		}
	}()
	return fn()
}
