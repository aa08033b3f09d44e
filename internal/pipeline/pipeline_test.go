package pipeline

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"atscheck/internal/errors"
	"atscheck/internal/findings"
	"atscheck/internal/knockout"
	"atscheck/internal/semantic"
	"atscheck/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

const clearanceJob = "Must have active Top Secret clearance. 5+ years required."

const shortResume = `Jane Doe
jane@example.com | 555-123-4567

Experience
Software Engineer, Acme
Jan 2021 - Dec 2022
- Built Python services on AWS

Skills
Python, AWS

Education
B.S. Computer Science, 2015 - 2019`

type fakeMatcher struct {
	result semantic.Result
	calls  atomic.Int32
	cfg    semantic.Config
}

func (f *fakeMatcher) Analyze(_ context.Context, _, _ string, cfg semantic.Config) semantic.Result {
	f.calls.Add(1)
	f.cfg = cfg
	return f.result
}

// blockingMatcher never answers until release is closed, ignoring ctx.
type blockingMatcher struct {
	release chan struct{}
}

func (b *blockingMatcher) Analyze(context.Context, string, string, semantic.Config) semantic.Result {
	<-b.release
	return semantic.Result{Status: semantic.StatusComplete, Success: true, Score: 99}
}

func run(t *testing.T, in Input, opts Options) *Report {
	t.Helper()
	if opts.AsOf.IsZero() {
		opts.AsOf = asOf
	}
	report, err := Run(context.Background(), in, opts)
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func textInput(resume, job string) Input {
	return Input{Artifact: types.NewTextArtifact(resume, types.FileTypeText), JobText: job}
}

func TestRunEmptyResumeWithoutJob(t *testing.T) {
	report := run(t, textInput("", ""), Options{})

	assert.Equal(t, 0, report.ParseHealth.ParseHealth)
	assert.False(t, report.HasJob)
	assert.Nil(t, report.Keywords)
	assert.Nil(t, report.Coverage)
	assert.Nil(t, report.KnockoutRisk)
	assert.Nil(t, report.Recruiter)
	assert.Equal(t, semantic.StatusSkipped, report.Semantic.Status)

	require.NotEmpty(t, report.Findings)
	assert.Equal(t, findings.SeverityCritical, report.Findings[0].Severity)
	assert.Equal(t, findings.SeverityCritical, report.Summary.Highest)
}

func TestRunClearanceAndExperienceKnockouts(t *testing.T) {
	report := run(t, textInput(shortResume, clearanceJob), Options{})

	require.NotNil(t, report.KnockoutRisk)
	require.Len(t, report.Knockouts, 2)
	assert.Equal(t, knockout.CategorySecurityClearance, report.Knockouts[0].Category)
	assert.Equal(t, knockout.CategoryExperience, report.Knockouts[1].Category)
	assert.Equal(t, knockout.NotMet, report.Knockouts[1].UserConfirmed)
	assert.Equal(t, knockout.RiskHigh, report.KnockoutRisk.Risk)
	assert.NotNil(t, report.Coverage)
	assert.NotNil(t, report.Recruiter)
}

func TestRunAppliesStoredConfirmations(t *testing.T) {
	first := run(t, textInput(shortResume, clearanceJob), Options{})
	answers := map[string]bool{}
	for _, it := range first.Knockouts {
		answers[it.ID] = true
	}

	in := textInput(shortResume, clearanceJob)
	in.Confirmations = answers
	report := run(t, in, Options{})

	for _, it := range report.Knockouts {
		assert.Equal(t, knockout.Met, it.UserConfirmed, it.Label)
		assert.Equal(t, knockout.SourceUser, it.Source)
	}
	assert.Equal(t, knockout.RiskLow, report.KnockoutRisk.Risk)
}

func TestRunRejectsMalformedArtifact(t *testing.T) {
	in := Input{Artifact: types.ResumeArtifact{Text: "x", FileType: "rtf"}}
	report, err := Run(context.Background(), in, Options{})
	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestRunSemanticFailureDoesNotBlock(t *testing.T) {
	m := &fakeMatcher{result: semantic.Result{Status: semantic.StatusFailed, Error: "Semantic match timed out"}}
	cfg := semantic.Config{Consent: true, Model: "test"}

	report := run(t, textInput(shortResume, clearanceJob), Options{Matcher: m, SemanticConfig: cfg})

	assert.EqualValues(t, 1, m.calls.Load())
	assert.Equal(t, cfg, m.cfg)
	assert.Equal(t, semantic.StatusFailed, report.Semantic.Status)
	assert.False(t, report.Semantic.Success)
	assert.NotNil(t, report.Coverage)
	assert.NotNil(t, report.KnockoutRisk)
}

func TestRunDoesNotWaitOnHangingMatcher(t *testing.T) {
	m := &blockingMatcher{release: make(chan struct{})}
	defer close(m.release)
	cfg := semantic.Config{Consent: true, Timeout: 20 * time.Millisecond}

	start := time.Now()
	report := run(t, textInput(shortResume, clearanceJob), Options{Matcher: m, SemanticConfig: cfg})

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, semantic.StatusFailed, report.Semantic.Status)
	assert.False(t, report.Semantic.Success)
	assert.Contains(t, report.Semantic.Error, "timed out")
	assert.NotNil(t, report.Coverage)
	assert.NotNil(t, report.KnockoutRisk)
	assert.NotEmpty(t, report.Knockouts)
}

func TestRunSemanticWaitEndsWithContext(t *testing.T) {
	m := &blockingMatcher{release: make(chan struct{})}
	defer close(m.release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var report *Report
	var err error
	go func() {
		defer close(done)
		report, err = Run(ctx, textInput(shortResume, clearanceJob), Options{
			Matcher:        m,
			SemanticConfig: semantic.Config{Consent: true, Timeout: time.Hour},
			AsOf:           asOf,
		})
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run kept waiting after the context was cancelled")
	}
	require.NoError(t, err)
	assert.Equal(t, semantic.StatusFailed, report.Semantic.Status)
	assert.NotNil(t, report.KnockoutRisk)
}

func TestRunSemanticSuccess(t *testing.T) {
	m := &fakeMatcher{result: semantic.Result{Score: 72, Success: true, Status: semantic.StatusComplete}}
	report := run(t, textInput(shortResume, clearanceJob), Options{Matcher: m})
	assert.Equal(t, 72, report.Semantic.Score)
	assert.True(t, report.Semantic.Success)
}

func TestRunSemanticNeedsJob(t *testing.T) {
	m := &fakeMatcher{}
	report := run(t, textInput(shortResume, "   "), Options{Matcher: m})
	assert.Zero(t, m.calls.Load())
	assert.Equal(t, semantic.StatusSkipped, report.Semantic.Status)
	assert.Contains(t, report.Semantic.Error, "job description")
}

func TestRunIsDeterministic(t *testing.T) {
	job := "Senior Backend Engineer\nRequirements: Python, AWS, Kubernetes required. Terraform preferred.\n" + clearanceJob
	in := textInput(shortResume, job)

	first, err := json.Marshal(run(t, in, Options{}))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := json.Marshal(run(t, in, Options{}))
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(again))
	}
}

func TestRunFindingsSortedBySeverity(t *testing.T) {
	report := run(t, textInput("Just a line of text", clearanceJob), Options{})
	for i := 1; i < len(report.Findings); i++ {
		assert.GreaterOrEqual(t, report.Findings[i-1].Severity.Rank(), report.Findings[i].Severity.Rank())
	}
	assert.Equal(t, len(report.Findings), report.Summary.Total)
}

func TestGuardRecoversPanics(t *testing.T) {
	err := guard("keywords", func() error { panic("index out of range") })
	require.Error(t, err)
	assert.True(t, errors.IsPatternEngine(err))
	assert.Contains(t, err.Error(), "index out of range")
}

func TestKnockoutsStandalone(t *testing.T) {
	ko, err := Knockouts(shortResume, clearanceJob, nil, asOf)
	require.NoError(t, err)
	require.Len(t, ko.Items, 2)
	assert.Equal(t, knockout.RiskHigh, ko.Risk.Risk)

	none, err := Knockouts(shortResume, "Friendly team, great snacks.", nil, asOf)
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Equal(t, knockout.RiskLow, none.Risk.Risk)
}
