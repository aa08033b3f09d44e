package formatters

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"atscheck/internal/keywords"
	"atscheck/internal/pipeline"
	"atscheck/internal/types"
)

const testResume = `Jane Doe
jane@example.com | 555-123-4567

Experience
Software Engineer, Acme
Jan 2021 - Dec 2022
- Built Python services on AWS

Skills
Python, AWS`

const testJob = "Must have active Top Secret clearance. Python and AWS required."

func testReport(t *testing.T, job string) *pipeline.Report {
	t.Helper()
	report, err := pipeline.Run(context.Background(), pipeline.Input{
		Artifact: types.NewTextArtifact(testResume, types.FileTypeText),
		JobText:  job,
	}, pipeline.Options{AsOf: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	return report
}

func TestSupportedFormats(t *testing.T) {
	got := NewFormatterRegistry().GetSupportedFormats()
	want := []string{"json", "markdown", "text"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	report := testReport(t, testJob)
	out, err := GlobalRegistry.Format(report, "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"parseHealth", "coverage", "knockoutRisk", "recruiterSearch", "semantic", "findings", "summary"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in JSON output", key)
		}
	}
}

func TestReportText(t *testing.T) {
	out, err := GlobalRegistry.Format(testReport(t, testJob), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"=== PARSE HEALTH ===", "=== KEYWORD COVERAGE ===", "=== KNOCKOUT RISK ===", "Top Secret clearance", "=== RECRUITER SEARCH ===", "Not yet analyzed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected text output to contain %q", want)
		}
	}
}

func TestReportTextWithoutJob(t *testing.T) {
	out, err := GlobalRegistry.Format(testReport(t, ""), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No job description supplied") {
		t.Error("expected partial-results notice")
	}
	if strings.Contains(out, "=== KEYWORD COVERAGE ===") {
		t.Error("coverage must not render without a job description")
	}
}

func TestReportMarkdown(t *testing.T) {
	out, err := GlobalRegistry.Format(testReport(t, testJob), "markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"# ATS Resume Analysis", "| Parse health |", "## Knockouts", "| Requirement | Status | Evidence | ID |", "## Recruiter Search"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown output to contain %q", want)
		}
	}
}

func TestKeywordFormatters(t *testing.T) {
	ks := keywords.KeywordSet{Critical: []string{"Python"}, Optional: []string{}, All: []string{"Python"}}

	text, err := GlobalRegistry.Format(ks, "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Critical: Python") || !strings.Contains(text, "Optional: none") {
		t.Errorf("unexpected text output: %s", text)
	}

	md, err := GlobalRegistry.Format(ks, "markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(md, "**Critical:** `Python`") {
		t.Errorf("unexpected markdown output: %s", md)
	}
}

func TestKnockoutFormatters(t *testing.T) {
	ko, err := pipeline.Knockouts(testResume, testJob, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := GlobalRegistry.Format(ko, "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, ko.Items[0].ID) {
		t.Error("expected knockout ids in output so they can be confirmed")
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(testReport(t, ""), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWrongTypeForFormatter(t *testing.T) {
	if _, err := (&ReportTextFormatter{}).Format("not a report"); err == nil {
		t.Error("expected type error")
	}
	var nilReport *pipeline.Report
	if _, err := (&ReportMarkdownFormatter{}).Format(nilReport); err == nil {
		t.Error("expected error for nil report")
	}
}
