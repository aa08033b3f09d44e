// Package coverage scores how many job keywords a resume contains.
package coverage

import (
	"fmt"
	"math"
	"strings"

	"atscheck/internal/findings"
	"atscheck/internal/keywords"
)

// Keyword weights. Optional keywords earn partial credit.
const (
	CriticalWeight = 1.0
	OptionalWeight = 0.5
)

// Thresholds on the share of critical keywords found.
const (
	lowCoverage    = 0.5
	strongCoverage = 0.8
)

// listLimit caps how many keywords are quoted in a finding.
const listLimit = 8

// Result is the output of Calculate.
type Result struct {
	Score           int                `json:"score"`
	FoundKeywords   []string           `json:"foundKeywords"`
	MissingKeywords []string           `json:"missingKeywords"`
	Findings        []findings.Finding `json:"findings"`
}

// Calculate compares resume text against a keyword set. Found and missing
// keywords keep the order of ks.All, which is derived from Critical and
// Optional when left empty.
func Calculate(resumeText string, ks keywords.KeywordSet) Result {
	res := Result{FoundKeywords: []string{}, MissingKeywords: []string{}, Findings: []findings.Finding{}}
	ks = ks.WithUnion()
	if ks.Empty() {
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "coverage-no-keywords",
			Severity:    findings.SeverityInfo,
			Category:    findings.CategoryKeywords,
			Title:       "No keywords to compare",
			Description: "No keywords could be extracted from the job description.",
			Impact:      "Keyword coverage cannot be assessed for this posting.",
		})
		return res
	}

	matcher := keywords.NewMatcher(resumeText)
	critical := make(map[string]bool, len(ks.Critical))
	for _, k := range ks.Critical {
		critical[k] = true
	}

	var earned, total float64
	var critFound int
	var missingCritical, missingOptional []string
	for _, kw := range ks.All {
		weight := OptionalWeight
		if critical[kw] {
			weight = CriticalWeight
		}
		total += weight
		if matcher.Contains(kw) {
			earned += weight
			res.FoundKeywords = append(res.FoundKeywords, kw)
			if critical[kw] {
				critFound++
			}
			continue
		}
		res.MissingKeywords = append(res.MissingKeywords, kw)
		if critical[kw] {
			missingCritical = append(missingCritical, kw)
		} else {
			missingOptional = append(missingOptional, kw)
		}
	}

	res.Score = int(math.Round(earned / total * 100))

	// Without critical keywords the overall weighted ratio stands in.
	ratio := earned / total
	label := "keywords"
	if len(ks.Critical) > 0 {
		ratio = float64(critFound) / float64(len(ks.Critical))
		label = "critical keywords"
	}

	switch {
	case ratio < lowCoverage:
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "coverage-low",
			Severity:    findings.SeverityHigh,
			Category:    findings.CategoryKeywords,
			Title:       "Low keyword coverage",
			Description: fmt.Sprintf("Only %.0f%% of %s appear in the resume. Missing: %s.", ratio*100, label, quote(missingOrAll(missingCritical, res.MissingKeywords))),
			Impact:      "Keyword filters are likely to rank this resume below other applicants.",
			Suggestion:  "Work the missing requirements into your experience bullets where they are true.",
		})
	case ratio < strongCoverage:
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "coverage-moderate",
			Severity:    findings.SeverityMedium,
			Category:    findings.CategoryKeywords,
			Title:       "Moderate keyword coverage",
			Description: fmt.Sprintf("%.0f%% of %s appear in the resume. Missing: %s.", ratio*100, label, quote(missingOrAll(missingCritical, res.MissingKeywords))),
			Impact:      "Some keyword searches for this role will not surface the resume.",
			Suggestion:  "Add the missing terms to your skills section or relevant roles.",
		})
	default:
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "coverage-strong",
			Severity:    findings.SeverityInfo,
			Category:    findings.CategoryKeywords,
			Title:       "Strong keyword coverage",
			Description: fmt.Sprintf("%.0f%% of %s appear in the resume.", ratio*100, label),
			Impact:      "The resume should pass keyword screens for this role.",
		})
	}

	if len(ks.Critical) > 0 && len(missingOptional) > 0 {
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "coverage-missing-optional",
			Severity:    findings.SeverityLow,
			Category:    findings.CategoryKeywords,
			Title:       "Preferred keywords missing",
			Description: fmt.Sprintf("Preferred terms not found: %s.", quote(missingOptional)),
			Impact:      "Preferred skills often break ties between qualified applicants.",
			Suggestion:  "Mention preferred skills you have, even briefly.",
		})
	}
	return res
}

func missingOrAll(critical, all []string) []string {
	if len(critical) > 0 {
		return critical
	}
	return all
}

func quote(list []string) string {
	if len(list) > listLimit {
		return strings.Join(list[:listLimit], ", ") + fmt.Sprintf(" and %d more", len(list)-listLimit)
	}
	return strings.Join(list, ", ")
}
