package knockout

import (
	"fmt"
	"strings"

	"atscheck/internal/findings"
)

// Level is an overall knockout risk.
type Level string

const (
	RiskLow    Level = "low"
	RiskMedium Level = "medium"
	RiskHigh   Level = "high"
)

// RiskResult is derived from the confirmation states present at call time
// and must be recomputed after any answer changes.
type RiskResult struct {
	Risk        Level              `json:"risk"`
	Explanation string             `json:"explanation"`
	Findings    []findings.Finding `json:"findings"`
}

// CalculateRisk is high when any item is confirmed not met, medium when any
// item is unanswered and low otherwise.
func CalculateRisk(items []Item) RiskResult {
	var failed, open []Item
	for _, it := range items {
		switch it.UserConfirmed {
		case NotMet:
			failed = append(failed, it)
		case Unset:
			open = append(open, it)
		}
	}

	res := RiskResult{Findings: []findings.Finding{}}
	for _, it := range failed {
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "knockout-failed-" + it.ID,
			Severity:    findings.SeverityCritical,
			Category:    findings.CategoryKnockouts,
			Title:       "Requirement not met: " + it.Label,
			Description: fmt.Sprintf("The posting says: %q", it.Evidence),
			Impact:      "Screening questions on this requirement usually reject the application automatically.",
			Suggestion:  "Apply only if you can meet this requirement, or address it directly in your cover letter.",
		})
	}
	if len(open) > 0 {
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "knockout-unconfirmed",
			Severity:    findings.SeverityMedium,
			Category:    findings.CategoryKnockouts,
			Title:       fmt.Sprintf("%d requirement(s) need confirmation", len(open)),
			Description: "Confirm whether you meet: " + labels(open) + ".",
			Impact:      "Unanswered knockout requirements may disqualify the application.",
			Suggestion:  "Review each requirement and record whether you meet it.",
		})
	}

	switch {
	case len(failed) > 0:
		res.Risk = RiskHigh
		res.Explanation = "Requirement not met: " + labels(failed) + "."
	case len(open) > 0:
		res.Risk = RiskMedium
		res.Explanation = fmt.Sprintf("%d requirement(s) still need confirmation: %s.", len(open), labels(open))
	default:
		res.Risk = RiskLow
		res.Explanation = "No knockout requirements were detected."
		if len(items) > 0 {
			res.Explanation = fmt.Sprintf("All %d knockout requirement(s) are confirmed as met.", len(items))
		}
		res.Findings = append(res.Findings, findings.Finding{
			ID:          "knockout-clear",
			Severity:    findings.SeverityInfo,
			Category:    findings.CategoryKnockouts,
			Title:       "No knockout risk",
			Description: res.Explanation,
			Impact:      "Hard requirements should not block this application.",
		})
	}
	return res
}

func labels(items []Item) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Label
	}
	return strings.Join(names, "; ")
}
