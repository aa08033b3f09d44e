// Package findings defines the finding taxonomy shared by every analyzer.
package findings

import "sort"

// Severity grades a finding. Info marks a positive observation and never
// counts as an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// Rank orders severities; higher is more severe. Unknown severities rank zero.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// IsIssue reports whether findings of this severity count as problems.
func (s Severity) IsIssue() bool {
	return s.Rank() > SeverityInfo.Rank()
}

// Category groups findings by the analyzer dimension that raised them.
type Category string

const (
	CategoryContent   Category = "content"
	CategoryLayout    Category = "layout"
	CategoryContact   Category = "contact"
	CategorySections  Category = "sections"
	CategoryKeywords  Category = "keywords"
	CategoryKnockouts Category = "knockouts"
	CategoryRecruiter Category = "recruiter"
)

// Finding is an immutable observation produced by an analyzer.
type Finding struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// CountIssues returns the number of findings that are not info.
func CountIssues(list []Finding) int {
	n := 0
	for _, f := range list {
		if f.Severity.IsIssue() {
			n++
		}
	}
	return n
}

// CountBySeverity tallies findings per severity. Every known severity is
// present in the result, zero when absent.
func CountBySeverity(list []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, s := range Severities {
		counts[s] = 0
	}
	for _, f := range list {
		counts[f.Severity]++
	}
	return counts
}

// Highest returns the most severe severity present, or info for an empty list.
func Highest(list []Finding) Severity {
	best := SeverityInfo
	for _, f := range list {
		if f.Severity.Rank() > best.Rank() {
			best = f.Severity
		}
	}
	return best
}

// Sort returns a copy ordered by descending severity. Findings of equal
// severity keep their relative order.
func Sort(list []Finding) []Finding {
	out := make([]Finding, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

// Filter returns the findings whose severity is at least min.
func Filter(list []Finding, min Severity) []Finding {
	var out []Finding
	for _, f := range list {
		if f.Severity.Rank() >= min.Rank() {
			out = append(out, f)
		}
	}
	return out
}

// Summary is the issue tally attached to composed reports.
type Summary struct {
	Total    int              `json:"total"`
	Issues   int              `json:"issues"`
	Highest  Severity         `json:"highest"`
	Severity map[Severity]int `json:"bySeverity"`
}

// Summarize builds a Summary for list.
func Summarize(list []Finding) Summary {
	return Summary{
		Total:    len(list),
		Issues:   CountIssues(list),
		Highest:  Highest(list),
		Severity: CountBySeverity(list),
	}
}
