// Package parsehealth scores how reliably an ATS will extract a resume's
// structure and content.
package parsehealth

import (
	"math"
	"strings"

	"atscheck/internal/findings"
	"atscheck/internal/types"
)

// Weights of the three sub-scores in ParseHealth.
const (
	LayoutWeight  = 0.40
	ContactWeight = 0.30
	SectionWeight = 0.30
)

// Scores are integers in [0,100].
type Scores struct {
	ParseHealth  int `json:"parseHealth"`
	LayoutScore  int `json:"layoutScore"`
	ContactScore int `json:"contactScore"`
	SectionScore int `json:"sectionScore"`
}

// Result is the output of Analyze.
type Result struct {
	Scores   Scores             `json:"scores"`
	Findings []findings.Finding `json:"findings"`
}

// RollUp computes ParseHealth from the three sub-scores.
func RollUp(layout, contact, section int) int {
	v := LayoutWeight*float64(layout) + ContactWeight*float64(contact) + SectionWeight*float64(section)
	return clamp(int(math.Round(v)))
}

// Analyze runs the layout, contact and section checks over an artifact.
// A malformed artifact yields an InvalidInputError; empty text is valid and
// scores zero.
func Analyze(artifact types.ResumeArtifact) (Result, error) {
	if err := artifact.Validate(); err != nil {
		return Result{}, err
	}

	if strings.TrimSpace(artifact.Text) == "" {
		return Result{
			Scores: Scores{},
			Findings: []findings.Finding{{
				ID:          "content-empty",
				Severity:    findings.SeverityCritical,
				Category:    findings.CategoryContent,
				Title:       "No extractable text",
				Description: "The resume produced no machine-readable text.",
				Impact:      "An ATS will see an empty application and reject or ignore it.",
				Suggestion:  "Export the resume as a text-based PDF or DOCX rather than a scanned image.",
			}},
		}, nil
	}

	layout := checkLayout(artifact.Metadata.Layout)
	contact := checkContact(artifact.Text, artifact.Metadata.Layout)
	section := checkSections(artifact.Text, artifact.Metadata.PageCount)

	var all []findings.Finding
	all = append(all, layout.findings...)
	all = append(all, contact.findings...)
	all = append(all, section.findings...)

	return Result{
		Scores: Scores{
			ParseHealth:  RollUp(layout.score, contact.score, section.score),
			LayoutScore:  layout.score,
			ContactScore: contact.score,
			SectionScore: section.score,
		},
		Findings: all,
	}, nil
}

// dimension accumulates deductions for one sub-score.
type dimension struct {
	score    int
	findings []findings.Finding
}

func newDimension() *dimension {
	return &dimension{score: 100}
}

func (d *dimension) deduct(points int, f findings.Finding) {
	d.score = clamp(d.score - points)
	d.findings = append(d.findings, f)
}

func (d *dimension) note(f findings.Finding) {
	d.findings = append(d.findings, f)
}

// confirmIfClean appends the positive finding when nothing was flagged.
func (d *dimension) confirmIfClean(f findings.Finding) {
	if findings.CountIssues(d.findings) == 0 {
		d.findings = append(d.findings, f)
	}
}

func clamp(v int) int {
	return max(0, min(100, v))
}
