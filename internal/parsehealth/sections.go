package parsehealth

import (
	"fmt"
	"strings"

	"atscheck/internal/findings"
	"atscheck/internal/sections"
	"atscheck/internal/textnorm"
)

type sectionRule struct {
	deduction int
	severity  findings.Severity
	impact    string
}

var requiredSections = map[sections.Section]sectionRule{
	sections.Experience: {35, findings.SeverityHigh, "ATS platforms map job history from the Experience section; without it your roles may not be indexed."},
	sections.Skills:     {25, findings.SeverityHigh, "Skills sections feed keyword filters directly; listing skills only in prose lowers match rates."},
	sections.Education:  {20, findings.SeverityMedium, "Degree filters rely on a recognisable Education section."},
	sections.Summary:    {10, findings.SeverityLow, "A summary gives recruiters and search ranking a concise match signal."},
}

const (
	unknownHeadingDeduction = 5
	unknownHeadingCap       = 15
	maxPages                = 2
)

func checkSections(text string, pageCount int) *dimension {
	d := newDimension()

	found := make(map[sections.Section]bool)
	var unknown []string
	for i, line := range textnorm.Lines(text) {
		if s, ok := sections.Match(line); ok {
			found[s] = true
			continue
		}
		// the first line is usually the candidate's name
		if i > 0 && sections.LooksLikeHeading(line) {
			unknown = append(unknown, sections.HeadingLabel(line))
		}
	}

	for _, s := range sections.Required {
		if found[s] {
			continue
		}
		rule := requiredSections[s]
		d.deduct(rule.deduction, findings.Finding{
			ID:          "sections-missing-" + strings.ToLower(string(s)),
			Severity:    rule.severity,
			Category:    findings.CategorySections,
			Title:       fmt.Sprintf("Missing %s section", s),
			Description: fmt.Sprintf("No heading recognisable as %q was found.", s),
			Impact:      rule.impact,
			Suggestion:  fmt.Sprintf("Add a clearly labelled %q heading.", s),
		})
	}

	if len(unknown) > 0 {
		d.deduct(min(unknownHeadingCap, unknownHeadingDeduction*len(unknown)), findings.Finding{
			ID:          "sections-unrecognized",
			Severity:    findings.SeverityMedium,
			Category:    findings.CategorySections,
			Title:       "Unrecognised section headings",
			Description: fmt.Sprintf("These headings do not match standard section names: %s.", strings.Join(unknown, ", ")),
			Impact:      "Content under non-standard headings may be filed in the wrong place or dropped.",
			Suggestion:  "Rename creative headings to standard ones such as Experience, Skills or Education.",
		})
	}

	if pageCount > maxPages {
		d.note(findings.Finding{
			ID:          "sections-length",
			Severity:    findings.SeverityLow,
			Category:    findings.CategorySections,
			Title:       "Resume is longer than two pages",
			Description: fmt.Sprintf("The document has %d pages.", pageCount),
			Impact:      "Recruiters skim; content on later pages is rarely read.",
			Suggestion:  "Trim older or less relevant roles to fit two pages.",
		})
	}

	d.confirmIfClean(findings.Finding{
		ID:          "sections-ok",
		Severity:    findings.SeverityInfo,
		Category:    findings.CategorySections,
		Title:       "Standard sections detected",
		Description: "Experience, Education, Skills and Summary headings were all recognised.",
		Impact:      "Parsers can file each part of the resume correctly.",
	})
	return d
}
