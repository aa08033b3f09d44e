package parsehealth

import (
	"fmt"

	"atscheck/internal/findings"
	"atscheck/internal/types"
)

const (
	columnMergeHigh     = 0.7
	columnMergeElevated = 0.4
	lowTextDensity      = 0.2
)

func checkLayout(signals *types.LayoutSignals) *dimension {
	d := newDimension()
	if signals == nil {
		d.note(findings.Finding{
			ID:          "layout-no-signals",
			Severity:    findings.SeverityInfo,
			Category:    findings.CategoryLayout,
			Title:       "Layout checks skipped",
			Description: "No PDF layout signals were available for this file type.",
			Impact:      "Single-flow documents parse predictably in most ATS platforms.",
		})
		return d
	}

	switch cols := signals.EstimatedColumns; {
	case cols >= 3:
		d.deduct(35, findings.Finding{
			ID:          "layout-columns",
			Severity:    findings.SeverityHigh,
			Category:    findings.CategoryLayout,
			Title:       "Multi-column layout detected",
			Description: fmt.Sprintf("The document appears to use %d columns.", cols),
			Impact:      "Many ATS parsers read straight across the page, interleaving unrelated columns.",
			Suggestion:  "Use a single-column layout for the main content.",
		})
	case cols == 2:
		d.deduct(25, findings.Finding{
			ID:          "layout-columns",
			Severity:    findings.SeverityMedium,
			Category:    findings.CategoryLayout,
			Title:       "Two-column layout detected",
			Description: "The document appears to use two columns.",
			Impact:      "Sidebar content such as skills may be merged into the wrong section.",
			Suggestion:  "Move sidebar content into the main column.",
		})
	}

	switch risk := signals.ColumnMergeRisk; {
	case risk == nil:
	case *risk >= columnMergeHigh:
		d.deduct(30, findings.Finding{
			ID:          "layout-column-merge",
			Severity:    findings.SeverityHigh,
			Category:    findings.CategoryLayout,
			Title:       "High risk of merged text",
			Description: fmt.Sprintf("Text blocks overlap horizontally (risk %.2f).", *risk),
			Impact:      "Lines from separate blocks are likely to be joined into nonsense during parsing.",
			Suggestion:  "Avoid side-by-side text boxes and tables for layout.",
		})
	case *risk >= columnMergeElevated:
		d.deduct(15, findings.Finding{
			ID:          "layout-column-merge",
			Severity:    findings.SeverityMedium,
			Category:    findings.CategoryLayout,
			Title:       "Elevated risk of merged text",
			Description: fmt.Sprintf("Some text blocks sit side by side (risk %.2f).", *risk),
			Impact:      "Parts of lines may be attached to the wrong entry.",
			Suggestion:  "Keep dates and titles on the same line as their entry instead of in a separate column.",
		})
	}

	if density := signals.TextDensity; density != nil && *density < lowTextDensity {
		d.deduct(20, findings.Finding{
			ID:          "layout-low-density",
			Severity:    findings.SeverityMedium,
			Category:    findings.CategoryLayout,
			Title:       "Low text density",
			Description: fmt.Sprintf("Only %.0f%% of the page area carries extractable text.", *density*100),
			Impact:      "Content rendered as images or graphics is invisible to an ATS.",
			Suggestion:  "Replace graphics, icons and skill bars with plain text.",
		})
	}

	d.confirmIfClean(findings.Finding{
		ID:          "layout-ok",
		Severity:    findings.SeverityInfo,
		Category:    findings.CategoryLayout,
		Title:       "Layout is ATS friendly",
		Description: "Single column with dense, extractable text.",
		Impact:      "Content should be read in the intended order.",
	})
	return d
}
