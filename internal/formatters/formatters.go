package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"atscheck/internal/findings"
	"atscheck/internal/keywords"
	"atscheck/internal/knockout"
	"atscheck/internal/pipeline"
	"atscheck/internal/recruiter"
	"atscheck/internal/semantic"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "Report", &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", "Report", &ReportMarkdownFormatter{})
	registry.RegisterFormatter("text", "KeywordSet", &KeywordsTextFormatter{})
	registry.RegisterFormatter("markdown", "KeywordSet", &KeywordsMarkdownFormatter{})
	registry.RegisterFormatter("text", "KnockoutReport", &KnockoutsTextFormatter{})
	registry.RegisterFormatter("markdown", "KnockoutReport", &KnockoutsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *pipeline.Report, pipeline.Report:
		return "Report"
	case keywords.KeywordSet:
		return "KeywordSet"
	case pipeline.KnockoutReport:
		return "KnockoutReport"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asReport(data any) (*pipeline.Report, error) {
	switch r := data.(type) {
	case *pipeline.Report:
		if r == nil {
			return nil, fmt.Errorf("report is nil")
		}
		return r, nil
	case pipeline.Report:
		return &r, nil
	}
	return nil, fmt.Errorf("expected Report, got %T", data)
}

// ReportTextFormatter renders a full analysis as plain text
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	report, err := asReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	s := report.ParseHealth

	output.WriteString("=== PARSE HEALTH ===\n")
	fmt.Fprintf(&output, "Score: %d/100 (layout %d, contact %d, sections %d)\n\n", s.ParseHealth, s.LayoutScore, s.ContactScore, s.SectionScore)

	if !report.HasJob {
		output.WriteString("No job description supplied: keyword, knockout and recruiter checks were not run.\n\n")
	} else {
		output.WriteString("=== KEYWORD COVERAGE ===\n")
		fmt.Fprintf(&output, "Score: %d/100\n", report.Coverage.Score)
		writeTextList(&output, "Found", report.Coverage.FoundKeywords)
		writeTextList(&output, "Missing", report.Coverage.MissingKeywords)
		output.WriteString("\n")

		output.WriteString("=== KNOCKOUT RISK ===\n")
		writeKnockoutsText(&output, report.Knockouts, *report.KnockoutRisk)
		output.WriteString("\n")

		output.WriteString("=== RECRUITER SEARCH ===\n")
		writeRecruiterText(&output, report.Recruiter)
		output.WriteString("\n")
	}

	output.WriteString("=== SEMANTIC MATCH ===\n")
	output.WriteString(semanticLine(report.Semantic))
	output.WriteString("\n\n")

	output.WriteString("=== FINDINGS ===\n")
	fmt.Fprintf(&output, "%d issue(s), highest severity: %s\n\n", report.Summary.Issues, report.Summary.Highest)
	if len(report.Findings) == 0 {
		output.WriteString("No issues found.\n")
	}
	for i, f := range report.Findings {
		fmt.Fprintf(&output, "%d. [%s] %s\n", i+1, strings.ToUpper(string(f.Severity)), f.Title)
		output.WriteString("   " + f.Description + "\n")
		if f.Suggestion != "" {
			output.WriteString("   Suggestion: " + f.Suggestion + "\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return "Report"
}

// ReportMarkdownFormatter renders a full analysis as markdown
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, err := asReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	s := report.ParseHealth

	output.WriteString("# ATS Resume Analysis\n\n")
	output.WriteString("| Check | Score |\n|---|---|\n")
	fmt.Fprintf(&output, "| Parse health | %d/100 |\n", s.ParseHealth)
	if report.HasJob {
		fmt.Fprintf(&output, "| Keyword coverage | %d/100 |\n", report.Coverage.Score)
		fmt.Fprintf(&output, "| Recruiter search | %d/100 |\n", report.Recruiter.Score)
		fmt.Fprintf(&output, "| Knockout risk | %s |\n", report.KnockoutRisk.Risk)
	}
	if report.Semantic.Success {
		fmt.Fprintf(&output, "| Semantic match | %d/100 |\n", report.Semantic.Score)
	}
	output.WriteString("\n")

	output.WriteString("## Parse Health\n\n")
	fmt.Fprintf(&output, "- **Layout:** %d/100\n- **Contact:** %d/100\n- **Sections:** %d/100\n\n", s.LayoutScore, s.ContactScore, s.SectionScore)

	if report.HasJob {
		output.WriteString("## Keyword Coverage\n\n")
		writeMarkdownList(&output, "Found", report.Coverage.FoundKeywords)
		writeMarkdownList(&output, "Missing", report.Coverage.MissingKeywords)

		output.WriteString("## Knockouts\n\n")
		writeKnockoutsMarkdown(&output, report.Knockouts, *report.KnockoutRisk)

		output.WriteString("## Recruiter Search\n\n")
		b := report.Recruiter.Breakdown
		output.WriteString("| Factor | Score | Weight |\n|---|---|---|\n")
		for _, row := range breakdownRows(b) {
			fmt.Fprintf(&output, "| %s | %d | %.2f |\n", row.name, row.factor.Score, row.factor.Weight)
		}
		output.WriteString("\n")
		if len(report.Recruiter.Suggestions) > 0 {
			output.WriteString("### Suggestions\n\n")
			for _, sug := range report.Recruiter.Suggestions {
				fmt.Fprintf(&output, "- %s\n", sug)
			}
			output.WriteString("\n")
		}
	} else {
		output.WriteString("_No job description supplied: keyword, knockout and recruiter checks were not run._\n\n")
	}

	output.WriteString("## Semantic Match\n\n")
	output.WriteString(semanticLine(report.Semantic))
	output.WriteString("\n\n")

	output.WriteString("## Findings\n\n")
	if len(report.Findings) == 0 {
		output.WriteString("No issues found.\n")
	}
	for _, f := range report.Findings {
		fmt.Fprintf(&output, "### %s %s\n\n", severityBadge(f.Severity), f.Title)
		output.WriteString(f.Description + "\n\n")
		if f.Impact != "" {
			output.WriteString("**Impact:** " + f.Impact + "\n\n")
		}
		if f.Suggestion != "" {
			output.WriteString("**Suggestion:** " + f.Suggestion + "\n\n")
		}
	}

	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return "Report"
}

// KeywordsTextFormatter handles text formatting for extracted keywords
type KeywordsTextFormatter struct{}

func (ktf *KeywordsTextFormatter) Format(data any) (string, error) {
	ks, ok := data.(keywords.KeywordSet)
	if !ok {
		return "", fmt.Errorf("expected KeywordSet, got %T", data)
	}
	var output strings.Builder
	output.WriteString("=== JOB KEYWORDS ===\n")
	writeTextList(&output, "Critical", ks.Critical)
	writeTextList(&output, "Optional", ks.Optional)
	return output.String(), nil
}

func (ktf *KeywordsTextFormatter) SupportedType() string {
	return "KeywordSet"
}

// KeywordsMarkdownFormatter handles markdown formatting for extracted keywords
type KeywordsMarkdownFormatter struct{}

func (kmf *KeywordsMarkdownFormatter) Format(data any) (string, error) {
	ks, ok := data.(keywords.KeywordSet)
	if !ok {
		return "", fmt.Errorf("expected KeywordSet, got %T", data)
	}
	var output strings.Builder
	output.WriteString("# Job Keywords\n\n")
	writeMarkdownList(&output, "Critical", ks.Critical)
	writeMarkdownList(&output, "Optional", ks.Optional)
	return output.String(), nil
}

func (kmf *KeywordsMarkdownFormatter) SupportedType() string {
	return "KeywordSet"
}

// KnockoutsTextFormatter handles text formatting for knockout checks
type KnockoutsTextFormatter struct{}

func (ktf *KnockoutsTextFormatter) Format(data any) (string, error) {
	ko, ok := data.(pipeline.KnockoutReport)
	if !ok {
		return "", fmt.Errorf("expected KnockoutReport, got %T", data)
	}
	var output strings.Builder
	output.WriteString("=== KNOCKOUT RISK ===\n")
	writeKnockoutsText(&output, ko.Items, ko.Risk)
	return output.String(), nil
}

func (ktf *KnockoutsTextFormatter) SupportedType() string {
	return "KnockoutReport"
}

// KnockoutsMarkdownFormatter handles markdown formatting for knockout checks
type KnockoutsMarkdownFormatter struct{}

func (kmf *KnockoutsMarkdownFormatter) Format(data any) (string, error) {
	ko, ok := data.(pipeline.KnockoutReport)
	if !ok {
		return "", fmt.Errorf("expected KnockoutReport, got %T", data)
	}
	var output strings.Builder
	output.WriteString("# Knockout Requirements\n\n")
	writeKnockoutsMarkdown(&output, ko.Items, ko.Risk)
	return output.String(), nil
}

func (kmf *KnockoutsMarkdownFormatter) SupportedType() string {
	return "KnockoutReport"
}

func writeTextList(output *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(output, "%s: none\n", label)
		return
	}
	fmt.Fprintf(output, "%s: %s\n", label, strings.Join(items, ", "))
}

func writeMarkdownList(output *strings.Builder, label string, items []string) {
	fmt.Fprintf(output, "**%s:** ", label)
	if len(items) == 0 {
		output.WriteString("_none_\n\n")
		return
	}
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "`" + it + "`"
	}
	output.WriteString(strings.Join(quoted, ", ") + "\n\n")
}

func writeKnockoutsText(output *strings.Builder, items []knockout.EnhancedItem, risk knockout.RiskResult) {
	fmt.Fprintf(output, "Risk: %s\n%s\n", strings.ToUpper(string(risk.Risk)), risk.Explanation)
	for _, it := range items {
		fmt.Fprintf(output, "- [%s] %s (%s)\n", it.UserConfirmed, it.Label, it.ID)
		fmt.Fprintf(output, "    \"%s\"\n", it.Evidence)
		if it.Reason != "" {
			fmt.Fprintf(output, "    %s\n", it.Reason)
		}
	}
}

func writeKnockoutsMarkdown(output *strings.Builder, items []knockout.EnhancedItem, risk knockout.RiskResult) {
	fmt.Fprintf(output, "**Risk:** %s\n\n%s\n\n", risk.Risk, risk.Explanation)
	if len(items) == 0 {
		return
	}
	output.WriteString("| Requirement | Status | Evidence | ID |\n|---|---|---|---|\n")
	for _, it := range items {
		fmt.Fprintf(output, "| %s | %s | %s | `%s` |\n", it.Label, it.UserConfirmed, escapeCell(it.Evidence), it.ID)
	}
	output.WriteString("\n")
}

type breakdownRow struct {
	name   string
	factor recruiter.Factor
}

func breakdownRows(b recruiter.Breakdown) []breakdownRow {
	return []breakdownRow{
		{"Keyword match", b.KeywordMatch},
		{"Title alignment", b.TitleAlignment},
		{"Skills coverage", b.SkillsCoverage},
		{"Industry terms", b.IndustryTerms},
	}
}

func writeRecruiterText(output *strings.Builder, res *recruiter.Result) {
	fmt.Fprintf(output, "Score: %d/100\n", res.Score)
	for _, row := range breakdownRows(res.Breakdown) {
		fmt.Fprintf(output, "  %-16s %3d  %s\n", row.name, row.factor.Score, row.factor.Details)
	}
	if len(res.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		for _, s := range res.Suggestions {
			fmt.Fprintf(output, "- %s\n", s)
		}
	}
}

func semanticLine(res semantic.Result) string {
	switch res.Status {
	case semantic.StatusComplete:
		line := fmt.Sprintf("Score: %d/100", res.Score)
		if res.Rationale != "" {
			line += "\n" + res.Rationale
		}
		return line
	case semantic.StatusFailed:
		return "Failed: " + res.Error
	default:
		return "Not yet analyzed. " + res.Error
	}
}

func severityBadge(s findings.Severity) string {
	return "[" + strings.ToUpper(string(s)) + "]"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
