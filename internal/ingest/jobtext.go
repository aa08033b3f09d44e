package ingest

import (
	"regexp"
	"strings"

	"atscheck/internal/errors"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTag        = regexp.MustCompile(`(?i)<\s*(html|body|div|p|ul|ol|li|br|h[1-6]|section|article|span)\b`)
	blankLineRuns  = regexp.MustCompile(`\n{3,}`)
	spaceRuns      = regexp.MustCompile(`[ \t]+`)
	noiseSelectors = "script, style, noscript, iframe, svg, nav, footer, header, aside, form, .cookie-banner, .advertisement, .ad, .sidebar, [role=navigation], [role=banner], [role=contentinfo]"
	jobSelectors   = []string{
		".job-description",
		"#job-description",
		".job-content",
		"[itemprop=description]",
		"article",
		"main",
	}
)

// LooksLikeHTML reports whether text appears to be an HTML fragment.
func LooksLikeHTML(text string) bool {
	return htmlTag.MatchString(text)
}

// HTMLToText converts a job posting page into markdown-flavoured text. Page
// chrome is removed first; when markdown conversion fails the plain text of
// the posting is used.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeInvalidFormat, "failed to parse HTML job description", err)
	}
	doc.Find(noiseSelectors).Remove()

	content := doc.Find("body")
	for _, sel := range jobSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}

	fragment, err := goquery.OuterHtml(content)
	if err == nil {
		if md, convErr := htmltomarkdown.ConvertString(fragment); convErr == nil && strings.TrimSpace(md) != "" {
			return tidy(md), nil
		}
	}

	var lines []string
	content.Find("h1, h2, h3, h4, p, li, dt, dd").Each(func(_ int, s *goquery.Selection) {
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return tidy(content.Text()), nil
	}
	return tidy(strings.Join(lines, "\n")), nil
}

// NormalizeJobText prepares job text for analysis, converting HTML when the
// file extension or the content says so.
func NormalizeJobText(text, ext string) (string, error) {
	if ext == ".html" || ext == ".htm" || (ext != ".md" && ext != ".markdown" && LooksLikeHTML(text)) {
		return HTMLToText(text)
	}
	return strings.TrimSpace(text), nil
}

// LoadJob reads a job description file.
func (r *Reader) LoadJob(filename string) (string, error) {
	data, err := r.ReadFile(filename)
	if err != nil {
		return "", err
	}
	text, err := NormalizeJobText(string(data), Extension(filename))
	if err != nil {
		return "", err
	}
	r.logger.Debug("Loaded job description", "file", filename, "chars", len(text))
	return text, nil
}

func tidy(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankLineRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
