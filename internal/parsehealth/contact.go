package parsehealth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"atscheck/internal/findings"
	"atscheck/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// A run of digits and phone separators on one line; phoneShaped decides.
	phoneCandidate = regexp.MustCompile(`\+?\(?\d[\d \t().\-]*\d`)
	digitGroup     = regexp.MustCompile(`\d+`)
)

const headerRiskHigh = 0.5

type contactPresence struct {
	email bool
	phone bool
}

func (c contactPresence) any() bool { return c.email || c.phone }

func detectContact(text string) contactPresence {
	return contactPresence{
		email: emailPattern.MatchString(text),
		phone: hasPhone(text),
	}
}

// hasPhone accepts +1 (555) 123-4567, 555.123.4567, +44 20 7946 0958 and
// similar. ZIP+4 codes, dates, IDs and bare number runs are rejected: without
// a + prefix a number needs separators, 10 or 11 digits and a final group of
// four.
func hasPhone(text string) bool {
	for _, loc := range phoneCandidate.FindAllStringIndex(text, -1) {
		if !standsAlone(text, loc[0], loc[1]) {
			continue
		}
		candidate := text[loc[0]:loc[1]]
		groups := digitGroup.FindAllString(candidate, -1)
		plus := strings.HasPrefix(candidate, "+")
		// Other numbers can share the line, so every run of groups is tried.
		// The + prefix only belongs to a run that starts at the first group.
		for i := range groups {
			for j := len(groups); j > i; j-- {
				if phoneShaped(groups[i:j], plus && i == 0) {
					return true
				}
			}
		}
	}
	return false
}

func phoneShaped(groups []string, plus bool) bool {
	digits := 0
	for i, g := range groups {
		if len(g) > 4 && !(len(groups) == 1 && plus) {
			return false
		}
		if i > 0 && len(g) < 2 {
			return false
		}
		digits += len(g)
	}
	last := len(groups[len(groups)-1])
	if plus {
		return digits >= 8 && digits <= 15 && (len(groups) == 1 || last >= 3)
	}
	return len(groups) >= 3 && digits >= 10 && digits <= 11 && last == 4
}

// standsAlone rejects numbers glued to words, currency or percent signs.
func standsAlone(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("$€£#/", r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' || r == '/' {
			return false
		}
	}
	return true
}

func checkContact(body string, signals *types.LayoutSignals) *dimension {
	d := newDimension()

	inBody := detectContact(body)
	var inHeader contactPresence
	var headerRisk float64
	if signals != nil {
		inHeader = detectContact(signals.HeaderFooterText)
		headerRisk = signals.HeaderFooterContactRisk
	}

	if !inBody.email && !inHeader.email {
		d.deduct(50, findings.Finding{
			ID:          "contact-no-email",
			Severity:    findings.SeverityHigh,
			Category:    findings.CategoryContact,
			Title:       "No email address found",
			Description: "No email address could be extracted from the resume.",
			Impact:      "Recruiters cannot reach you and some ATS platforms reject the profile.",
			Suggestion:  "Add your email address as plain text near the top of the document.",
		})
	}
	if !inBody.phone && !inHeader.phone {
		d.deduct(30, findings.Finding{
			ID:          "contact-no-phone",
			Severity:    findings.SeverityMedium,
			Category:    findings.CategoryContact,
			Title:       "No phone number found",
			Description: "No phone number could be extracted from the resume.",
			Impact:      "Recruiters who screen by phone may skip the application.",
			Suggestion:  "Add a phone number in a standard format such as +1 555 123 4567.",
		})
	}

	if !inBody.any() && inHeader.any() {
		if headerRisk >= headerRiskHigh {
			d.deduct(40, findings.Finding{
				ID:          "contact-header-only",
				Severity:    findings.SeverityHigh,
				Category:    findings.CategoryContact,
				Title:       "Contact details only in page header or footer",
				Description: "Contact information appears only in the header/footer region, which this document's layout makes hard to extract.",
				Impact:      "Many ATS parsers drop header and footer content entirely.",
				Suggestion:  "Move your name, email and phone into the body of the first page.",
			})
		} else {
			d.deduct(15, findings.Finding{
				ID:          "contact-header-only",
				Severity:    findings.SeverityMedium,
				Category:    findings.CategoryContact,
				Title:       "Contact details only in page header or footer",
				Description: "Contact information appears only in the header/footer region.",
				Impact:      "Some ATS parsers skip header and footer content.",
				Suggestion:  "Repeat your contact details in the document body.",
			})
		}
	}

	d.confirmIfClean(findings.Finding{
		ID:          "contact-ok",
		Severity:    findings.SeverityInfo,
		Category:    findings.CategoryContact,
		Title:       "Contact information detected",
		Description: "Email and phone were found in the document body.",
		Impact:      "Recruiters can reach you directly from the parsed profile.",
	})
	return d
}
