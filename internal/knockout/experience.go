package knockout

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"atscheck/internal/sections"
	"atscheck/internal/textnorm"
)

// A requirement this far above the estimate is a failed knockout; an estimate
// this far above the requirement is a met one. Anything between stays unset.
const (
	materialGapYears = 1.0
	clearMarginYears = 0.5
	maxRequiredYears = 30
	earliestYear     = 1950
)

const countPattern = `(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty)`

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "fifteen": 15, "twenty": 20,
}

var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b` + countPattern + `\s*\+\s*(?:years?|yrs?)\b`),
	regexp.MustCompile(`\b(?:at\s+least|minimum\s+of|minimum|min\.?|no\s+less\s+than)\s+` + countPattern + `\s*\+?\s*(?:years?|yrs?)\b`),
	regexp.MustCompile(`\b` + countPattern + `\s+(?:or\s+more\s+)?(?:years?|yrs?)(?:\s+of)?(?:\s+[\w/+#.-]+){0,3}?\s+experience\b`),
	regexp.MustCompile(`\b` + countPattern + `\s+(?:years?|yrs?)\s+(?:required|minimum)\b`),
	regexp.MustCompile(`\((\d{1,2})\)\s*(?:years?|yrs?)\b`),
}

const (
	monthPattern = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`
	datePattern  = `(?:` + monthPattern + `\s+\d{4}|\d{1,2}/\d{4}|\d{4})`
)

var dateRange = regexp.MustCompile(`\b(` + datePattern + `)\s*(?:-|–|—|to|until|through)\s*(` + datePattern + `|present|current|now|today)\b`)

// yearRange rewrites "3-5 years" to its lower bound before matching.
var yearRange = regexp.MustCompile(`\b` + countPattern + `\s*(?:-|–|to)\s*\d{1,2}\s*(years?|yrs?)\b`)

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Date ranges under these headings are not work history.
var nonWorkSections = map[sections.Section]bool{
	sections.Education:      true,
	sections.Certifications: true,
	sections.Awards:         true,
	sections.Publications:   true,
}

type requirement struct {
	years    int
	evidence string
}

func (r requirement) item() Item {
	return newItem(CategoryExperience, fmt.Sprintf("Minimum %d years of experience", r.years), r.evidence)
}

// parseRequirement finds the highest explicit year count in job text.
func parseRequirement(jobText string) (requirement, bool) {
	var best requirement
	found := false
	for _, sentence := range textnorm.Sentences(jobText) {
		_, lower, ok := requirementText(sentence)
		if !ok {
			continue
		}
		lower = yearRange.ReplaceAllString(lower, "$1 $2")
		for _, re := range yearPatterns {
			for _, m := range re.FindAllStringSubmatch(lower, -1) {
				n := parseCount(m[1])
				if n < 1 || n > maxRequiredYears {
					continue
				}
				if !found || n > best.years {
					best = requirement{years: n, evidence: sentence}
					found = true
				}
			}
		}
	}
	return best, found
}

func parseCount(s string) int {
	if n, ok := numberWords[s]; ok {
		return n
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// DetectExperience compares the job's minimum years of experience with the
// work history in the resume, measured up to today.
func DetectExperience(resumeText, jobText string) *Item {
	return DetectExperienceAsOf(resumeText, jobText, time.Now())
}

// DetectExperienceAsOf is DetectExperience with an explicit clock for open
// ranges such as "2021 - Present". It returns nil when the job states no
// year requirement. The item is pre-populated only when the gap is material.
func DetectExperienceAsOf(resumeText, jobText string, asOf time.Time) *Item {
	req, ok := parseRequirement(jobText)
	if !ok {
		return nil
	}
	it := req.item()
	months := EstimateMonths(resumeText, asOf)
	if months == 0 {
		return &it
	}
	years := float64(months) / 12
	switch {
	case float64(req.years)-years >= materialGapYears:
		it.UserConfirmed, it.Source = NotMet, SourceAuto
	case years-float64(req.years) >= clearMarginYears:
		it.UserConfirmed, it.Source = Met, SourceAuto
	}
	return &it
}

// EstimateMonths sums non-overlapping date ranges found outside education
// and similar sections.
func EstimateMonths(resumeText string, asOf time.Time) int {
	now := asOf.Year()*12 + int(asOf.Month()) - 1
	var spans [][2]int
	var current sections.Section
	for _, line := range textnorm.Lines(resumeText) {
		if s, ok := sections.Match(line); ok {
			current = s
			continue
		}
		if nonWorkSections[current] {
			continue
		}
		for _, m := range dateRange.FindAllStringSubmatch(lowerText(line), -1) {
			if span, ok := parseSpan(m[1], m[2], now); ok {
				spans = append(spans, span)
			}
		}
	}
	return mergedLength(spans)
}

// parseSpan converts a range into half-open month indexes. A bare end year
// is exclusive so "2018 - 2020" spans two years.
func parseSpan(from, to string, now int) ([2]int, bool) {
	start, _, ok := parsePoint(from, now)
	if !ok {
		return [2]int{}, false
	}
	end, yearOnly, ok := parsePoint(to, now)
	if !ok {
		return [2]int{}, false
	}
	if yearOnly {
		if end <= start {
			end = start + 12
		}
	} else {
		end++
	}
	end = min(end, now+1)
	if end <= start {
		return [2]int{}, false
	}
	return [2]int{start, end}, true
}

func parsePoint(s string, now int) (idx int, yearOnly, ok bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "present", "current", "now", "today":
		return now, false, true
	}
	validYear := func(y int) bool { return y >= earliestYear && y*12 <= now+12 }

	if i := strings.IndexByte(s, '/'); i >= 0 {
		m, err1 := strconv.Atoi(s[:i])
		y, err2 := strconv.Atoi(s[i+1:])
		if err1 != nil || err2 != nil || m < 1 || m > 12 || !validYear(y) {
			return 0, false, false
		}
		return y*12 + m - 1, false, true
	}
	if fields := strings.Fields(s); len(fields) == 2 {
		m := months[fields[0][:3]]
		y, err := strconv.Atoi(fields[1])
		if m == 0 || err != nil || !validYear(y) {
			return 0, false, false
		}
		return y*12 + m - 1, false, true
	}
	y, err := strconv.Atoi(s)
	if err != nil || !validYear(y) {
		return 0, false, false
	}
	return y * 12, true, true
}

func mergedLength(spans [][2]int) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	total := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if s[0] <= cur[1] {
			cur[1] = max(cur[1], s[1])
			continue
		}
		total += cur[1] - cur[0]
		cur = s
	}
	return total + cur[1] - cur[0]
}
