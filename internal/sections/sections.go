// Package sections recognises resume section headings against a canonical
// vocabulary with synonyms and small typo tolerance.
package sections

import (
	"strings"
	"unicode"
)

// Section is a canonical resume section.
type Section string

const (
	Summary        Section = "Summary"
	Experience     Section = "Experience"
	Education      Section = "Education"
	Skills         Section = "Skills"
	Certifications Section = "Certifications"
	Projects       Section = "Projects"
	Awards         Section = "Awards"
	Publications   Section = "Publications"
	Volunteer      Section = "Volunteer"
	Languages      Section = "Languages"
	Interests      Section = "Interests"
	References     Section = "References"
)

type entry struct {
	section  Section
	synonyms []string
}

// vocabulary is ordered; earlier entries win fuzzy ties.
var vocabulary = []entry{
	{Experience, []string{"experience", "work experience", "professional experience", "employment history", "employment",
		"work history", "career history", "relevant experience", "professional background", "industry experience"}},
	{Education, []string{"education", "academic background", "education and training", "academic history",
		"educational background", "academics", "academic qualifications"}},
	{Skills, []string{"skills", "technical skills", "core competencies", "competencies", "key skills", "skills and abilities",
		"areas of expertise", "expertise", "technologies", "tech stack", "skills summary", "core skills",
		"professional skills", "tools and technologies", "technical proficiencies"}},
	{Summary, []string{"summary", "professional summary", "career summary", "executive summary", "profile",
		"professional profile", "about me", "objective", "career objective", "overview", "summary of qualifications",
		"qualifications summary"}},
	{Certifications, []string{"certifications", "certificates", "licenses and certifications", "licenses",
		"certifications and licenses", "professional certifications", "certification"}},
	{Projects, []string{"projects", "personal projects", "key projects", "selected projects", "side projects"}},
	{Awards, []string{"awards", "honors", "honors and awards", "awards and honors", "achievements", "accomplishments"}},
	{Publications, []string{"publications", "research", "presentations", "publications and presentations"}},
	{Volunteer, []string{"volunteer", "volunteer experience", "volunteering", "community involvement"}},
	{Languages, []string{"languages"}},
	{Interests, []string{"interests", "hobbies", "hobbies and interests"}},
	{References, []string{"references"}},
}

// Required lists the sections every ATS-friendly resume is expected to carry,
// in reporting order.
var Required = []Section{Experience, Education, Skills, Summary}

const maxHeadingWords = 5

// Match reports the canonical section a line introduces. A line such as
// "Skills: Go, SQL" matches on the text before the colon.
func Match(line string) (Section, bool) {
	candidate := headingText(line)
	if candidate == "" || len(strings.Fields(candidate)) > maxHeadingWords {
		return "", false
	}

	for _, e := range vocabulary {
		for _, syn := range e.synonyms {
			if candidate == syn {
				return e.section, true
			}
		}
	}

	for _, e := range vocabulary {
		for _, syn := range e.synonyms {
			if len(syn) < 6 {
				continue
			}
			limit := 1
			if len(syn) >= 12 {
				limit = 2
			}
			if levenshtein(candidate, syn) <= limit {
				return e.section, true
			}
		}
	}
	return "", false
}

// LooksLikeHeading reports whether a line is formatted as a heading: a short
// line that is upper case, ends with a colon, or carries a markdown marker.
func LooksLikeHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 40 || strings.ContainsAny(trimmed, "@0123456789|") {
		return false
	}
	marked := strings.HasPrefix(trimmed, "#")
	colon := strings.HasSuffix(trimmed, ":")
	text := strings.TrimSpace(strings.Trim(trimmed, "#*_: "))
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 4 {
		return false
	}
	if marked || colon {
		return true
	}
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 3 && letters == upper
}

// HeadingLabel returns the display text of a heading-like line.
func HeadingLabel(line string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "#*_: "))
}

func headingText(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#*_ ")
	if idx := strings.Index(s, ":"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.Trim(s, "*_ ")
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return s
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
