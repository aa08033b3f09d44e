package recruiter

import (
	"regexp"
	"strings"

	"atscheck/internal/keywords"
	"atscheck/internal/sections"
	"atscheck/internal/textnorm"
)

var titleNouns = stemSet(
	"engineer", "developer", "programmer", "architect", "manager", "analyst", "scientist",
	"designer", "administrator", "consultant", "specialist", "lead", "director", "coordinator",
	"technician", "officer", "intern", "head", "supervisor", "strategist", "researcher",
	"writer", "editor", "accountant", "recruiter", "nurse", "teacher", "representative",
	"associate", "executive", "owner", "sre", "president", "partner", "advisor", "instructor",
)

// Related title nouns earn half credit for each other.
var titleFamilies = map[string]string{
	"engineer": "build", "developer": "build", "programmer": "build",
	"manager": "lead", "lead": "lead", "head": "lead", "director": "lead", "supervisor": "lead",
	"analyst": "analysis", "scientist": "analysis", "researcher": "analysis",
}

var titleAbbreviations = map[string]string{
	"sr": "senior", "jr": "junior", "dev": "developer", "eng": "engineer", "mgr": "manager",
	"engr": "engineer", "admin": "administrator", "assoc": "associate", "mgmt": "management",
}

// Words that qualify a posting without being part of the title.
var titleNoise = map[string]bool{
	"remote": true, "hybrid": true, "onsite": true, "full": true, "time": true, "part": true,
	"contract": true, "temporary": true, "permanent": true, "m": true, "f": true, "d": true,
}

var (
	titleLabel   = regexp.MustCompile(`(?i)^\s*(?:job\s+title|position|role|title)\s*:\s*(.+)$`)
	hiringPhrase = regexp.MustCompile(`(?i)\b(?:looking\s+for|hiring|seeking|searching\s+for|join\s+us\s+as)\s+(?:an?\s+|our\s+next\s+)?([a-z][a-z/+#.\- ]{2,60}?)(?:\s+(?:to|who|with|that|in|at|for|on)\b|[.,;!(]|$)`)
	titleSplit   = regexp.MustCompile(`\s*(?:,|\||\s+at\s+|\s+[-–—]\s+|\s+@\s+)\s*`)
)

const (
	maxJobTitleWords    = 8
	maxResumeTitleWords = 10
	resumeHeadlineLines = 5
)

func stemSet(words ...string) map[string]bool {
	out := make(map[string]bool, len(words))
	for _, w := range words {
		out[textnorm.Stem(w)] = true
	}
	return out
}

// titleTokens canonicalises a title into stemmed words, dropping filler.
func titleTokens(title string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range textnorm.Words(title) {
		w = strings.TrimSuffix(w, ".")
		if full, ok := titleAbbreviations[w]; ok {
			w = full
		}
		if keywords.IsStopWord(w) || titleNoise[w] || !hasLetter(w) {
			continue
		}
		s := textnorm.Stem(w)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func hasLetter(w string) bool {
	return strings.IndexFunc(w, func(r rune) bool { return r >= 'a' && r <= 'z' }) >= 0
}

func hasTitleNoun(tokens []string) bool {
	for _, t := range tokens {
		if titleNouns[t] {
			return true
		}
	}
	return false
}

func cleanLine(line string) string {
	body, _ := textnorm.StripBullet(line)
	return strings.TrimSpace(strings.Trim(body, "#*_ "))
}

// jobTitle finds the advertised title: an explicit "Title:" line, a short
// first line naming a role, or a "we are hiring a ..." phrase.
func jobTitle(jobText string) string {
	lines := textnorm.Lines(jobText)
	for _, line := range lines {
		if m := titleLabel.FindStringSubmatch(cleanLine(line)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if len(lines) > 0 {
		first := cleanLine(lines[0])
		if len(strings.Fields(first)) <= maxJobTitleWords && !strings.ContainsAny(first, ".!?@") && hasTitleNoun(titleTokens(first)) {
			return first
		}
	}
	for _, m := range hiringPhrase.FindAllStringSubmatch(jobText, -1) {
		candidate := strings.TrimSpace(m[1])
		if hasTitleNoun(titleTokens(candidate)) {
			return candidate
		}
	}
	return ""
}

// resumeTitle returns the most recent title under Experience, falling back to
// a headline near the top of the resume.
func resumeTitle(resumeText string) string {
	lines := textnorm.Lines(resumeText)
	var current sections.Section
	for _, line := range lines {
		if s, ok := sections.Match(line); ok {
			current = s
			continue
		}
		if current == sections.Experience {
			if t := titleIn(line); t != "" {
				return t
			}
		}
	}
	for i, line := range lines {
		if i >= resumeHeadlineLines {
			break
		}
		if t := titleIn(line); t != "" {
			return t
		}
	}
	return ""
}

func titleIn(line string) string {
	line = cleanLine(line)
	if line == "" || len(strings.Fields(line)) > maxResumeTitleWords || strings.Contains(line, "@") {
		return ""
	}
	for _, part := range titleSplit.Split(line, -1) {
		if hasTitleNoun(titleTokens(part)) {
			return strings.TrimSpace(part)
		}
	}
	return ""
}
