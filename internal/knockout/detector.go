package knockout

import (
	"fmt"
	"regexp"
	"strings"

	"atscheck/internal/keywords"
	"atscheck/internal/textnorm"
)

// rule matches one kind of requirement within a single category. label builds
// the human-readable label; an empty label means no match. Rules without a
// pattern rely on label alone.
type rule struct {
	category Category
	pattern  *regexp.Regexp
	label    func(sentence, lower string) string
}

func fixed(label string) func(string, string) string {
	return func(string, string) string { return label }
}

var (
	negatedRequirement = regexp.MustCompile(`\b(?:no|not)\s+(?:\w+\s+){0,3}(?:required|necessary|needed|mandatory)\b`)
	optionalOnly       = regexp.MustCompile(`\b(?:preferred|nice to have|nice-to-have|a plus|bonus|desired|desirable|ideally|helpful)\b`)
	clauseBreak        = regexp.MustCompile(`(?i);|,\s*but\b|\bhowever\b,?|,\s*(?:although|though|whereas|while)\b`)
	strongRequirement  = regexp.MustCompile(`\b(?:required|must|mandatory)\b`)
	remoteAlternative  = regexp.MustCompile(`\bor\s+remote\b|\bremote\s+or\b|\bremote[-\s]friendly\b|\bremote\s+option`)
	liftWeight         = regexp.MustCompile(`(\d+)\s*(?:lbs?|pounds|kg)\b`)
	travelShare        = regexp.MustCompile(`(\d{1,3})\s*%`)
	genericCredential  = regexp.MustCompile(`\b(?:certification|certifications|certified|certificate|licen[cs]e[sd]?|licensure)\b`)
	credentialDemand   = regexp.MustCompile(`\b(?:required|require|requires|must|mandatory|need|needs|active|valid|current)\b`)
	driversLicense     = regexp.MustCompile(`\bdriver'?s?\s+licen[cs]e\b`)
)

// rules are grouped by category and tried in order; the first rule of a
// category that matches a sentence supplies the label.
var rules = []rule{
	{CategoryWorkAuthorization, regexp.MustCompile(`\b(?:u\.s\.?|us|united states)\s+citizen(?:s|ship)?\b`), fixed("U.S. citizenship required")},
	{CategoryWorkAuthorization, regexp.MustCompile(`\b(?:not|unable to|cannot|can't|will not|won't)\s+(?:provide\s+|offer\s+|support\s+)?(?:visa\s+)?sponsor(?:ship)?\b|\bsponsorship\s+(?:is\s+)?not\s+(?:available|offered|provided)\b|\b(?:without|no)\s+(?:visa\s+)?sponsorship\b|\brequire\s+(?:visa\s+)?sponsorship\b`), fixed("No visa sponsorship available")},
	{CategoryWorkAuthorization, regexp.MustCompile(`\b(?:authori[sz]ed|eligible|legally\s+able)\s+to\s+work\b|\bwork\s+authori[sz]ation\b|\bright\s+to\s+work\b|\bgreen\s+card\b|\bpermanent\s+residen(?:t|cy)\b`), fixed("Work authorization required")},

	{CategorySecurityClearance, regexp.MustCompile(`\bclearance\b|\bpolygraph\b|\bts\s*/\s*sci\b|\bpublic\s+trust\b`), clearanceLabel},

	{CategoryCertification, nil, certificationLabel},

	{CategoryDegree, nil, degreeLabel},

	{CategoryPhysical, regexp.MustCompile(`\b(?:lift|lifting|carry|carrying|push|pull)\s+(?:up\s+to\s+|at\s+least\s+)?\d+\s*(?:lbs?|pounds|kg)\b`), physicalLabel},
	{CategoryPhysical, regexp.MustCompile(`\b(?:stand|standing|walk|walking|sit|sitting)\s+for\s+(?:long|extended|prolonged)\b|\bphysical(?:ly)?\s+(?:demanding|able|requirements?|demands)\b|\b(?:able|ability)\s+to\s+lift\b`), physicalLabel},

	{CategoryLocation, regexp.MustCompile(`\b(?:on-?site|in[\s-]office|in[\s-]person)\b|\bnot\s+(?:a\s+)?remote\b|\bno\s+remote\b`), fixed("On-site work required")},
	{CategoryLocation, regexp.MustCompile(`\bhybrid\s+(?:role|position|schedule|work|model|arrangement)\b|\b\d\s+days?\s+(?:a|per)\s+week\s+in\s+(?:the\s+)?office\b`), fixed("Hybrid in-office attendance")},
	{CategoryLocation, regexp.MustCompile(`\b(?:must|required\s+to|willing(?:ness)?\s+to)\s+relocate\b|\brelocation\s+(?:is\s+)?required\b`), fixed("Relocation required")},
	{CategoryLocation, regexp.MustCompile(`\bmust\s+(?:reside|live|be\s+located|be\s+based)\s+(?:in|within|near)\b|\blocal\s+candidates\s+only\b`), fixed("Must reside in the area")},
	{CategoryLocation, regexp.MustCompile(`\btravel\s+(?:up\s+to\s+)?\d{1,3}\s*%|\b\d{1,3}\s*%\s+travel\b|\bwilling(?:ness)?\s+to\s+travel\b`), travelLabel},
}

// Detect scans job text for disqualifying requirements. Items are ordered by
// CategoryOrder and then by position in the text. Identical evidence within a
// category collapses to one item. Experience requirements are reduced to a
// single item holding the highest threshold.
func Detect(jobText string) []Item {
	byCategory := make(map[Category][]Item)
	seen := make(map[string]bool)

	for _, sentence := range textnorm.Sentences(jobText) {
		text, lower, ok := requirementText(sentence)
		if !ok {
			continue
		}
		matched := make(map[Category]bool)
		for _, r := range rules {
			if matched[r.category] || (r.pattern != nil && !r.pattern.MatchString(lower)) {
				continue
			}
			label := r.label(text, lower)
			if label == "" {
				continue
			}
			if r.category == CategoryLocation && remoteAlternative.MatchString(lower) {
				continue
			}
			matched[r.category] = true
			it := newItem(r.category, label, sentence)
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			byCategory[r.category] = append(byCategory[r.category], it)
		}
	}

	if req, ok := parseRequirement(jobText); ok {
		byCategory[CategoryExperience] = append(byCategory[CategoryExperience], req.item())
	}

	out := make([]Item, 0)
	for _, c := range CategoryOrder {
		out = append(out, byCategory[c]...)
	}
	return out
}

func lowerText(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "’", "'"))
}

// requirementText drops the clauses of sentence that state a requirement is
// absent or merely preferred and returns the rest, joined, with its lowercase
// form. ok is false when no clause is left.
func requirementText(sentence string) (text, lower string, ok bool) {
	var kept []string
	for _, clause := range clauseBreak.Split(sentence, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" || skipClause(lowerText(clause)) {
			continue
		}
		kept = append(kept, clause)
	}
	if len(kept) == 0 {
		return "", "", false
	}
	text = strings.Join(kept, "; ")
	return text, lowerText(text), true
}

func skipClause(lower string) bool {
	if negatedRequirement.MatchString(lower) {
		return true
	}
	return optionalOnly.MatchString(lower) && !strongRequirement.MatchString(lower)
}

func clearanceLabel(_, lower string) string {
	level := clearanceLevelOf(lower)
	label := "Security clearance"
	if level != clearanceGeneric {
		label = level.String() + " clearance"
	}
	if strings.Contains(lower, "polygraph") {
		if level == clearanceGeneric && !strings.Contains(lower, "clearance") {
			return "Polygraph required"
		}
		label += " with polygraph"
	}
	return label
}

// certificationLabel names certifications in their original casing.
func certificationLabel(sentence, lower string) string {
	if names := keywords.Certifications(sentence); len(names) > 0 {
		return "Certification: " + strings.Join(names, ", ")
	}
	if driversLicense.MatchString(lower) {
		return "Valid driver's license"
	}
	if genericCredential.MatchString(lower) && credentialDemand.MatchString(lower) {
		if strings.Contains(lower, "licen") {
			return "Professional license required"
		}
		return "Professional certification required"
	}
	return ""
}

func degreeLabel(_, lower string) string {
	if !mentionsDegree(lower) {
		return ""
	}
	switch minDegree(lower) {
	case degreeDoctorate:
		return "Doctorate required"
	case degreeMaster:
		return "Master's degree required"
	case degreeBachelor:
		return "Bachelor's degree required"
	case degreeAssociate:
		return "Associate degree required"
	case degreeHighSchool:
		return "High school diploma required"
	}
	return "Degree required"
}

func physicalLabel(_, lower string) string {
	if m := liftWeight.FindStringSubmatch(lower); m != nil && strings.Contains(lower, "lift") {
		unit := "lbs"
		if strings.Contains(m[0], "kg") {
			unit = "kg"
		}
		return fmt.Sprintf("Physical requirement: lifting up to %s %s", m[1], unit)
	}
	return "Physical requirements"
}

func travelLabel(_, lower string) string {
	if m := travelShare.FindStringSubmatch(lower); m != nil {
		return fmt.Sprintf("Travel up to %s%%", m[1])
	}
	return "Travel required"
}
