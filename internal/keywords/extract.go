// Package keywords turns job-description text into a classified keyword set
// and matches keywords against resume text.
package keywords

import (
	"regexp"
	"strings"
	"unicode"

	"atscheck/internal/sections"
	"atscheck/internal/textnorm"
)

// KeywordSet is the classified output of Extract. Critical and Optional are
// disjoint; All is their union in first-seen order.
type KeywordSet struct {
	Critical []string `json:"critical"`
	Optional []string `json:"optional"`
	All      []string `json:"all"`
}

// Empty reports whether no keywords were extracted.
func (ks KeywordSet) Empty() bool {
	return len(ks.All) == 0 && len(ks.Critical) == 0 && len(ks.Optional) == 0
}

// WithUnion returns ks with All filled in from Critical then Optional when a
// caller built the set by hand and left All empty. Duplicates are dropped,
// ignoring case.
func (ks KeywordSet) WithUnion() KeywordSet {
	if len(ks.All) > 0 {
		return ks
	}
	seen := make(map[string]bool, len(ks.Critical)+len(ks.Optional))
	all := make([]string, 0, len(ks.Critical)+len(ks.Optional))
	for _, list := range [][]string{ks.Critical, ks.Optional} {
		for _, k := range list {
			key := strings.ToLower(k)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, k)
		}
	}
	ks.All = all
	return ks
}

// IsCritical reports whether keyword is in the critical list, ignoring case.
func (ks KeywordSet) IsCritical(keyword string) bool {
	for _, k := range ks.Critical {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

var (
	requirementSignal = regexp.MustCompile(`\b(required|requires|require|requirement|requirements|must|mandatory|essential|minimum of|minimum|at least)\b`)
	optionalSignal    = regexp.MustCompile(`\b(preferred|nice to have|nice-to-have|a plus|bonus|desired|desirable|ideally|helpful|optional)\b`)
	certifiedSignal   = regexp.MustCompile(`\bcertified\b`)
)

var requirementHeadings = map[string]bool{
	"requirements": true, "job requirements": true, "minimum requirements": true, "key requirements": true,
	"required qualifications": true, "minimum qualifications": true, "basic qualifications": true,
	"qualifications": true, "required skills": true, "required experience": true,
	"must have": true, "must haves": true, "must-have": true, "must-haves": true,
	"what you need": true, "what you'll need": true, "what you will need": true,
	"what we're looking for": true, "what we are looking for": true, "who you are": true, "you have": true,
	"essential skills": true, "essential requirements": true, "mandatory requirements": true,
}

var otherHeadings = map[string]bool{
	"preferred qualifications": true, "preferred": true, "preferred skills": true,
	"nice to have": true, "nice-to-have": true, "nice to haves": true, "bonus points": true, "bonus": true,
	"responsibilities": true, "key responsibilities": true, "what you'll do": true, "what you will do": true,
	"about us": true, "about the role": true, "about the company": true, "the role": true, "overview": true,
	"benefits": true, "perks": true, "what we offer": true, "compensation": true,
	"job description": true, "description": true, "location": true, "salary": true,
}

type headingKind int

const (
	notHeading headingKind = iota
	requirementsHeading
	otherHeading
	markedHeading
)

func classifyHeading(line string) headingKind {
	text := strings.TrimSpace(line)
	marked := strings.HasPrefix(text, "#") || strings.HasSuffix(text, ":")
	text = strings.Trim(text, "#*_: ")
	text = strings.ReplaceAll(text, "’", "'")
	text = strings.ToLower(strings.Join(strings.Fields(text), " "))
	switch {
	case requirementHeadings[text]:
		return requirementsHeading
	case otherHeadings[text]:
		return otherHeading
	case marked && len(strings.Fields(text)) <= 6:
		return markedHeading
	}
	return notHeading
}

// emphasisWordLimit bounds how long an unbulleted line under a requirements
// heading may be and still count as a list entry.
const emphasisWordLimit = 12

// Extract derives a KeywordSet from job-description text. Identical input
// always yields identical output, ordering included.
func Extract(jobText string) KeywordSet {
	var order []string
	surface := make(map[string]string)
	critical := make(map[string]bool)

	add := func(m match, crit bool) {
		if _, seen := surface[m.key]; !seen {
			surface[m.key] = m.text
			order = append(order, m.key)
		}
		if crit {
			critical[m.key] = true
		}
	}

	inRequirements := false
	for _, line := range textnorm.Lines(jobText) {
		switch classifyHeading(line) {
		case requirementsHeading:
			inRequirements = true
			continue
		case otherHeading:
			inRequirements = false
			continue
		case markedHeading:
			inRequirements = false
		}

		body, bulleted := textnorm.StripBullet(line)
		headingLike := !bulleted && sections.LooksLikeHeading(line)
		for _, sentence := range textnorm.SplitSentences(body) {
			emphasized := inRequirements && (bulleted || len(strings.Fields(sentence)) <= emphasisWordLimit)
			matches := scanSentence(sentence, !headingLike)
			crit := isCriticalContext(sentence, matches, emphasized)
			for _, m := range matches {
				add(m, crit)
			}
		}
	}

	ks := KeywordSet{Critical: []string{}, Optional: []string{}, All: []string{}}
	for _, key := range order {
		kw := surface[key]
		ks.All = append(ks.All, kw)
		if critical[key] {
			ks.Critical = append(ks.Critical, kw)
		} else {
			ks.Optional = append(ks.Optional, kw)
		}
	}
	return ks
}

func isCriticalContext(sentence string, matches []match, emphasized bool) bool {
	lower := strings.ToLower(sentence)
	required := requirementSignal.MatchString(lower)
	if optionalSignal.MatchString(lower) && !required {
		return false
	}
	if required || emphasized || certifiedSignal.MatchString(lower) {
		return true
	}
	for _, m := range matches {
		if m.term >= 0 && lexicon[m.term].Kind == KindCertification {
			return true
		}
	}
	return false
}

type match struct {
	term int // lexicon index, -1 for a technical-looking token outside the lexicon
	key  string
	text string
}

// scanSentence finds keyword candidates in one sentence, preferring the longest
// lexicon phrase (up to three words) at each position.
func scanSentence(sentence string, includeUnknown bool) []match {
	tokens := textnorm.Tokenize(sentence)
	var out []match
	for i := 0; i < len(tokens); {
		if m, n, ok := lexiconAt(sentence, tokens, i); ok {
			out = append(out, m)
			i += n
			continue
		}
		if includeUnknown && looksTechnical(tokens[i]) {
			out = append(out, match{term: -1, key: "~" + tokens[i].Lower, text: tokens[i].Text})
		}
		i++
	}
	return out
}

func lexiconMatches(sentence string) []match {
	return scanSentence(sentence, false)
}

func lexiconAt(sentence string, tokens []textnorm.Token, i int) (match, int, bool) {
	for n := min(maxGram, len(tokens)-i); n >= 1; n-- {
		words := make([]string, n)
		for j := 0; j < n; j++ {
			words[j] = tokens[i+j].Lower
		}
		e, ok := phraseIndex[strings.Join(words, " ")]
		if !ok {
			continue
		}
		t := lexicon[e.term]
		if e.exact && !exactCaseOK(sentence, tokens, i, t.Name) {
			continue
		}
		return match{
			term: e.term,
			key:  strings.ToLower(t.Name),
			text: sentence[tokens[i].Start:tokens[i+n-1].End],
		}, n, true
	}
	return match{}, 0, false
}

// exactCaseOK accepts an ExactCase term when its spelling matches and it is not
// merely a capitalised sentence opener. Short list-like sentences ("Go, Rust")
// and delimiter-followed tokens are accepted at any position.
func exactCaseOK(sentence string, tokens []textnorm.Token, i int, name string) bool {
	if tokens[i].Text != name {
		return false
	}
	if i > 0 || len(tokens) <= 4 || i+1 == len(tokens) {
		return true
	}
	between := sentence[tokens[i].End:tokens[i+1].Start]
	return strings.ContainsAny(between, ",/()")
}

var genericAcronyms = map[string]bool{
	"us": true, "usa": true, "uk": true, "eu": true, "eeo": true, "eoe": true, "ok": true, "id": true,
	"na": true, "tbd": true, "faq": true, "asap": true, "fte": true, "pto": true, "llc": true, "inc": true,
	"am": true, "pm": true, "est": true, "pst": true, "cst": true, "mst": true, "utc": true,
	"ii": true, "iii": true, "iv": true, "ts": true, "sci": true, "u.s": true, "u.s.a": true,
	"e.g": true, "i.e": true, "etc": true, "dr": true, "mr": true, "ms": true,
}

// looksTechnical reports whether a token outside the lexicon is shaped like a
// product or acronym: AWS, GraphQL, EC2, C#, Vue.js.
func looksTechnical(tok textnorm.Token) bool {
	if IsStopWord(tok.Lower) || genericAcronyms[tok.Lower] {
		return false
	}
	text := tok.Text
	var letters, upper, lower, digits int
	innerUpper := false
	for i, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
				if i > 0 {
					innerUpper = true
				}
			} else {
				lower++
			}
		case unicode.IsDigit(r):
			digits++
		}
	}
	if letters == 0 {
		return false
	}
	first := []rune(text)[0]
	switch {
	case strings.ContainsAny(text, "+#"):
		return true
	case letters >= 2 && lower == 0 && letters <= 5 && digits == 0:
		return true
	case innerUpper && lower > 0:
		return true
	case digits > 0 && unicode.IsLetter(first):
		return true
	case strings.Contains(strings.Trim(text, "."), ".") && letters >= 3:
		return true
	case strings.HasPrefix(text, ".") && letters >= 2:
		return true
	}
	return false
}
