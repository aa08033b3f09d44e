package keywords

import (
	"atscheck/internal/textnorm"
)

// Matcher answers keyword-presence questions against one body of text. Build
// it once per resume and reuse it for every keyword.
type Matcher struct {
	tokens []textnorm.Token
	stems  []string
}

// NewMatcher indexes text for keyword lookups.
func NewMatcher(text string) *Matcher {
	tokens := textnorm.Tokenize(text)
	stems := make([]string, len(tokens))
	for i, t := range tokens {
		stems[i] = textnorm.Stem(t.Lower)
	}
	return &Matcher{tokens: tokens, stems: stems}
}

// Contains reports whether keyword, one of its lexicon aliases, or an inflected
// form of either occurs in the text. ExactCase terms must appear with their
// canonical capitalisation.
func (m *Matcher) Contains(keyword string) bool {
	term, known := Lookup(keyword)
	if !known {
		return m.containsPhrase(keyword)
	}
	if term.ExactCase && m.containsExact(term.Name) {
		return true
	}
	if !term.ExactCase && m.containsPhrase(term.Name) {
		return true
	}
	for _, alias := range term.Aliases {
		if m.containsPhrase(alias) {
			return true
		}
	}
	if !term.ExactCase && m.containsPhrase(keyword) {
		return true
	}
	return false
}

func (m *Matcher) containsPhrase(phrase string) bool {
	return textnorm.ContainsSeq(m.stems, textnorm.Stems(phrase))
}

func (m *Matcher) containsExact(name string) bool {
	for _, t := range m.tokens {
		if t.Text == name {
			return true
		}
	}
	return false
}

// Partition splits keywords into found and missing, preserving input order.
func (m *Matcher) Partition(keywords []string) (found, missing []string) {
	found, missing = []string{}, []string{}
	for _, kw := range keywords {
		if m.Contains(kw) {
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return found, missing
}
