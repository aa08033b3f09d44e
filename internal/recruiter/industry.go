package recruiter

import (
	"sort"

	"atscheck/internal/keywords"
	"atscheck/internal/textnorm"
)

// industryVocabulary is domain language recruiters add to Boolean searches
// alongside skills.
var industryVocabulary = []string{
	"fintech", "payments", "banking", "trading", "capital markets", "insurance", "underwriting",
	"claims", "lending", "credit risk", "risk management", "wealth management", "accounting",
	"kyc", "aml", "pci", "sox", "healthcare", "clinical", "hipaa", "ehr", "emr", "fhir", "hl7",
	"pharmaceutical", "biotech", "medical devices", "life sciences", "e-commerce", "ecommerce",
	"retail", "marketplace", "supply chain", "logistics", "fulfillment", "manufacturing",
	"automotive", "aerospace", "defense", "government", "public sector", "telecommunications",
	"telecom", "media", "advertising", "adtech", "martech", "gaming", "edtech",
	"energy", "utilities", "oil and gas", "renewables", "real estate", "proptech", "hospitality",
	"saas", "b2b", "b2c", "enterprise", "startup", "nonprofit", "cybersecurity",
	"gdpr", "compliance", "regulatory", "fraud", "identity", "observability", "developer tools",
}

const (
	maxSignificantTerms = 12
	minSignificantLen   = 4
)

// jobIndustryTerms returns the vocabulary entries the job mentions. When the
// job uses none, it falls back to the job's most frequent significant words
// that are not already extracted keywords.
func jobIndustryTerms(jobText string, ks keywords.KeywordSet) (terms []string, fromVocabulary bool) {
	m := keywords.NewMatcher(jobText)
	for _, term := range industryVocabulary {
		if m.Contains(term) {
			terms = append(terms, term)
		}
	}
	if len(terms) > 0 {
		return terms, true
	}
	return significantTerms(jobText, ks), false
}

func significantTerms(jobText string, ks keywords.KeywordSet) []string {
	excluded := make(map[string]bool)
	for _, k := range ks.All {
		for _, s := range textnorm.Stems(k) {
			excluded[s] = true
		}
	}

	type counted struct {
		word  string
		count int
		first int
	}
	byStem := make(map[string]*counted)
	var order []*counted
	for i, tok := range textnorm.Tokenize(jobText) {
		w := tok.Lower
		if len(w) < minSignificantLen || keywords.IsStopWord(w) || !isWord(w) {
			continue
		}
		s := textnorm.Stem(w)
		if excluded[s] || titleNouns[s] {
			continue
		}
		if c, ok := byStem[s]; ok {
			c.count++
			continue
		}
		c := &counted{word: w, count: 1, first: i}
		byStem[s] = c
		order = append(order, c)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})
	if len(order) > maxSignificantTerms {
		order = order[:maxSignificantTerms]
	}
	out := make([]string, len(order))
	for i, c := range order {
		out[i] = c.word
	}
	return out
}

func isWord(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
