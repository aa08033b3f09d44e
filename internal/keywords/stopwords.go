package keywords

// stopWords filters common English and job-posting filler from candidate
// phrases.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true, "nor": true, "of": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "with": true, "by": true, "from": true,
	"as": true, "into": true, "onto": true, "over": true, "under": true, "about": true, "across": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "should": true, "could": true, "can": true, "may": true, "might": true, "must": true,
	"shall": true, "this": true, "that": true, "these": true, "those": true, "it": true, "its": true,
	"we": true, "our": true, "us": true, "you": true, "your": true, "they": true, "their": true,
	"he": true, "she": true, "his": true, "her": true, "them": true, "who": true, "whom": true,
	"which": true, "what": true, "when": true, "where": true, "why": true, "how": true,
	"all": true, "any": true, "each": true, "every": true, "some": true, "such": true, "no": true,
	"not": true, "only": true, "own": true, "same": true, "so": true, "than": true, "too": true,
	"very": true, "also": true, "just": true, "more": true, "most": true, "other": true, "new": true,
	"if": true, "then": true, "else": true, "while": true, "up": true, "out": true, "off": true,
	"i": true, "me": true, "my": true, "etc": true, "per": true, "via": true, "within": true,
	"work": true, "team": true, "role": true, "job": true, "join": true, "company": true,
	"experience": true, "years": true, "year": true, "ability": true, "able": true, "strong": true,
	"skills": true, "skill": true, "knowledge": true, "understanding": true, "including": true,
	"excellent": true, "good": true, "great": true, "well": true, "high": true, "using": true,
	"use": true, "used": true, "working": true, "responsible": true, "opportunity": true,
	"candidate": true, "candidates": true, "position": true, "plus": true, "preferred": true,
	"required": true, "requirements": true, "qualifications": true, "looking": true,
}

// IsStopWord reports whether a lowercase word carries no keyword signal.
func IsStopWord(word string) bool {
	return stopWords[word]
}
