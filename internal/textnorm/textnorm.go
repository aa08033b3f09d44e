// Package textnorm holds the tokenizer, stemmer and sentence splitter shared by
// the analyzers. Everything here is pure and allocation-light.
package textnorm

import (
	"strings"
	"unicode"
)

// Token is a word lifted from source text. Start and End are byte offsets into
// the text that was tokenized, so callers can recover the original surface.
type Token struct {
	Text  string
	Lower string
	Start int
	End   int
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '\'' || r == '’'
}

// Tokenize splits s into word tokens. Like the job matcher it keeps + # . so
// c++, c# and node.js survive intact; hyphens and slashes separate words so
// "full-stack" and "full stack" tokenize alike.
func Tokenize(s string) []Token {
	var tokens []Token
	start := -1
	emit := func(end int) {
		if start < 0 {
			return
		}
		if tok, ok := trimToken(s, start, end); ok {
			tokens = append(tokens, tok)
		}
		start = -1
	}
	for i, r := range s {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		emit(i)
	}
	emit(len(s))
	return tokens
}

func trimToken(s string, start, end int) (Token, bool) {
	for end > start {
		last := s[end-1]
		if last == '.' || last == '\'' {
			end--
			continue
		}
		if strings.HasSuffix(s[start:end], "’") {
			end -= len("’")
			continue
		}
		break
	}
	for start < end {
		first := s[start]
		if first == '\'' || (first == '.' && (start+1 >= end || !isLetterByte(s[start+1]))) {
			start++
			continue
		}
		if strings.HasPrefix(s[start:end], "’") {
			start += len("’")
			continue
		}
		break
	}
	if start >= end {
		return Token{}, false
	}
	text := s[start:end]
	lower := strings.ToLower(text)
	lower = strings.TrimSuffix(strings.TrimSuffix(lower, "'s"), "’s")
	if lower == "" {
		return Token{}, false
	}
	return Token{Text: text, Lower: lower, Start: start, End: end}, true
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Words returns the lowercased tokens of s.
func Words(s string) []string {
	tokens := Tokenize(s)
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Lower
	}
	return out
}

// Stems returns the stemmed, lowercased tokens of s.
func Stems(s string) []string {
	tokens := Tokenize(s)
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Stem(t.Lower)
	}
	return out
}

// Stem reduces a lowercase word to a crude root so plural and verb forms of the
// same word compare equal. Short words and words with digits or symbols are
// returned unchanged.
func Stem(w string) string {
	if len(w) <= 3 || !isAlpha(w) {
		return w
	}

	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		w = w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"):
		w = w[:len(w)-2]
	case strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "xes"):
		w = w[:len(w)-2]
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
	case strings.HasSuffix(w, "s"):
		w = w[:len(w)-1]
	}

	switch {
	case strings.HasSuffix(w, "ing") && len(w) > 5:
		w = undouble(w[:len(w)-3])
	case strings.HasSuffix(w, "ed") && !strings.HasSuffix(w, "eed") && len(w) > 4:
		w = undouble(w[:len(w)-2])
	}

	if strings.HasSuffix(w, "e") && len(w) > 4 {
		w = w[:len(w)-1]
	}
	return w
}

func undouble(w string) string {
	n := len(w)
	if n < 3 || w[n-1] != w[n-2] {
		return w
	}
	switch w[n-1] {
	case 'l', 's', 'z', 'f':
		return w
	}
	return w[:n-1]
}

func isAlpha(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// ContainsSeq reports whether needle appears contiguously in hay.
func ContainsSeq(hay, needle []string) bool {
	return IndexSeq(hay, needle) >= 0
}

// IndexSeq returns the first index of needle in hay, or -1.
func IndexSeq(hay, needle []string) int {
	if len(needle) == 0 || len(needle) > len(hay) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, w := range needle {
			if hay[i+j] != w {
				continue outer
			}
		}
		return i
	}
	return -1
}

// Normalize lowercases s, collapses whitespace and trims trailing punctuation.
func Normalize(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimRight(s, ".,;:!? ")
}
