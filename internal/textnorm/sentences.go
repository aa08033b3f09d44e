package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "jr": true, "sr": true,
	"st": true, "vs": true, "etc": true, "inc": true, "no": true, "approx": true,
	"yrs": true, "min": true, "max": true,
}

var bulletPrefixes = []string{"-", "*", "•", "·", "–", "—", "+", "○", "▪", "►"}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// IsBullet reports whether a trimmed line starts with a list marker.
func IsBullet(line string) bool {
	_, ok := StripBullet(line)
	return ok
}

// StripBullet removes a leading list marker ("-", "•", "1.", "2)") from a
// trimmed line.
func StripBullet(line string) (string, bool) {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			rest := strings.TrimPrefix(line, p)
			if p == "-" || p == "*" || p == "+" {
				// "-5 years" or "*required" are not list markers
				if rest == "" || !unicode.IsSpace(firstRune(rest)) {
					return line, false
				}
			}
			return strings.TrimSpace(rest), true
		}
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i <= 2 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+1:]), true
	}
	return line, false
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// Sentences splits text into sentences, line by line.
func Sentences(text string) []string {
	var out []string
	for _, line := range Lines(text) {
		body, _ := StripBullet(line)
		out = append(out, SplitSentences(body)...)
	}
	return out
}

// SplitSentences splits a single line at sentence terminators. The terminator
// stays with its sentence except for semicolons. A period closing an
// abbreviation such as "U.S." or "e.g." does not end a sentence.
func SplitSentences(line string) []string {
	var out []string
	start := 0
	push := func(end int) {
		if s := strings.TrimSpace(line[start:end]); s != "" {
			out = append(out, s)
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '.' && c != '!' && c != '?' && c != ';' {
			continue
		}
		atEnd := i+1 == len(line)
		if !atEnd && line[i+1] != ' ' && line[i+1] != '\t' {
			continue
		}
		if c == '.' && isAbbreviation(line[start:i]) {
			continue
		}
		if c == ';' {
			push(i)
		} else {
			push(i + 1)
		}
		start = i + 1
	}
	push(len(line))
	return out
}

func isAbbreviation(before string) bool {
	idx := strings.LastIndexFunc(before, unicode.IsSpace)
	word := before[idx+1:]
	if word == "" {
		return false
	}
	if strings.Contains(word, ".") {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
