package knockout

import (
	"regexp"
	"strings"
)

type clearanceLevel int

const (
	clearanceGeneric clearanceLevel = iota
	clearancePublicTrust
	clearanceSecret
	clearanceTopSecret
	clearanceTSSCI
)

func (l clearanceLevel) String() string {
	switch l {
	case clearancePublicTrust:
		return "Public Trust"
	case clearanceSecret:
		return "Secret"
	case clearanceTopSecret:
		return "Top Secret"
	case clearanceTSSCI:
		return "TS/SCI"
	}
	return "Security"
}

var (
	tsSCI        = regexp.MustCompile(`\bts\s*/\s*sci\b`)
	secretWord   = regexp.MustCompile(`\bsecret\b`)
	clearanceRef = regexp.MustCompile(`\bclearance\b|\bcleared\b|\bts\s*/\s*sci\b|\bpublic\s+trust\b`)
)

// clearanceLevelOf returns the highest clearance level named in lowercased
// text.
func clearanceLevelOf(lower string) clearanceLevel {
	switch {
	case tsSCI.MatchString(lower):
		return clearanceTSSCI
	case strings.Contains(lower, "top secret"):
		return clearanceTopSecret
	case secretWord.MatchString(lower):
		return clearanceSecret
	case strings.Contains(lower, "public trust"):
		return clearancePublicTrust
	}
	return clearanceGeneric
}

type degreeLevel int

const (
	degreeNone degreeLevel = iota
	degreeHighSchool
	degreeAssociate
	degreeBachelor
	degreeMaster
	degreeDoctorate
)

func (l degreeLevel) String() string {
	switch l {
	case degreeHighSchool:
		return "high school diploma"
	case degreeAssociate:
		return "associate degree"
	case degreeBachelor:
		return "bachelor's degree"
	case degreeMaster:
		return "master's degree"
	case degreeDoctorate:
		return "doctorate"
	}
	return "degree"
}

var degreePatterns = []struct {
	level   degreeLevel
	pattern *regexp.Regexp
}{
	{degreeDoctorate, regexp.MustCompile(`\b(?:doctorate|doctoral|ph\.?\s?d)\b`)},
	{degreeMaster, regexp.MustCompile(`\bmaster'?s?\s+(?:degree|of|in)\b|\bmba\b|\bm\.sc?\.|\bm\.a\.|\b(?:ms|msc|ma)\s+(?:in|degree)\b|\b(?:bs|ba)\s*/\s*ms\b`)},
	{degreeBachelor, regexp.MustCompile(`\bbachelor'?s?\b|\bb\.sc?\.|\bb\.a\.|\bb\.eng\b|\b(?:bs|ba|bsc|beng)(?:\s*/\s*\w+)?\s+(?:in|degree)\b|\b(?:college|university|undergraduate|four-year|4-year)\s+degree\b`)},
	{degreeAssociate, regexp.MustCompile(`\bassociate'?s?\s+degree\b|\btwo-year\s+degree\b`)},
	{degreeHighSchool, regexp.MustCompile(`\bhigh\s+school\s+diploma\b|\bged\b`)},
}

var genericDegree = regexp.MustCompile(`\b(?:technical|related|relevant|advanced|engineering|graduate|equivalent)\s+degree\b|\bdegree\s+(?:in|required|from)\b`)

func degreeLevels(lower string) []degreeLevel {
	var out []degreeLevel
	for _, p := range degreePatterns {
		if p.pattern.MatchString(lower) {
			out = append(out, p.level)
		}
	}
	return out
}

// minDegree is the entry-level degree a requirement names. "BS/MS" means a
// bachelor's is enough.
func minDegree(lower string) degreeLevel {
	levels := degreeLevels(lower)
	if len(levels) == 0 {
		return degreeNone
	}
	return levels[len(levels)-1]
}

// maxDegree is the highest degree a resume lists.
func maxDegree(lower string) degreeLevel {
	levels := degreeLevels(lower)
	if len(levels) == 0 {
		return degreeNone
	}
	return levels[0]
}

func mentionsDegree(lower string) bool {
	return minDegree(lower) != degreeNone || genericDegree.MatchString(lower)
}
