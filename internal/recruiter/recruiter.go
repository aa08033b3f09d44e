// Package recruiter estimates how visible a resume is to recruiters running
// manual keyword and title searches.
package recruiter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"atscheck/internal/keywords"
	"atscheck/internal/textnorm"
)

// Factor weights; they sum to 1.
const (
	KeywordMatchWeight   = 0.35
	TitleAlignmentWeight = 0.25
	SkillsCoverageWeight = 0.25
	IndustryTermsWeight  = 0.15
)

const (
	suggestionThreshold = 80
	maxSuggestions      = 5
	listLimit           = 5
	neutralTitleScore   = 50
	titlePhraseScore    = 60
)

// Factor is one weighted component of the score.
type Factor struct {
	Score   int     `json:"score"`
	Weight  float64 `json:"weight"`
	Details string  `json:"details"`
}

// Breakdown holds the four factors.
type Breakdown struct {
	KeywordMatch   Factor `json:"keywordMatch"`
	TitleAlignment Factor `json:"titleAlignment"`
	SkillsCoverage Factor `json:"skillsCoverage"`
	IndustryTerms  Factor `json:"industryTerms"`
}

// Result is the output of Calculate. Score is the rounded weighted sum of the
// breakdown.
type Result struct {
	Score           int       `json:"score"`
	Breakdown       Breakdown `json:"breakdown"`
	MatchedKeywords []string  `json:"matchedKeywords"`
	MissingKeywords []string  `json:"missingKeywords"`
	Suggestions     []string  `json:"suggestions"`
}

// factorAdvice carries what a low-scoring factor should suggest.
type factorAdvice struct {
	order  int
	score  int
	advice []string
}

// Calculate scores resume visibility for the posting described by jobText
// and its extracted keywords.
func Calculate(resumeText, jobText string, ks keywords.KeywordSet) Result {
	resume := keywords.NewMatcher(resumeText)
	matched, missing := resume.Partition(ks.All)

	km, kmAdvice := keywordMatch(resume, ks)
	ta, taAdvice := titleAlignment(resumeText, jobText)
	sc, scAdvice := skillsCoverage(resume, ks)
	it, itAdvice := industryTerms(resume, jobText, ks)

	res := Result{
		Breakdown:       Breakdown{KeywordMatch: km, TitleAlignment: ta, SkillsCoverage: sc, IndustryTerms: it},
		MatchedKeywords: matched,
		MissingKeywords: missing,
	}
	res.Score = int(math.Round(
		float64(km.Score)*km.Weight + float64(ta.Score)*ta.Weight +
			float64(sc.Score)*sc.Weight + float64(it.Score)*it.Weight))

	res.Suggestions = suggestions([]factorAdvice{
		{0, km.Score, kmAdvice},
		{1, ta.Score, taAdvice},
		{2, sc.Score, scAdvice},
		{3, it.Score, itAdvice},
	})
	return res
}

func percent(found, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(found) / float64(total) * 100))
}

func keywordMatch(resume *keywords.Matcher, ks keywords.KeywordSet) (Factor, []string) {
	f := Factor{Weight: KeywordMatchWeight}
	target, label := ks.Critical, "required keywords"
	if len(target) == 0 {
		target, label = ks.All, "keywords"
	}
	if len(target) == 0 {
		f.Details = "No keywords were extracted from the job description."
		return f, nil
	}
	found, missing := resume.Partition(target)
	f.Score = percent(len(found), len(target))
	f.Details = fmt.Sprintf("%d of %d %s would match a recruiter search.", len(found), len(target), label)
	if len(missing) == 0 {
		return f, nil
	}
	return f, []string{
		"Add the keywords recruiters will search for: " + list(missing) + ".",
		"Use the posting's exact wording for requirements in your experience bullets.",
	}
}

func titleAlignment(resumeText, jobText string) (Factor, []string) {
	f := Factor{Weight: TitleAlignmentWeight}
	if strings.TrimSpace(resumeText) == "" {
		f.Details = "The resume is empty."
		return f, nil
	}
	if strings.TrimSpace(jobText) == "" {
		f.Details = "The job description is empty."
		return f, nil
	}
	target := jobTitle(jobText)
	want := titleTokens(target)
	if len(want) == 0 {
		f.Score = neutralTitleScore
		f.Details = "No job title was found in the posting."
		return f, nil
	}

	current := resumeTitle(resumeText)
	have := make(map[string]bool)
	families := make(map[string]bool)
	for _, t := range titleTokens(current) {
		have[t] = true
		if fam, ok := titleFamilies[t]; ok {
			families[fam] = true
		}
	}
	var credit float64
	for _, t := range want {
		switch {
		case have[t]:
			credit++
		case families[titleFamilies[t]] && titleFamilies[t] != "":
			credit += 0.5
		}
	}
	f.Score = int(math.Round(credit / float64(len(want)) * 100))

	if current == "" {
		f.Details = fmt.Sprintf("No job title was found in the resume to compare with %q.", target)
	} else {
		f.Details = fmt.Sprintf("Resume title %q compared with %q.", current, target)
	}
	if f.Score < titlePhraseScore && textnorm.ContainsSeq(textnorm.Stems(resumeText), textnorm.Stems(target)) {
		f.Score = titlePhraseScore
		f.Details += " The posting's title appears elsewhere in the resume."
	}
	if f.Score >= 100 {
		return f, nil
	}
	return f, []string{fmt.Sprintf("Use the title %q in your headline or summary if it reflects your experience.", target)}
}

func skillsCoverage(resume *keywords.Matcher, ks keywords.KeywordSet) (Factor, []string) {
	f := Factor{Weight: SkillsCoverageWeight}
	var skills []string
	for _, k := range ks.All {
		if keywords.IsTechnology(k) {
			skills = append(skills, k)
		}
	}
	if len(skills) == 0 {
		skills = ks.All
	}
	if len(skills) == 0 {
		f.Details = "No named skills or tools were found in the job description."
		return f, nil
	}
	found, missing := resume.Partition(skills)
	f.Score = percent(len(found), len(skills))
	f.Details = fmt.Sprintf("%d of %d named skills and tools appear in the resume.", len(found), len(skills))
	if len(missing) == 0 {
		return f, nil
	}
	return f, []string{"List these tools in your Skills section if you have used them: " + list(missing) + "."}
}

func industryTerms(resume *keywords.Matcher, jobText string, ks keywords.KeywordSet) (Factor, []string) {
	f := Factor{Weight: IndustryTermsWeight}
	terms, fromVocabulary := jobIndustryTerms(jobText, ks)
	if len(terms) == 0 {
		f.Details = "No domain vocabulary was found in the job description."
		return f, nil
	}
	found, missing := resume.Partition(terms)
	f.Score = percent(len(found), len(terms))
	kind := "domain terms"
	if fromVocabulary {
		kind = "industry terms"
	}
	f.Details = fmt.Sprintf("%d of %d %s from the posting appear in the resume.", len(found), len(terms), kind)
	if len(missing) == 0 {
		return f, nil
	}
	return f, []string{"Reflect the posting's domain language where accurate, such as: " + list(missing) + "."}
}

// suggestions ranks advice from the weakest factor up, skipping factors that
// already score well.
func suggestions(factors []factorAdvice) []string {
	sort.SliceStable(factors, func(i, j int) bool {
		if factors[i].score != factors[j].score {
			return factors[i].score < factors[j].score
		}
		return factors[i].order < factors[j].order
	})
	out := []string{}
	for _, f := range factors {
		if f.score >= suggestionThreshold {
			continue
		}
		for _, s := range f.advice {
			if len(out) == maxSuggestions {
				return out
			}
			out = append(out, s)
		}
	}
	return out
}

func list(items []string) string {
	if len(items) > listLimit {
		return strings.Join(items[:listLimit], ", ") + fmt.Sprintf(" and %d more", len(items)-listLimit)
	}
	return strings.Join(items, ", ")
}
