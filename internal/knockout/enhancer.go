package knockout

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"atscheck/internal/keywords"
)

type assessment struct {
	answer     Confirmation
	confidence Confidence
	reason     string
}

var (
	clearanceDenied = regexp.MustCompile(`\bno\s+(?:active\s+|current\s+)?(?:security\s+)?clearance\b|\b(?:never|not)\s+(?:held|had|obtained|been\s+granted)\s+(?:an?\s+)?(?:active\s+)?(?:security\s+)?clearance\b|\bclearance\s*:\s*(?:none|n/a)\b|\bnot\s+(?:currently\s+)?cleared\b|\b(?:ineligible|not\s+eligible)\s+for\s+(?:a\s+)?(?:security\s+)?clearance\b`)
	needsSponsorship = regexp.MustCompile(`\b(?:require|requires|need|needs|will\s+need)\s+(?:visa\s+|h-?1b\s+)?sponsorship\b|\bon\s+(?:an?\s+)?(?:h-?1b|f-?1|opt|tn)\s+visa\b`)
	usCitizen        = regexp.MustCompile(`\b(?:u\.s\.?|us|united states)\s+citizen(?:s|ship)?\b`)
	authorizedToWork = regexp.MustCompile(`\bauthori[sz]ed\s+to\s+work\b|\bgreen\s+card\b|\bpermanent\s+resident\b|\bwork\s+authori[sz]ation\b|\bno\s+sponsorship\s+(?:required|needed)\b`)
	credentialWords  = regexp.MustCompile(`\b(?:certified|certification|certifications|licensed|license)\b`)
	equivalentClause = regexp.MustCompile(`\bor\s+equivalent\b|\bequivalent\s+(?:experience|combination)\b`)
)

// Enhance cross-references knockout items with the resume. Items carrying a
// user answer pass through untouched; for the rest any earlier automatic
// answer is discarded and only a high-confidence assessment sets a new one.
func Enhance(items []Item, resumeText, jobText string) []EnhancedItem {
	return EnhanceAsOf(items, resumeText, jobText, time.Now())
}

// EnhanceAsOf is Enhance with an explicit clock for experience estimates.
func EnhanceAsOf(items []Item, resumeText, jobText string, asOf time.Time) []EnhancedItem {
	resume := lowerText(resumeText)
	out := make([]EnhancedItem, len(items))
	for i, it := range items {
		if it.UserOwned() {
			out[i] = EnhancedItem{Item: it, Reason: "Answered by the user."}
			continue
		}
		var a assessment
		switch it.Category {
		case CategoryExperience:
			a = assessExperience(it, resumeText, jobText, asOf)
		case CategorySecurityClearance:
			a = assessClearance(it, resume)
		case CategoryCertification:
			a = assessCertification(it, resumeText, resume)
		case CategoryDegree:
			a = assessDegree(it, resume)
		case CategoryWorkAuthorization:
			a = assessWorkAuthorization(it, resume)
		default:
			a = assessment{reason: "Needs manual confirmation."}
		}

		it.UserConfirmed, it.Source = Unset, ""
		if a.confidence == ConfidenceHigh && a.answer != Unset {
			it.UserConfirmed, it.Source = a.answer, SourceAuto
		}
		out[i] = EnhancedItem{Item: it, Confidence: a.confidence, Reason: a.reason}
	}
	return out
}

func assessExperience(it Item, resumeText, jobText string, asOf time.Time) assessment {
	exp := DetectExperienceAsOf(resumeText, jobText, asOf)
	if exp == nil || exp.ID != it.ID {
		return assessment{reason: "Requirement no longer present in the job description."}
	}
	req, _ := parseRequirement(jobText)
	months := EstimateMonths(resumeText, asOf)
	if months == 0 {
		return assessment{confidence: ConfidenceLow, reason: "No employment date ranges found in the resume."}
	}
	reason := fmt.Sprintf("Resume dates add up to about %.1f years against %d required.", float64(months)/12, req.years)
	if exp.UserConfirmed == Unset {
		return assessment{confidence: ConfidenceMedium, reason: reason}
	}
	return assessment{answer: exp.UserConfirmed, confidence: ConfidenceHigh, reason: reason}
}

// requiredPart is the evidence without its negated or optional clauses.
func requiredPart(it Item) string {
	if text, _, ok := requirementText(it.Evidence); ok {
		return text
	}
	return it.Evidence
}

func assessClearance(it Item, resume string) assessment {
	if clearanceDenied.MatchString(resume) {
		return assessment{answer: NotMet, confidence: ConfidenceHigh, reason: "Resume states the candidate holds no clearance."}
	}
	if !clearanceRef.MatchString(resume) {
		return assessment{}
	}
	required := clearanceLevelOf(lowerText(requiredPart(it)))
	held := clearanceLevelOf(resume)
	switch {
	case held != clearanceGeneric && held >= required:
		return assessment{answer: Met, confidence: ConfidenceHigh, reason: fmt.Sprintf("Resume lists a %s clearance.", held)}
	case held != clearanceGeneric:
		return assessment{confidence: ConfidenceLow, reason: fmt.Sprintf("Resume lists a %s clearance; %s is required.", held, required)}
	}
	return assessment{confidence: ConfidenceMedium, reason: "Resume mentions a clearance without naming its level."}
}

func assessCertification(it Item, resumeText, resume string) assessment {
	required := keywords.Certifications(requiredPart(it))
	if len(required) == 0 {
		if driversLicense.MatchString(lowerText(requiredPart(it))) && driversLicense.MatchString(resume) {
			return assessment{answer: Met, confidence: ConfidenceHigh, reason: "Resume lists a driver's license."}
		}
		if credentialWords.MatchString(resume) {
			return assessment{confidence: ConfidenceLow, reason: "Resume mentions credentials; check they satisfy the requirement."}
		}
		return assessment{}
	}

	found, missing := keywords.NewMatcher(resumeText).Partition(required)
	switch {
	case len(missing) == 0:
		return assessment{answer: Met, confidence: ConfidenceHigh, reason: "Resume lists " + strings.Join(found, ", ") + "."}
	case len(found) > 0:
		return assessment{confidence: ConfidenceLow, reason: fmt.Sprintf("Resume lists %s but not %s.", strings.Join(found, ", "), strings.Join(missing, ", "))}
	}
	return assessment{}
}

func assessDegree(it Item, resume string) assessment {
	evidence := lowerText(requiredPart(it))
	required := minDegree(evidence)
	if required == degreeNone {
		required = degreeBachelor
	}
	held := maxDegree(resume)
	switch {
	case held == degreeNone:
		return assessment{}
	case held >= required:
		return assessment{answer: Met, confidence: ConfidenceHigh, reason: fmt.Sprintf("Resume lists a %s.", held)}
	case equivalentClause.MatchString(evidence):
		return assessment{confidence: ConfidenceMedium, reason: fmt.Sprintf("Resume lists a %s; equivalent experience may be accepted.", held)}
	}
	return assessment{confidence: ConfidenceLow, reason: fmt.Sprintf("Resume lists a %s; a %s is required.", held, required)}
}

func assessWorkAuthorization(it Item, resume string) assessment {
	if needsSponsorship.MatchString(resume) {
		return assessment{answer: NotMet, confidence: ConfidenceHigh, reason: "Resume indicates visa sponsorship is needed."}
	}
	citizen := usCitizen.MatchString(resume)
	if usCitizen.MatchString(lowerText(requiredPart(it))) {
		if citizen {
			return assessment{answer: Met, confidence: ConfidenceHigh, reason: "Resume states U.S. citizenship."}
		}
		if authorizedToWork.MatchString(resume) {
			return assessment{confidence: ConfidenceMedium, reason: "Resume states work authorization but not citizenship."}
		}
		return assessment{}
	}
	if citizen || authorizedToWork.MatchString(resume) {
		return assessment{answer: Met, confidence: ConfidenceHigh, reason: "Resume states the candidate is authorized to work."}
	}
	return assessment{}
}
