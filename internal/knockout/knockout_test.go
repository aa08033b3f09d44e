package knockout

import (
	"encoding/json"
	"testing"
	"time"

	"atscheck/internal/findings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func categories(items []Item) []Category {
	out := make([]Category, len(items))
	for i, it := range items {
		out[i] = it.Category
	}
	return out
}

func find(t *testing.T, items []Item, c Category) Item {
	t.Helper()
	for _, it := range items {
		if it.Category == c {
			return it
		}
	}
	t.Fatalf("no %s item", c)
	return Item{}
}

const clearanceJob = "Must have active Top Secret clearance. 5+ years required."

const clearanceResume = `Jane Doe
Experience
Software Engineer, Acme
Jan 2021 - Dec 2022
Education
B.S. Computer Science, 2015 - 2019`

func TestClearanceAndExperienceKnockoutRaisesRisk(t *testing.T) {
	items := Detect(clearanceJob)
	require.Equal(t, []Category{CategorySecurityClearance, CategoryExperience}, categories(items))
	for _, it := range items {
		assert.Equal(t, Unset, it.UserConfirmed)
	}
	assert.Equal(t, "Top Secret clearance", items[0].Label)
	assert.Equal(t, "Must have active Top Secret clearance.", items[0].Evidence)
	assert.Equal(t, "Minimum 5 years of experience", items[1].Label)

	exp := DetectExperienceAsOf(clearanceResume, clearanceJob, asOf)
	require.NotNil(t, exp)
	assert.Equal(t, items[1].ID, exp.ID)
	assert.Equal(t, NotMet, exp.UserConfirmed)

	enhanced := EnhanceAsOf(items, clearanceResume, clearanceJob, asOf)
	require.Len(t, enhanced, 2)
	assert.Equal(t, Unset, enhanced[0].UserConfirmed)
	assert.Equal(t, NotMet, enhanced[1].UserConfirmed)
	assert.Equal(t, SourceAuto, enhanced[1].Source)
	assert.Equal(t, ConfidenceHigh, enhanced[1].Confidence)

	risk := CalculateRisk(Items(enhanced))
	assert.Equal(t, RiskHigh, risk.Risk)
	assert.Contains(t, risk.Explanation, "Minimum 5 years of experience")
}

func TestConfirmingAllItemsLowersRisk(t *testing.T) {
	items := Detect("Must be a U.S. citizen. CISSP certification required. Must be able to lift 50 lbs.")
	require.Len(t, items, 3)
	assert.Equal(t, RiskMedium, CalculateRisk(items).Risk)

	answers := make(map[string]bool)
	for _, it := range items {
		answers[it.ID] = true
	}
	confirmed := ApplyAnswers(items, answers)
	risk := CalculateRisk(confirmed)
	assert.Equal(t, RiskLow, risk.Risk)
	require.Len(t, risk.Findings, 1)
	assert.Equal(t, "knockout-clear", risk.Findings[0].ID)
}

func TestDetectCategories(t *testing.T) {
	tests := []struct {
		name     string
		job      string
		category Category
		label    string
	}{
		{"citizenship", "Applicants must be U.S. citizens.", CategoryWorkAuthorization, "U.S. citizenship required"},
		{"sponsorship", "We are unable to sponsor visas for this role.", CategoryWorkAuthorization, "No visa sponsorship available"},
		{"authorization", "Candidates must be authorized to work in Canada.", CategoryWorkAuthorization, "Work authorization required"},
		{"clearance ts/sci", "Active TS/SCI with polygraph.", CategorySecurityClearance, "TS/SCI clearance with polygraph"},
		{"named certification", "CISSP certification required.", CategoryCertification, "Certification: CISSP"},
		{"drivers license", "Must hold a valid driver's license.", CategoryCertification, "Valid driver's license"},
		{"bachelor", "Bachelor's degree in Computer Science or related field required.", CategoryDegree, "Bachelor's degree required"},
		{"bs/ms", "BS/MS in Computer Science.", CategoryDegree, "Bachelor's degree required"},
		{"phd", "PhD in Physics.", CategoryDegree, "Doctorate required"},
		{"lifting", "Must be able to lift 50 lbs.", CategoryPhysical, "Physical requirement: lifting up to 50 lbs"},
		{"on-site", "This role is on-site in Austin.", CategoryLocation, "On-site work required"},
		{"travel", "Travel up to 25% is expected.", CategoryLocation, "Travel up to 25%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Detect(tt.job)
			require.Len(t, items, 1, "%+v", items)
			assert.Equal(t, tt.category, items[0].Category)
			assert.Equal(t, tt.label, items[0].Label)
			assert.Equal(t, tt.job, items[0].Evidence)
		})
	}
}

func TestDetectIgnoresNegatedAndOptional(t *testing.T) {
	for _, job := range []string{
		"No clearance required.",
		"A degree is not required.",
		"Security+ certification preferred.",
		"10+ years of experience is a plus.",
		"Work on-site or remote, your choice.",
		"Proficient in MS Office.",
		"",
	} {
		items := Detect(job)
		assert.NotNil(t, items, job)
		assert.Empty(t, items, job)
	}
}

func TestDetectKeepsRequiredClauseBesideNegatedOne(t *testing.T) {
	tests := []struct {
		job      string
		category Category
		label    string
	}{
		{"Degree not required, but an active Secret clearance is mandatory.", CategorySecurityClearance, "Secret clearance"},
		{"No degree needed; 7+ years of experience required.", CategoryExperience, "Minimum 7 years of experience"},
		{"Security+ preferred, however CISSP is required.", CategoryCertification, "Certification: CISSP"},
	}
	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			items := Detect(tt.job)
			require.Len(t, items, 1)
			assert.Equal(t, tt.category, items[0].Category)
			assert.Equal(t, tt.label, items[0].Label)
			assert.Equal(t, tt.job, items[0].Evidence)
		})
	}
}

func TestDetectCollapsesDuplicateEvidence(t *testing.T) {
	items := Detect("CISSP required.\nCISSP required.\ncissp  required")
	require.Len(t, items, 1)
	assert.Equal(t, CategoryCertification, items[0].Category)
}

func TestDetectOrdersByCategory(t *testing.T) {
	items := Detect("5+ years of experience. Secret clearance required. Must be a US citizen.")
	assert.Equal(t, []Category{CategoryWorkAuthorization, CategorySecurityClearance, CategoryExperience}, categories(items))
	assert.Equal(t, "Secret clearance", find(t, items, CategorySecurityClearance).Label)
}

func TestItemIDsAreStable(t *testing.T) {
	job := "Must have active Top Secret clearance. 5+ years required. CISSP required."
	first := Detect(job)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Detect(job))
	}

	// identity depends only on category and evidence
	extended := Detect("We build satellites.\n" + job + "\nOffice snacks provided.")
	assert.Equal(t, first, extended)

	assert.Equal(t, ItemID(CategoryDegree, "Must have a BS."), ItemID(CategoryDegree, "must  have a bs"))
	assert.NotEqual(t, ItemID(CategoryDegree, "Must have a BS."), ItemID(CategoryCertification, "Must have a BS."))
}

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		job   string
		years int
	}{
		{"At least three years of experience with Go.", 3},
		{"3-5 years of experience.", 3},
		{"Five (5) years of professional experience.", 5},
		{"7 years required.", 7},
		{"3+ years of Go. 7+ years overall required.", 7},
		{"10+ years preferred. 3+ years required.", 3},
	}
	for _, tt := range tests {
		req, ok := parseRequirement(tt.job)
		require.True(t, ok, tt.job)
		assert.Equal(t, tt.years, req.years, tt.job)
	}

	_, ok := parseRequirement("Strong communication skills.")
	assert.False(t, ok)
}

func TestEstimateMonths(t *testing.T) {
	tests := []struct {
		name   string
		resume string
		months int
	}{
		{"overlapping roles", "Acme, Jan 2020 - Dec 2021\nBeta, Jun 2021 - Jun 2022", 30},
		{"open range", "Acme 2022 - Present", 30},
		{"year only", "Acme 2018 - 2020", 24},
		{"numeric months", "Acme 03/2019 - 02/2020", 12},
		{"education ignored", "Education\nState University 2010 - 2014", 0},
		{"no dates", "Built things", 0},
		{"implausible years", "Call 1234-5678", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.months, EstimateMonths(tt.resume, asOf))
		})
	}
}

func TestDetectExperienceAsOf(t *testing.T) {
	assert.Nil(t, DetectExperienceAsOf("2015 - 2020", "Great team.", asOf))

	met := DetectExperienceAsOf("Acme 2015 - 2020", "3+ years required.", asOf)
	require.NotNil(t, met)
	assert.Equal(t, Met, met.UserConfirmed)
	assert.Equal(t, SourceAuto, met.Source)

	within := DetectExperienceAsOf("Acme Jan 2019 - Dec 2023", "5+ years required.", asOf)
	require.NotNil(t, within)
	assert.Equal(t, Unset, within.UserConfirmed)

	undated := DetectExperienceAsOf("Senior engineer at Acme", "5+ years required.", asOf)
	require.NotNil(t, undated)
	assert.Equal(t, Unset, undated.UserConfirmed)
}

func TestEnhanceAssessments(t *testing.T) {
	tests := []struct {
		name       string
		job        string
		resume     string
		want       Confirmation
		confidence Confidence
	}{
		{"clearance denied", "Secret clearance required.", "I hold no security clearance.", NotMet, ConfidenceHigh},
		{"clearance held", "Top Secret clearance required.", "Active TS/SCI clearance", Met, ConfidenceHigh},
		{"clearance too low", "Top Secret clearance required.", "Active Secret clearance", Unset, ConfidenceLow},
		{"clearance not mentioned", "Secret clearance required.", "Go developer", Unset, ""},
		{"certification held", "CISSP certification required.", "Certifications\nCISSP, 2019", Met, ConfidenceHigh},
		{"preferred certification ignored", "Security+ preferred, however CISSP is required.", "Certifications\nCISSP, 2019", Met, ConfidenceHigh},
		{"degree held", "Master's degree in Computer Science required.", "M.S. in Computer Science", Met, ConfidenceHigh},
		{"degree lower", "Master's degree in Computer Science required.", "B.S. Computer Science", Unset, ConfidenceLow},
		{"citizen", "Must be a U.S. citizen.", "U.S. Citizen", Met, ConfidenceHigh},
		{"needs sponsorship", "Must be authorized to work in the US.", "Will need H-1B sponsorship.", NotMet, ConfidenceHigh},
		{"physical", "Must be able to lift 50 lbs.", "Warehouse lead", Unset, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Detect(tt.job)
			require.Len(t, items, 1)
			got := EnhanceAsOf(items, tt.resume, tt.job, asOf)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].UserConfirmed)
			assert.Equal(t, tt.confidence, got[0].Confidence)
			assert.Equal(t, items[0].ID, got[0].ID)
			if tt.want != Unset {
				assert.Equal(t, SourceAuto, got[0].Source)
			}
		})
	}
}

func TestEnhanceNeverOverridesUser(t *testing.T) {
	job := "Secret clearance required."
	items := Detect(job)
	require.Len(t, items, 1)

	user := []Item{items[0].WithUserAnswer(true)}
	got := EnhanceAsOf(user, "I hold no security clearance.", job, asOf)
	assert.Equal(t, Met, got[0].UserConfirmed)
	assert.Equal(t, SourceUser, got[0].Source)

	// a value without provenance counts as the user's
	legacy := items[0]
	legacy.UserConfirmed = Met
	got = EnhanceAsOf([]Item{legacy}, "I hold no security clearance.", job, asOf)
	assert.Equal(t, Met, got[0].UserConfirmed)
}

func TestEnhanceRefreshesAutomaticAnswers(t *testing.T) {
	job := "Secret clearance required."
	items := Detect(job)
	stale := items[0]
	stale.UserConfirmed, stale.Source = NotMet, SourceAuto

	got := EnhanceAsOf([]Item{stale}, "Active Secret clearance", job, asOf)
	assert.Equal(t, Met, got[0].UserConfirmed)

	got = EnhanceAsOf([]Item{stale}, "Go developer", job, asOf)
	assert.Equal(t, Unset, got[0].UserConfirmed)
	assert.Empty(t, got[0].Source)
}

func TestCalculateRisk(t *testing.T) {
	empty := CalculateRisk(nil)
	assert.Equal(t, RiskLow, empty.Risk)
	require.Len(t, empty.Findings, 1)
	assert.Equal(t, findings.SeverityInfo, empty.Findings[0].Severity)

	items := Detect("Secret clearance required. CISSP required. Must be a US citizen.")
	require.Len(t, items, 3)

	items[1].UserConfirmed = NotMet
	res := CalculateRisk(items)
	assert.Equal(t, RiskHigh, res.Risk)
	assert.Contains(t, res.Explanation, items[1].Label)
	require.Len(t, res.Findings, 2)
	assert.Equal(t, "knockout-failed-"+items[1].ID, res.Findings[0].ID)
	assert.Equal(t, findings.SeverityCritical, res.Findings[0].Severity)
	assert.Equal(t, "knockout-unconfirmed", res.Findings[1].ID)
	assert.Equal(t, findings.SeverityMedium, res.Findings[1].Severity)

	items[1].UserConfirmed = Met
	res = CalculateRisk(items)
	assert.Equal(t, RiskMedium, res.Risk)
	assert.Contains(t, res.Explanation, items[0].Label)
	assert.Contains(t, res.Explanation, items[2].Label)
	assert.NotContains(t, res.Explanation, items[1].Label)
}

func TestRiskMonotonicity(t *testing.T) {
	rank := map[Level]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}
	states := []Confirmation{Unset, Met, NotMet}
	base := Detect("Secret clearance required. CISSP required. Must be a US citizen.")
	require.Len(t, base, 3)

	for a := range states {
		for b := range states {
			for c := range states {
				items := append([]Item(nil), base...)
				items[0].UserConfirmed, items[1].UserConfirmed, items[2].UserConfirmed = states[a], states[b], states[c]
				before := rank[CalculateRisk(items).Risk]

				for i := range items {
					if items[i].UserConfirmed != Unset {
						continue
					}
					flipped := append([]Item(nil), items...)
					flipped[i].UserConfirmed = NotMet
					assert.GreaterOrEqual(t, rank[CalculateRisk(flipped).Risk], before)
				}

				var failing []int
				for i, it := range items {
					if it.UserConfirmed == NotMet {
						failing = append(failing, i)
					}
				}
				if len(failing) == 1 {
					flipped := append([]Item(nil), items...)
					flipped[failing[0]].UserConfirmed = Met
					assert.LessOrEqual(t, rank[CalculateRisk(flipped).Risk], before)
				}
			}
		}
	}
}

func TestConfirmationJSON(t *testing.T) {
	it := newItem(CategoryDegree, "Degree required", "Degree required.")
	b, err := json.Marshal(it)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "userConfirmed")

	b, err = json.Marshal(it.WithUserAnswer(false))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"userConfirmed":false`)
	assert.Contains(t, string(b), `"source":"user"`)

	var back Item
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, NotMet, back.UserConfirmed)
	assert.True(t, back.UserOwned())

	assert.Error(t, json.Unmarshal([]byte(`{"userConfirmed":"yes"}`), &back))
}

func TestApplyAnswersIgnoresUnknownIDs(t *testing.T) {
	items := Detect("CISSP required.")
	got := ApplyAnswers(items, map[string]bool{"ko-unknown": false})
	assert.Equal(t, items, got)
}
