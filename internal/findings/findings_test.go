package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample() []Finding {
	return []Finding{
		{ID: "a", Severity: SeverityInfo},
		{ID: "b", Severity: SeverityMedium},
		{ID: "c", Severity: SeverityCritical},
		{ID: "d", Severity: SeverityMedium},
		{ID: "e", Severity: SeverityLow},
	}
}

func TestCountIssuesExcludesInfo(t *testing.T) {
	assert.Equal(t, 4, CountIssues(sample()))
	assert.Equal(t, 0, CountIssues([]Finding{{Severity: SeverityInfo}}))
	assert.Equal(t, 0, CountIssues(nil))
}

func TestCountBySeverity(t *testing.T) {
	counts := CountBySeverity(sample())
	assert.Equal(t, 1, counts[SeverityCritical])
	assert.Equal(t, 0, counts[SeverityHigh])
	assert.Equal(t, 2, counts[SeverityMedium])
	assert.Len(t, counts, len(Severities))
}

func TestSortIsStableAndDescending(t *testing.T) {
	list := sample()
	sorted := Sort(list)

	ids := make([]string, len(sorted))
	for i, f := range sorted {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"c", "b", "d", "e", "a"}, ids)
	assert.Equal(t, "a", list[0].ID, "input must not be reordered")
}

func TestHighest(t *testing.T) {
	assert.Equal(t, SeverityCritical, Highest(sample()))
	assert.Equal(t, SeverityInfo, Highest(nil))
}

func TestFilter(t *testing.T) {
	assert.Len(t, Filter(sample(), SeverityMedium), 3)
	assert.Len(t, Filter(sample(), SeverityInfo), 5)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 4, s.Issues)
	assert.Equal(t, SeverityCritical, s.Highest)
}
