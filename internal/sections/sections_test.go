package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		line string
		want Section
		ok   bool
	}{
		{"EXPERIENCE", Experience, true},
		{"Work History", Experience, true},
		{"## Professional Experience", Experience, true},
		{"Education & Training", Education, true},
		{"Skills: Go, SQL, Kubernetes", Skills, true},
		{"Core Competencies", Skills, true},
		{"Profile", Summary, true},
		{"Experiance", Experience, true},
		{"Certifications", Certifications, true},
		{"Python", "", false},
		{"Led a team of five engineers across three time zones", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := Match(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLooksLikeHeading(t *testing.T) {
	assert.True(t, LooksLikeHeading("MY JOURNEY"))
	assert.True(t, LooksLikeHeading("Things I Built:"))
	assert.True(t, LooksLikeHeading("# Highlights"))
	assert.False(t, LooksLikeHeading("jane@example.com"))
	assert.False(t, LooksLikeHeading("Senior engineer at Acme"))
	assert.False(t, LooksLikeHeading("JAN 2020"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("skills", "skills"))
	assert.Equal(t, 1, levenshtein("skils", "skills"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}
