package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeKeepsTechSuffixes(t *testing.T) {
	words := Words("Experience with C++, C#, Node.js and .NET; CI/CD pipelines.")
	assert.Equal(t, []string{"experience", "with", "c++", "c#", "node.js", "and", ".net", "ci", "cd", "pipelines"}, words)
}

func TestTokenizeOffsetsRecoverSurface(t *testing.T) {
	text := "Built on AWS (Lambda)."
	tokens := Tokenize(text)
	assert.Len(t, tokens, 4)
	last := tokens[3]
	assert.Equal(t, "Lambda", text[last.Start:last.End])
	assert.Equal(t, "lambda", last.Lower)
}

func TestTokenizeDropsPossessive(t *testing.T) {
	tokens := Tokenize("Bachelor's degree")
	assert.Equal(t, "Bachelor's", tokens[0].Text)
	assert.Equal(t, "bachelor", tokens[0].Lower)
}

func TestStemAlignsInflections(t *testing.T) {
	pairs := [][2]string{
		{"microservices", "microservice"},
		{"managing", "manage"},
		{"managed", "manages"},
		{"developing", "develops"},
		{"running", "run"},
		{"strings", "string"},
		{"engineers", "engineer"},
		{"technologies", "technology"},
		{"processes", "process"},
	}
	for _, p := range pairs {
		assert.Equal(t, Stem(p[0]), Stem(p[1]), "%s vs %s", p[0], p[1])
	}
	assert.Equal(t, "aws", Stem("aws"))
	assert.Equal(t, "node.js", Stem("node.js"))
	assert.Equal(t, "need", Stem("need"))
}

func TestContainsSeq(t *testing.T) {
	hay := []string{"built", "ci", "cd", "pipelines"}
	assert.True(t, ContainsSeq(hay, []string{"ci", "cd"}))
	assert.False(t, ContainsSeq(hay, []string{"cd", "ci"}))
	assert.False(t, ContainsSeq(hay, nil))
	assert.Equal(t, 1, IndexSeq(hay, []string{"ci"}))
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Must have active Top Secret clearance. 5+ years required.")
	assert.Equal(t, []string{"Must have active Top Secret clearance.", "5+ years required."}, got)

	got = SplitSentences("Must be a U.S. citizen; Go is a plus")
	assert.Equal(t, []string{"Must be a U.S. citizen", "Go is a plus"}, got)

	got = SplitSentences("Deploy with Node.js daily")
	assert.Equal(t, []string{"Deploy with Node.js daily"}, got)
}

func TestStripBullet(t *testing.T) {
	cases := map[string]struct {
		want   string
		bullet bool
	}{
		"- Python":        {"Python", true},
		"• Kubernetes":    {"Kubernetes", true},
		"1. Degree":       {"Degree", true},
		"2) Travel":       {"Travel", true},
		"-5 years":        {"-5 years", false},
		"Plain sentence.": {"Plain sentence.", false},
	}
	for in, want := range cases {
		got, ok := StripBullet(in)
		assert.Equal(t, want.want, got, in)
		assert.Equal(t, want.bullet, ok, in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "must have python", Normalize("  Must   have\tPython.  "))
}
