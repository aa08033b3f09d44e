package confirmations

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"atscheck/internal/errors"
	"atscheck/internal/knockout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "state", "confirmations.yaml"), errors.NewLoggerTo(io.Discard, slog.LevelDebug))
	s.now = func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	answers, err := s.Answers()
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestSetAndReload(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("abc123", true, "Top Secret clearance"))
	require.NoError(t, s.Set("def456", false, ""))

	reopened := NewStore(s.Path(), s.logger)
	stored, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, Answer{Met: true, Label: "Top Secret clearance", UpdatedAt: s.now()}, stored["abc123"])

	answers, err := reopened.Answers()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"abc123": true, "def456": false}, answers)

	ids, err := reopened.IDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123", "def456"}, ids)
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("abc123", true, ""))
	require.NoError(t, s.Set("abc123", false, ""))
	answers, err := s.Answers()
	require.NoError(t, err)
	assert.False(t, answers["abc123"])
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("abc123", true, ""))

	removed, err := s.Clear("abc123")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Clear("abc123")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSetRequiresID(t *testing.T) {
	err := newTestStore(t).Set("", true, "")
	assert.True(t, errors.IsInvalidInput(err))
}

func TestCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0750))
	require.NoError(t, os.WriteFile(s.Path(), []byte("answers: [unterminated"), 0600))

	_, err := s.Load()
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeStateFile, appErr.Code)
}

func TestNewerVersionRejected(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0750))
	require.NoError(t, os.WriteFile(s.Path(), []byte("version: 9\nanswers: {}\n"), 0600))
	_, err := s.Load()
	assert.Error(t, err)
}

func TestAnswersReattachByStableID(t *testing.T) {
	job := "Must have active Top Secret clearance. 5+ years required."
	s := newTestStore(t)
	for _, it := range knockout.Detect(job) {
		require.NoError(t, s.Set(it.ID, true, it.Label))
	}

	answers, err := s.Answers()
	require.NoError(t, err)
	items := knockout.ApplyAnswers(knockout.Detect(job), answers)
	assert.Equal(t, knockout.RiskLow, knockout.CalculateRisk(items).Risk)
}
