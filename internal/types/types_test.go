package types

import (
	"testing"

	"atscheck/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArtifact() ResumeArtifact {
	return ResumeArtifact{
		Text:     "Jane Doe",
		FileType: FileTypePDF,
		FileSize: 2048,
		Metadata: ExtractionMetadata{
			PageCount: 1,
			Layout: &LayoutSignals{
				EstimatedColumns: 1,
				ColumnMergeRisk:  Ratio(0.1),
				TextDensity:      Ratio(0.6),
			},
		},
	}
}

func TestResumeArtifactValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *ResumeArtifact)
		field  string
	}{
		{"valid", func(a *ResumeArtifact) {}, ""},
		{"empty text is valid", func(a *ResumeArtifact) { a.Text = "" }, ""},
		{"no layout is valid", func(a *ResumeArtifact) { a.Metadata.Layout = nil }, ""},
		{"unmeasured ratios are valid", func(a *ResumeArtifact) {
			a.Metadata.Layout.ColumnMergeRisk = nil
			a.Metadata.Layout.TextDensity = nil
		}, ""},
		{"missing file type", func(a *ResumeArtifact) { a.FileType = "" }, "fileType"},
		{"unknown file type", func(a *ResumeArtifact) { a.FileType = "rtf" }, "fileType"},
		{"negative size", func(a *ResumeArtifact) { a.FileSize = -1 }, "fileSize"},
		{"negative pages", func(a *ResumeArtifact) { a.Metadata.PageCount = -2 }, "metadata.pageCount"},
		{"zero columns", func(a *ResumeArtifact) { a.Metadata.Layout.EstimatedColumns = 0 }, "metadata.layout.estimatedColumns"},
		{"risk above one", func(a *ResumeArtifact) { a.Metadata.Layout.ColumnMergeRisk = Ratio(1.5) }, "metadata.layout.columnMergeRisk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArtifact()
			tt.mutate(&a)
			err := a.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInput(err))
			appErr, _ := errors.As(err)
			assert.Equal(t, tt.field, appErr.Field())
		})
	}
}

func TestFileTypeFromExtension(t *testing.T) {
	assert.Equal(t, FileTypePDF, FileTypeFromExtension(".PDF"))
	assert.Equal(t, FileTypeMarkdown, FileTypeFromExtension("markdown"))
	assert.Equal(t, FileTypeText, FileTypeFromExtension(".rtf"))
}

func TestAnalyzeRequestArtifact(t *testing.T) {
	req := AnalyzeRequest{ResumeText: "hello"}
	a := req.Artifact()
	assert.Equal(t, FileTypeText, a.FileType)
	assert.Equal(t, int64(5), a.FileSize)

	full := validArtifact()
	req.Resume = &full
	assert.Equal(t, FileTypePDF, req.Artifact().FileType)
}

func TestJobRequestValidate(t *testing.T) {
	r := JobRequest{}
	err := r.Validate()
	require.Error(t, err)
	appErr, _ := errors.As(err)
	assert.Equal(t, "jobDescription", appErr.Field())
}
