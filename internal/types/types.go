package types

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"atscheck/internal/errors"

	"github.com/go-playground/validator/v10"
)

// FileType is the format the resume was extracted from
type FileType string

const (
	FileTypePDF      FileType = "pdf"
	FileTypeDOCX     FileType = "docx"
	FileTypeText     FileType = "txt"
	FileTypeMarkdown FileType = "md"
)

// FileTypeFromExtension maps a file extension (with or without the dot) to a
// FileType. Unknown extensions map to plain text.
func FileTypeFromExtension(ext string) FileType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return FileTypePDF
	case "docx":
		return FileTypeDOCX
	case "md", "markdown":
		return FileTypeMarkdown
	default:
		return FileTypeText
	}
}

// ResumeArtifact is the output of the external text/layout extractor.
// It is immutable once produced.
type ResumeArtifact struct {
	Text     string             `json:"text"`
	FileType FileType           `json:"fileType" validate:"required,oneof=pdf docx txt md"`
	FileSize int64              `json:"fileSize" validate:"gte=0"`
	Metadata ExtractionMetadata `json:"metadata"`
}

// ExtractionMetadata describes how the text was obtained
type ExtractionMetadata struct {
	PageCount int            `json:"pageCount" validate:"gte=0"`
	Layout    *LayoutSignals `json:"layout,omitempty"`
}

// LayoutSignals are PDF-only structural hints. Risks and density are ratios
// in [0,1]; a nil ratio was not measured and its check is skipped.
type LayoutSignals struct {
	EstimatedColumns        int      `json:"estimatedColumns" validate:"gte=1"`
	ColumnMergeRisk         *float64 `json:"columnMergeRisk,omitempty" validate:"omitempty,gte=0,lte=1"`
	HeaderFooterContactRisk float64  `json:"headerFooterContactRisk" validate:"gte=0,lte=1"`
	TextDensity             *float64 `json:"textDensity,omitempty" validate:"omitempty,gte=0,lte=1"`
	// HeaderFooterText holds text found in page headers and footers, which is
	// excluded from Text.
	HeaderFooterText string `json:"headerFooterText,omitempty"`
}

// Ratio returns a pointer to v for the optional layout signals.
func Ratio(v float64) *float64 { return &v }

// NewTextArtifact builds an artifact for text that did not come through the
// layout extractor.
func NewTextArtifact(text string, fileType FileType) ResumeArtifact {
	return ResumeArtifact{
		Text:     text,
		FileType: fileType,
		FileSize: int64(len(text)),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the artifact's required fields and ranges. Empty text is
// valid input.
func (a *ResumeArtifact) Validate() error {
	return validationError(validate.Struct(a))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewInvalidInputError("artifact", err.Error())
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	return errors.NewInvalidInputError(field, describeFieldError(field, fe))
}

func describeFieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// AnalyzeRequest is the payload for a full analysis. Resume takes precedence
// over ResumeText; when both are absent the resume is empty.
type AnalyzeRequest struct {
	Resume         *ResumeArtifact `json:"resume,omitempty"`
	ResumeText     string          `json:"resumeText,omitempty"`
	JobDescription string          `json:"jobDescription,omitempty"`
	Confirmations  map[string]bool `json:"confirmations,omitempty"`
	Semantic       bool            `json:"semantic,omitempty"`
}

// Artifact returns the resume artifact the request describes.
func (r *AnalyzeRequest) Artifact() ResumeArtifact {
	if r.Resume != nil {
		return *r.Resume
	}
	return NewTextArtifact(r.ResumeText, FileTypeText)
}

// JobRequest carries a job description alone
type JobRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

// Validate rejects a request without a job description field
func (r *JobRequest) Validate() error {
	return validationError(validate.Struct(r))
}

// MatchRequest pairs resume text with a job description
type MatchRequest struct {
	ResumeText     string          `json:"resumeText"`
	JobDescription string          `json:"jobDescription" validate:"required"`
	Confirmations  map[string]bool `json:"confirmations,omitempty"`
}

// Validate rejects a request without a job description field
func (r *MatchRequest) Validate() error {
	return validationError(validate.Struct(r))
}
