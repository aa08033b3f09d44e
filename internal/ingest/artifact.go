package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"atscheck/internal/errors"
	"atscheck/internal/types"

	"github.com/xeipuuv/gojsonschema"
)

// ArtifactSchema describes the JSON written by the text and layout extractor.
const ArtifactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["text", "fileType"],
  "properties": {
    "text": {"type": "string"},
    "fileType": {"type": "string", "enum": ["pdf", "docx", "txt", "md"]},
    "fileSize": {"type": "integer", "minimum": 0},
    "metadata": {
      "type": "object",
      "properties": {
        "pageCount": {"type": "integer", "minimum": 0},
        "layout": {
          "type": "object",
          "required": ["estimatedColumns"],
          "properties": {
            "estimatedColumns": {"type": "integer", "minimum": 1},
            "columnMergeRisk": {"type": "number", "minimum": 0, "maximum": 1},
            "headerFooterContactRisk": {"type": "number", "minimum": 0, "maximum": 1},
            "textDensity": {"type": "number", "minimum": 0, "maximum": 1},
            "headerFooterText": {"type": "string"}
          }
        }
      }
    }
  }
}`

var artifactSchema = gojsonschema.NewStringLoader(ArtifactSchema)

// ParseArtifact validates extractor JSON against ArtifactSchema and decodes
// it. The first schema violation is reported as an InvalidInputError naming
// the field.
func ParseArtifact(data []byte) (types.ResumeArtifact, error) {
	var artifact types.ResumeArtifact

	result, err := gojsonschema.Validate(artifactSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return artifact, errors.NewInvalidInputError("artifact", fmt.Sprintf("artifact is not valid JSON: %v", err))
	}
	if !result.Valid() {
		desc := result.Errors()[0]
		field := desc.Field()
		if field == "" || field == "(root)" {
			field = "artifact"
		}
		field = strings.TrimPrefix(field, "(root).")
		return artifact, errors.NewInvalidInputError(field, desc.Description())
	}

	if err := json.Unmarshal(data, &artifact); err != nil {
		return artifact, errors.NewInvalidInputError("artifact", fmt.Sprintf("failed to decode artifact: %v", err))
	}
	if err := artifact.Validate(); err != nil {
		return artifact, err
	}
	return artifact, nil
}

// LoadResume reads a resume file. JSON files are extractor artifacts; text
// and markdown become plain-text artifacts. PDF and DOCX need the external
// extractor first.
func (r *Reader) LoadResume(filename string) (types.ResumeArtifact, error) {
	ext := Extension(filename)
	switch ext {
	case ".pdf", ".docx":
		return types.ResumeArtifact{}, errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s files must be run through the extractor; pass its JSON artifact instead", strings.TrimPrefix(ext, ".")), nil).
			WithContext("file", filename)
	}

	data, err := r.ReadFile(filename)
	if err != nil {
		return types.ResumeArtifact{}, err
	}

	if ext == ".json" {
		artifact, err := ParseArtifact(data)
		if err != nil {
			return artifact, err
		}
		r.logger.Debug("Loaded resume artifact",
			"file", filename,
			"file_type", artifact.FileType,
			"has_layout", artifact.Metadata.Layout != nil)
		return artifact, nil
	}

	if !IsTextFile(filename) {
		r.logger.Warn("File may not be a text file", "filename", filename)
	}
	artifact := types.NewTextArtifact(string(data), types.FileTypeFromExtension(ext))
	r.logger.Debug("Loaded resume text", "file", filename, "file_type", artifact.FileType, "size", FormatFileSize(artifact.FileSize))
	return artifact, nil
}
