package common

import (
	"testing"

	"atscheck/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}
	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
		expectedMessage  string
	}{
		{name: "json", format: "json", supportedFormats: supported},
		{name: "text", format: "text", supportedFormats: supported},
		{name: "markdown", format: "markdown", supportedFormats: supported},
		{
			name:             "unknown format",
			format:           "xml",
			supportedFormats: supported,
			expectError:      true,
			expectedMessage:  "unsupported output format 'xml'. Supported formats: [json text markdown]",
		},
		{
			name:             "case sensitive",
			format:           "JSON",
			supportedFormats: supported,
			expectError:      true,
			expectedMessage:  "unsupported output format 'JSON'. Supported formats: [json text markdown]",
		},
		{name: "no restrictions", format: "xml", supportedFormats: nil},
		{
			name:             "single supported format",
			format:           "text",
			supportedFormats: []string{"json"},
			expectError:      true,
			expectedMessage:  "unsupported output format 'text'. Supported formats: [json]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)
			if !tt.expectError {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			appErr, ok := errors.As(err)
			if !ok {
				t.Fatalf("Expected AppError, got %T", err)
			}
			if appErr.Message != tt.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tt.expectedMessage, appErr.Message)
			}
			if appErr.Field() != "format" {
				t.Errorf("Expected field 'format', got '%s'", appErr.Field())
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name          string
		format        string
		defaultFormat string
		want          string
		expectError   bool
	}{
		{name: "explicit format wins", format: "json", defaultFormat: "markdown", want: "json"},
		{name: "default applied", format: "", defaultFormat: "markdown", want: "markdown"},
		{name: "text when nothing configured", want: "text"},
		{name: "invalid explicit format", format: "yaml", defaultFormat: "text", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFormat(tt.format, tt.defaultFormat, supported)
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", supportedFormats)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", supportedFormats)
		}
	})
}
