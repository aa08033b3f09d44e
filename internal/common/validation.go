package common

import (
	"fmt"
	"slices"

	"atscheck/internal/errors"
)

// ValidateOutputFormat checks format against the configured formats. An empty
// list allows any format the registry knows.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}
	return errors.NewInvalidInputError("format",
		fmt.Sprintf("unsupported output format '%s'. Supported formats: %v", format, supportedFormats))
}

// ResolveFormat applies the default when format is empty and validates the
// result.
func ResolveFormat(format, defaultFormat string, supportedFormats []string) (string, error) {
	if format == "" {
		format = defaultFormat
	}
	if format == "" {
		format = "text"
	}
	if err := ValidateOutputFormat(format, supportedFormats); err != nil {
		return "", err
	}
	return format, nil
}
