package common

import (
	"fmt"
	"io"
	"os"

	"atscheck/internal/errors"
	"atscheck/internal/formatters"
	"atscheck/internal/ingest"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	registry *formatters.FormatterRegistry
	stdout   io.Writer
	logger   *errors.Logger
}

// NewOutputHandler creates an output handler that prints to stdout.
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		registry: formatters.GlobalRegistry,
		stdout:   os.Stdout,
		logger:   logger,
	}
}

// WithWriter redirects console output to w.
func (oh *OutputHandler) WithWriter(w io.Writer) *OutputHandler {
	oh.stdout = w
	return oh
}

// HandleOutput formats data and writes it to the configured file, or to the
// console when no file is set.
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile == "" {
		_, err = io.WriteString(oh.stdout, output)
		return err
	}

	if err := ingest.WriteFile(config.OutputFile, []byte(output)); err != nil {
		return err
	}
	oh.logger.Info("Output written successfully",
		"file", config.OutputFile, "format", config.OutputFormat)
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
