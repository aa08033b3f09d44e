// Package ingest turns files on disk into analyzer inputs: resume artifacts
// from text, markdown or extractor JSON, and job descriptions from text or
// HTML.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"atscheck/internal/errors"
)

var textExtensions = []string{".txt", ".text", ".md", ".markdown"}

// Reader loads input files with a size limit.
type Reader struct {
	maxSize int64
	logger  *errors.Logger
}

// NewReader creates a Reader. A maxSize of zero disables the limit.
func NewReader(maxSize int64, logger *errors.Logger) *Reader {
	return &Reader{maxSize: maxSize, logger: logger}
}

// ReadFile reads a regular file, rejecting directories and oversized input.
func (r *Reader) ReadFile(filename string) ([]byte, error) {
	if filename == "" {
		return nil, errors.NewInvalidInputError("file", "filename cannot be empty")
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", filename), err)
	}
	if info.IsDir() {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Path is a directory, not a file: %s", filename), nil)
	}
	if r.maxSize > 0 && info.Size() > r.maxSize {
		return nil, errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("File %s is %s, larger than the %s limit", filename, FormatFileSize(info.Size()), FormatFileSize(r.maxSize)), nil)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	return content, nil
}

// WriteFile writes content, creating parent directories as needed.
func WriteFile(filename string, content []byte) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}
	if err := os.WriteFile(filename, content, 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// Extension returns the file extension in lowercase
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsTextFile checks if the file has a text-based extension
func IsTextFile(filename string) bool {
	return slices.Contains(textExtensions, Extension(filename))
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
