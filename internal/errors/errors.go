package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInvalidInput  ErrorType = "invalid_input"
	ErrorTypePatternEngine ErrorType = "pattern_engine"
	ErrorTypeIO            ErrorType = "io"
	ErrorTypeSemantic      ErrorType = "semantic"
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError reports a malformed artifact or request. Field names the
// offending input so callers can point the user at it.
func NewInvalidInputError(field, message string) *AppError {
	return newAppError(ErrorTypeInvalidInput, ErrCodeInvalidInput, message, nil).
		WithContext("field", field)
}

// NewPatternEngineError reports a failure inside a rule evaluator. It signals a
// defect, never a user mistake.
func NewPatternEngineError(stage string, cause error) *AppError {
	return newAppError(ErrorTypePatternEngine, ErrCodePatternEngine,
		fmt.Sprintf("rule evaluation failed in %s", stage), cause).
		WithContext("stage", stage)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewSemanticError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeSemantic, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Field returns the offending field recorded on an invalid input error.
func (e *AppError) Field() string {
	if f, ok := e.Context["field"].(string); ok {
		return f
	}
	return ""
}

// As is a convenience wrapper around errors.As for *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsInvalidInput(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == ErrorTypeInvalidInput
}

func IsPatternEngine(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == ErrorTypePatternEngine
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a structured JSON logger on stderr. Stdout is reserved for
// reports and the MCP stdio transport.
func NewLogger(level slog.Level) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a structured JSON logger writing to w.
func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	if appErr, ok := As(err); ok {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}
		if appErr.Cause != nil {
			logArgs = append(logArgs, "cause", appErr.Cause.Error())
		}

		keys := make([]string, 0, len(appErr.Context))
		for key := range appErr.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			logArgs = append(logArgs, key, appErr.Context[key])
		}

		logArgs = append(logArgs, args...)
		l.logger.Error(message, logArgs...)
		return
	}

	logArgs := append([]any{"error", err.Error()}, args...)
	l.logger.Error(message, logArgs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// Slog exposes the underlying slog logger for libraries that accept one.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodePatternEngine    = "PATTERN_ENGINE_FAILURE"
	ErrCodeFileNotFound     = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable  = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat    = "INVALID_FORMAT"
	ErrCodeSemanticFailed   = "SEMANTIC_PROVIDER_FAILED"
	ErrCodeSemanticTimeout  = "SEMANTIC_TIMEOUT"
	ErrCodeSemanticDisabled = "SEMANTIC_DISABLED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeMissingAPIKey    = "MISSING_API_KEY"
	ErrCodeInvalidConfig    = "INVALID_CONFIG"
	ErrCodeStateFile        = "STATE_FILE_FAILED"
)
