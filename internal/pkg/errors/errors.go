// Package errors provides the error taxonomy, exit codes and logging for guito.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// Commit argument and template errors (Exit Code 1)
	ErrNoArguments ErrorCode = iota + 100
	ErrMissingCardID
	ErrMissingShortcodes
	ErrMissingCommitMessage
	ErrAmbiguousShortcode
	ErrMultipleTypeShortcodes
	ErrMultipleEnvironmentShortcodes
	ErrUnknownShortcode
	ErrMissingTypeShortcode
	ErrMissingMessage

	// Usage and environment errors (Exit Code 1)
	ErrInvalidConfig ErrorCode = iota + 140
	ErrConfigNotFound
	ErrInvalidArguments
	ErrNotGitRepo
	ErrNoStagedChanges

	// System errors (Exit Code 2)
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrFileSystemError
	ErrTimeout
)

// ExitCode returns the process exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1
	case c >= 200:
		return 2
	default:
		return 1
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNoArguments:
		return "NoArguments"
	case ErrMissingCardID:
		return "MissingCardId"
	case ErrMissingShortcodes:
		return "MissingShortcodes"
	case ErrMissingCommitMessage:
		return "MissingCommitMessage"
	case ErrAmbiguousShortcode:
		return "AmbiguousShortcode"
	case ErrMultipleTypeShortcodes:
		return "MultipleTypeShortcodes"
	case ErrMultipleEnvironmentShortcodes:
		return "MultipleEnvironmentShortcodes"
	case ErrUnknownShortcode:
		return "UnknownShortcode"
	case ErrMissingTypeShortcode:
		return "MissingTypeShortcode"
	case ErrMissingMessage:
		return "MissingMessage"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrConfigNotFound:
		return "ConfigNotFound"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrNotGitRepo:
		return "NotGitRepo"
	case ErrNoStagedChanges:
		return "NoStagedChanges"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, apperrors.New(code, "")) matches by kind.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the code of the first AppError in the chain, or 0.
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return 0
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// NewNoStagedChangesError creates an error for no staged changes.
func NewNoStagedChangesError() *AppError {
	return &AppError{
		Code:       ErrNoStagedChanges,
		Message:    "no staged changes to commit",
		Suggestion: "Stage files with 'git add', or drop -S to let guito stage everything",
	}
}

// NewNotGitRepoError creates an error for commands run outside a work tree.
func NewNotGitRepoError() *AppError {
	return &AppError{
		Code:       ErrNotGitRepo,
		Message:    "not a git repository",
		Suggestion: "Run guito inside a git working tree",
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'guito init' to create a valid configuration file",
	}
}

// NewConfigNotFoundError creates an error for a missing configuration file.
func NewConfigNotFoundError() *AppError {
	return &AppError{
		Code:       ErrConfigNotFound,
		Message:    "no configuration file found",
		Suggestion: "Run 'guito init' to create one",
	}
}

// NewInvalidArgumentsError creates an error for bad command-line input.
func NewInvalidArgumentsError(message string) *AppError {
	return New(ErrInvalidArguments, message)
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewTimeoutError creates an error for timeouts.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:       ErrTimeout,
		Message:    "git command timed out",
		Cause:      err,
		Suggestion: "Check for a hung editor, credential prompt or remote, then retry",
	}
}

// NewFileSystemError creates an error for filesystem failures.
func NewFileSystemError(err error, message string) *AppError {
	return Wrap(err, ErrFileSystemError, message)
}

// FormatError formats an error for user display.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(appErr.Message)

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(appErr.Cause.Error())
		}
		if output, ok := appErr.Context["output"]; ok {
			sb.WriteString("\n  Output: ")
			sb.WriteString(fmt.Sprintf("%v", output))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", appErr.Cause))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			keys := make([]string, 0, len(appErr.Context))
			for k := range appErr.Context {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, appErr.Context[k]))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", err))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, err))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}
