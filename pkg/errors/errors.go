package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/bcomnes/bumpversion/pkg/version"
)

// ErrorCode classifies a failure and determines the process exit status.
type ErrorCode string

const (
	// ErrCodeArgument indicates invalid command line input or bump instruction.
	ErrCodeArgument ErrorCode = "ARGUMENT"
	// ErrCodeConfigNotFound indicates an explicitly requested config file is missing.
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	// ErrCodeInvalidConfig indicates the config file could not be decoded or validated.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeExecutableNotFound indicates a required tool is not on PATH.
	ErrCodeExecutableNotFound ErrorCode = "EXECUTABLE_NOT_FOUND"
	// ErrCodeVersionNotFound indicates no current version could be located.
	ErrCodeVersionNotFound ErrorCode = "VERSION_NOT_FOUND"
	// ErrCodeInvalidVersion indicates the current version does not parse.
	ErrCodeInvalidVersion ErrorCode = "INVALID_VERSION"
	// ErrCodeSubcommand indicates an external tool exited unsuccessfully.
	ErrCodeSubcommand ErrorCode = "SUBCOMMAND"
	// ErrCodeInternal indicates any other failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Exit statuses returned by the CLI.
const (
	ExitOK                 = 0
	ExitArgument           = 1
	ExitConfigNotFound     = 2
	ExitInvalidConfig      = 3
	ExitExecutableNotFound = 4
	ExitVersionNotFound    = 5
	ExitInvalidVersion     = 6
	// ExitSubcommand is -1 truncated to a byte.
	ExitSubcommand = 255
)

var exitCodes = map[ErrorCode]int{
	ErrCodeArgument:           ExitArgument,
	ErrCodeConfigNotFound:     ExitConfigNotFound,
	ErrCodeInvalidConfig:      ExitInvalidConfig,
	ErrCodeExecutableNotFound: ExitExecutableNotFound,
	ErrCodeVersionNotFound:    ExitVersionNotFound,
	ErrCodeInvalidVersion:     ExitInvalidVersion,
	ErrCodeSubcommand:         ExitSubcommand,
	ErrCodeInternal:           ExitArgument,
}

// StructuredError carries an error code for exit status mapping, a
// human-readable message, the underlying cause and optional context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Newf is New with a format string.
func Newf(code ErrorCode, format string, args ...any) *StructuredError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the code of the outermost StructuredError in err's chain.
// Bare version errors are classified as well; anything else is
// ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	var ae *version.ArgumentError
	if stderrors.As(err, &ae) {
		return ErrCodeArgument
	}
	var pe *version.ParseError
	if stderrors.As(err, &pe) {
		return ErrCodeInvalidVersion
	}
	return ErrCodeInternal
}

// ExitCode maps err to a process exit status. A nil error is ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if code, ok := exitCodes[CodeOf(err)]; ok {
		return code
	}
	return ExitArgument
}
