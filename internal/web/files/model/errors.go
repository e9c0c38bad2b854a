package model

import (
	"fmt"

	errors "github.com/Laisky/errors/v2"
)

// ErrorCode identifies a machine-stable failure kind.
type ErrorCode string

const (
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeQuotaExceeded   ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeInvalidFile     ErrorCode = "INVALID_FILE"
	ErrCodeFileTooLarge    ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrCodeUpstream        ErrorCode = "UPSTREAM"
)

// Error captures a typed failure. Distinct kinds are never collapsed into
// one generic status; handlers map the code to an HTTP response.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "datagate error: <nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("datagate error: %s", e.Code)
	}
	return e.Message
}

// NewError constructs a typed error.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code, ErrCodeUpstream for untyped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code
	}

	return ErrCodeUpstream
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
