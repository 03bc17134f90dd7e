package errs

import (
	"errors"
	"fmt"
)

// AppError definition coded error, Cause keep the original error for log
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap expose the cause for errors.Is / errors.As
func (e *AppError) Unwrap() error { return e.Cause }

// New create a coded error
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

// Wrap create a coded error keeping the cause
func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// InvalidArg create INVALID_ARGUMENT error
func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

// NotFound create NOT_FOUND error
func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

// AlreadyExists create ALREADY_EXISTS error
func AlreadyExists(msg string) error {
	return New(CodeAlreadyExists, msg)
}

// Forbidden create PERMISSION_DENIED error
func Forbidden(msg string) error {
	return New(CodePermissionDenied, msg)
}

// Unauthorized create UNAUTHENTICATED error
func Unauthorized(msg string) error {
	return New(CodeUnauthenticated, msg)
}

// Internal create INTERNAL error
func Internal(msg string) error {
	return New(CodeInternal, msg)
}

// CodeOf get the code of err, CodeUnknown when err is not an AppError
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// HasCode check err carry the given code
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
