package compare

import (
	"errors"
	"fmt"
)

// Error represents a comparison that could not produce a verdict.
//
// A mismatch is never an Error; it is a Verdict with Equal == false.
// Errors include:
//   - Configuration: malformed regex, rounding applied to a non-number,
//     structured comparison without a decoder
//   - Decode: the actual or expected text is not a valid document
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the flattened path involved, if any.
	Path string

	// Side is "actual" or "expected" for decode errors.
	Side string

	// Cause is the underlying error (regex compiler, decoder).
	Cause error
}

// ErrorCode categorizes comparison errors.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates the comparison configuration cannot be applied.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"

	// ErrCodeDecode indicates a document could not be decoded.
	ErrCodeDecode ErrorCode = "DECODE"
)

// Sides of a comparison, used in decode errors.
const (
	SideActual   = "actual"
	SideExpected = "expected"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Side != "" {
		msg = fmt.Sprintf("%s (side=%s)", msg, e.Side)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsConfigError returns true if err is a configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeConfiguration
	}
	return false
}

// IsDecodeError returns true if err is a decode error.
// Uses errors.As to handle wrapped errors.
func IsDecodeError(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeDecode
	}
	return false
}

// NewConfigError creates an Error for an unusable configuration.
func NewConfigError(path, message string, cause error) *Error {
	return &Error{
		Code:    ErrCodeConfiguration,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// NewDecodeError creates an Error for a document that failed to decode.
func NewDecodeError(side string, cause error) *Error {
	return &Error{
		Code:    ErrCodeDecode,
		Message: fmt.Sprintf("cannot decode %s document", side),
		Side:    side,
		Cause:   cause,
	}
}
