package errors

import "fmt"

// ErrorType represents different types of errors that can occur during a pass
type ErrorType string

const (
	ErrorTypeTransport  ErrorType = "transport"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a pipeline error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// NewWithCode creates a typed error carrying an HTTP status code
func NewWithCode(errorType ErrorType, message string, code int) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// IsFatal checks if an error type must abort the whole pass.
// Only checkpoint storage failures are fatal; everything else is recorded
// as a per-URL outcome and the pass continues.
func IsFatal(errorType ErrorType) bool {
	return errorType == ErrorTypeStorage
}

// IsNotFoundStatusCode checks if an HTTP status code is the host's
// canonical "no such resource" signal.
func IsNotFoundStatusCode(statusCode int) bool {
	return statusCode == 404 || statusCode == 410
}
