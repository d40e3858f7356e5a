// Package apperr defines the business error taxonomy shared by the
// connector, the extraction service and the HTTP layer. Every error kind
// carries a stable machine-readable code and a suggested HTTP status, so the
// serving boundary can translate errors without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients.
const (
	CodeBusiness        = "BUSINESS_ERROR"
	CodeExtraction      = "EXTRACTION_ERROR"
	CodeInputValidation = "INPUT_VALIDATION_ERROR"
	CodeConfiguration   = "CONFIGURATION_ERROR"
)

// BusinessError is an application-level error with a client-facing message.
// Anything that is not a BusinessError is treated as an internal failure and
// must not leak details to clients.
type BusinessError struct {
	Message string
	Code    string
	Status  int

	cause error
}

func (e *BusinessError) Error() string { return e.Message }

func (e *BusinessError) Unwrap() error { return e.cause }

// WithCause attaches the originating error for diagnostics and unwrapping.
func (e *BusinessError) WithCause(cause error) *BusinessError {
	e.cause = cause
	return e
}

// New returns a generic business error (400).
func New(message string) *BusinessError {
	return &BusinessError{Message: message, Code: CodeBusiness, Status: http.StatusBadRequest}
}

// Extraction reports a failed or malformed extraction (422).
func Extraction(message string) *BusinessError {
	return &BusinessError{Message: message, Code: CodeExtraction, Status: http.StatusUnprocessableEntity}
}

func Extractionf(format string, args ...any) *BusinessError {
	return Extraction(fmt.Sprintf(format, args...))
}

// InputValidation reports malformed caller input (400).
func InputValidation(message string) *BusinessError {
	return &BusinessError{Message: message, Code: CodeInputValidation, Status: http.StatusBadRequest}
}

func InputValidationf(format string, args ...any) *BusinessError {
	return InputValidation(fmt.Sprintf(format, args...))
}

// Configuration reports missing or invalid required configuration (500).
func Configuration(message string) *BusinessError {
	return &BusinessError{Message: message, Code: CodeConfiguration, Status: http.StatusInternalServerError}
}

func Configurationf(format string, args ...any) *BusinessError {
	return Configuration(fmt.Sprintf(format, args...))
}

// As unwraps err to a BusinessError if there is one in its chain.
func As(err error) (*BusinessError, bool) {
	var bizErr *BusinessError
	ok := errors.As(err, &bizErr)
	return bizErr, ok
}
