// package domain/errors.go
package domain

import "fmt"

// InputError reports a request that could not be accepted at all: no file
// attached or an unsupported file extension. Maps to a 400 response.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// NewInputError creates an InputError with the given message.
func NewInputError(message string) *InputError {
	return &InputError{Message: message}
}

// ValidationError reports input that parsed but cannot be forecast, e.g.
// fewer than three usable rows after cleaning. Maps to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ModelFitError reports that both the primary and the fallback smoothing
// strategies failed for a series. Maps to a 500 response.
type ModelFitError struct {
	Series string
	Err    error
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("forecast model fit failed for %s series: %v", e.Series, e.Err)
}

func (e *ModelFitError) Unwrap() error {
	return e.Err
}
