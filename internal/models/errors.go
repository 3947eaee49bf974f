package models

import "fmt"

// Error codes surfaced by the REST API.
const (
	CodeAcquisition = "ACQUISITION_ERROR"
	CodeComputation = "COMPUTATION_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
)

// AcquisitionError reports that price data could not be obtained from the
// quote source: retries exhausted, failure response, or a required day missing.
type AcquisitionError struct {
	Message string
	Err     error
}

func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Code returns the API error code.
func (e *AcquisitionError) Code() string { return CodeAcquisition }

// NewAcquisitionError creates an AcquisitionError wrapping err (which may be nil).
func NewAcquisitionError(message string, err error) *AcquisitionError {
	return &AcquisitionError{Message: message, Err: err}
}

// ComputationError reports that prices were available but yielded no result,
// e.g. no periodic purchase landed on a priced day.
type ComputationError struct {
	Message string
}

func (e *ComputationError) Error() string { return e.Message }

// Code returns the API error code.
func (e *ComputationError) Code() string { return CodeComputation }

// NewComputationError creates a ComputationError.
func NewComputationError(format string, args ...any) *ComputationError {
	return &ComputationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports invalid calculation input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Code returns the API error code.
func (e *ValidationError) Code() string { return CodeValidation }
