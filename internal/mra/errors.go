package mra

// errors.go defines the error taxonomy used by the bridge API

import "fmt"

// BridgeError represents a structured error from the mra package.
type BridgeError struct {
	// code classifies the error
	code ErrorCode

	// message is a human-readable error message
	message string

	// step names the pipeline step that failed, when the error originated
	// from the submission pipeline
	step Step

	// wrapped is the optional underlying error
	wrapped error
}

func (e *BridgeError) Error() string {
	msg := e.message
	if e.step != "" {
		msg = fmt.Sprintf("%s: %s", e.step, e.message)
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", msg, e.wrapped)
	}
	return msg
}

func (e *BridgeError) Code() ErrorCode { return e.code }
func (e *BridgeError) Step() Step      { return e.step }
func (e *BridgeError) Unwrap() error   { return e.wrapped }

// ErrorCode classifies bridge errors for mapping to HTTP status codes.
type ErrorCode string

const (
	// ErrCodeValidation is used when a request is missing required fields
	// or a field is malformed. Maps to 400.
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeMethodNotAllowed is used when an endpoint is called with the
	// wrong HTTP method. Maps to 405.
	ErrCodeMethodNotAllowed ErrorCode = "method_not_allowed"

	// ErrCodeConfiguration is used when required configuration (e.g. the
	// authority public key) is missing or unusable. Maps to 500.
	ErrCodeConfiguration ErrorCode = "configuration"

	// ErrCodeDownstream is used when an authority call fails or returns a
	// response lacking the expected fields. Maps to 500.
	ErrCodeDownstream ErrorCode = "downstream"

	// ErrCodeInternal is used for unexpected failures. Maps to 500.
	ErrCodeInternal ErrorCode = "internal"
)

// Step identifies a stage of the submission pipeline. Failure messages name
// the failing step so callers can tell where the pipeline aborted.
type Step string

const (
	StepMapInvoice     Step = "map invoice"
	StepGenerateKey    Step = "generate key"
	StepRSAEncrypt     Step = "rsa encrypt"
	StepToken          Step = "token"
	StepUnwrapKey      Step = "unwrap key"
	StepEncryptInvoice Step = "encrypt invoice"
	StepTransmit       Step = "transmit"
)

// NewValidationError creates a validation error for invalid request input.
// The message should name the missing or malformed field.
//
// The returned error will have code ErrCodeValidation.
func NewValidationError(msg string) error {
	return &BridgeError{code: ErrCodeValidation, message: msg}
}

// WrapValidationError wraps an existing error as a validation error.
// The message should name the missing or malformed field.
//
// The returned error will have code ErrCodeValidation.
func WrapValidationError(err error, msg string) error {
	return &BridgeError{code: ErrCodeValidation, message: msg, wrapped: err}
}

// NewMethodNotAllowedError creates an error for requests using the wrong
// HTTP method.
//
// The returned error will have code ErrCodeMethodNotAllowed.
func NewMethodNotAllowedError(msg string) error {
	return &BridgeError{code: ErrCodeMethodNotAllowed, message: msg}
}

// NewConfigurationError creates an error for missing or unusable
// configuration. Configuration problems are server-side faults, never
// request errors.
//
// The returned error will have code ErrCodeConfiguration.
func NewConfigurationError(msg string) error {
	return &BridgeError{code: ErrCodeConfiguration, message: msg}
}

// WrapConfigurationError wraps an existing error as a configuration error.
//
// The returned error will have code ErrCodeConfiguration.
func WrapConfigurationError(err error, msg string) error {
	return &BridgeError{code: ErrCodeConfiguration, message: msg, wrapped: err}
}

// NewDownstreamError creates an error for a failed authority call. The step
// names the pipeline stage and the message should include enough of the raw
// response for diagnostics.
//
// The returned error will have code ErrCodeDownstream.
func NewDownstreamError(step Step, msg string) error {
	return &BridgeError{code: ErrCodeDownstream, step: step, message: msg}
}

// WrapDownstreamError wraps an existing error as a downstream error for the
// given pipeline step.
//
// The returned error will have code ErrCodeDownstream.
func WrapDownstreamError(err error, step Step, msg string) error {
	return &BridgeError{code: ErrCodeDownstream, step: step, message: msg, wrapped: err}
}

// NewInternalError creates an internal error for unexpected failures.
//
// The returned error will have code ErrCodeInternal.
func NewInternalError(step Step, msg string) error {
	return &BridgeError{code: ErrCodeInternal, step: step, message: msg}
}

// WrapInternalError wraps an existing error as an internal error for the
// given pipeline step.
//
// The returned error will have code ErrCodeInternal.
func WrapInternalError(err error, step Step, msg string) error {
	return &BridgeError{code: ErrCodeInternal, step: step, message: msg, wrapped: err}
}
