package engine

import (
	"errors"
	"fmt"

	"github.com/steelshape/steelshape/pkg/profiles"
	"github.com/steelshape/steelshape/pkg/topology"
)

// ErrorClass is the failure category of an engine error. None of the
// classes is retryable: every failure is local and deterministic.
type ErrorClass string

const (
	// ErrorClassParameterInvalid indicates a single scalar failed the guard
	// (NaN, infinite, wrong sign) or a required field is missing.
	ErrorClassParameterInvalid ErrorClass = "parameter_invalid"

	// ErrorClassConstraintViolated indicates a named cross-parameter rule
	// failed.
	ErrorClassConstraintViolated ErrorClass = "constraint_violated"

	// ErrorClassTopologyInvalid indicates an arbitrary curve network failed
	// closure, planarity, area or region checks.
	ErrorClassTopologyInvalid ErrorClass = "topology_invalid"

	// ErrorClassReferential indicates a reference target is missing, of the
	// wrong family or cyclic, or a delete hit a live reference.
	ErrorClassReferential ErrorClass = "referential"

	// ErrorClassNotFound indicates the operation named a profile that is not
	// committed.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassInternal indicates a persistence or encoding failure.
	ErrorClassInternal ErrorClass = "internal"
)

// EngineError represents a classified error with context.
// nolint:revive // EngineError is intentionally named to distinguish from standard errors
type EngineError struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable reason.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Resource is the profile ID that caused the error, if applicable.
	Resource string `json:"resource,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	switch {
	case e.Resource != "" && e.Operation != "":
		msg = fmt.Sprintf("%s (profile=%s, operation=%s)", msg, e.Resource, e.Operation)
	case e.Resource != "":
		msg = fmt.Sprintf("%s (profile=%s)", msg, e.Resource)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewParameterError creates a new parameter_invalid error.
func NewParameterError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassParameterInvalid,
		Message: message,
		Code:    ErrCodeValidation,
		Err:     err,
	}
}

// NewConstraintError creates a new constraint_violated error.
func NewConstraintError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassConstraintViolated,
		Message: message,
		Code:    ErrCodeConstraint,
		Err:     err,
	}
}

// NewTopologyError creates a new topology_invalid error.
func NewTopologyError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassTopologyInvalid,
		Message: message,
		Code:    ErrCodeTopology,
		Err:     err,
	}
}

// NewReferentialError creates a new referential error.
func NewReferentialError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassReferential,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a new not_found error.
func NewNotFoundError(id string, err error) *EngineError {
	return &EngineError{
		Class:    ErrorClassNotFound,
		Message:  "profile not found",
		Code:     ErrCodeNotFound,
		Resource: id,
		Err:      err,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *EngineError {
	return &EngineError{
		Class:   ErrorClassInternal,
		Message: message,
		Code:    ErrCodeInternal,
		Err:     err,
	}
}

// WithResource adds profile context to an error.
func (e *EngineError) WithResource(profileID string) *EngineError {
	e.Resource = profileID
	return e
}

// WithOperation adds operation context to an error.
func (e *EngineError) WithOperation(operation string) *EngineError {
	e.Operation = operation
	return e
}

// WithCode adds an error code to an error.
func (e *EngineError) WithCode(code string) *EngineError {
	e.Code = code
	return e
}

// WithDetail adds a detail field to the error context.
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ClassOf returns the class of an engine error in err's chain, or "".
func ClassOf(err error) ErrorClass {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Class
	}
	return ""
}

// CodeOf returns the code of an engine error in err's chain, or "".
func CodeOf(err error) string {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCommitRejected reports whether err is one of the four validation
// outcomes that block persistence.
func IsCommitRejected(err error) bool {
	switch ClassOf(err) {
	case ErrorClassParameterInvalid, ErrorClassConstraintViolated,
		ErrorClassTopologyInvalid, ErrorClassReferential:
		return true
	}
	return false
}

// IsReferential returns true if the error is classified as referential.
func IsReferential(err error) bool {
	return ClassOf(err) == ErrorClassReferential
}

// IsNotFound returns true if the error is classified as not_found.
func IsNotFound(err error) bool {
	return ClassOf(err) == ErrorClassNotFound
}

// Error codes.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnknownFamily   = "UNKNOWN_FAMILY"
	ErrCodeInvalidScalar   = "INVALID_SCALAR"
	ErrCodeConstraint      = "CONSTRAINT_VIOLATED"
	ErrCodeTopology        = "TOPOLOGY_INVALID"
	ErrCodeUnsetReference  = "UNSET_REFERENCE"
	ErrCodeTargetMissing   = "TARGET_MISSING"
	ErrCodeWrongFamily     = "WRONG_FAMILY"
	ErrCodeReferenceCycle  = "REFERENCE_CYCLE"
	ErrCodeReferenced      = "REFERENCED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeAlreadyExists   = "ALREADY_EXISTS"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBatchCancelled  = "BATCH_CANCELLED"
	ErrCodeOutlineUnstable = "OUTLINE_UNSTABLE"
)

// classifyValidation maps the failure of profiles.Validate onto the
// engine taxonomy, keeping the specific reason as the message.
func classifyValidation(err error) *EngineError {
	var v *profiles.Violation
	if errors.As(err, &v) {
		var e *EngineError
		if v.Class == profiles.ClassParameterInvalid {
			e = NewParameterError(v.Reason, err).WithCode(ErrCodeInvalidScalar)
		} else {
			e = NewConstraintError(v.Reason, err)
		}
		return e.WithDetail("family", string(v.Family)).
			WithDetail("constraint", v.Constraint).
			WithDetail("field", v.Field)
	}

	var te *topology.TopologyError
	if errors.As(err, &te) {
		return NewTopologyError(fmt.Sprintf("curve network is not a valid region: %s", te.Reason), err).
			WithDetail("reason", string(te.Reason)).
			WithDetail("loop", te.Loop)
	}

	return NewInternalError("validation failed", err)
}
