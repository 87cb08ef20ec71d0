package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the livetime library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMissingProvider indicates that no date provider is available for the operation.
	// Callers must attach a provider before retrying.
	ErrMissingProvider = errors.New("date provider is not available")

	// ErrUnsupportedCapability indicates that the date provider lacks a capability
	// (timezone conversion, duration humanization) the operation needs.
	ErrUnsupportedCapability = errors.New("unsupported provider capability")

	// ErrCallbackDispatch indicates that delivering a computed value to a subscriber failed.
	ErrCallbackDispatch = errors.New("callback dispatch failed")

	// ErrInvalidInterval indicates an interval that is unparsable or not positive
	ErrInvalidInterval = errors.New("invalid interval")
)

// ValidationError describes a rejected input value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint sets a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// OperationError wraps a failure of a named operation.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// CapabilityError reports that Operation needs a provider Capability that is not present.
type CapabilityError struct {
	Capability string
	Operation  string
}

// NewCapabilityError creates a CapabilityError.
func NewCapabilityError(capability, operation string) *CapabilityError {
	return &CapabilityError{Capability: capability, Operation: operation}
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s requires %s support, which the date provider does not offer", e.Operation, e.Capability)
}

func (e *CapabilityError) Unwrap() error {
	return ErrUnsupportedCapability
}

// DispatchError reports a failed delivery to a single subscription.
type DispatchError struct {
	SubscriptionID uint64
	Cause          error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("subscription %d: %v: %v", e.SubscriptionID, ErrCallbackDispatch, e.Cause)
}

// Unwrap exposes both the dispatch sentinel and the underlying cause.
func (e *DispatchError) Unwrap() []error {
	return []error{ErrCallbackDispatch, e.Cause}
}

// IsCapabilityError reports whether err was caused by a missing provider capability.
func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrUnsupportedCapability)
}
