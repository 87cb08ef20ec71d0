// Package validation provides common validation utilities for subscription
// requests and configuration parameters across the livetime library.
//
// The helpers return *errors.ValidationError values so callers get consistent
// messages and can match them with errors.IsValidationError.
package validation
