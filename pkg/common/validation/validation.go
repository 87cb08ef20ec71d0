package validation

import (
	"reflect"
	"time"

	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
)

// ValidateNotNil validates that an interface value is not nil, including
// typed nil pointers, funcs, maps and channels stored in the interface.
func ValidateNotNil(module, field string, value interface{}) error {
	if isNil(value) {
		return gferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return gferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}

// ValidateNotZeroTime validates that a time value is set.
func ValidateNotZeroTime(module, field string, value time.Time) error {
	if value.IsZero() {
		return gferrors.NewValidationError(module, field, value, "cannot be zero").
			WithHint("provide the instant the " + field + " refers to")
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is greater than zero.
func ValidatePositiveDuration(module, field string, value time.Duration) error {
	if value <= 0 {
		return gferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
