package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateRequest    = errors.New("adoption request already submitted for this dog")
	ErrNotFound            = errors.New("not found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrReferentialConflict = errors.New("dog is referenced by adoption requests")
	ErrUploadFailed        = errors.New("upload failed")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAlreadyDecided      = errors.New("adoption request already decided")
	ErrDogAdopted          = errors.New("dog already adopted")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Unavailable wraps a store or network failure as ErrServiceUnavailable.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}
