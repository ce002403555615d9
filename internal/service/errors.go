package service

import (
	"errors"
	"strings"

	"blogcms/internal/forms"
	"blogcms/internal/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrConflict           = errors.New("conflict")
)

// ValidationError carries field-level messages back to the caller.
type ValidationError struct {
	Fields forms.Errors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// invalid returns a ValidationError for errs, or nil when errs is empty.
func invalid(errs forms.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func fieldError(field, message string) error {
	errs := forms.Errors{}
	errs.Add(field, message)
	return &ValidationError{Fields: errs}
}

// AsValidation unwraps a ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
