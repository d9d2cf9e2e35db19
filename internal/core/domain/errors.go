package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("record not found")
	ErrNotAuthorized          = errors.New("not authorized")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrMissingQuery           = errors.New("search query or filters required")
	ErrConflictingApplication = errors.New("application already exists for this job")
	ErrCannotApply            = errors.New("cannot apply for this job")
	ErrConcurrentUpdate       = errors.New("record was modified concurrently")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserExists             = errors.New("user already exists")
)

// ValidationError carries per-field messages. It matches ErrValidation via errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// orNil returns nil when no field failed so callers can return it directly.
func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
