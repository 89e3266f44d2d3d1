package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is wrapped by every lookup failure.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound is returned by the token exchange for unknown usernames.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrInvalidCode is returned when a confirmation code does not match.
	ErrInvalidCode = errors.New("invalid confirmation code")
	// ErrMailDelivery is returned when the confirmation email could not be sent.
	ErrMailDelivery = errors.New("failed to send confirmation code")
)

// ValidationError carries human-readable messages per input field.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a ValidationError with a single message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any message was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func notFound(resource string, key interface{}) error {
	return fmt.Errorf("%s %v %w", resource, key, ErrNotFound)
}
