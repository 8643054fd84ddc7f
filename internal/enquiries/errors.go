package enquiries

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrEnquiryNotFound is returned when an enquiry does not exist
	ErrEnquiryNotFound = errors.New("enquiry not found")
)

// ValidationError carries field-level messages for a rejected submission.
// It satisfies httpx.FieldErrors so the boundary renders it as a 400
// with an errors map.
type ValidationError struct {
	fields map[string]string
}

// NewValidationError builds a validation error from a field -> message map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.fields))
	for f := range e.fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Fields returns the field -> message mapping.
func (e *ValidationError) Fields() map[string]string {
	return e.fields
}
