package listing

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/steemit/citygroups/internal/models"
)

// ValidationError reports malformed input, keyed by field name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func fromValidationErrors(errs validation.Errors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for field, err := range errs {
		if err != nil {
			fields[field] = err.Error()
		}
	}
	return &ValidationError{Fields: fields}
}

// NotFoundError is returned when a decision targets an unknown listing
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("listing %q not found", e.ID)
}

// PreconditionFailedError is returned when a decision targets a listing that
// has already left the pending state
type PreconditionFailedError struct {
	ID      string
	Current models.Status
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("listing %q is %s, not pending", e.ID, e.Current)
}

// StoreUnavailableError wraps a record store failure
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("record store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
