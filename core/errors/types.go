// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for better error handling and API responses

package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// SearchExecutionError is returned when a search cannot be served at all:
// the content store is unreachable or every entity type query failed.
type SearchExecutionError struct {
	Reason string

	// Failures maps entity type to the error it produced
	Failures map[string]error
}

// Error implements the error interface
func (e *SearchExecutionError) Error() string {
	if len(e.Failures) == 0 {
		return "search execution failed: " + e.Reason
	}
	parts := make([]string, 0, len(e.Failures))
	for _, t := range sortedKeys(e.Failures) {
		parts = append(parts, fmt.Sprintf("%s: %v", t, e.Failures[t]))
	}
	return fmt.Sprintf("search execution failed: %s (%s)", e.Reason, strings.Join(parts, "; "))
}

// Unwrap exposes the per-type failures to errors.Is and errors.As
func (e *SearchExecutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, t := range sortedKeys(e.Failures) {
		errs = append(errs, e.Failures[t])
	}
	return errs
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsSearchExecution checks if an error is a SearchExecutionError
func IsSearchExecution(err error) bool {
	var execErr *SearchExecutionError
	return errors.As(err, &execErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
