// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to HTTP responses with a uniform error body

package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	coreerrors "marketplace-search-api/core/errors"
)

// APIError is the body of every failed request
type APIError struct {
	status  int
	Success bool     `json:"success"`
	Message string   `json:"error" doc:"Human readable error message"`
	Details []string `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError
func (e *APIError) GetStatus() int {
	return e.status
}

// NewError builds an APIError. It matches huma.NewError so framework errors
// such as request validation failures share the same body.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	e := &APIError{status: status, Message: msg}
	for _, err := range errs {
		if err != nil {
			e.Details = append(e.Details, err.Error())
		}
	}
	return e
}

// toHumaError converts domain errors to appropriate HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if coreerrors.IsNotFound(err) {
		return NewError(http.StatusNotFound, err.Error())
	}

	if coreerrors.IsValidation(err) {
		var v *coreerrors.ValidationError
		errors.As(err, &v)
		return NewError(http.StatusBadRequest, v.Message, err)
	}

	var execErr *coreerrors.SearchExecutionError
	if errors.As(err, &execErr) {
		return searchFailed(execErr)
	}

	var apiErr *coreerrors.ExternalAPIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 0 || apiErr.StatusCode >= 500:
			return NewError(http.StatusServiceUnavailable, "Upstream service unavailable")
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return NewError(http.StatusTooManyRequests, "Rate limited by upstream service")
		case apiErr.StatusCode >= 400:
			return NewError(http.StatusBadRequest, "Upstream service request error", err)
		default:
			return NewError(http.StatusInternalServerError, "Unexpected upstream service response")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(http.StatusGatewayTimeout, "Request timed out")
	}

	return NewError(http.StatusInternalServerError, "Internal server error")
}

// searchFailed reports the reason and the failed entity types. Store error
// text is logged by the services and stays out of the body.
func searchFailed(err *coreerrors.SearchExecutionError) huma.StatusError {
	msg := "Search failed"
	if err.Reason != "" {
		msg += ": " + err.Reason
	}
	e := &APIError{status: http.StatusInternalServerError, Message: msg}
	if len(err.Failures) > 0 {
		types := make([]string, 0, len(err.Failures))
		for t := range err.Failures {
			types = append(types, t)
		}
		sort.Strings(types)
		e.Details = []string{"failed entity types: " + strings.Join(types, ", ")}
	}
	return e
}
