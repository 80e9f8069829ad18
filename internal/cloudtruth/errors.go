// SPDX-License-Identifier: MPL-2.0

package cloudtruth

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAPI is wrapped by every *APIError.
	ErrAPI = errors.New("cloudtruth api error")
	// ErrUnauthorized is wrapped by *APIError for 401 and 403 responses.
	ErrUnauthorized = errors.New("api key rejected")
	// ErrNotFound is wrapped by *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrTooManyPages is returned when a listing does not terminate.
	ErrTooManyPages = errors.New("too many result pages")
)

type (
	// APIError reports a non-2xx response.
	APIError struct {
		Status    int
		Detail    string
		RequestID string
	}

	// NotFoundError reports a project or environment name with no match.
	NotFoundError struct {
		// Resource is "project" or "environment".
		Resource string
		Name     string
	}
)

// Error implements the error interface.
func (e *APIError) Error() string {
	text := http.StatusText(e.Status)
	if text == "" {
		text = "unexpected status"
	}
	if e.Detail != "" {
		return fmt.Sprintf("cloudtruth api: %d %s: %s", e.Status, text, e.Detail)
	}
	return fmt.Sprintf("cloudtruth api: %d %s", e.Status, text)
}

// Unwrap exposes ErrAPI, plus ErrUnauthorized for authentication failures.
func (e *APIError) Unwrap() []error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return []error{ErrAPI, ErrUnauthorized}
	}
	return []error{ErrAPI}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }
