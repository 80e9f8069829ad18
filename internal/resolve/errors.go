// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
)

// Resolution error kinds.
const (
	// KindInvalidRequest means the request was rejected before contacting the service.
	KindInvalidRequest ResolutionErrorKind = iota + 1
	// KindAmbiguousSelector means both an as-of time and a tag were supplied.
	KindAmbiguousSelector
	// KindService means the service call itself failed (auth, network, server error).
	KindService
)

var (
	// ErrInvalidRequest is the sentinel for KindInvalidRequest.
	ErrInvalidRequest = errors.New("invalid resolution request")
	// ErrAmbiguousSelector is the sentinel for KindAmbiguousSelector.
	ErrAmbiguousSelector = errors.New("as-of and tag are mutually exclusive")
	// ErrService is the sentinel for KindService.
	ErrService = errors.New("parameter service request failed")
)

type (
	// ResolutionErrorKind classifies a hard resolution failure.
	ResolutionErrorKind int

	// ResolutionError is a hard failure that aborts resolution entirely.
	// Per-parameter failures are never reported through this type.
	ResolutionError struct {
		Kind          ResolutionErrorKind
		ProjectID     string
		EnvironmentID string
		Reason        string
		Err           error
	}
)

// String returns a short name for the kind.
func (k ResolutionErrorKind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid-request"
	case KindAmbiguousSelector:
		return "ambiguous-selector"
	case KindService:
		return "service"
	default:
		return fmt.Sprintf("ResolutionErrorKind(%d)", int(k))
	}
}

func (k ResolutionErrorKind) sentinel() error {
	switch k {
	case KindInvalidRequest:
		return ErrInvalidRequest
	case KindAmbiguousSelector:
		return ErrAmbiguousSelector
	default:
		return ErrService
	}
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	switch e.Kind {
	case KindAmbiguousSelector:
		return "cannot resolve parameters: --as-of and --tag cannot be used together"
	case KindInvalidRequest:
		return "cannot resolve parameters: " + e.Reason
	default:
		msg := fmt.Sprintf("failed to list parameters for project %s, environment %s", e.ProjectID, e.EnvironmentID)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
