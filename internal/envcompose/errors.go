// SPDX-License-Identifier: MPL-2.0

package envcompose

import (
	"errors"
	"fmt"
	"strings"
)

// Composition error kinds.
const (
	// KindStrictConflict means an ambient variable collides with a resolved
	// parameter under strict inheritance and no override settles it.
	KindStrictConflict CompositionErrorKind = iota + 1
	// KindInvalidInput means the composition input itself is malformed.
	KindInvalidInput
)

var (
	// ErrStrictConflict is the sentinel for KindStrictConflict.
	ErrStrictConflict = errors.New("strict inheritance conflict")
	// ErrInvalidInput is the sentinel for KindInvalidInput.
	ErrInvalidInput = errors.New("invalid composition input")
)

type (
	// CompositionErrorKind classifies a composition failure.
	CompositionErrorKind int

	// CompositionError aborts composition before any process is launched.
	CompositionError struct {
		Kind CompositionErrorKind
		// Key is the first conflicting variable in sorted order.
		Key string
		// Keys lists every conflicting variable in sorted order.
		Keys []string
		Err  error
	}
)

// String returns a short name for the kind.
func (k CompositionErrorKind) String() string {
	switch k {
	case KindStrictConflict:
		return "strict-conflict"
	case KindInvalidInput:
		return "invalid-input"
	default:
		return fmt.Sprintf("CompositionErrorKind(%d)", int(k))
	}
}

// Error implements the error interface.
func (e *CompositionError) Error() string {
	switch e.Kind {
	case KindStrictConflict:
		if len(e.Keys) > 1 {
			return fmt.Sprintf("strict inheritance conflict: variables %s are set in the environment and by parameters",
				strings.Join(e.Keys, ", "))
		}
		return fmt.Sprintf("strict inheritance conflict: variable %s is set in the environment and by a parameter", e.Key)
	default:
		if e.Err != nil {
			return "invalid composition input: " + e.Err.Error()
		}
		return "invalid composition input"
	}
}

// Unwrap exposes the kind sentinel and any underlying cause.
func (e *CompositionError) Unwrap() []error {
	sentinel := ErrInvalidInput
	if e.Kind == KindStrictConflict {
		sentinel = ErrStrictConflict
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}
