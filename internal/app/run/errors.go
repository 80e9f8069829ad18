// SPDX-License-Identifier: MPL-2.0

package run

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
)

var (
	// ErrInvalidRequest is the sentinel wrapped by RequestError.
	ErrInvalidRequest = errors.New("invalid run request")
	// ErrNoCommand means neither --command nor trailing arguments were given.
	ErrNoCommand = errors.New("no command to run")
	// ErrCommandConflict means both --command and trailing arguments were given.
	ErrCommandConflict = errors.New("--command cannot be combined with trailing arguments")
	// ErrMissingProject means no project was configured.
	ErrMissingProject = errors.New("no project selected")
	// ErrInvalidAsOf is returned for an unparsable --as-of value.
	ErrInvalidAsOf = errors.New("invalid --as-of value")
	// ErrInvalidCommand means the --command string could not be split into words.
	ErrInvalidCommand = errors.New("invalid command string")
	// ErrLookup is the sentinel wrapped by LookupError.
	ErrLookup = errors.New("identity lookup failed")
	// ErrRequiredParametersMissing is the sentinel wrapped by RequiredParametersError.
	ErrRequiredParametersMissing = errors.New("no parameters resolved")
)

type (
	// RequestError reports a request rejected before any network call.
	RequestError struct {
		Err error
	}

	// LookupError reports a project or environment name that could not be
	// turned into an id.
	LookupError struct {
		Resource string
		Name     string
		Err      error
	}

	// RequiredParametersError is returned when parameters were required but
	// none resolved.
	RequiredParametersError struct {
		Project     string
		Environment string
		Failures    []resolve.Failure
	}
)

func (e *RequestError) Error() string { return e.Err.Error() }

// Unwrap exposes ErrInvalidRequest and the specific cause.
func (e *RequestError) Unwrap() []error { return []error{ErrInvalidRequest, e.Err} }

func (e *LookupError) Error() string { return e.Err.Error() }

// Unwrap exposes ErrLookup and the resolver's error.
func (e *LookupError) Unwrap() []error { return []error{ErrLookup, e.Err} }

func (e *RequiredParametersError) Error() string {
	msg := fmt.Sprintf("no parameters resolved for project %q in environment %q", e.Project, e.Environment)
	if len(e.Failures) > 0 {
		names := make([]string, len(e.Failures))
		for i, f := range e.Failures {
			names[i] = f.Name
		}
		msg += fmt.Sprintf(" (%d failed: %s)", len(e.Failures), strings.Join(names, ", "))
	}
	return msg
}

func (e *RequiredParametersError) Unwrap() error { return ErrRequiredParametersMissing }
