// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

// Launch error kinds.
const (
	// KindNotFound means the program could not be located.
	KindNotFound LaunchErrorKind = iota + 1
	// KindPermissionDenied means the program exists but cannot be executed.
	KindPermissionDenied
	// KindSpawn covers every other failure to start the process.
	KindSpawn
)

var (
	// ErrLaunch is wrapped by every *LaunchError.
	ErrLaunch = errors.New("failed to launch command")
	// ErrCommandNotFound is wrapped by KindNotFound errors.
	ErrCommandNotFound = errors.New("command not found")
	// ErrPermissionDenied is wrapped by KindPermissionDenied errors.
	ErrPermissionDenied = errors.New("command not executable")
)

type (
	// LaunchErrorKind classifies a spawn failure.
	LaunchErrorKind int

	// LaunchError reports a child process that could not be started.
	LaunchError struct {
		Kind    LaunchErrorKind
		Program string
		Err     error
	}
)

// String returns a short name for the kind.
func (k LaunchErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindPermissionDenied:
		return "permission-denied"
	case KindSpawn:
		return "spawn"
	default:
		return fmt.Sprintf("LaunchErrorKind(%d)", int(k))
	}
}

// ExitCode maps the kind onto the shell's conventional status.
func (k LaunchErrorKind) ExitCode() ExitCode {
	if k == KindNotFound {
		return ExitCommandNotFound
	}
	return ExitCommandNotExecutable
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("command not found: %s", e.Program)
	case KindPermissionDenied:
		return fmt.Sprintf("permission denied: %s", e.Program)
	default:
		if e.Err != nil {
			return fmt.Sprintf("failed to launch %s: %v", e.Program, e.Err)
		}
		return fmt.Sprintf("failed to launch %s", e.Program)
	}
}

// Unwrap exposes ErrLaunch, the kind sentinel and the underlying cause.
func (e *LaunchError) Unwrap() []error {
	errs := []error{ErrLaunch}
	switch e.Kind {
	case KindNotFound:
		errs = append(errs, ErrCommandNotFound)
	case KindPermissionDenied:
		errs = append(errs, ErrPermissionDenied)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
