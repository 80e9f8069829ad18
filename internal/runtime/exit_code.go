// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit codes reported by the CLI itself when the child could not be started.
const (
	// ExitCommandNotFound follows the shell convention for an unknown command.
	ExitCommandNotFound ExitCode = 127
	// ExitCommandNotExecutable covers permission errors and other spawn failures.
	ExitCommandNotExecutable ExitCode = 126
	// exitSignalBase is added to the signal number of a killed child.
	exitSignalBase ExitCode = 128
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status. The zero value means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an *InvalidExitCodeError when the code is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code means successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// IsSignal reports whether the code encodes death by signal (128+n).
func (c ExitCode) IsSignal() bool { return c > exitSignalBase && c <= 255 }

// String returns the decimal representation.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
