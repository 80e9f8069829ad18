// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/runtime"
)

// Exit codes for failures that happen before the child process runs. A child
// that ran passes its own code through unchanged.
const (
	ExitUsage             runtime.ExitCode = 1
	ExitResolution        runtime.ExitCode = 2
	ExitRequiredMissing   runtime.ExitCode = 3
	ExitStrictConflict    runtime.ExitCode = 4
	ExitCommandNotFound                    = runtime.ExitCommandNotFound
	ExitCommandNotRunning                  = runtime.ExitCommandNotExecutable
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers. A nil Err means the message was already reported (or there is
// nothing to report, as when a child process exits non-zero).
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
