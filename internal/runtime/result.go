// SPDX-License-Identifier: MPL-2.0

package runtime

import "fmt"

// Launch states.
const (
	StateNotStarted State = iota
	StateSpawning
	StateRunning
	StateExited
	StateLaunchFailed
)

type (
	// State is a step of the launch lifecycle.
	State int

	// ExitOutcome describes how a launch ended.
	//
	// For StateExited, ExitCode is the child's status and Err is nil.
	// For StateLaunchFailed, Err is a *LaunchError and ExitCode is the
	// code the CLI should report for it.
	ExitOutcome struct {
		State    State
		ExitCode ExitCode
		Err      error
	}
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateLaunchFailed:
		return "launch-failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition can follow.
func (s State) Terminal() bool {
	return s == StateExited || s == StateLaunchFailed
}

// NewExitedOutcome reports a child that ran and exited with code.
func NewExitedOutcome(code ExitCode) ExitOutcome {
	return ExitOutcome{State: StateExited, ExitCode: code}
}

// NewLaunchFailedOutcome reports a child that never started.
func NewLaunchFailedOutcome(err *LaunchError) ExitOutcome {
	return ExitOutcome{State: StateLaunchFailed, ExitCode: err.Kind.ExitCode(), Err: err}
}

// Success reports whether the child ran and exited with status zero.
func (o ExitOutcome) Success() bool {
	return o.State == StateExited && o.ExitCode.IsSuccess()
}
