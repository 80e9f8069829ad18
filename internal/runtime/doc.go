// SPDX-License-Identifier: MPL-2.0

// Package runtime launches the child process of a run.
//
// A Launcher resolves the program against the PATH of the composed
// environment, starts it with the parent's stdio attached and the composed
// environment as its only environment, then blocks until it exits. The
// outcome is reported as an ExitOutcome; spawn failures are *LaunchError
// values and are never retried.
//
// A launch moves through the states
//
//	NotStarted -> Spawning -> Running -> Exited
//	NotStarted -> Spawning -> LaunchFailed
//
// and an optional observer receives each transition.
package runtime
