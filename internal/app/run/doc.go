// SPDX-License-Identifier: MPL-2.0

// Package run orchestrates one `cloudtruth run` invocation: it resolves
// project and environment names, fetches parameter values, reports
// per-parameter failures, composes the child environment and launches the
// command (or renders the environment for a dry run).
package run
