// SPDX-License-Identifier: MPL-2.0

// Package resolve turns a project/environment identity into the parameter
// values the CloudTruth service reports for it.
//
// Resolution is a single read against a ConfigService. Every parameter yields
// exactly one ResolvedParameter: either a value or a per-parameter error. A
// per-parameter error is soft and is collected into the ResolutionResult, while
// a failure of the service call itself is hard and aborts resolution with a
// ResolutionError.
//
// Name-to-id lookups are not performed here; callers pass ids obtained from an
// IdentityResolver.
package resolve
