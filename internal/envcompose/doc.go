// SPDX-License-Identifier: MPL-2.0

// Package envcompose builds the environment handed to a child process.
//
// Compose merges resolved parameters with a snapshot of the ambient process
// environment under an InheritanceMode, then applies user overrides and
// removals and strips the tool's own CLOUDTRUTH_* variables. Precedence,
// lowest to highest:
//
//  1. Ambient environment (skipped in "none" mode, filtered by allow/deny lists)
//  2. Resolved parameters (overwrite in "overlay"/"none", fill gaps in "underlay",
//     conflict is fatal in "strict" unless overridden)
//  3. --set overrides, in the order given
//  4. --remove removals, in the order given
//  5. Framework-variable stripping (unless permissive)
//
// Compose is a pure function of its Input: it never reads or writes the real
// process environment.
package envcompose
