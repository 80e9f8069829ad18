// SPDX-License-Identifier: MPL-2.0

// Package envfmt renders flat name/value maps (a composed environment or the
// effective CLI settings) as dotenv, JSON, YAML or TOML documents.
package envfmt
