// SPDX-License-Identifier: MPL-2.0

// Package config loads CLI settings from the profile file, the environment
// and command-line flags.
//
// The profile file is cli.yml in the platform config directory
// ($XDG_CONFIG_HOME/cloudtruth on Linux, ~/Library/Application Support/cloudtruth
// on macOS, %APPDATA%\cloudtruth on Windows). It is validated against an
// embedded CUE schema (config_schema.cue) before being merged into Viper.
//
// Precedence, lowest first: built-in defaults, the selected profile (after
// source_profile inheritance), CLOUDTRUTH_* environment variables, flags.
package config
