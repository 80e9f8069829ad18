// SPDX-License-Identifier: MPL-2.0

package config

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "CLOUDTRUTH"

// Environment variables consulted by Load.
const (
	EnvAPIKey         = EnvPrefix + "_API_KEY"
	EnvServerURL      = EnvPrefix + "_SERVER_URL"
	EnvProject        = EnvPrefix + "_PROJECT"
	EnvEnvironment    = EnvPrefix + "_ENVIRONMENT"
	EnvProfile        = EnvPrefix + "_PROFILE"
	EnvRequestTimeout = EnvPrefix + "_REQUEST_TIMEOUT"
	EnvConfigFile     = EnvPrefix + "_CONFIG_FILE"
)

// settingKeys are the Viper keys that map onto Settings and may be bound to
// the environment.
var settingKeys = []string{"profile", "api_key", "server_url", "project", "environment", "request_timeout"}
