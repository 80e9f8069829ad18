// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// DefaultProfile is used when neither --profile nor CLOUDTRUTH_PROFILE is set.
	DefaultProfile ProfileName = "default"

	// DefaultRequestTimeout is the API request timeout in seconds.
	DefaultRequestTimeout = 60
)

var (
	// ErrInvalidProfileName is the sentinel error wrapped by InvalidProfileNameError.
	ErrInvalidProfileName = errors.New("invalid profile name")
	// ErrInvalidServerURL is the sentinel error wrapped by InvalidServerURLError.
	ErrInvalidServerURL = errors.New("invalid server url")
	// ErrInvalidRequestTimeout is returned for a negative request timeout.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout")
	// ErrMissingAPIKey is returned by RequireAPIKey when no key is configured.
	ErrMissingAPIKey = errors.New("no api key configured")
	// ErrInvalidSettings is the sentinel error wrapped by InvalidSettingsError.
	ErrInvalidSettings = errors.New("invalid settings")

	profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

type (
	// ProfileName names an entry under "profiles" in cli.yml.
	ProfileName string

	// InvalidProfileNameError is returned when a ProfileName is empty or
	// contains characters outside [A-Za-z0-9_.-].
	InvalidProfileNameError struct {
		Value ProfileName
	}

	// ServerURL is the base URL of the CloudTruth API.
	ServerURL string

	// InvalidServerURLError is returned when a ServerURL is not an absolute
	// http or https URL.
	InvalidServerURLError struct {
		Value  ServerURL
		Reason string
	}

	// InvalidSettingsError collects every field error of a Settings value.
	InvalidSettingsError struct {
		FieldErrors []error
	}

	// ProfileConfig is one profile as written in cli.yml.
	ProfileConfig struct {
		APIKey         string      `json:"api_key,omitempty"`
		Description    string      `json:"description,omitempty"`
		Project        string      `json:"project,omitempty"`
		Environment    string      `json:"environment,omitempty"`
		ServerURL      ServerURL   `json:"server_url,omitempty"`
		SourceProfile  ProfileName `json:"source_profile,omitempty"`
		RequestTimeout int         `json:"request_timeout,omitempty"`
	}

	// Config is the decoded profile file. Profile names are case sensitive,
	// so the file is decoded straight from CUE rather than through Viper.
	Config struct {
		Profiles map[string]ProfileConfig `json:"profiles,omitempty"`
	}

	// Settings is the effective configuration after all layers are applied.
	Settings struct {
		Profile        ProfileName `mapstructure:"profile"`
		APIKey         string      `mapstructure:"api_key"`
		ServerURL      ServerURL   `mapstructure:"server_url"`
		Project        string      `mapstructure:"project"`
		Environment    string      `mapstructure:"environment"`
		RequestTimeout int         `mapstructure:"request_timeout"`

		// ConfigFile is the profile file that was read, or "" when none was.
		ConfigFile string `mapstructure:"-"`
	}

	// Overrides carries flag values. Empty fields leave lower layers intact.
	Overrides struct {
		APIKey      string
		ServerURL   string
		Project     string
		Environment string
	}
)

// Error implements the error interface.
func (e *InvalidProfileNameError) Error() string {
	return fmt.Sprintf("invalid profile name %q (allowed: letters, digits, '_', '.', '-')", e.Value)
}

// Unwrap returns ErrInvalidProfileName for errors.Is() compatibility.
func (e *InvalidProfileNameError) Unwrap() error { return ErrInvalidProfileName }

// Validate returns an error if the name is not usable as a profile key.
func (n ProfileName) Validate() error {
	if !profileNamePattern.MatchString(string(n)) {
		return &InvalidProfileNameError{Value: n}
	}
	return nil
}

// String returns the string representation of the ProfileName.
func (n ProfileName) String() string { return string(n) }

// Error implements the error interface.
func (e *InvalidServerURLError) Error() string {
	return fmt.Sprintf("invalid server url %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidServerURL for errors.Is() compatibility.
func (e *InvalidServerURLError) Unwrap() error { return ErrInvalidServerURL }

// Validate returns an error if the URL is not an absolute http(s) URL.
func (u ServerURL) Validate() error {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return &InvalidServerURLError{Value: u, Reason: err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &InvalidServerURLError{Value: u, Reason: "scheme must be http or https"}
	}
	if parsed.Host == "" {
		return &InvalidServerURLError{Value: u, Reason: "missing host"}
	}
	return nil
}

// String returns the URL without a trailing slash.
func (u ServerURL) String() string { return strings.TrimRight(string(u), "/") }

// Error implements the error interface.
func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("invalid settings: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidSettings plus every field error.
func (e *InvalidSettingsError) Unwrap() []error {
	return append([]error{ErrInvalidSettings}, e.FieldErrors...)
}

// Validate checks every field and reports all failures at once.
func (s *Settings) Validate() error {
	var errs []error
	if err := s.Profile.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.ServerURL.Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidRequestTimeout, s.RequestTimeout))
	}
	if len(errs) > 0 {
		return &InvalidSettingsError{FieldErrors: errs}
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no key is configured.
func (s *Settings) RequireAPIKey() error {
	if strings.TrimSpace(s.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Values returns the settings as flat key/value pairs for display. The API
// key is masked except for its last four characters.
func (s *Settings) Values() map[string]string {
	return map[string]string{
		"profile":         s.Profile.String(),
		"api_key":         maskSecret(s.APIKey),
		"server_url":      s.ServerURL.String(),
		"project":         s.Project,
		"environment":     s.Environment,
		"request_timeout": fmt.Sprintf("%d", s.RequestTimeout),
		"config_file":     s.ConfigFile,
	}
}

func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", 8) + v[len(v)-4:]
}
