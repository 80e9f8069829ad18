// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific profile file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
	// Profile selects the profile, taking precedence over CLOUDTRUTH_PROFILE.
	Profile string
	// Overrides are flag values applied over every other layer.
	Overrides Overrides
}

// Provider loads settings from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Settings, error)
	// Path returns the profile file Load would read and whether it exists.
	Path(opts LoadOptions) (string, bool, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads settings from the requested sources.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	return loadWithOptions(ctx, opts)
}

// Path resolves the profile file location without reading it.
func (p *fileProvider) Path(opts LoadOptions) (string, bool, error) {
	path, _, err := configPath(opts)
	if err != nil {
		return "", false, err
	}
	return path, fileExists(path), nil
}
