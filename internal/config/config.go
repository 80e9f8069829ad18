// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/spf13/viper"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/cloudtruth"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/issue"
)

const (
	// AppName is the config directory name.
	AppName = "cloudtruth"
	// ConfigFileName is the name of the profile file.
	ConfigFileName = "cli.yml"

	// maxConfigFileSize bounds the profile file (1 MB).
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the CLI configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on macOS
// and $XDG_CONFIG_HOME (defaulting to ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// configPath picks the profile file. The second result reports whether the
// path was requested explicitly, in which case it must exist.
func configPath(opts LoadOptions) (string, bool, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, true, nil
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p, true, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", false, err
		}
		dir = d
	}
	return filepath.Join(dir, ConfigFileName), false, nil
}

// loadWithOptions layers defaults, the selected profile, the environment and
// the overrides into Settings.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Settings, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	path, explicit, err := configPath(opts)
	if err != nil {
		return nil, err
	}

	var file Config
	loadedPath := ""
	switch {
	case fileExists(path):
		cfg, err := loadConfigFile(path)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file is valid YAML").
				WithSuggestion("Verify the profile fields match the expected schema").
				WithSuggestion("Run 'cloudtruth config path' to see which file is read").
				Wrap(err).
				BuildError()
		}
		file, loadedPath = *cfg, path
	case explicit:
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Unset " + EnvConfigFile + " to use the default location").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	v := viper.New()
	v.SetDefault("profile", string(DefaultProfile))
	v.SetDefault("server_url", cloudtruth.DefaultServerURL)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("api_key", "")
	v.SetDefault("project", "")
	v.SetDefault("environment", "")

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range settingKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	if opts.Profile != "" {
		v.Set("profile", opts.Profile)
	}

	name := ProfileName(v.GetString("profile"))
	if err := name.Validate(); err != nil {
		return nil, err
	}
	profile, err := file.ResolveProfile(name)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select profile").
			WithResource(loadedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("List the profiles defined under 'profiles:' in " + ConfigFileName).
			WithSuggestion("Check every source_profile entry for typos and loops").
			Wrap(err).
			BuildError()
	}
	if err := v.MergeConfigMap(profile.settingsMap()); err != nil {
		return nil, fmt.Errorf("failed to merge profile: %w", err)
	}

	applyOverrides(v, opts.Overrides)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	s.ConfigFile = loadedPath

	if err := s.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the server_url and request_timeout of the profile").
			WithSuggestion("Check " + EnvServerURL + " and --server-url").
			Wrap(err).
			BuildError()
	}
	return &s, nil
}

func applyOverrides(v *viper.Viper, o Overrides) {
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("api_key", o.APIKey)
	set("server_url", o.ServerURL)
	set("project", o.Project)
	set("environment", o.Environment)
}

// loadConfigFile parses a YAML profile file, validates it against the
// #Config schema and decodes it.
func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Config{}, nil
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return nil, formatCUEError(err, path)
	}
	userValue := ctx.BuildFile(file)
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, formatCUEError(err, path)
	}
	return &cfg, nil
}

// formatCUEError renders CUE errors as "<file>: <path>: <message>" lines.
func formatCUEError(err error, filePath string) error {
	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		if pathStr != "" {
			lines = append(lines, pathStr+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath joins a CUE error path, rendering numeric elements as indices.
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
