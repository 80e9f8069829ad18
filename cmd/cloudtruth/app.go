// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/app/run"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/cloudtruth"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/config"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/runtime"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and
	// delegates through it.
	App struct {
		Config config.Provider

		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
		environ    func() []string
		httpClient *http.Client

		flags rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Environ snapshots the environment handed to child processes.
		Environ func() []string
		// HTTPClient replaces the API client's transport. Its timeout is
		// still taken from the effective request_timeout setting.
		HTTPClient *http.Client
	}

	// rootFlags holds the persistent flags shared by every command.
	rootFlags struct {
		verbose     bool
		configFile  string
		profile     string
		project     string
		environment string
		apiKey      string
		serverURL   string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}

	return &App{
		Config:     deps.Config,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		environ:    deps.Environ,
		httpClient: deps.HTTPClient,
	}, nil
}

// loadOptions turns the persistent flags into config loading options.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: a.flags.configFile,
		Profile:        a.flags.profile,
		Overrides: config.Overrides{
			APIKey:      a.flags.apiKey,
			ServerURL:   a.flags.serverURL,
			Project:     a.flags.project,
			Environment: a.flags.environment,
		},
	}
}

// logger returns the diagnostic logger: warnings only, or everything with
// --verbose.
func (a *App) logger() *log.Logger {
	level := log.WarnLevel
	if a.flags.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "cloudtruth",
		Level:  level,
	})
}

// newRunService builds the API client, resolver and launcher for settings.
func (a *App) newRunService(settings *config.Settings, logger *log.Logger) (*run.Service, error) {
	httpClient := &http.Client{}
	if a.httpClient != nil {
		clone := *a.httpClient
		httpClient = &clone
	}
	httpClient.Timeout = time.Duration(settings.RequestTimeout) * time.Second

	client := cloudtruth.NewClient(
		cloudtruth.WithHTTPClient(httpClient),
		cloudtruth.WithBaseURL(settings.ServerURL.String()),
		cloudtruth.WithAPIKey(settings.APIKey),
		cloudtruth.WithUserAgent(fmt.Sprintf("cloudtruth-cli/%s", Version)),
		cloudtruth.WithLogger(logger.WithPrefix("api")),
	)

	return run.NewService(run.Dependencies{
		Identities: client,
		Parameters: resolve.NewParameterResolver(client, logger.WithPrefix("resolve")),
		Launcher: &runtime.Launcher{
			Stdin:  a.stdin,
			Stdout: a.stdout,
			Stderr: a.stderr,
			Logger: logger.WithPrefix("launch"),
		},
		Reporter: &failureReporter{w: a.stderr},
		Environ:  a.environ,
		Stdout:   a.stdout,
		Logger:   logger,
	})
}
