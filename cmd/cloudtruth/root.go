// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands of cloudtruth.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/runtime"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cloudtruth",
		Short: "Run commands with CloudTruth parameters",
		Long: TitleStyle.Render("cloudtruth") + SubtitleStyle.Render(" - configuration and secrets for your processes") + `

Fetches the parameters of a CloudTruth project and environment and hands
them to a command as environment variables.

` + SubtitleStyle.Render("Examples:") + `
  cloudtruth run --project web -- ./server     Run with parameters injected
  cloudtruth run --dry-run --format yaml        Preview the environment
  cloudtruth config show                        Show the effective settings`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&app.flags.configFile, "config", "", "profile file (default is <config dir>/cloudtruth/cli.yml)")
	pf.StringVar(&app.flags.profile, "profile", "", "profile to use (default \"default\")")
	pf.StringVar(&app.flags.project, "project", "", "project name")
	pf.StringVar(&app.flags.environment, "env", "", "environment name (default \"default\")")
	pf.StringVar(&app.flags.apiKey, "api-key", "", "CloudTruth API key")
	pf.StringVar(&app.flags.serverURL, "server-url", "", "CloudTruth API server URL")

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with os.Args and exits the process with the resulting
// code. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(ExitUsage))
	}
	os.Exit(int(execute(context.Background(), app, os.Args[1:])))
}

// execute runs the command tree and maps the outcome to an exit code.
func execute(ctx context.Context, app *App, args []string) runtime.ExitCode {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
