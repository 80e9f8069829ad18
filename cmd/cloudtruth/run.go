// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/app/run"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envcompose"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envfmt"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/runtime"
)

// runFlags are the flags of `cloudtruth run`.
type runFlags struct {
	command      string
	cwd          string
	inherit      string
	inheritAllow []string
	inheritDeny  []string
	set          []string
	remove       []string
	permissive   bool
	asOf         string
	tag          string
	requireParms bool
	dryRun       bool
	format       string
}

func newRunCommand(app *App) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [flags] [--] <program> [args...]",
		Short: "Run a command with parameters set in its environment",
		Long: `Run a command with the parameters of a project and environment set as
environment variables.

Parameters that fail to resolve are reported as warnings before the command
starts and are left unset. The command's exit code is passed through.

Inheritance modes (--inherit):
  overlay   parameters replace inherited variables (default)
  underlay  inherited variables win over parameters
  strict    a parameter that collides with an inherited variable is an error
  none      only parameters and --set values are passed`,
		Example: `  cloudtruth run --project web --env production -- ./server --port 8080
  cloudtruth run -c 'echo "$DB_HOST"'
  cloudtruth run --inherit none --set PATH=/usr/bin -- env
  cloudtruth run --dry-run --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, app, &f, args)
		},
	}

	// Everything after the program name belongs to the program.
	cmd.Flags().SetInterspersed(false)

	fl := cmd.Flags()
	fl.StringVarP(&f.command, "command", "c", "", "command line to run, split with shell quoting rules")
	fl.StringVar(&f.cwd, "cwd", "", "working directory of the command (default current directory)")
	fl.StringVarP(&f.inherit, "inherit", "i", "",
		"environment inheritance: "+joinNames(envcompose.InheritanceModes())+" (default "+string(envcompose.DefaultInheritanceMode)+")")
	fl.StringArrayVar(&f.inheritAllow, "inherit-allow", nil, "only inherit this variable (repeatable)")
	fl.StringArrayVar(&f.inheritDeny, "inherit-deny", nil, "never inherit this variable (repeatable)")
	fl.StringArrayVarP(&f.set, "set", "s", nil, "set KEY=VALUE after parameters are merged (repeatable)")
	fl.StringArrayVarP(&f.remove, "remove", "r", nil, "remove KEY from the environment (repeatable)")
	fl.BoolVarP(&f.permissive, "permissive", "p", false, "keep CLOUDTRUTH_* variables in the command's environment")
	fl.StringVar(&f.asOf, "as-of", "", "use values as of a date (YYYY-MM-DD) or RFC 3339 time")
	fl.StringVar(&f.tag, "tag", "", "use values as of a tag")
	fl.BoolVar(&f.requireParms, "require-params", false, "fail when no parameter resolves")
	fl.BoolVar(&f.dryRun, "dry-run", false, "print the composed environment instead of running")
	fl.StringVar(&f.format, "format", string(envfmt.DefaultFormat), "dry-run output format: "+joinNames(envfmt.Formats()))

	cmd.MarkFlagsMutuallyExclusive("as-of", "tag")
	_ = cmd.RegisterFlagCompletionFunc("inherit", cobra.FixedCompletions(completionNames(envcompose.InheritanceModes()), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(completionNames(envfmt.Formats()), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagDirname("cwd")

	return cmd
}

func runRun(cmd *cobra.Command, app *App, f *runFlags, args []string) error {
	ctx := cmd.Context()
	logger := app.logger()

	settings, err := app.Config.Load(ctx, app.loadOptions())
	if err != nil {
		return configFailure(err)
	}
	if err := settings.RequireAPIKey(); err != nil {
		return runFailure(err)
	}

	svc, err := app.newRunService(settings, logger)
	if err != nil {
		return err
	}

	out, err := svc.Run(ctx, run.Request{
		Project:           settings.Project,
		Environment:       settings.Environment,
		Command:           f.command,
		Args:              args,
		Dir:               f.cwd,
		Inherit:           f.inherit,
		InheritAllow:      f.inheritAllow,
		InheritDeny:       f.inheritDeny,
		Set:               f.set,
		Remove:            f.remove,
		Permissive:        f.permissive,
		AsOf:              f.asOf,
		Tag:               f.tag,
		RequireParameters: f.requireParms,
		DryRun:            f.dryRun,
		Format:            f.format,
	})
	if err != nil {
		return runFailure(err)
	}
	return childExit(out.ExitCode, logger)
}

// childExit passes the child's status through silently. Statuses the
// process cannot report (Windows NTSTATUS values, say) become ExitUsage.
func childExit(code runtime.ExitCode, logger *log.Logger) error {
	if err := code.Validate(); err != nil {
		logger.Warn("child exit status cannot be passed through", "err", err)
		return &ExitError{Code: ExitUsage}
	}
	if code.IsSuccess() {
		return nil
	}
	return &ExitError{Code: code}
}

func joinNames[T ~string](names []T) string {
	return strings.Join(completionNames(names), ", ")
}

func completionNames[T ~string](names []T) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
