// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/app/run"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/cloudtruth"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/config"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envcompose"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/issue"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/runtime"
)

// guideStyle lets glamour pick dark, light or plain output for the terminal.
const guideStyle = "auto"

// classifyRunError maps a failure of `run` to its exit code and the issue
// catalog entry that explains it.
func classifyRunError(err error) (runtime.ExitCode, issue.Id) {
	var lookup *run.LookupError
	switch {
	case errors.Is(err, config.ErrMissingAPIKey):
		return ExitUsage, issue.MissingAPIKeyId
	case errors.Is(err, envcompose.ErrInvalidVarName),
		errors.Is(err, envcompose.ErrInvalidOverride),
		errors.Is(err, envcompose.ErrInvalidInheritanceMode):
		return ExitUsage, issue.InvalidDirectiveId
	case errors.Is(err, resolve.ErrAmbiguousSelector):
		return ExitUsage, issue.ResolutionFailedId
	case errors.Is(err, run.ErrInvalidRequest):
		return ExitUsage, 0
	case cloudtruth.IsAuthError(err):
		return ExitResolution, issue.AuthenticationFailedId
	case errors.As(err, &lookup):
		if !errors.Is(err, cloudtruth.ErrNotFound) {
			return ExitResolution, issue.ResolutionFailedId
		}
		if lookup.Resource == "environment" {
			return ExitResolution, issue.EnvironmentNotFoundId
		}
		return ExitResolution, issue.ProjectNotFoundId
	case errors.Is(err, resolve.ErrService), errors.Is(err, resolve.ErrInvalidRequest):
		return ExitResolution, issue.ResolutionFailedId
	case errors.Is(err, run.ErrRequiredParametersMissing):
		return ExitRequiredMissing, issue.RequiredParametersMissingId
	case errors.Is(err, envcompose.ErrStrictConflict):
		return ExitStrictConflict, issue.StrictConflictId
	case errors.Is(err, runtime.ErrCommandNotFound):
		return ExitCommandNotFound, issue.CommandNotFoundId
	case errors.Is(err, runtime.ErrPermissionDenied):
		return ExitCommandNotRunning, issue.PermissionDeniedId
	case errors.Is(err, runtime.ErrLaunch):
		return ExitCommandNotRunning, 0
	default:
		return ExitUsage, 0
	}
}

// runFailure wraps err with operation context and the exit code it maps to.
func runFailure(err error) *ExitError {
	code, id := classifyRunError(err)

	ctx := issue.NewErrorContext().WithIssue(id).Wrap(err)
	var (
		lookup *run.LookupError
		launch *runtime.LaunchError
		strict *envcompose.CompositionError
	)
	switch {
	case errors.Is(err, config.ErrMissingAPIKey):
		ctx.WithOperation("authenticate").
			WithSuggestions("Set "+config.EnvAPIKey, "Add api_key to your profile", "Pass --api-key")
	case errors.Is(err, run.ErrInvalidRequest):
		ctx.WithOperation("parse run options")
		switch {
		case errors.Is(err, run.ErrNoCommand):
			ctx.WithSuggestion("Pass the command after '--', e.g. cloudtruth run -- env")
		case errors.Is(err, run.ErrMissingProject):
			ctx.WithSuggestion("Select a project with --project, " + config.EnvProject + " or the project field of your profile")
		}
	case errors.As(err, &lookup):
		ctx.WithOperation("look up " + lookup.Resource).WithResource(lookup.Name)
	case errors.Is(err, run.ErrRequiredParametersMissing), errors.Is(err, resolve.ErrService):
		ctx.WithOperation("resolve parameters")
	case errors.As(err, &strict) && strict.Kind == envcompose.KindStrictConflict:
		ctx.WithOperation("compose environment").
			WithSuggestion(fmt.Sprintf("Settle the value with --set %s=...", strict.Key)).
			WithSuggestion("Use --inherit overlay to let parameters win")
	case errors.As(err, &launch):
		ctx.WithOperation("launch command").WithResource(launch.Program)
	default:
		ctx.WithOperation("run command")
	}
	return &ExitError{Code: code, Err: ctx.BuildError()}
}

// configFailure reports a configuration problem with the usage exit code.
func configFailure(err error) *ExitError {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		err = issue.NewErrorContext().
			WithOperation("load configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	return &ExitError{Code: ExitUsage, Err: err}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own layout; verbose mode adds the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// handleError is the fang error handler. An ExitError without a cause stays
// silent: its message was already shown or the child printed its own.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.flags.verbose))

	if !a.flags.verbose {
		return
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Guide() == nil {
		return
	}
	rendered, renderErr := ae.Guide().Render(guideStyle)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}
