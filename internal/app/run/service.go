// SPDX-License-Identifier: MPL-2.0

package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envcompose"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envfmt"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/runtime"
)

type (
	// ParameterResolver fetches the parameters of one project/environment.
	ParameterResolver interface {
		Resolve(ctx context.Context, req resolve.Request) (resolve.ResolutionResult, error)
	}

	// Launcher starts the child process.
	Launcher interface {
		Run(ctx context.Context, c runtime.Command) runtime.ExitOutcome
	}

	// FailureReporter is told about per-parameter failures once, before launch.
	// It is not called when every parameter resolved.
	FailureReporter interface {
		ReportFailures(project, environment string, failures []resolve.Failure)
	}

	// Dependencies are the collaborators of a Service. Identities, Parameters
	// and Launcher are required.
	Dependencies struct {
		Identities resolve.IdentityResolver
		Parameters ParameterResolver
		Launcher   Launcher
		Reporter   FailureReporter
		// Environ snapshots the ambient environment. Defaults to os.Environ.
		Environ func() []string
		// Stdout receives dry-run output. Defaults to os.Stdout.
		Stdout io.Writer
		Logger *log.Logger
	}

	// Service runs commands with CloudTruth parameters injected.
	Service struct {
		deps Dependencies
	}

	// Outcome describes a finished run.
	Outcome struct {
		// ExitCode is the child's exit code, or the launch failure code.
		ExitCode runtime.ExitCode
		// Launch is the launcher's report. Zero for a dry run.
		Launch runtime.ExitOutcome
		// Environment is the composed child environment.
		Environment envcompose.ComposedEnvironment
		// Failures are the parameters that did not resolve.
		Failures []resolve.Failure
		DryRun   bool
	}
)

// NewService validates deps and fills in defaults.
func NewService(deps Dependencies) (*Service, error) {
	switch {
	case deps.Identities == nil:
		return nil, errors.New("run service: identity resolver is required")
	case deps.Parameters == nil:
		return nil, errors.New("run service: parameter resolver is required")
	case deps.Launcher == nil:
		return nil, errors.New("run service: launcher is required")
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	return &Service{deps: deps}, nil
}

// Run executes one request. A non-nil error means the child was never
// started; the error is a *RequestError, a *LookupError, a
// *resolve.ResolutionError, a *RequiredParametersError, a
// *envcompose.CompositionError or a *runtime.LaunchError. When the child ran,
// the error is nil and Outcome.ExitCode carries its exit code.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	p, err := req.plan()
	if err != nil {
		return Outcome{}, err
	}
	logger := s.deps.Logger.With("project", p.project, "environment", p.environment)

	projectID, err := s.deps.Identities.ProjectID(ctx, p.project)
	if err != nil {
		return Outcome{}, &LookupError{Resource: "project", Name: p.project, Err: err}
	}
	environmentID, err := s.deps.Identities.EnvironmentID(ctx, p.environment)
	if err != nil {
		return Outcome{}, &LookupError{Resource: "environment", Name: p.environment, Err: err}
	}
	logger.Debug("resolved identities", "project_id", projectID, "environment_id", environmentID)

	result, err := s.deps.Parameters.Resolve(ctx, resolve.Request{
		ProjectID:     projectID,
		EnvironmentID: environmentID,
		AsOf:          p.asOf,
		Tag:           p.tag,
	})
	if err != nil {
		return Outcome{}, err
	}
	for _, param := range result.Parameters() {
		logger.Debug("parameter", "name", param.Name, "resolved", !param.Failed())
	}

	failures := result.Failures()
	if len(failures) > 0 && s.deps.Reporter != nil {
		s.deps.Reporter.ReportFailures(p.project, p.environment, failures)
	}
	if p.require && len(result.Succeeded()) == 0 {
		return Outcome{Failures: failures}, &RequiredParametersError{
			Project:     p.project,
			Environment: p.environment,
			Failures:    failures,
		}
	}

	env, err := envcompose.Compose(envcompose.Input{
		Resolution:        result,
		Ambient:           envcompose.AmbientFromEnviron(s.deps.Environ()),
		Mode:              p.mode,
		Filter:            p.filter,
		Overrides:         p.overrides,
		Removals:          p.removals,
		KeepFrameworkVars: p.permissive,
	})
	if err != nil {
		return Outcome{Failures: failures}, err
	}
	logger.Debug("composed environment", "mode", p.mode, "vars", env.Len(), "failed", len(failures))

	out := Outcome{Environment: env, Failures: failures}

	if p.dryRun {
		out.DryRun = true
		if err := envfmt.Write(s.deps.Stdout, p.format, env.Map()); err != nil {
			return out, fmt.Errorf("write dry run output: %w", err)
		}
		return out, nil
	}

	argv, err := commandLine(p, env)
	if err != nil {
		return out, err
	}

	out.Launch = s.deps.Launcher.Run(ctx, runtime.Command{
		Program: argv[0],
		Args:    argv[1:],
		Env:     env,
		Dir:     p.dir,
	})
	if !out.Launch.State.Terminal() {
		return out, fmt.Errorf("launcher returned in state %s", out.Launch.State)
	}
	out.ExitCode = out.Launch.ExitCode
	if out.Launch.State == runtime.StateLaunchFailed {
		return out, out.Launch.Err
	}
	logger.Debug("command exited", "code", out.ExitCode, "signaled", out.ExitCode.IsSignal())
	return out, nil
}

// commandLine returns the argv to launch. A --command string is split with
// shell-word rules, expanding $VARS against the composed environment.
func commandLine(p plan, env envcompose.ComposedEnvironment) ([]string, error) {
	if p.command == "" {
		return p.args, nil
	}
	fields, err := shell.Fields(p.command, func(name string) string {
		v, _ := env.Get(name)
		return v
	})
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("%w %q: %w", ErrInvalidCommand, p.command, err)}
	}
	if len(fields) == 0 {
		return nil, &RequestError{Err: ErrNoCommand}
	}
	return fields, nil
}
