// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envcompose"
)

var errEmptyProgram = errors.New("no program given")

type (
	// Command is a fully prepared child process.
	Command struct {
		// Program is a name looked up on PATH, or a path containing a separator.
		Program string
		Args    []string
		// Env is the child's complete environment; nothing else is inherited.
		Env envcompose.ComposedEnvironment
		// Dir is the working directory. Empty means the parent's.
		Dir string
	}

	// Launcher starts child processes with the parent's stdio attached.
	Launcher struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		Logger *log.Logger
		// Observer, when set, receives every state transition in order.
		Observer func(State)
	}
)

// NewLauncher returns a Launcher wired to the process's own stdio.
func NewLauncher(logger *log.Logger) *Launcher {
	return &Launcher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Run starts the command and blocks until it exits. A context that is already
// done prevents the spawn; once the child is running it is left to finish on
// its own, since terminal signals reach it directly.
func (l *Launcher) Run(ctx context.Context, c Command) ExitOutcome {
	l.enter(StateSpawning, "program", c.Program, "args", len(c.Args), "vars", c.Env.Len())

	if err := ctx.Err(); err != nil {
		return l.fail(&LaunchError{Kind: KindSpawn, Program: c.Program, Err: err})
	}
	if c.Program == "" {
		return l.fail(&LaunchError{Kind: KindNotFound, Program: c.Program, Err: errEmptyProgram})
	}
	if c.Dir != "" {
		info, err := os.Stat(c.Dir)
		if err == nil && !info.IsDir() {
			err = fmt.Errorf("%s is not a directory", c.Dir)
		}
		if err != nil {
			return l.fail(&LaunchError{Kind: KindSpawn, Program: c.Program, Err: fmt.Errorf("working directory: %w", err)})
		}
	}

	path, err := lookPath(c.Program, searchPath(c.Env), c.Dir)
	if err != nil {
		return l.fail(classifyStartError(c.Program, err))
	}

	cmd := &exec.Cmd{
		Path:   path,
		Args:   append([]string{c.Program}, c.Args...),
		Env:    c.Env.Environ(),
		Dir:    c.Dir,
		Stdin:  l.stdin(),
		Stdout: l.stdout(),
		Stderr: l.stderr(),
	}
	if err := cmd.Start(); err != nil {
		return l.fail(classifyStartError(c.Program, err))
	}

	l.enter(StateRunning, "pid", cmd.Process.Pid, "path", path)

	code := waitExitCode(cmd, cmd.Wait(), l.logger())
	l.enter(StateExited, "code", code)
	return NewExitedOutcome(code)
}

func (l *Launcher) enter(s State, keyvals ...any) {
	l.logger().Debug("launch "+s.String(), keyvals...)
	if l.Observer != nil {
		l.Observer(s)
	}
}

func (l *Launcher) fail(err *LaunchError) ExitOutcome {
	l.enter(StateLaunchFailed, "kind", err.Kind, "err", err)
	return NewLaunchFailedOutcome(err)
}

func (l *Launcher) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}

func (l *Launcher) stdin() io.Reader {
	if l.Stdin == nil {
		return os.Stdin
	}
	return l.Stdin
}

func (l *Launcher) stdout() io.Writer {
	if l.Stdout == nil {
		return os.Stdout
	}
	return l.Stdout
}

func (l *Launcher) stderr() io.Writer {
	if l.Stderr == nil {
		return os.Stderr
	}
	return l.Stderr
}

// searchPath prefers the composed PATH so that a parameter or override can
// redirect program lookup.
func searchPath(env envcompose.ComposedEnvironment) string {
	if p, ok := env.Get("PATH"); ok {
		return p
	}
	return os.Getenv("PATH")
}

func classifyStartError(program string, err error) *LaunchError {
	kind := KindSpawn
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	}
	return &LaunchError{Kind: kind, Program: program, Err: err}
}

// waitExitCode extracts the child's status from the result of cmd.Wait. A
// non-exit error (a failed stdio copy, say) still reports the status the
// process ended with.
func waitExitCode(cmd *exec.Cmd, err error, logger *log.Logger) ExitCode {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr)
	}
	logger.Warn("error waiting for command", "err", err)
	if cmd.ProcessState != nil {
		return ExitCode(cmd.ProcessState.ExitCode())
	}
	return ExitCommandNotExecutable
}
