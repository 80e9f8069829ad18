// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envcompose"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/testutil"
)

// helperModeVar switches the test binary into a child-process helper.
const helperModeVar = "RUNTIME_TEST_HELPER_MODE"

func TestMain(m *testing.M) {
	if mode := os.Getenv(helperModeVar); mode != "" {
		os.Exit(runHelper(mode, os.Args[1:]))
	}
	os.Exit(m.Run())
}

func runHelper(mode string, args []string) int {
	switch mode {
	case "exit":
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return 99
		}
		return code
	case "env":
		for _, name := range args {
			value, ok := os.LookupEnv(name)
			if !ok {
				value = "<unset>"
			}
			fmt.Printf("%s=%s\n", name, value)
		}
		return 0
	case "args":
		fmt.Println(strings.Join(args, "|"))
		return 0
	case "pwd":
		wd, err := os.Getwd()
		if err != nil {
			return 98
		}
		fmt.Println(wd)
		return 0
	case "cat":
		_, _ = io.Copy(os.Stdout, os.Stdin)
		fmt.Fprintln(os.Stderr, "done")
		return 0
	case "kill":
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Kill()
		time.Sleep(10 * time.Second)
		return 96
	default:
		return 97
	}
}

func helperCommand(t *testing.T, mode string, env map[string]string, args ...string) Command {
	t.Helper()

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error = %v", err)
	}
	vars := map[string]string{helperModeVar: mode}
	if sysRoot, ok := os.LookupEnv("SYSTEMROOT"); ok {
		vars["SYSTEMROOT"] = sysRoot
	}
	for k, v := range env {
		vars[k] = v
	}
	return Command{Program: exe, Args: args, Env: envcompose.NewComposedEnvironment(vars)}
}

type recorder struct {
	states []State
}

func (r *recorder) observe(s State) { r.states = append(r.states, s) }

func newTestLauncher(stdout, stderr io.Writer, rec *recorder) *Launcher {
	l := &Launcher{Stdin: strings.NewReader(""), Stdout: stdout, Stderr: stderr}
	if rec != nil {
		l.Observer = rec.observe
	}
	return l
}

func TestLauncherRun_NonexistentBinary(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	l := newTestLauncher(io.Discard, io.Discard, rec)
	env := envcompose.NewComposedEnvironment(map[string]string{"PATH": os.Getenv("PATH")})

	out := l.Run(context.Background(), Command{Program: "this-binary-does-not-exist", Env: env})

	if out.State != StateLaunchFailed {
		t.Fatalf("State = %s, want %s", out.State, StateLaunchFailed)
	}
	var launchErr *LaunchError
	if !errors.As(out.Err, &launchErr) {
		t.Fatalf("Err = %T %v, want *LaunchError", out.Err, out.Err)
	}
	if launchErr.Kind != KindNotFound {
		t.Errorf("Kind = %s, want %s", launchErr.Kind, KindNotFound)
	}
	if launchErr.Program != "this-binary-does-not-exist" {
		t.Errorf("Program = %q", launchErr.Program)
	}
	if out.ExitCode != ExitCommandNotFound {
		t.Errorf("ExitCode = %d, want %d", out.ExitCode, ExitCommandNotFound)
	}
	if want := []State{StateSpawning, StateLaunchFailed}; !slices.Equal(rec.states, want) {
		t.Errorf("transitions = %v, want %v", rec.states, want)
	}
}

func TestLauncherRun_MissingExplicitPath(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nothing-here")
	out := newTestLauncher(io.Discard, io.Discard, nil).Run(context.Background(), Command{Program: missing})

	if !errors.Is(out.Err, ErrCommandNotFound) {
		t.Errorf("Err = %v, want ErrCommandNotFound", out.Err)
	}
}

func TestLauncherRun_EmptyProgram(t *testing.T) {
	t.Parallel()

	out := newTestLauncher(io.Discard, io.Discard, nil).Run(context.Background(), Command{})
	if out.State != StateLaunchFailed || !errors.Is(out.Err, ErrCommandNotFound) {
		t.Errorf("Run(empty) = %+v, want not-found launch failure", out)
	}
}

func TestLauncherRun_ExitCodePassthrough(t *testing.T) {
	t.Parallel()

	for _, code := range []int{0, 1, 3, 42, 255} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			l := newTestLauncher(io.Discard, io.Discard, rec)
			out := l.Run(context.Background(), helperCommand(t, "exit", nil, strconv.Itoa(code)))

			if out.State != StateExited {
				t.Fatalf("State = %s (err %v), want %s", out.State, out.Err, StateExited)
			}
			if out.ExitCode != ExitCode(code) {
				t.Errorf("ExitCode = %d, want %d", out.ExitCode, code)
			}
			if out.Err != nil {
				t.Errorf("Err = %v, want nil for a child that ran", out.Err)
			}
			if want := []State{StateSpawning, StateRunning, StateExited}; !slices.Equal(rec.states, want) {
				t.Errorf("transitions = %v, want %v", rec.states, want)
			}
		})
	}
}

func TestLauncherRun_ChildSeesOnlyComposedEnvironment(t *testing.T) {
	t.Parallel()

	// The parent always has PATH; the child must not.
	if os.Getenv("PATH") == "" {
		t.Skip("PATH not set in parent")
	}

	var stdout bytes.Buffer
	l := newTestLauncher(&stdout, io.Discard, nil)
	cmd := helperCommand(t, "env", map[string]string{"DB_HOST": "db.internal", "EMPTY": ""}, "DB_HOST", "EMPTY", "PATH")

	out := l.Run(context.Background(), cmd)
	if !out.Success() {
		t.Fatalf("Run() = %+v", out)
	}

	got := readLines(t, &stdout)
	want := []string{"DB_HOST=db.internal", "EMPTY=", "PATH=<unset>"}
	if !slices.Equal(got, want) {
		t.Errorf("child environment = %v, want %v", got, want)
	}
}

func TestLauncherRun_ArgsAreNotReinterpreted(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	l := newTestLauncher(&stdout, io.Discard, nil)
	cmd := helperCommand(t, "args", nil, "a b", "$HOME", "'q'")

	if out := l.Run(context.Background(), cmd); !out.Success() {
		t.Fatalf("Run() = %+v", out)
	}
	if got := strings.TrimSpace(stdout.String()); got != "a b|$HOME|'q'" {
		t.Errorf("child args = %q", got)
	}
}

func TestLauncherRun_Stdio(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	l := &Launcher{Stdin: strings.NewReader("hello\n"), Stdout: &stdout, Stderr: &stderr}

	if out := l.Run(context.Background(), helperCommand(t, "cat", nil)); !out.Success() {
		t.Fatalf("Run() = %+v", out)
	}
	if stdout.String() != "hello\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "hello\n")
	}
	if stderr.String() != "done\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "done\n")
	}
}

func TestLauncherRun_WorkingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	cmd := helperCommand(t, "pwd", nil)
	cmd.Dir = dir

	if out := newTestLauncher(&stdout, io.Discard, nil).Run(context.Background(), cmd); !out.Success() {
		t.Fatalf("Run() = %+v", out)
	}

	got, err := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	if got != want {
		t.Errorf("child cwd = %q, want %q", got, want)
	}
}

func TestLauncherRun_BadWorkingDirectory(t *testing.T) {
	t.Parallel()

	cmd := helperCommand(t, "exit", nil, "0")
	cmd.Dir = filepath.Join(t.TempDir(), "missing")

	out := newTestLauncher(io.Discard, io.Discard, nil).Run(context.Background(), cmd)
	var launchErr *LaunchError
	if !errors.As(out.Err, &launchErr) || launchErr.Kind != KindSpawn {
		t.Errorf("Err = %v, want spawn LaunchError", out.Err)
	}
}

func TestLauncherRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	out := newTestLauncher(io.Discard, io.Discard, rec).Run(ctx, helperCommand(t, "exit", nil, "0"))

	if out.State != StateLaunchFailed || !errors.Is(out.Err, context.Canceled) {
		t.Errorf("Run(canceled) = %+v, want launch failure wrapping context.Canceled", out)
	}
	if want := []State{StateSpawning, StateLaunchFailed}; !slices.Equal(rec.states, want) {
		t.Errorf("transitions = %v, want %v", rec.states, want)
	}
}

func readLines(t *testing.T, r io.Reader) []string {
	t.Helper()

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

func TestNewLauncher_UsesProcessStdio(t *testing.T) {
	t.Parallel()

	l := NewLauncher(nil)
	if l.Stdin != os.Stdin || l.Stdout != os.Stdout || l.Stderr != os.Stderr {
		t.Errorf("NewLauncher() = %+v, want the process stdio", l)
	}
}

// Relative program paths resolve against the parent's working directory when
// Dir is empty. Not parallel: it changes the process working directory.
func TestLauncherRun_RelativeProgram(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("relies on symlinks")
	}

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error = %v", err)
	}
	dir := t.TempDir()
	if err := os.Symlink(exe, filepath.Join(dir, "helper")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}
	t.Cleanup(testutil.MustChdir(t, dir))

	cmd := helperCommand(t, "exit", nil, "5")
	cmd.Program = "./helper"

	if out := newTestLauncher(io.Discard, io.Discard, nil).Run(context.Background(), cmd); out.ExitCode != 5 {
		t.Errorf("Run() = %+v, want code 5", out)
	}
}
