// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/runtime"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/testutil"
)

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "1.2.3", "abc123", "2026-01-02"
	if got, want := getVersionString(), "1.2.3 (commit: abc123, built: 2026-01-02)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestExecute_ExitCodes(t *testing.T) {
	if goruntime.GOOS == "windows" {
		t.Skip("uses POSIX shell semantics")
	}

	srv := newFakeAPI(t)

	notExecutable := filepath.Join(t.TempDir(), "script")
	testutil.MustWriteFile(t, notExecutable, "#!/bin/sh\necho hi\n")

	tests := []struct {
		name   string
		args   []string
		want   runtime.ExitCode
		stderr string
	}{
		{name: "success", args: []string{"run", "--project", "web", "--", "sh", "-c", "exit 0"}, want: 0},
		{name: "child exit code", args: []string{"run", "--project", "web", "--", "sh", "-c", "exit 42"}, want: 42},
		{name: "command string", args: []string{"run", "--project", "web", "-c", `sh -c 'test "$DB_HOST" = localhost'`}, want: 0},
		{
			name:   "command not found",
			args:   []string{"run", "--project", "web", "--", "this-binary-does-not-exist"},
			want:   runtime.ExitCommandNotFound,
			stderr: "command not found",
		},
		{
			name:   "not executable",
			args:   []string{"run", "--project", "web", "--", notExecutable},
			want:   runtime.ExitCommandNotExecutable,
			stderr: "permission denied",
		},
		{
			name:   "strict conflict",
			args:   []string{"run", "--project", "web", "--inherit", "strict", "--", "sh", "-c", "exit 0"},
			want:   ExitStrictConflict,
			stderr: "DB_HOST",
		},
		{
			name:   "required parameters",
			args:   []string{"run", "--project", "broken", "--require-params", "--", "sh", "-c", "exit 0"},
			want:   ExitRequiredMissing,
			stderr: "VAULT_TOKEN",
		},
		{
			name:   "service down",
			args:   []string{"run", "--project", "down", "--", "sh", "-c", "exit 0"},
			want:   ExitResolution,
			stderr: "database unavailable",
		},
		{
			name:   "unknown project",
			args:   []string{"run", "--project", "missing", "--", "sh", "-c", "exit 0"},
			want:   ExitResolution,
			stderr: `project "missing" not found`,
		},
		{
			name:   "no command",
			args:   []string{"run", "--project", "web"},
			want:   ExitUsage,
			stderr: "no command to run",
		},
		{
			name:   "unknown flag",
			args:   []string{"run", "--bogus"},
			want:   ExitUsage,
			stderr: "bogus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.ClearCloudTruthEnv(t)
			t.Cleanup(testutil.SetConfigHome(t, t.TempDir()))

			var stdout, stderr bytes.Buffer
			app, err := NewApp(Dependencies{
				Stdout: &stdout,
				Stderr: &stderr,
				Environ: func() []string {
					return []string{"PATH=" + os.Getenv("PATH"), "DB_HOST=shell"}
				},
			})
			if err != nil {
				t.Fatalf("NewApp() error = %v", err)
			}

			args := append([]string{"--api-key", testAPIKey, "--server-url", srv.URL}, tt.args...)
			if got := execute(context.Background(), app, args); got != tt.want {
				t.Errorf("execute() = %d, want %d\nstderr:\n%s", got, tt.want, stderr.String())
			}
			if tt.stderr != "" && !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr missing %q:\n%s", tt.stderr, stderr.String())
			}
		})
	}
}

func TestExecute_MissingAPIKey(t *testing.T) {
	testutil.ClearCloudTruthEnv(t)
	t.Cleanup(testutil.SetConfigHome(t, t.TempDir()))

	var stderr bytes.Buffer
	app, err := NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &stderr})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	if got := execute(context.Background(), app, []string{"run", "--project", "web", "--", "true"}); got != ExitUsage {
		t.Errorf("execute() = %d, want %d", got, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "CT-0002") {
		t.Errorf("stderr missing issue id:\n%s", stderr.String())
	}
}
