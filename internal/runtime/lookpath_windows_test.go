// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/testutil"
)

func TestLookPath_UsesComposedPath(t *testing.T) {
	t.Parallel()

	bin := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(bin, "tool.bat"), "@echo off\r\n")

	got, err := lookPath("tool", bin, "")
	if err != nil {
		t.Fatalf("lookPath() error = %v", err)
	}
	if !strings.EqualFold(got, filepath.Join(bin, "tool.bat")) {
		t.Errorf("lookPath() = %q, want %q", got, filepath.Join(bin, "tool.bat"))
	}
}

func TestLookPath_IgnoresParentPath(t *testing.T) {
	t.Parallel()

	// cmd.exe lives on the parent's PATH but not in an empty directory.
	if _, err := lookPath("cmd", t.TempDir(), ""); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("lookPath() error = %v, want exec.ErrNotFound", err)
	}
}
