// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// lookPath locates program using pathList instead of the parent's PATH.
// Names containing a slash are used as given, relative to dir when set.
// Relative PATH entries are ignored.
func lookPath(program, pathList, dir string) (string, error) {
	if strings.Contains(program, "/") {
		file := program
		if dir != "" && !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		if err := checkExecutable(file); err != nil {
			return "", err
		}
		return program, nil
	}

	var denied error
	for _, entry := range filepath.SplitList(pathList) {
		if !filepath.IsAbs(entry) {
			continue
		}
		candidate := filepath.Join(entry, program)
		err := checkExecutable(candidate)
		if err == nil {
			return candidate, nil
		}
		if denied == nil && os.IsPermission(err) {
			denied = err
		}
	}
	if denied != nil {
		return "", denied
	}
	return "", &exec.Error{Name: program, Err: exec.ErrNotFound}
}

func checkExecutable(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return &fs.PathError{Op: "exec", Path: file, Err: fs.ErrPermission}
	}
	return nil
}

// exitStatus reports 128+n for a child killed by signal n.
func exitStatus(exitErr *exec.ExitError) ExitCode {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return exitSignalBase + ExitCode(ws.Signal())
	}
	return ExitCode(exitErr.ExitCode())
}
