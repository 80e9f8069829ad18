// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

// lookPath locates program using pathList instead of the parent's PATH.
// PATHEXT extensions are tried by exec.LookPath for every candidate. Names
// containing a separator are used as given, relative to dir when set.
// Relative PATH entries are ignored.
func lookPath(program, pathList, dir string) (string, error) {
	if strings.ContainsAny(program, `\/:`) {
		file := program
		if dir != "" && !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		if _, err := exec.LookPath(file); err != nil {
			return "", err
		}
		return program, nil
	}

	var denied error
	for _, entry := range filepath.SplitList(pathList) {
		if !filepath.IsAbs(entry) {
			continue
		}
		path, err := exec.LookPath(filepath.Join(entry, program))
		if err == nil {
			return path, nil
		}
		if denied == nil && errors.Is(err, fs.ErrPermission) {
			denied = err
		}
	}
	if denied != nil {
		return "", denied
	}
	return "", &exec.Error{Name: program, Err: exec.ErrNotFound}
}

func exitStatus(exitErr *exec.ExitError) ExitCode {
	return ExitCode(exitErr.ExitCode())
}
