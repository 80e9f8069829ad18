// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"cloudtruth": Execute,
		"ctenv":      printEnv,
		"ctecho":     printArgs,
		"ctexit":     exitWith,
		"ctpwd":      printWorkDir,
	})
}

// printEnv prints NAME=value for every argument, or NAME=<unset>.
func printEnv() {
	for _, name := range os.Args[1:] {
		if v, ok := os.LookupEnv(name); ok {
			fmt.Printf("%s=%s\n", name, v)
		} else {
			fmt.Printf("%s=<unset>\n", name)
		}
	}
	os.Exit(0)
}

// printArgs prints each argument on its own line, bracketed.
func printArgs() {
	for _, a := range os.Args[1:] {
		fmt.Printf("[%s]\n", a)
	}
	os.Exit(0)
}

func printWorkDir() {
	wd, err := os.Getwd()
	if err != nil {
		os.Exit(100)
	}
	fmt.Println(filepath.Base(wd))
	os.Exit(0)
}

func exitWith() {
	code, err := strconv.Atoi(os.Args[1])
	if err != nil {
		os.Exit(100)
	}
	os.Exit(code)
}

// TestCLI runs the scripts in testdata against an in-process fake API.
func TestCLI(t *testing.T) {
	srv := newFakeAPI(t)

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("CLOUDTRUTH_SERVER_URL", srv.URL)
			env.Setenv("CLOUDTRUTH_API_KEY", testAPIKey)
			env.Setenv("HOME", env.WorkDir)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("APPDATA", filepath.Join(env.WorkDir, "AppData"))
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"exitcode": cmdExitCode,
		},
	})
}

// cmdExitCode runs a program and checks its exit status:
//
//	exitcode 4 cloudtruth run ...
//
// The program's output stays available to stdout and stderr assertions.
func cmdExitCode(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! exitcode")
	}
	if len(args) < 2 {
		ts.Fatalf("usage: exitcode <code> <program> [args...]")
	}
	want, err := strconv.Atoi(args[0])
	if err != nil {
		ts.Fatalf("invalid exit code %q", args[0])
	}

	got := 0
	if err := ts.Exec(args[1], args[2:]...); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			ts.Fatalf("%s: %v", args[1], err)
		}
		got = exitErr.ExitCode()
	}
	if got != want {
		ts.Fatalf("%s exited with %d, want %d", args[1], got, want)
	}
}
