// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
)

// failureReporter prints per-parameter failures as one warning block before
// the child process starts.
type failureReporter struct {
	w io.Writer
}

func (r *failureReporter) ReportFailures(project, environment string, failures []resolve.Failure) {
	noun := "parameters"
	if len(failures) == 1 {
		noun = "parameter"
	}
	fmt.Fprintf(r.w, "%s %d %s in project %s (environment %s) could not be resolved and will not be set:\n",
		WarningStyle.Render("Warning:"), len(failures), noun, project, environment)
	for _, f := range failures {
		fmt.Fprintf(r.w, "  • %s: %s\n", CmdStyle.Render(f.Name), f.Error)
	}
}
