// SPDX-License-Identifier: MPL-2.0

package run

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envcompose"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/envfmt"
	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
)

// DefaultEnvironment is used when no environment is configured.
const DefaultEnvironment = "default"

const dateLayout = "2006-01-02"

type (
	// Request carries the raw user input of one run. Directive strings are
	// parsed and validated by Service.Run before any network call.
	Request struct {
		Project     string
		Environment string

		// Command is a single string split with shell-word rules after
		// composition. Mutually exclusive with Args.
		Command string
		// Args is the program followed by its arguments, passed verbatim.
		Args []string
		Dir  string

		Inherit      string
		InheritAllow []string
		InheritDeny  []string
		Set          []string
		Remove       []string
		Permissive   bool

		AsOf string
		Tag  string

		RequireParameters bool

		DryRun bool
		Format string
	}

	// plan is a validated Request.
	plan struct {
		project     string
		environment string
		command     string
		args        []string
		dir         string
		mode        envcompose.InheritanceMode
		filter      envcompose.AmbientFilter
		overrides   []envcompose.Override
		removals    []envcompose.Removal
		permissive  bool
		asOf        *time.Time
		tag         string
		require     bool
		dryRun      bool
		format      envfmt.Format
	}
)

// ParseAsOf accepts an RFC 3339 timestamp or a YYYY-MM-DD date (midnight UTC).
// The empty string yields nil.
func ParseAsOf(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w %q: expected RFC 3339 (2024-01-02T15:04:05Z) or YYYY-MM-DD", ErrInvalidAsOf, value)
}

func (r Request) plan() (plan, error) {
	p := plan{
		project:     strings.TrimSpace(r.Project),
		environment: strings.TrimSpace(r.Environment),
		command:     strings.TrimSpace(r.Command),
		args:        r.Args,
		dir:         r.Dir,
		permissive:  r.Permissive,
		tag:         strings.TrimSpace(r.Tag),
		require:     r.RequireParameters,
		dryRun:      r.DryRun,
	}

	switch {
	case p.command != "" && len(p.args) > 0:
		return plan{}, &RequestError{Err: ErrCommandConflict}
	case p.command == "" && len(p.args) == 0 && !p.dryRun:
		return plan{}, &RequestError{Err: ErrNoCommand}
	}
	if p.project == "" {
		return plan{}, &RequestError{Err: ErrMissingProject}
	}
	if p.environment == "" {
		p.environment = DefaultEnvironment
	}

	var err error
	if p.mode, err = envcompose.ParseInheritanceMode(r.Inherit); err != nil {
		return plan{}, &RequestError{Err: err}
	}
	if p.filter, err = parseFilter(r.InheritAllow, r.InheritDeny); err != nil {
		return plan{}, &RequestError{Err: err}
	}
	if p.overrides, err = envcompose.ParseOverrides(r.Set); err != nil {
		return plan{}, &RequestError{Err: err}
	}
	if p.removals, err = envcompose.ParseRemovals(r.Remove); err != nil {
		return plan{}, &RequestError{Err: err}
	}
	if p.asOf, err = ParseAsOf(r.AsOf); err != nil {
		return plan{}, &RequestError{Err: err}
	}
	if p.asOf != nil && p.tag != "" {
		return plan{}, &RequestError{Err: &resolve.ResolutionError{Kind: resolve.KindAmbiguousSelector}}
	}
	if p.format, err = envfmt.ParseFormat(r.Format); err != nil {
		return plan{}, &RequestError{Err: err}
	}
	return p, nil
}

func parseFilter(allow, deny []string) (envcompose.AmbientFilter, error) {
	for _, names := range [][]string{allow, deny} {
		for _, n := range names {
			if err := envcompose.ValidateVarName(n); err != nil {
				return envcompose.AmbientFilter{}, err
			}
		}
	}
	return envcompose.AmbientFilter{Allow: allow, Deny: deny}, nil
}
