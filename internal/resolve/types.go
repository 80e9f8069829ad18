// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"time"
)

type (
	// ParameterQuery selects the parameter values to read from the service.
	// AsOf and Tag are mutually exclusive historical selectors.
	ParameterQuery struct {
		ProjectID     string
		EnvironmentID string
		AsOf          *time.Time
		Tag           string
	}

	// ParameterRecord is one parameter as reported by the service. A non-empty
	// Error marks a parameter whose value could not be produced (for example a
	// failed external lookup).
	ParameterRecord struct {
		Name  string
		Value string
		Error string
	}

	// ConfigService lists effective parameter values for a project and environment.
	ConfigService interface {
		ListParameterValues(ctx context.Context, query ParameterQuery) ([]ParameterRecord, error)
	}

	// IdentityResolver turns user-facing project and environment names into the
	// internal identifiers expected by ConfigService.
	IdentityResolver interface {
		ProjectID(ctx context.Context, name string) (string, error)
		EnvironmentID(ctx context.Context, name string) (string, error)
	}

	// Request identifies what to resolve.
	Request struct {
		ProjectID     string
		EnvironmentID string
		// AsOf resolves values as they were at the given instant.
		AsOf *time.Time
		// Tag resolves values as they were when the named tag was taken.
		Tag string
	}

	// ResolvedParameter is the outcome for a single parameter name.
	ResolvedParameter struct {
		Name  string
		Value string
		Error string
	}

	// Failure pairs a parameter name with the reason it failed to resolve.
	Failure struct {
		Name  string
		Error string
	}

	// ResolutionResult is the ordered set of parameters produced by one
	// resolution. Order follows the service response. The zero value is an
	// empty result.
	ResolutionResult struct {
		parameters []ResolvedParameter
		index      map[string]int
	}
)

// Failed reports whether the parameter could not be resolved.
func (p ResolvedParameter) Failed() bool { return p.Error != "" }

// NewResolutionResult builds a result from parameters in the given order.
// When a name repeats, the first occurrence wins and later ones are dropped.
// A parameter carrying an error never keeps its value.
func NewResolutionResult(params ...ResolvedParameter) ResolutionResult {
	r := ResolutionResult{
		parameters: make([]ResolvedParameter, 0, len(params)),
		index:      make(map[string]int, len(params)),
	}
	for _, p := range params {
		r.add(p)
	}
	return r
}

// add appends p unless its name is already present. It reports whether p was kept.
func (r *ResolutionResult) add(p ResolvedParameter) bool {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, dup := r.index[p.Name]; dup {
		return false
	}
	if p.Failed() {
		p.Value = ""
	}
	r.index[p.Name] = len(r.parameters)
	r.parameters = append(r.parameters, p)
	return true
}

// Len returns the number of parameters, failed ones included.
func (r ResolutionResult) Len() int { return len(r.parameters) }

// Parameters returns a copy of all parameters in resolution order.
func (r ResolutionResult) Parameters() []ResolvedParameter {
	out := make([]ResolvedParameter, len(r.parameters))
	copy(out, r.parameters)
	return out
}

// Succeeded returns the parameters that resolved without error, in order.
func (r ResolutionResult) Succeeded() []ResolvedParameter {
	out := make([]ResolvedParameter, 0, len(r.parameters))
	for _, p := range r.parameters {
		if !p.Failed() {
			out = append(out, p)
		}
	}
	return out
}

// Failures returns the parameters that failed to resolve, in order.
func (r ResolutionResult) Failures() []Failure {
	var out []Failure
	for _, p := range r.parameters {
		if p.Failed() {
			out = append(out, Failure{Name: p.Name, Error: p.Error})
		}
	}
	return out
}
