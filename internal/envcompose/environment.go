// SPDX-License-Identifier: MPL-2.0

package envcompose

import (
	"maps"
	"slices"
)

// ComposedEnvironment is an immutable name to value snapshot. Keys are case
// sensitive. The zero value is an empty environment.
type ComposedEnvironment struct {
	vars map[string]string
}

// NewComposedEnvironment copies vars into a new snapshot.
func NewComposedEnvironment(vars map[string]string) ComposedEnvironment {
	return ComposedEnvironment{vars: maps.Clone(vars)}
}

// Get returns the value for key.
func (e ComposedEnvironment) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Len returns the number of variables.
func (e ComposedEnvironment) Len() int { return len(e.vars) }

// Keys returns the variable names in sorted order.
func (e ComposedEnvironment) Keys() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// Map returns a copy of the variables.
func (e ComposedEnvironment) Map() map[string]string {
	out := make(map[string]string, len(e.vars))
	maps.Copy(out, e.vars)
	return out
}

// Environ returns the variables as sorted KEY=VALUE strings, the form
// expected by exec.Cmd.Env.
func (e ComposedEnvironment) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for _, k := range e.Keys() {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// Equal reports whether both snapshots hold the same variables.
func (e ComposedEnvironment) Equal(other ComposedEnvironment) bool {
	return maps.Equal(e.vars, other.vars)
}
