// SPDX-License-Identifier: MPL-2.0

package envcompose

import (
	"slices"
	"strings"

	"github.com/cloudtruth/cloudtruth-cli-sub001/internal/resolve"
)

// FrameworkPrefix is the reserved namespace the CLI uses for its own
// credentials and plumbing (CLOUDTRUTH_API_KEY, CLOUDTRUTH_PROFILE, ...).
const FrameworkPrefix = "CLOUDTRUTH_"

type (
	// AmbientFilter narrows which ambient variables are seeded. An empty Allow
	// list admits every name; Deny always wins over Allow. Neither list affects
	// resolved parameters or overrides.
	AmbientFilter struct {
		Allow []string
		Deny  []string
	}

	// Input holds everything Compose needs. Ambient is a snapshot of the
	// process environment and is never modified.
	Input struct {
		Resolution        resolve.ResolutionResult
		Ambient           map[string]string
		Mode              InheritanceMode
		Filter            AmbientFilter
		Overrides         []Override
		Removals          []Removal
		KeepFrameworkVars bool
	}
)

// Compose merges the input into a ComposedEnvironment. A zero Mode means
// DefaultInheritanceMode.
func Compose(in Input) (ComposedEnvironment, error) {
	mode := in.Mode
	if mode == "" {
		mode = DefaultInheritanceMode
	}
	if err := mode.Validate(); err != nil {
		return ComposedEnvironment{}, &CompositionError{Kind: KindInvalidInput, Err: err}
	}

	resolved := in.Resolution.Succeeded()

	// 1-2. Ambient seed.
	env := seedAmbient(in.Ambient, mode, in.Filter)

	// 3. Resolved parameters.
	overridden := make(map[string]struct{}, len(in.Overrides))
	for _, o := range in.Overrides {
		overridden[o.Key] = struct{}{}
	}

	var conflicts []string
	for _, p := range resolved {
		_, present := env[p.Name]
		switch mode {
		case InheritUnderlay:
			if !present {
				env[p.Name] = p.Value
			}
		case InheritStrict:
			if !present {
				env[p.Name] = p.Value
				continue
			}
			if _, ok := overridden[p.Name]; !ok {
				conflicts = append(conflicts, p.Name)
			}
		default:
			env[p.Name] = p.Value
		}
	}
	if len(conflicts) > 0 {
		slices.Sort(conflicts)
		return ComposedEnvironment{}, &CompositionError{
			Kind: KindStrictConflict,
			Key:  conflicts[0],
			Keys: conflicts,
		}
	}

	// 4. Overrides.
	for _, o := range in.Overrides {
		env[o.Key] = o.Value
	}

	// 5. Removals.
	for _, r := range in.Removals {
		delete(env, string(r))
	}

	// 6. Framework variables.
	if !in.KeepFrameworkVars {
		for name := range env {
			if IsFrameworkVar(name) {
				delete(env, name)
			}
		}
	}

	return NewComposedEnvironment(env), nil
}

func seedAmbient(ambient map[string]string, mode InheritanceMode, filter AmbientFilter) map[string]string {
	env := make(map[string]string)
	if !mode.inheritsAmbient() {
		return env
	}

	var allowSet map[string]struct{}
	if len(filter.Allow) > 0 {
		allowSet = make(map[string]struct{}, len(filter.Allow))
		for _, name := range filter.Allow {
			allowSet[name] = struct{}{}
		}
	}

	denySet := make(map[string]struct{}, len(filter.Deny))
	for _, name := range filter.Deny {
		denySet[name] = struct{}{}
	}

	for name, value := range ambient {
		if allowSet != nil {
			if _, ok := allowSet[name]; !ok {
				continue
			}
		}
		if _, denied := denySet[name]; denied {
			continue
		}
		env[name] = value
	}
	return env
}

// IsFrameworkVar reports whether name lies in the reserved CLOUDTRUTH_ namespace.
func IsFrameworkVar(name string) bool {
	return strings.HasPrefix(name, FrameworkPrefix)
}

// AmbientFromEnviron converts os.Environ-style KEY=VALUE entries into a map.
// Entries without a separator or with an empty name (such as the "=C:" drive
// entries on Windows) are skipped. Later duplicates win, matching getenv.
func AmbientFromEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = value
	}
	return env
}
