// SPDX-License-Identifier: MPL-2.0

package envcompose

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidVarName is the sentinel error wrapped by InvalidVarNameError.
	ErrInvalidVarName = errors.New("invalid environment variable name")
	// ErrInvalidOverride is returned when a --set value is not KEY=VALUE.
	ErrInvalidOverride = errors.New("invalid override")
)

type (
	// Override sets Key to Value after inheritance merging.
	Override struct {
		Key   string
		Value string
	}

	// Removal deletes a key after overrides are applied.
	Removal string

	// InvalidVarNameError is returned when a directive names an invalid variable.
	InvalidVarNameError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidVarNameError) Error() string {
	return fmt.Sprintf("invalid environment variable name %q (must be non-empty without '=' or NUL)", e.Value)
}

// Unwrap returns ErrInvalidVarName so callers can use errors.Is for programmatic detection.
func (e *InvalidVarNameError) Unwrap() error { return ErrInvalidVarName }

// ValidateVarName rejects names the process environment cannot carry. Parameter
// names are chosen by the server, so anything else (lowercase, dashes, dots)
// is accepted.
func ValidateVarName(name string) error {
	if name == "" || strings.ContainsAny(name, "=\x00") {
		return &InvalidVarNameError{Value: name}
	}
	return nil
}

// ParseOverride parses a KEY=VALUE directive. The value may be empty and may
// itself contain '='.
func ParseOverride(s string) (Override, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("%w %q: expected KEY=VALUE", ErrInvalidOverride, s)
	}
	if err := ValidateVarName(key); err != nil {
		return Override{}, fmt.Errorf("%w %q: %w", ErrInvalidOverride, s, err)
	}
	return Override{Key: key, Value: value}, nil
}

// ParseOverrides parses every directive, stopping at the first invalid one.
func ParseOverrides(values []string) ([]Override, error) {
	out := make([]Override, 0, len(values))
	for _, v := range values {
		o, err := ParseOverride(v)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// ParseRemovals validates every name to remove.
func ParseRemovals(values []string) ([]Removal, error) {
	out := make([]Removal, 0, len(values))
	for _, v := range values {
		if err := ValidateVarName(v); err != nil {
			return nil, err
		}
		out = append(out, Removal(v))
	}
	return out, nil
}

// String returns the KEY=VALUE form.
func (o Override) String() string { return o.Key + "=" + o.Value }
