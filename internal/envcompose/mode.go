// SPDX-License-Identifier: MPL-2.0

package envcompose

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// InheritNone gives the child only resolved parameters and overrides.
	InheritNone InheritanceMode = "none"
	// InheritStrict passes the ambient environment through and fails on any
	// collision between an ambient name and a resolved parameter.
	InheritStrict InheritanceMode = "strict"
	// InheritOverlay passes the ambient environment through; resolved values win.
	InheritOverlay InheritanceMode = "overlay"
	// InheritUnderlay passes the ambient environment through; ambient values win.
	InheritUnderlay InheritanceMode = "underlay"

	// DefaultInheritanceMode is used when no mode is selected.
	DefaultInheritanceMode = InheritOverlay

	// inheritExclusiveAlias is the spelling older CLI releases used for strict.
	inheritExclusiveAlias = "exclusive"
)

// ErrInvalidInheritanceMode is the sentinel error wrapped by InvalidInheritanceModeError.
var ErrInvalidInheritanceMode = errors.New("invalid inheritance mode")

type (
	// InheritanceMode defines how the ambient environment interacts with
	// resolved parameters.
	InheritanceMode string

	// InvalidInheritanceModeError is returned when an InheritanceMode value is not recognized.
	// It wraps ErrInvalidInheritanceMode for errors.Is() compatibility.
	InvalidInheritanceModeError struct {
		Value InheritanceMode
	}
)

// InheritanceModes returns every valid mode in display order.
func InheritanceModes() []InheritanceMode {
	return []InheritanceMode{InheritNone, InheritStrict, InheritOverlay, InheritUnderlay}
}

// ParseInheritanceMode parses a CLI value into an InheritanceMode. Matching is
// case-insensitive, "exclusive" is accepted for strict, and the empty string
// yields DefaultInheritanceMode.
func ParseInheritanceMode(value string) (InheritanceMode, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return DefaultInheritanceMode, nil
	}
	if v == inheritExclusiveAlias {
		return InheritStrict, nil
	}
	mode := InheritanceMode(v)
	if err := mode.Validate(); err != nil {
		return "", err
	}
	return mode, nil
}

// String returns the string representation of the InheritanceMode.
func (m InheritanceMode) String() string { return string(m) }

// Validate returns nil if the InheritanceMode is one of the defined modes.
func (m InheritanceMode) Validate() error {
	switch m {
	case InheritNone, InheritStrict, InheritOverlay, InheritUnderlay:
		return nil
	default:
		return &InvalidInheritanceModeError{Value: m}
	}
}

// inheritsAmbient reports whether the mode seeds from the ambient environment.
func (m InheritanceMode) inheritsAmbient() bool { return m != InheritNone }

// Error implements the error interface.
func (e *InvalidInheritanceModeError) Error() string {
	return fmt.Sprintf("invalid inheritance mode %q (valid: none, strict, overlay, underlay)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidInheritanceModeError) Unwrap() error { return ErrInvalidInheritanceMode }
