// SPDX-License-Identifier: MPL-2.0

package envfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatDotenv renders KEY="value" lines.
	FormatDotenv Format = "dotenv"
	// FormatJSON renders an indented JSON object.
	FormatJSON Format = "json"
	// FormatYAML renders a YAML mapping.
	FormatYAML Format = "yaml"
	// FormatTOML renders a TOML table.
	FormatTOML Format = "toml"

	// DefaultFormat is used when no format is requested.
	DefaultFormat = FormatDotenv
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects an output encoding.
	Format string

	// InvalidFormatError is returned for an unknown format name.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatDotenv, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat parses a case-insensitive format name. "env" is accepted as
// an alias of dotenv and "yml" of yaml. The empty string yields DefaultFormat.
func ParseFormat(value string) (Format, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "":
		return DefaultFormat, nil
	case "env":
		return FormatDotenv, nil
	case "yml":
		return FormatYAML, nil
	default:
		f := Format(v)
		if err := f.Validate(); err != nil {
			return "", err
		}
		return f, nil
	}
}

func (f Format) String() string { return string(f) }

// Validate returns an *InvalidFormatError for unknown formats.
func (f Format) Validate() error {
	switch f {
	case FormatDotenv, FormatJSON, FormatYAML, FormatTOML:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (expected one of: dotenv, json, yaml, toml)", e.Value)
}

func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Marshal encodes vars in the given format. Keys are always emitted in
// sorted order so output is stable across runs.
func Marshal(f Format, vars map[string]string) ([]byte, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	switch f {
	case FormatDotenv:
		if len(vars) == 0 {
			return nil, nil
		}
		s, err := godotenv.Marshal(vars)
		if err != nil {
			return nil, fmt.Errorf("encode dotenv: %w", err)
		}
		return []byte(s + "\n"), nil
	case FormatJSON:
		data, err := json.MarshalIndent(vars, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		if len(vars) == 0 {
			return []byte("{}\n"), nil
		}
		data, err := yaml.Marshal(vars)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	case FormatTOML:
		data, err := toml.Marshal(vars)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return data, nil
	default:
		return nil, f.Validate()
	}
}

// Write encodes vars to w.
func Write(w io.Writer, f Format, vars map[string]string) error {
	data, err := Marshal(f, vars)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
