// SPDX-License-Identifier: MPL-2.0

package envcompose

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseOverride(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Override
		wantErr error
	}{
		{in: "A=1", want: Override{Key: "A", Value: "1"}},
		{in: "EMPTY=", want: Override{Key: "EMPTY", Value: ""}},
		{in: "URL=postgres://u:p@h/db?x=y", want: Override{Key: "URL", Value: "postgres://u:p@h/db?x=y"}},
		{in: "_UNDERSCORE=ok", want: Override{Key: "_UNDERSCORE", Value: "ok"}},
		{in: "NOEQUALS", wantErr: ErrInvalidOverride},
		{in: "=value", wantErr: ErrInvalidVarName},
		{in: "db-host=x", want: Override{Key: "db-host", Value: "x"}},
		{in: "1st.name=x", want: Override{Key: "1st.name", Value: "x"}},
		{in: "NUL\x00KEY=x", wantErr: ErrInvalidVarName},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOverride(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseOverride(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOverride(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOverride(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("Override.String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestParseOverrides_KeepsOrder(t *testing.T) {
	t.Parallel()

	got, err := ParseOverrides([]string{"B=2", "A=1", "B=3"})
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	want := []Override{{"B", "2"}, {"A", "1"}, {"B", "3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseOverrides() = %v, want %v", got, want)
	}

	if _, err := ParseOverrides([]string{"A=1", "oops"}); !errors.Is(err, ErrInvalidOverride) {
		t.Errorf("ParseOverrides() error = %v, want ErrInvalidOverride", err)
	}
}

func TestParseRemovals(t *testing.T) {
	t.Parallel()

	got, err := ParseRemovals([]string{"HOME", "PATH"})
	if err != nil {
		t.Fatalf("ParseRemovals() error = %v", err)
	}
	if want := []Removal{"HOME", "PATH"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseRemovals() = %v, want %v", got, want)
	}

	if _, err := ParseRemovals([]string{"db-host", "app.port"}); err != nil {
		t.Errorf("ParseRemovals() error = %v for server-style names", err)
	}
	if _, err := ParseRemovals([]string{"A=B"}); !errors.Is(err, ErrInvalidVarName) {
		t.Errorf("ParseRemovals() error = %v, want ErrInvalidVarName", err)
	}
}

func TestValidateVarName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"DB_HOST", false},
		{"db-host", false},
		{"app.port", false},
		{"9lives", false},
		{"", true},
		{"A=B", true},
		{"A\x00B", true},
	}

	for _, tt := range tests {
		err := ValidateVarName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVarName(%q) = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidVarName) {
			t.Errorf("ValidateVarName(%q) error does not wrap ErrInvalidVarName", tt.name)
		}
	}
}

func TestComposedEnvironment(t *testing.T) {
	t.Parallel()

	src := map[string]string{"B": "2", "A": "1"}
	env := NewComposedEnvironment(src)
	src["C"] = "3"

	if env.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (source mutation leaked)", env.Len())
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(env.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", env.Keys(), want)
	}
	if want := []string{"A=1", "B=2"}; !reflect.DeepEqual(env.Environ(), want) {
		t.Errorf("Environ() = %v, want %v", env.Environ(), want)
	}

	var zero ComposedEnvironment
	if zero.Len() != 0 || len(zero.Environ()) != 0 {
		t.Errorf("zero ComposedEnvironment not empty: %v", zero.Environ())
	}
	if !zero.Equal(NewComposedEnvironment(nil)) {
		t.Error("zero value should equal an empty snapshot")
	}
}
