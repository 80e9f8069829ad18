// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProfileNotFound is the sentinel error wrapped by ProfileNotFoundError.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileCycle is the sentinel error wrapped by ProfileCycleError.
	ErrProfileCycle = errors.New("profile inheritance cycle")
)

type (
	// ProfileNotFoundError reports a missing profile, either selected directly
	// or named by another profile's source_profile.
	ProfileNotFoundError struct {
		Name ProfileName
		// ReferencedBy is the profile whose source_profile named Name, if any.
		ReferencedBy ProfileName
	}

	// ProfileCycleError reports a source_profile chain that loops.
	ProfileCycleError struct {
		Chain []ProfileName
	}
)

// Error implements the error interface.
func (e *ProfileNotFoundError) Error() string {
	if e.ReferencedBy != "" {
		return fmt.Sprintf("profile %q (source_profile of %q) not found", e.Name, e.ReferencedBy)
	}
	return fmt.Sprintf("profile %q not found", e.Name)
}

// Unwrap returns ErrProfileNotFound for errors.Is() compatibility.
func (e *ProfileNotFoundError) Unwrap() error { return ErrProfileNotFound }

// Error implements the error interface.
func (e *ProfileCycleError) Error() string {
	names := make([]string, len(e.Chain))
	for i, n := range e.Chain {
		names[i] = string(n)
	}
	return "profile inheritance cycle: " + strings.Join(names, " -> ")
}

// Unwrap returns ErrProfileCycle for errors.Is() compatibility.
func (e *ProfileCycleError) Unwrap() error { return ErrProfileCycle }

// ResolveProfile flattens the source_profile chain starting at name. Fields
// set on a profile win over those it inherits. A missing DefaultProfile yields
// an empty profile; any other missing name is an error.
func (c *Config) ResolveProfile(name ProfileName) (ProfileConfig, error) {
	var (
		chain   []ProfileConfig
		visited []ProfileName
		prev    ProfileName
	)
	for cur := name; cur != ""; {
		for _, seen := range visited {
			if seen == cur {
				return ProfileConfig{}, &ProfileCycleError{Chain: append(visited, cur)}
			}
		}
		p, ok := c.Profiles[string(cur)]
		if !ok {
			if cur == DefaultProfile && prev == "" {
				return ProfileConfig{}, nil
			}
			return ProfileConfig{}, &ProfileNotFoundError{Name: cur, ReferencedBy: prev}
		}
		visited = append(visited, cur)
		chain = append(chain, p)
		prev, cur = cur, p.SourceProfile
	}

	var merged ProfileConfig
	for i := len(chain) - 1; i >= 0; i-- {
		merged = overlayProfile(merged, chain[i])
	}
	merged.SourceProfile = ""
	return merged, nil
}

func overlayProfile(base, top ProfileConfig) ProfileConfig {
	if top.APIKey != "" {
		base.APIKey = top.APIKey
	}
	if top.Description != "" {
		base.Description = top.Description
	}
	if top.Project != "" {
		base.Project = top.Project
	}
	if top.Environment != "" {
		base.Environment = top.Environment
	}
	if top.ServerURL != "" {
		base.ServerURL = top.ServerURL
	}
	if top.RequestTimeout != 0 {
		base.RequestTimeout = top.RequestTimeout
	}
	return base
}

// settingsMap returns the non-empty profile fields keyed like Settings.
func (p ProfileConfig) settingsMap() map[string]any {
	m := make(map[string]any)
	if p.APIKey != "" {
		m["api_key"] = p.APIKey
	}
	if p.Project != "" {
		m["project"] = p.Project
	}
	if p.Environment != "" {
		m["environment"] = p.Environment
	}
	if p.ServerURL != "" {
		m["server_url"] = string(p.ServerURL)
	}
	if p.RequestTimeout != 0 {
		m["request_timeout"] = p.RequestTimeout
	}
	return m
}
