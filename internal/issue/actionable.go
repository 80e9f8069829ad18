// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// maxChainDepth bounds the verbose error chain.
const maxChainDepth = 16

type (
	// ActionableError is what the CLI prints when a run fails: the step that
	// failed, the project, environment or program it concerned, hints for
	// fixing it and, optionally, a catalog entry with a longer guide.
	//
	//	failed to <Operation>[: <Resource>][: <Cause>]
	//	  • <Suggestion>
	//
	//	  [CT-000N] run with --verbose for a remediation guide
	ActionableError struct {
		Operation   string
		Resource    string
		Suggestions []string
		Cause       error
		Issue       Id
	}

	// ErrorContext assembles an ActionableError step by step, so a caller can
	// pick the operation after it has classified the cause.
	//
	//	err := issue.NewErrorContext().
	//		WithIssue(issue.StrictConflictId).
	//		Wrap(cause).
	//		WithOperation("compose environment").
	//		WithSuggestion("Settle the value with --set FOO=...").
	//		BuildError()
	ErrorContext struct {
		err ActionableError
	}
)

func (e *ActionableError) Error() string {
	parts := make([]string, 0, 3)
	parts = append(parts, "failed to "+e.Operation)
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error { return e.Cause }

// Format renders the error for the terminal. Verbose output adds the chain of
// causes, one per line.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range e.Suggestions {
			sb.WriteString("\n  • " + s)
		}
	}
	if e.Issue != 0 {
		fmt.Fprintf(&sb, "\n\n  [%s] run with --verbose for a remediation guide", e.Issue)
	}
	if verbose {
		if chain := causeChain(e.Cause); len(chain) > 0 {
			sb.WriteString("\n\nError chain:")
			for i, msg := range chain {
				fmt.Fprintf(&sb, "\n  %d. %s", i+1, msg)
			}
		}
	}
	return sb.String()
}

// Guide returns the linked catalog entry, or nil.
func (e *ActionableError) Guide() *Issue {
	if e.Issue == 0 {
		return nil
	}
	return Get(e.Issue)
}

// causeChain lists the messages from err down to its root cause. Errors that
// unwrap to several errors put their sentinels first and the cause last, so
// the walk follows the last one. Entries that repeat the previous message are
// dropped.
func causeChain(err error) []string {
	var chain []string
	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		msg := err.Error()
		if len(chain) == 0 || chain[len(chain)-1] != msg {
			chain = append(chain, msg)
		}
		err = nextCause(err)
	}
	return chain
}

func nextCause(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		errs := u.Unwrap()
		if len(errs) == 0 {
			return nil
		}
		return errs[len(errs)-1]
	default:
		return nil
	}
}

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WithOperation names the failed step as a verb phrase ("look up project").
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s)
	return c
}

func (c *ErrorContext) WithSuggestions(s ...string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s...)
	return c
}

// WithIssue links a catalog entry. The zero Id links none.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.Issue = id
	return c
}

func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns a copy of the assembled error, or nil when no operation was
// set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = slices.Clone(c.err.Suggestions)
	return &ae
}

// BuildError is Build for return statements: it never yields a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
