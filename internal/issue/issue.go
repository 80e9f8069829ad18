// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Issue identifiers. The zero Id means "no catalog entry".
const (
	ConfigLoadFailedId Id = iota + 1
	MissingAPIKeyId
	AuthenticationFailedId
	ProjectNotFoundId
	EnvironmentNotFoundId
	ResolutionFailedId
	RequiredParametersMissingId
	StrictConflictId
	InvalidDirectiveId
	CommandNotFoundId
	PermissionDeniedId
)

const docsBase = "https://docs.cloudtruth.com"

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the remediation guide of an issue.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog entry: a Markdown guide plus reference links.
	Issue struct {
		id       Id          // ID used to lookup the issue
		title    string      // one-line summary
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

// String returns the catalog key, e.g. "CT-0008".
func (id Id) String() string { return fmt.Sprintf("CT-%04d", int(id)) }

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the full guide including the "See also" list.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the guide for the terminal using the glamour style at
// stylePath ("dark", "light", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id:    ConfigLoadFailedId,
		title: "The CLI configuration could not be loaded",
		mdMsg: `
# Failed to load configuration!

The profile file could not be read, failed validation, or the selected
profile does not exist.

## Things you can try:
- Show which file is read:
~~~
$ cloudtruth config path
~~~
- Check that every profile only uses the known fields:
  ` + "`api_key`, `description`, `project`, `environment`, `server_url`, `source_profile`, `request_timeout`" + `
- Make sure each ` + "`source_profile`" + ` names an existing profile and that the chain does not loop
- Select a different profile with ` + "`--profile`" + ` or ` + "`CLOUDTRUTH_PROFILE`",
		docLinks: []HttpLink{docsBase},
	}

	missingAPIKeyIssue = &Issue{
		id:    MissingAPIKeyId,
		title: "No API key is configured",
		mdMsg: `
# No API key configured!

Every request to CloudTruth needs an API key.

## Things you can try:
- Export the key for this shell:
~~~
$ export CLOUDTRUTH_API_KEY=...
~~~
- Add ` + "`api_key`" + ` to your profile in ` + "`cli.yml`" + `
- Pass ` + "`--api-key`" + ` for a single invocation`,
		docLinks: []HttpLink{docsBase},
	}

	authenticationFailedIssue = &Issue{
		id:    AuthenticationFailedId,
		title: "The server rejected the API key",
		mdMsg: `
# Authentication failed!

The server answered with 401 or 403.

## Things you can try:
- Check that the key has not been revoked or expired
- Check that ` + "`server_url`" + ` points at the organization the key belongs to
- Inspect the effective settings:
~~~
$ cloudtruth config show
~~~`,
		docLinks: []HttpLink{docsBase},
	}

	projectNotFoundIssue = &Issue{
		id:    ProjectNotFoundId,
		title: "The project does not exist",
		mdMsg: `
# Project not found!

No project with exactly this name is visible to the API key.

## Things you can try:
- Check the spelling; project names are case sensitive
- Pass the project with ` + "`--project`" + ` or ` + "`CLOUDTRUTH_PROJECT`",
		docLinks: []HttpLink{docsBase},
	}

	environmentNotFoundIssue = &Issue{
		id:    EnvironmentNotFoundId,
		title: "The environment does not exist",
		mdMsg: `
# Environment not found!

No environment with exactly this name is visible to the API key.

## Things you can try:
- Check the spelling; environment names are case sensitive
- Pass the environment with ` + "`--env`" + ` or ` + "`CLOUDTRUTH_ENVIRONMENT`",
		docLinks: []HttpLink{docsBase},
	}

	resolutionFailedIssue = &Issue{
		id:    ResolutionFailedId,
		title: "Parameters could not be fetched",
		mdMsg: `
# Parameter resolution failed!

The request for parameter values was rejected or the service could not be
reached. No command was started.

## Things you can try:
- Use either ` + "`--as-of`" + ` or ` + "`--tag`" + `, never both
- Check network access to the configured ` + "`server_url`" + `
- Re-run with ` + "`--verbose`" + ` to see every request`,
		docLinks: []HttpLink{docsBase},
	}

	requiredParametersMissingIssue = &Issue{
		id:    RequiredParametersMissingId,
		title: "No parameter resolved",
		mdMsg: `
# No parameters resolved!

` + "`--require-params`" + ` was given but not a single parameter produced a value.

## Things you can try:
- Check that the project has parameters with values in this environment
- Read the warnings printed above for the individual failures
- Drop ` + "`--require-params`" + ` to run the command anyway`,
		docLinks: []HttpLink{docsBase},
	}

	strictConflictIssue = &Issue{
		id:    StrictConflictId,
		title: "A parameter collides with an inherited variable",
		mdMsg: `
# Strict inheritance conflict!

Under ` + "`--inherit strict`" + ` a parameter may not replace a variable that is
already set in your environment.

## Things you can try:
- Settle the value explicitly with ` + "`--set NAME=value`" + `
- Unset the variable in your shell before running
- Use ` + "`--inherit overlay`" + ` to let parameters win, or ` + "`underlay`" + ` to let the environment win`,
		docLinks: []HttpLink{docsBase},
	}

	invalidDirectiveIssue = &Issue{
		id:    InvalidDirectiveId,
		title: "A --set, --remove or --inherit value is malformed",
		mdMsg: `
# Invalid run option!

## Things you can try:
- Write overrides as ` + "`--set NAME=value`" + `
- Names must be non-empty and may not contain ` + "`=`" + `
- Choose ` + "`--inherit`" + ` from ` + "`none`, `strict`, `overlay`, `underlay`",
		docLinks: []HttpLink{docsBase},
	}

	commandNotFoundIssue = &Issue{
		id:    CommandNotFoundId,
		title: "The command to run was not found",
		mdMsg: `
# Command not found!

The program was looked up on the PATH of the environment handed to it, which
may differ from your shell's PATH.

## Things you can try:
- Check the spelling of the program name
- Pass an absolute path
- Check whether a parameter or ` + "`--set PATH=...`" + ` replaced PATH
- Preview the environment:
~~~
$ cloudtruth run --dry-run -- true
~~~`,
		docLinks: []HttpLink{docsBase},
	}

	permissionDeniedIssue = &Issue{
		id:    PermissionDeniedId,
		title: "The command is not executable",
		mdMsg: `
# Permission denied!

The program exists but could not be executed.

## Things you can try:
- Make it executable:
~~~
$ chmod +x ./your-program
~~~
- Check that the path is not a directory`,
		docLinks: []HttpLink{docsBase},
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():          configLoadFailedIssue,
		missingAPIKeyIssue.Id():             missingAPIKeyIssue,
		authenticationFailedIssue.Id():      authenticationFailedIssue,
		projectNotFoundIssue.Id():           projectNotFoundIssue,
		environmentNotFoundIssue.Id():       environmentNotFoundIssue,
		resolutionFailedIssue.Id():          resolutionFailedIssue,
		requiredParametersMissingIssue.Id(): requiredParametersMissingIssue,
		strictConflictIssue.Id():            strictConflictIssue,
		invalidDirectiveIssue.Id():          invalidDirectiveIssue,
		commandNotFoundIssue.Id():           commandNotFoundIssue,
		permissionDeniedIssue.Id():          permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
