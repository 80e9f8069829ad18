// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestValues_CoversEveryId(t *testing.T) {
	t.Parallel()

	vals := Values()
	if len(vals) != int(PermissionDeniedId) {
		t.Fatalf("len(Values()) = %d, want %d", len(vals), PermissionDeniedId)
	}
	for i, v := range vals {
		if want := Id(i + 1); v.Id() != want {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), want)
		}
		if v.Title() == "" {
			t.Errorf("%s has no title", v.Id())
		}
		if len(v.DocLinks()) == 0 {
			t.Errorf("%s has no doc links", v.Id())
		}
		if !strings.Contains(string(v.MarkdownMsg()), "# ") {
			t.Errorf("%s guide has no heading", v.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if got := Get(StrictConflictId); got == nil || !strings.Contains(string(got.MarkdownMsg()), "--set NAME=value") {
		t.Errorf("Get(StrictConflictId) = %v", got)
	}
	if Get(0) != nil || Get(999) != nil {
		t.Error("Get() of unknown id should be nil")
	}
}

func TestIdString(t *testing.T) {
	t.Parallel()

	if got := StrictConflictId.String(); got != "CT-0008" {
		t.Errorf("String() = %q, want CT-0008", got)
	}
}

func TestIssue_DocLinksAreCopies(t *testing.T) {
	t.Parallel()

	i := Get(CommandNotFoundId)
	links := i.DocLinks()
	links[0] = "mutated"
	if i.DocLinks()[0] == "mutated" {
		t.Error("DocLinks() exposed internal slice")
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	md := Get(MissingAPIKeyId).Markdown()
	if !strings.Contains(md, "## See also") || !strings.Contains(md, "<"+docsBase+">") {
		t.Errorf("Markdown() missing links section:\n%s", md)
	}
}

type fakeRenderer struct {
	in    string
	style string
	err   error
}

func (f *fakeRenderer) Render(in, style string) (string, error) {
	f.in, f.style = in, style
	return "rendered", f.err
}

func TestIssue_RenderUsesRenderer(t *testing.T) {
	fake := &fakeRenderer{}
	orig := render
	render = fake.Render
	t.Cleanup(func() { render = orig })

	got, err := Get(CommandNotFoundId).Render("notty")
	if err != nil || got != "rendered" {
		t.Fatalf("Render() = %q, %v", got, err)
	}
	if fake.style != "notty" || !strings.Contains(fake.in, "Command not found!") {
		t.Errorf("renderer got style %q input %q", fake.style, fake.in)
	}

	fake.err = errors.New("bad style")
	if _, err := Get(CommandNotFoundId).Render("x"); err == nil {
		t.Error("Render() should surface renderer errors")
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	t.Parallel()

	out, err := Get(StrictConflictId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Strict inheritance conflict") {
		t.Errorf("Render() output missing title:\n%s", out)
	}
}
