package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/message"
)

type fakeLocalizer struct {
	value string
}

func (f fakeLocalizer) Sprintf(key message.Reference, args ...any) string {
	return f.value
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestTranslateFallback(t *testing.T) {
	if T(nil, "hello") != "hello" {
		t.Fatal("expected key fallback")
	}

	if T(nil, message.Reference(123)) != "" {
		t.Fatal("expected empty string for non-string key")
	}
}

func TestTranslateLocalizer(t *testing.T) {
	loc := fakeLocalizer{value: "translated"}
	if T(loc, "hello") != "translated" {
		t.Fatal("expected translated value")
	}
}

func TestPageTitle(t *testing.T) {
	if got := PageTitle(nil, "title.members"); got != "title.members | Paydesk" {
		t.Fatalf("PageTitle = %q", got)
	}
	if got := PageTitle(fakeLocalizer{}, "title.members"); got != AppName {
		t.Fatalf("PageTitle empty = %q, want %q", got, AppName)
	}
}
