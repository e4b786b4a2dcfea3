package escape_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-htmlkit/pkg/escape"
)

func TestModeApply(t *testing.T) {
	cases := []struct {
		name  string
		mode  escape.Mode
		input string
		want  string
	}{
		{name: "html escapes markup", mode: escape.HTML, input: `<b>"Ada" & co</b>`, want: "&lt;b&gt;&#34;Ada&#34; &amp; co&lt;/b&gt;"},
		{name: "none passes through", mode: escape.None, input: "<b>Ada</b>", want: "<b>Ada</b>"},
		{name: "sanitize keeps safe markup", mode: escape.Sanitize, input: "<b>Ada</b>", want: "<b>Ada</b>"},
		{name: "sanitize strips scripts", mode: escape.Sanitize, input: `<b>Ada</b><script>alert(1)</script>`, want: "<b>Ada</b>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.mode.Apply(tc.input); got != tc.want {
				t.Fatalf("Apply(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeLinks(t *testing.T) {
	got := escape.Sanitize.Apply(`<a href="https://example.com" onclick="x()">site</a>`)
	if strings.Contains(got, "onclick") {
		t.Fatalf("expected event handler to be stripped, got %q", got)
	}
	if !strings.Contains(got, "nofollow") {
		t.Fatalf("expected nofollow on links, got %q", got)
	}
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]escape.Mode{
		"":         escape.HTML,
		"HTML":     escape.HTML,
		"raw":      escape.None,
		"sanitize": escape.Sanitize,
	} {
		got, err := escape.ParseMode(raw)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := escape.ParseMode("bogus"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
