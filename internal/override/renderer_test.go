package override

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blockweave/blockweave"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".tmpl"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRenderAppliesTemplate(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "promo", `<div class="promo">{{.Value}}</div>`)

	got, err := New(dir).Render("promo", "big sale")
	if err != nil {
		t.Fatal(err)
	}
	if got != `<div class="promo">big sale</div>` {
		t.Errorf("rendered = %q", got)
	}
}

func TestRenderMissingTemplateIsErrNoOverride(t *testing.T) {
	_, err := New(t.TempDir()).Render("absent", "value")
	if !errors.Is(err, blockweave.ErrNoOverride) {
		t.Errorf("err = %v, want ErrNoOverride", err)
	}
}

func TestRenderEmptyDirIsErrNoOverride(t *testing.T) {
	_, err := New("").Render("anything", "value")
	if !errors.Is(err, blockweave.ErrNoOverride) {
		t.Errorf("err = %v, want ErrNoOverride", err)
	}
}

func TestRenderSanitizesName(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "safe", `{{.Value}}`)

	// A traversal attempt collapses to a plain name after sanitizing.
	got, err := New(dir).Render("../safe", "x")
	if err != nil {
		t.Fatal(err)
	}
	if got != "x" {
		t.Errorf("rendered = %q", got)
	}
}

func TestRenderMinifiesOutput(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "boxed", "<div>\n  {{.Value}}\n</div>")

	got, err := New(dir, WithMinify()).Render("boxed", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got != "<div>hi</div>" {
		t.Errorf("minified = %q", got)
	}
}

func TestRenderTemplateGetsName(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "label", `{{.Name}}: {{.Value}}`)

	got, err := New(dir).Render("label", "v")
	if err != nil {
		t.Fatal(err)
	}
	if got != "label: v" {
		t.Errorf("rendered = %q", got)
	}
}
