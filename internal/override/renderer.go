// Package override renders resolved block values through optional per-name
// template files, keeping the resolver itself free of file-system concerns.
package override

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/blockweave/blockweave"
)

// Renderer looks up "<name>.tmpl" files in a directory. A missing file
// means no override for that block, which is the common case.
type Renderer struct {
	dir    string
	minify bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMinify enables HTML minification of rendered output.
func WithMinify() RendererOption {
	return func(r *Renderer) { r.minify = true }
}

// New creates a Renderer over dir.
func New(dir string, opts ...RendererOption) *Renderer {
	r := &Renderer{dir: dir}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Data is what an override template executes against.
type Data struct {
	Name  string
	Value string
}

// Render executes the override template for a block name, or returns
// ErrNoOverride when none exists. Names are sanitized before touching the
// file system; block names come from untrusted document text.
func (r *Renderer) Render(name, value string) (string, error) {
	name = blockweave.SanitizeName(name)
	if r.dir == "" || name == "" {
		return "", blockweave.ErrNoOverride
	}

	path := filepath.Join(r.dir, name+".tmpl")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", blockweave.ErrNoOverride
	}
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, Data{Name: name, Value: value}); err != nil {
		return "", err
	}

	out := buf.String()
	if r.minify {
		out = compact(out)
	}
	return out, nil
}
