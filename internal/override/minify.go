package override

import (
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Override templates are authored with indentation and newlines for
// readability, but the rendered value lands inline in a document. One shared
// minifier serves every Renderer.
var htmlMin = sync.OnceValue(func() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	return m
})

// compact collapses template formatting out of rendered output. Markup goes
// through the HTML minifier; plain text just gets its whitespace runs
// folded. A value the minifier cannot parse is returned as rendered.
func compact(rendered string) string {
	if !strings.Contains(rendered, "<") {
		return strings.Join(strings.Fields(rendered), " ")
	}
	out, err := htmlMin().String("text/html", rendered)
	if err != nil {
		return rendered
	}
	return out
}
