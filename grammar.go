package blockweave

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/html/atom"
)

// Grammar holds the four configurable marker words that delimit and
// reference blocks inside document text. A definition looks like
// "start_name ... stop_name", a reference like "show_name". Doubling the
// separator ("start__name") marks the multi-value form.
type Grammar struct {
	Start string `validate:"required,alphanum"`
	Stop  string `validate:"required,alphanum"`
	Show  string `validate:"required,alphanum"`
	Sep   string `validate:"required,len=1,oneof=_ - . :"`
}

// DefaultGrammar returns the stock marker words.
func DefaultGrammar() Grammar {
	return Grammar{
		Start: "start",
		Stop:  "stop",
		Show:  "show",
		Sep:   "_",
	}
}

var grammarValidate = validator.New()

// Validate rejects grammars whose words are empty, use characters outside
// the marker charset, or collide with each other. Rendering with an invalid
// grammar has undefined matching behavior, so this must be checked when the
// configuration is saved, not at render time.
func (g Grammar) Validate() error {
	if err := grammarValidate.Struct(g); err != nil {
		return fmt.Errorf("invalid grammar: %w", err)
	}

	words := map[string]string{"start": g.Start, "stop": g.Stop, "show": g.Show, "sep": g.Sep}
	seen := make(map[string]string, len(words))
	for role, word := range words {
		lower := strings.ToLower(word)
		if prev, dup := seen[lower]; dup {
			return fmt.Errorf("invalid grammar: %s word %q collides with %s word", role, word, prev)
		}
		seen[lower] = role
	}
	return nil
}

// nameCharset is the allowed block-name alphabet. Names are sanitized to
// this set before any pattern is built from them.
var nameCharset = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SanitizeName strips every character outside the block-name alphabet.
func SanitizeName(name string) string {
	return nameCharset.ReplaceAllString(name, "")
}

// wrapperTags are the inline and paragraph-level elements a rich editor may
// wrap around a marker that sits on its own line. The grammar tolerates one
// of these (opening or closing), plain whitespace, or a string edge on
// either side of every marker.
var wrapperTags = []atom.Atom{
	atom.P, atom.Div, atom.Span, atom.Li, atom.Td,
	atom.Em, atom.Strong, atom.B, atom.I, atom.Br,
	atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
}

func wrapperTagAlternation() string {
	names := make([]string, len(wrapperTags))
	for i, a := range wrapperTags {
		names[i] = a.String()
	}
	return strings.Join(names, "|")
}

// marker context: a marker counts only when bounded by a wrapper tag,
// whitespace, or the edge of the string. Both groups are capturing so a
// rewrite can preserve what surrounded the original token.
func markerContext() (pre, post string) {
	alt := wrapperTagAlternation()
	pre = `(^|\s|</?(?:` + alt + `)(?:\s[^>]*)?>)`
	post = `(</?(?:` + alt + `)(?:\s[^>]*)?>|\s|$)`
	return pre, post
}

// StartPattern matches any start marker. Submatches: leading context,
// separator group (single or doubled), block name, trailing context.
func (g Grammar) StartPattern() *regexp.Regexp {
	return g.markerPattern(g.Start, `[A-Za-z0-9_]+`)
}

// StopPattern matches any stop marker, in either separator form. Submatch
// layout mirrors StartPattern; the caller pairs captured names with the
// start marker it is closing.
func (g Grammar) StopPattern() *regexp.Regexp {
	return g.markerPattern(g.Stop, `[A-Za-z0-9_]+`)
}

// ShowPattern matches any show marker. Submatch layout mirrors StartPattern.
func (g Grammar) ShowPattern() *regexp.Regexp {
	return g.markerPattern(g.Show, `[A-Za-z0-9_]+`)
}

func (g Grammar) markerPattern(word, nameExpr string) *regexp.Regexp {
	pre, post := markerContext()
	sep := regexp.QuoteMeta(g.Sep)
	expr := `(?i)` + pre + regexp.QuoteMeta(word) + `(` + sep + `{1,2})(` + nameExpr + `)` + post
	return regexp.MustCompile(expr)
}

// TokenPattern matches one exact single-value marker token (word + single
// separator + name) as a whole token. The uniqueness validator uses it to
// rewrite colliding definitions into the doubled form.
func (g Grammar) TokenPattern(word, name string) *regexp.Regexp {
	pre, post := markerContext()
	expr := `(?i)` + pre + regexp.QuoteMeta(word+g.Sep+name) + post
	return regexp.MustCompile(expr)
}

// StartTag returns the literal start-marker prefix for a name, used both as
// the corpus-search substring and as the collision probe.
func (g Grammar) StartTag(name string, multi bool) string {
	tag := g.Start + g.Sep
	if multi {
		tag += g.Sep
	}
	return tag + name
}

// MultiSep reports whether a captured separator group is the doubled form.
func (g Grammar) MultiSep(sep string) bool {
	return sep == g.Sep+g.Sep
}

// MultiKey decorates a block name with the multi-value suffix used as its
// block-map key.
func (g Grammar) MultiKey(name string) string {
	return name + g.Sep
}

// HasStartMarker is the cheap probe run before any pattern matching: a
// document without the literal start prefix cannot define blocks.
func (g Grammar) HasStartMarker(text string) bool {
	return containsFold(text, g.Start+g.Sep)
}

// HasShowMarker probes for show references the same way.
func (g Grammar) HasShowMarker(text string) bool {
	return containsFold(text, g.Show+g.Sep)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
