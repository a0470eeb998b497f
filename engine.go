package blockweave

import (
	"context"
	"io"
	"log"
	"regexp"

	"golang.org/x/text/language"
)

// DefaultCapability is the capability tag fields declare to opt into block
// handling.
const DefaultCapability = "blocks"

// Engine is the block extraction, validation and substitution engine. It is
// stateless across calls apart from its grammar configuration, so one
// instance can serve any number of concurrent renders as long as each
// render uses its own RenderScope.
type Engine struct {
	grammar     Grammar
	store       Store
	overrides   OverrideRenderer
	defaultLang language.Tag
	capability  string
	logger      *log.Logger

	startRe *regexp.Regexp
	stopRe  *regexp.Regexp
	showRe  *regexp.Regexp
}

// Option configures an Engine instance.
type Option func(*Engine) error

// New creates an Engine. The grammar is validated up front; an invalid
// grammar is a configuration error, never something to discover mid-render.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		grammar:     DefaultGrammar(),
		defaultLang: language.English,
		capability:  DefaultCapability,
		logger:      log.New(io.Discard, "", log.LstdFlags),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if err := e.grammar.Validate(); err != nil {
		return nil, err
	}
	e.startRe = e.grammar.StartPattern()
	e.stopRe = e.grammar.StopPattern()
	e.showRe = e.grammar.ShowPattern()
	return e, nil
}

// WithGrammar replaces the default marker words.
func WithGrammar(g Grammar) Option {
	return func(e *Engine) error {
		e.grammar = g
		return nil
	}
}

// WithStore sets the storage collaborator queried by the resolver and the
// uniqueness validator. Without one, every lookup resolves empty.
func WithStore(s Store) Option {
	return func(e *Engine) error {
		e.store = s
		return nil
	}
}

// WithOverrideRenderer sets the external per-block template renderer.
func WithOverrideRenderer(r OverrideRenderer) Option {
	return func(e *Engine) error {
		e.overrides = r
		return nil
	}
}

// WithDefaultLanguage sets the language lookups fall back to when the
// active language yields nothing.
func WithDefaultLanguage(tag language.Tag) Option {
	return func(e *Engine) error {
		e.defaultLang = tag
		return nil
	}
}

// WithCapability sets the capability tag used to discover block-bearing
// fields.
func WithCapability(tag string) Option {
	return func(e *Engine) error {
		e.capability = tag
		return nil
	}
}

// WithLogger sets the logger used for collision warnings and per-reference
// resolution failures. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// Grammar returns the engine's marker configuration.
func (e *Engine) Grammar() Grammar { return e.grammar }

// RenderScope carries per-render state through one logical formatting call:
// the reentrancy guard and the active language. It must belong to exactly
// one request or render; sharing a scope across concurrent renders would
// make the guard lie.
type RenderScope struct {
	Lang language.Tag

	formatting bool
}

// NewRenderScope returns a scope rendering under the given language.
func NewRenderScope(lang language.Tag) *RenderScope {
	return &RenderScope{Lang: lang}
}

// FormatDocumentText runs the full render pipeline over one field value:
// strip definition markers in place, resolve show references, strip HTML
// comments. If the scope is already formatting — a resolved block pulled
// the host back into the pipeline — the text is returned untouched, which
// is what bounds recursion: nested references are left literal rather than
// expanded.
func (e *Engine) FormatDocumentText(ctx context.Context, scope *RenderScope, text string) string {
	if scope == nil {
		scope = NewRenderScope(e.defaultLang)
	}
	if scope.formatting {
		return text
	}
	scope.formatting = true
	defer func() { scope.formatting = false }()

	if e.grammar.HasStartMarker(text) {
		// Definitions not already stripped at save time are stripped here;
		// the map itself is not needed during rendering.
		_, text = e.Extract(text, true)
	}
	if e.grammar.HasShowMarker(text) {
		text = e.Substitute(text, func(name string, multi bool) (string, error) {
			return e.resolveJoined(ctx, name, ResolveOptions{
				Multi: multi,
				Lang:  scope.Lang,
			})
		})
	}
	return StripComments(text)
}
