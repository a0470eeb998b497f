package blockweave

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// ResolveOptions narrow a block lookup.
type ResolveOptions struct {
	// Multi selects the doubled-separator form: every definition across the
	// corpus is collected instead of stopping at the first one.
	Multi bool

	// Fields limits the search to specific fields. Empty means every field
	// that declares the engine's capability.
	Fields []string

	// Itemized returns each matched definition separately instead of one
	// newline-joined string.
	Itemized bool

	// Lang is the active language context. The zero tag means the engine's
	// default language.
	Lang language.Tag
}

// GetBlock resolves a single-value block by name and returns its content,
// or an empty string when no definition exists anywhere in the corpus.
func (e *Engine) GetBlock(ctx context.Context, name string, opts ResolveOptions) (string, error) {
	return e.resolveJoined(ctx, name, opts)
}

// GetMultiBlock resolves a multi-value block: every definition found across
// the corpus, newline-joined in candidate order.
func (e *Engine) GetMultiBlock(ctx context.Context, name string, opts ResolveOptions) (string, error) {
	opts.Multi = true
	return e.resolveJoined(ctx, name, opts)
}

// GetBlockItems resolves a block and returns the matched definitions as a
// list, one entry per definition site.
func (e *Engine) GetBlockItems(ctx context.Context, name string, opts ResolveOptions) ([]string, error) {
	opts.Itemized = true
	return e.resolve(ctx, name, opts, false)
}

func (e *Engine) resolveJoined(ctx context.Context, name string, opts ResolveOptions) (string, error) {
	items, err := e.resolve(ctx, name, opts, false)
	if err != nil {
		return "", err
	}
	value := strings.Join(items, "\n")
	if !opts.Itemized {
		value = e.applyOverride(name, value)
	}
	return value, nil
}

// resolve is the corpus search. fellBack guards the one-shot default
// language retry: when the active language finds nothing the whole search
// runs once more under the default language, and never a third time.
func (e *Engine) resolve(ctx context.Context, name string, opts ResolveOptions, fellBack bool) ([]string, error) {
	if e.store == nil {
		return nil, nil
	}
	name = SanitizeName(name)
	if name == "" {
		return nil, nil
	}
	if opts.Lang == (language.Tag{}) {
		opts.Lang = e.defaultLang
	}

	fields := opts.Fields
	if len(fields) == 0 {
		var err error
		fields, err = e.store.FieldsWithCapability(ctx, e.capability)
		if err != nil {
			return nil, err
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}

	// Blocks may live on unpublished or access-restricted documents, so the
	// search includes hidden documents and viewability is checked per
	// candidate instead.
	docs, err := e.store.FindDocuments(ctx, Selector{
		Fields:        fields,
		Contains:      e.grammar.StartTag(name, opts.Multi),
		IncludeHidden: true,
	})
	if err != nil {
		return nil, err
	}

	key := name
	if opts.Multi {
		key = e.grammar.MultiKey(name)
	}

	var items []string
	for _, doc := range docs {
		if !doc.Viewable() {
			continue
		}
		found := false
		for _, field := range fields {
			raw, err := doc.FieldValue(field, opts.Lang)
			if err != nil {
				return nil, err
			}
			blocks, _ := e.Extract(raw, false)
			if content, ok := blocks.Get(key); ok {
				items = append(items, content)
				found = true
			}
		}
		if found && !opts.Multi {
			break
		}
	}

	if len(items) == 0 && !fellBack && opts.Lang != e.defaultLang {
		opts.Lang = e.defaultLang
		return e.resolve(ctx, name, opts, true)
	}
	return items, nil
}

// applyOverride pipes a resolved value through the external template
// override for its block name, when one exists.
func (e *Engine) applyOverride(name, value string) string {
	if e.overrides == nil {
		return value
	}
	rendered, err := e.overrides.Render(name, value)
	if err != nil {
		if !errors.Is(err, ErrNoOverride) {
			e.logger.Printf("blockweave: override for %q: %v", name, err)
		}
		return value
	}
	return rendered
}
