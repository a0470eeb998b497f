package blockweave

import (
	"context"
	"strings"
)

// Warning reports one block name that was converted from single-value to
// multi-value form because another document already defines it.
type Warning struct {
	Name   string
	OldTag string
	NewTag string
}

func (w Warning) String() string {
	return "block " + w.Name + " is already defined elsewhere; converted " +
		w.OldTag + " to " + w.NewTag
}

// BeforeSave checks a field value about to be persisted for block names
// that already exist on other documents. Collisions are not rejected:
// the colliding definition is rewritten into the multi-value form, which is
// always a safe superset of the single-value one, and a warning is reported
// so the author learns the new tag. The caller persists the returned text
// when changed is true.
//
// Concurrent saves of the same colliding name can both pass the probe; that
// narrow window is an accepted weak-consistency tradeoff, not something the
// engine serializes.
func (e *Engine) BeforeSave(ctx context.Context, docID string, fields []string, text string) (out string, changed bool, warnings []Warning, err error) {
	out = text
	if e.store == nil || !e.grammar.HasStartMarker(text) {
		return out, false, nil, nil
	}

	blocks, _ := e.Extract(text, false)
	for _, key := range blocks.Keys() {
		if strings.HasSuffix(key, e.grammar.Sep) {
			continue // already multi-value
		}
		name := key
		taken, probeErr := e.nameTakenElsewhere(ctx, docID, fields, name)
		if probeErr != nil {
			return text, false, warnings, probeErr
		}
		if !taken {
			continue
		}

		out = e.rewriteToMulti(out, name)
		changed = true
		w := Warning{
			Name:   name,
			OldTag: e.grammar.StartTag(name, false),
			NewTag: e.grammar.StartTag(name, true),
		}
		warnings = append(warnings, w)
		e.logger.Printf("blockweave: %s", w)
	}
	return out, changed, warnings, nil
}

// nameTakenElsewhere reports whether any other document already defines the
// single-value block for name. The substring search only shortlists
// candidates; a candidate counts only when extraction over its in-scope
// fields really yields the name, so a longer name sharing the same tag
// prefix, or the tag appearing as prose, never triggers a conversion.
func (e *Engine) nameTakenElsewhere(ctx context.Context, docID string, fields []string, name string) (bool, error) {
	if len(fields) == 0 {
		var err error
		fields, err = e.store.FieldsWithCapability(ctx, e.capability)
		if err != nil {
			return false, err
		}
	}
	if len(fields) == 0 {
		return false, nil
	}
	docs, err := e.store.FindDocuments(ctx, Selector{
		Fields:        fields,
		Contains:      e.grammar.StartTag(name, false),
		IncludeHidden: true,
	})
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if doc.ID() == docID {
			continue
		}
		for _, field := range fields {
			raw, err := doc.FieldValue(field, e.defaultLang)
			if err != nil {
				return false, err
			}
			blocks, _ := e.Extract(raw, false)
			if _, ok := blocks.Get(name); ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// rewriteToMulti converts every whole-token start and stop marker for name
// into the doubled-separator form, preserving whatever markup or whitespace
// bounded the token.
func (e *Engine) rewriteToMulti(text, name string) string {
	for _, word := range []string{e.grammar.Start, e.grammar.Stop} {
		re := e.grammar.TokenPattern(word, name)
		replacement := "${1}" + word + e.grammar.Sep + e.grammar.Sep + name + "${2}"
		text = re.ReplaceAllString(text, replacement)
	}
	return text
}
