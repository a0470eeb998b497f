package blockweave

import (
	"context"
	"errors"

	"golang.org/x/text/language"
)

// Selector narrows a corpus search to documents whose listed fields contain
// a literal substring. IncludeHidden bypasses the default listing
// visibility filter so blocks defined on unpublished documents are still
// found; per-document viewability is checked separately by the caller.
type Selector struct {
	Fields        []string
	Contains      string
	IncludeHidden bool
}

// Document is one corpus entry as seen by the engine. FieldValue resolves a
// field under a language context, falling back to the field's unlocalized
// value when no localized one exists. SetFieldValue is only ever called on
// the document currently being saved, by the uniqueness validator.
type Document interface {
	ID() string
	Viewable() bool
	FieldValue(field string, lang language.Tag) (string, error)
	SetFieldValue(field, value string) error
}

// Store is the storage collaborator the resolver and validator query. The
// engine never defines retry or timeout policy for these calls; that is the
// store's own contract.
type Store interface {
	// FieldsWithCapability lists the fields that have block handling
	// enabled, identified by a capability tag.
	FieldsWithCapability(ctx context.Context, capability string) ([]string, error)

	// FindDocuments returns every document matching the selector.
	FindDocuments(ctx context.Context, sel Selector) ([]Document, error)
}

// ErrNoOverride is returned by an OverrideRenderer when no template exists
// for the requested block name; the resolver then returns the plain value.
var ErrNoOverride = errors.New("blockweave: no template override")

// OverrideRenderer re-renders a resolved block value through an external,
// per-block-name template before it is returned to the caller.
type OverrideRenderer interface {
	Render(name, value string) (string, error)
}
