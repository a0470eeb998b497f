package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/text/language"
)

// document is one corpus row projected through the blockweave.Document
// interface.
type document struct {
	store     *Store
	id        string
	published bool
	viewable  bool
}

func (d *document) ID() string { return d.id }

// Viewable is the per-document predicate the resolver checks after the
// listing filter has already been bypassed.
func (d *document) Viewable() bool { return d.viewable }

// FieldValue returns the field value for the requested language, falling
// back to the unlocalized row when no localized one exists.
func (d *document) FieldValue(field string, lang language.Tag) (string, error) {
	key := langKey(lang)
	var value string
	// Non-empty language keys sort after the unlocalized '' row, so DESC
	// prefers the localized value when both exist.
	err := d.store.db.QueryRow(
		`SELECT value FROM fields WHERE doc_id = ? AND name = ? AND lang IN (?, '')
		 ORDER BY lang DESC LIMIT 1`,
		d.id, field, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read field %s.%s: %w", d.id, field, err)
	}
	return value, nil
}

// SetFieldValue rewrites the unlocalized field value. Only the uniqueness
// validator calls this, and only on the document currently being saved.
func (d *document) SetFieldValue(field, value string) error {
	return d.store.SetField(context.Background(), d.id, field, "", value)
}

// langKey maps a language tag to its storage key; the zero tag is the
// unlocalized row.
func langKey(lang language.Tag) string {
	if lang == (language.Tag{}) {
		return ""
	}
	return lang.String()
}
