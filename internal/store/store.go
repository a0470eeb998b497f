// Package store is the SQLite-backed document corpus the engine resolves
// blocks against. Schema changes go through embedded goose migrations.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/blockweave/blockweave"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store holds the corpus database connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the corpus database at path. Use ":memory:" for
// an ephemeral corpus in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// The modernc driver serializes access through a single connection.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Migrate brings the schema up to date.
func (s *Store) Migrate() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateDocument inserts or replaces a corpus document.
func (s *Store) CreateDocument(ctx context.Context, id string, published, viewable bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, published, viewable) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET published = excluded.published, viewable = excluded.viewable`,
		id, boolInt(published), boolInt(viewable))
	if err != nil {
		return fmt.Errorf("failed to create document %s: %w", id, err)
	}
	return nil
}

// SetField upserts one field value under a language key. An empty lang is
// the unlocalized value other languages fall back to.
func (s *Store) SetField(ctx context.Context, docID, field, lang, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fields (doc_id, name, lang, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(doc_id, name, lang) DO UPDATE SET value = excluded.value`,
		docID, field, lang, value)
	if err != nil {
		return fmt.Errorf("failed to set field %s.%s: %w", docID, field, err)
	}
	return nil
}

// GetField reads one field value by exact language key.
func (s *Store) GetField(ctx context.Context, docID, field, lang string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM fields WHERE doc_id = ? AND name = ? AND lang = ?`,
		docID, field, lang).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get field %s.%s: %w", docID, field, err)
	}
	return value, nil
}

// Document loads one document by id.
func (s *Store) Document(ctx context.Context, id string) (blockweave.Document, error) {
	doc := &document{store: s, id: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT published, viewable FROM documents WHERE id = ?`, id).
		Scan(&doc.published, &doc.viewable)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return doc, nil
}

// EnableField declares a capability on a field.
func (s *Store) EnableField(ctx context.Context, field, capability string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO field_capabilities (field_name, capability) VALUES (?, ?)
		 ON CONFLICT(field_name, capability) DO NOTHING`,
		field, capability)
	if err != nil {
		return fmt.Errorf("failed to enable field %s: %w", field, err)
	}
	return nil
}

// DisableField removes a capability from a field.
func (s *Store) DisableField(ctx context.Context, field, capability string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM field_capabilities WHERE field_name = ? AND capability = ?`,
		field, capability)
	if err != nil {
		return fmt.Errorf("failed to disable field %s: %w", field, err)
	}
	return nil
}

// FieldsWithCapability lists the fields carrying a capability tag.
func (s *Store) FieldsWithCapability(ctx context.Context, capability string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT field_name FROM field_capabilities WHERE capability = ? ORDER BY field_name`,
		capability)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	var fields []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// FindDocuments returns documents whose selected fields contain the
// selector substring, in id order. Without IncludeHidden only published
// documents are returned; the per-document viewable predicate is left to
// the caller either way.
func (s *Store) FindDocuments(ctx context.Context, sel blockweave.Selector) ([]blockweave.Document, error) {
	if len(sel.Fields) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(sel.Fields))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT DISTINCT d.id, d.published, d.viewable
		FROM documents d JOIN fields f ON f.doc_id = d.id
		WHERE f.name IN (` + placeholders + `)
		  AND f.value LIKE '%' || ? || '%' ESCAPE '\'`
	if !sel.IncludeHidden {
		query += ` AND d.published = 1`
	}
	query += ` ORDER BY d.id`

	args := make([]any, 0, len(sel.Fields)+1)
	for _, f := range sel.Fields {
		args = append(args, f)
	}
	args = append(args, escapeLike(sel.Contains))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	defer rows.Close()

	var docs []blockweave.Document
	for rows.Next() {
		doc := &document{store: s}
		if err := rows.Scan(&doc.id, &doc.published, &doc.viewable); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// escapeLike escapes LIKE wildcards in a literal substring. The separator
// word is usually "_", which LIKE would otherwise treat as a single-char
// wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
