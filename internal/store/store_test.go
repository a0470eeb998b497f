package store

import (
	"context"
	"testing"

	"golang.org/x/text/language"

	"github.com/blockweave/blockweave"
)

// newTestStore opens an ephemeral corpus with the schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return s
}

func TestDocumentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateDocument(ctx, "home", true, true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetField(ctx, "home", "body", "", "welcome"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetField(ctx, "home", "body", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "welcome" {
		t.Errorf("GetField = %q", got)
	}

	doc, err := s.Document(ctx, "home")
	if err != nil {
		t.Fatal(err)
	}
	if doc.ID() != "home" || !doc.Viewable() {
		t.Errorf("document = %v %v", doc.ID(), doc.Viewable())
	}
}

func TestFieldValueLanguageFallback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateDocument(ctx, "doc", true, true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetField(ctx, "doc", "body", "", "unlocalized"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetField(ctx, "doc", "body", "de", "lokalisiert"); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Document(ctx, "doc")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		lang language.Tag
		want string
	}{
		{"localized row wins", language.German, "lokalisiert"},
		{"missing language falls back", language.French, "unlocalized"},
		{"zero tag reads unlocalized", language.Tag{}, "unlocalized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.FieldValue("body", tt.lang)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("FieldValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldCapabilities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, f := range []string{"body", "sidebar"} {
		if err := s.EnableField(ctx, f, "blocks"); err != nil {
			t.Fatal(err)
		}
	}

	fields, err := s.FieldsWithCapability(ctx, "blocks")
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 2 || fields[0] != "body" || fields[1] != "sidebar" {
		t.Errorf("fields = %v", fields)
	}

	if err := s.DisableField(ctx, "sidebar", "blocks"); err != nil {
		t.Fatal(err)
	}
	fields, err = s.FieldsWithCapability(ctx, "blocks")
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 1 || fields[0] != "body" {
		t.Errorf("fields after disable = %v", fields)
	}
}

func TestFindDocumentsSubstringAndVisibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []struct {
		id        string
		published bool
		value     string
	}{
		{"published", true, "has start_x marker"},
		{"draft", false, "also has start_x marker"},
		{"unrelated", true, "nothing relevant"},
	}
	for _, d := range seed {
		if err := s.CreateDocument(ctx, d.id, d.published, true); err != nil {
			t.Fatal(err)
		}
		if err := s.SetField(ctx, d.id, "body", "", d.value); err != nil {
			t.Fatal(err)
		}
	}

	sel := blockweave.Selector{Fields: []string{"body"}, Contains: "start_x"}

	visible, err := s.FindDocuments(ctx, sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 || visible[0].ID() != "published" {
		t.Errorf("default listing = %v", ids(visible))
	}

	sel.IncludeHidden = true
	all, err := s.FindDocuments(ctx, sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("with hidden = %v", ids(all))
	}
}

func TestFindDocumentsEscapesLikeWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// "start_x" must not match "startax": the separator is a literal
	// underscore, not a single-character wildcard.
	if err := s.CreateDocument(ctx, "trap", true, true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetField(ctx, "trap", "body", "", "contains startax only"); err != nil {
		t.Fatal(err)
	}

	docs, err := s.FindDocuments(ctx, blockweave.Selector{
		Fields:        []string{"body"},
		Contains:      "start_x",
		IncludeHidden: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("wildcard leak: matched %v", ids(docs))
	}
}

func TestSetFieldValueRewritesUnlocalizedRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateDocument(ctx, "doc", true, true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetField(ctx, "doc", "body", "", "before"); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Document(ctx, "doc")
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.SetFieldValue("body", "after"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetField(ctx, "doc", "body", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "after" {
		t.Errorf("value = %q", got)
	}
}

func ids(docs []blockweave.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID()
	}
	return out
}
