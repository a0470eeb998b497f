package blockweave

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// memStore is an in-memory Store used by the engine tests.
type memStore struct {
	docs      map[string]*memDoc
	caps      map[string][]string
	findCalls int
}

type memDoc struct {
	id        string
	published bool
	viewable  bool
	fields    map[string]map[string]string // field -> lang -> value
}

func newMemStore() *memStore {
	return &memStore{
		docs: make(map[string]*memDoc),
		caps: make(map[string][]string),
	}
}

func (s *memStore) enable(fields ...string) {
	s.caps[DefaultCapability] = append(s.caps[DefaultCapability], fields...)
}

func (s *memStore) put(docID, field, lang, value string) *memDoc {
	doc, ok := s.docs[docID]
	if !ok {
		doc = &memDoc{id: docID, published: true, viewable: true, fields: make(map[string]map[string]string)}
		s.docs[docID] = doc
	}
	if doc.fields[field] == nil {
		doc.fields[field] = make(map[string]string)
	}
	doc.fields[field][lang] = value
	return doc
}

func (s *memStore) raw(docID, field, lang string) string {
	return s.docs[docID].fields[field][lang]
}

func (s *memStore) FieldsWithCapability(_ context.Context, capability string) ([]string, error) {
	fields := append([]string(nil), s.caps[capability]...)
	sort.Strings(fields)
	return fields, nil
}

func (s *memStore) FindDocuments(_ context.Context, sel Selector) ([]Document, error) {
	s.findCalls++

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Document
	for _, id := range ids {
		doc := s.docs[id]
		if !sel.IncludeHidden && !doc.published {
			continue
		}
		if doc.containsIn(sel.Fields, sel.Contains) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (d *memDoc) containsIn(fields []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, field := range fields {
		for _, value := range d.fields[field] {
			if strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
	}
	return false
}

func (d *memDoc) ID() string     { return d.id }
func (d *memDoc) Viewable() bool { return d.viewable }

func (d *memDoc) FieldValue(field string, lang language.Tag) (string, error) {
	langs := d.fields[field]
	if langs == nil {
		return "", nil
	}
	if lang != (language.Tag{}) {
		if v, ok := langs[lang.String()]; ok {
			return v, nil
		}
	}
	return langs[""], nil
}

func (d *memDoc) SetFieldValue(field, value string) error {
	if d.fields[field] == nil {
		d.fields[field] = make(map[string]string)
	}
	d.fields[field][""] = value
	return nil
}
