package blockweave

import "strings"

// BlockMap is an ordered name-to-content mapping produced by extraction.
// Multi-value entries are keyed under the name plus a trailing separator so
// a single-value and a multi-value block sharing a base name stay distinct.
type BlockMap struct {
	keys   []string
	values map[string]string
}

// NewBlockMap returns an empty map.
func NewBlockMap() *BlockMap {
	return &BlockMap{values: make(map[string]string)}
}

// Len returns the number of entries.
func (m *BlockMap) Len() int { return len(m.keys) }

// Keys returns the entry keys in document order of first occurrence.
func (m *BlockMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get looks up a key case-insensitively. Keys are stored with the casing of
// their first occurrence.
func (m *BlockMap) Get(key string) (string, bool) {
	if v, ok := m.values[key]; ok {
		return v, true
	}
	for k, v := range m.values {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// storedKey returns the casing under which an equivalent key was first
// inserted, or the key itself.
func (m *BlockMap) storedKey(key string) string {
	for _, k := range m.keys {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

// add applies the insertion policy: first occurrence wins for single-value
// entries, repeated multi-value entries concatenate in document order.
func (m *BlockMap) add(key, content string, multi bool) {
	key = m.storedKey(key)
	if prev, ok := m.values[key]; ok {
		if multi {
			m.values[key] = prev + "\n" + content
		}
		return
	}
	m.keys = append(m.keys, key)
	m.values[key] = content
}

// span is one matched definition site: the full marker-to-marker region and
// the inner content it collapses to when stripped.
type span struct {
	text    string
	content string
}

// Extract scans text for start/stop definition regions and returns the
// resulting block map. With strip set, every matched region is replaced in
// the returned text by its inner content, so a block stays visible where it
// was defined while becoming referenceable elsewhere. Without strip the text
// comes back unchanged.
//
// An unterminated start marker is not an error: the marker is skipped and
// its literal text survives untouched.
func (e *Engine) Extract(text string, strip bool) (*BlockMap, string) {
	blocks := NewBlockMap()
	if !e.grammar.HasStartMarker(text) {
		return blocks, text
	}

	var spans []span
	offset := 0
	for offset < len(text) {
		loc := e.startRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		// submatches: 1 leading context, 2 separator, 3 name, 4 trailing context
		sep := text[offset+loc[4] : offset+loc[5]]
		name := text[offset+loc[6] : offset+loc[7]]
		regionStart := offset + loc[0]
		contentStart := offset + loc[1]

		contentEnd, regionEnd := e.findStop(text, contentStart, name)
		if contentEnd < 0 {
			// Unterminated definition, leave it as literal text.
			offset = contentStart
			continue
		}

		multi := e.grammar.MultiSep(sep)
		key := name
		if multi {
			key = e.grammar.MultiKey(name)
		}
		content := strings.TrimSpace(text[contentStart:contentEnd])
		blocks.add(key, content, multi)
		spans = append(spans, span{text: text[regionStart:regionEnd], content: content})
		offset = regionEnd
	}

	if strip {
		for _, s := range spans {
			text = strings.ReplaceAll(text, s.text, s.content)
		}
	}
	return blocks, text
}

// findStop locates the first stop marker for name at or after from, skipping
// stop markers that close other names. It returns the marker's region start
// and end, or -1, -1 when the definition is unterminated. The stop pattern is
// compiled once per engine, not per definition.
func (e *Engine) findStop(text string, from int, name string) (int, int) {
	offset := from
	for offset < len(text) {
		loc := e.stopRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		if strings.EqualFold(text[offset+loc[6]:offset+loc[7]], name) {
			return offset + loc[0], offset + loc[1]
		}
		offset += loc[8]
	}
	return -1, -1
}
