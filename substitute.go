package blockweave

import "strings"

// ResolveFunc supplies the replacement for one show reference. multi is
// true when the reference used the doubled-separator form.
type ResolveFunc func(name string, multi bool) (string, error)

// showMatch is one collected show reference region before any replacement
// runs.
type showMatch struct {
	start int
	end   int
	name  string
	multi bool
}

// Substitute replaces every show reference in text with whatever resolve
// returns for it. References are collected in a single scanning pass first,
// then the regions are replaced in one rebuild. Each distinct reference is
// resolved once and identical references always get the identical
// replacement.
//
// A failed resolution degrades that reference to an empty string and the
// pass continues, so one broken reference never takes down the whole
// document.
func (e *Engine) Substitute(text string, resolve ResolveFunc) string {
	if !e.grammar.HasShowMarker(text) {
		return text
	}

	// Scanning restarts at each match's trailing context rather than after
	// it: a single whitespace character can bound two adjacent markers, so
	// it must stay available as the next marker's leading context. Regions
	// that end up sharing that character are trimmed to stay disjoint.
	var matches []showMatch
	offset, lastEnd := 0, 0
	for offset < len(text) {
		loc := e.showRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		m := showMatch{
			start: offset + loc[0],
			end:   offset + loc[1],
			name:  text[offset+loc[6] : offset+loc[7]],
			multi: e.grammar.MultiSep(text[offset+loc[4] : offset+loc[5]]),
		}
		if m.start < lastEnd {
			m.start = lastEnd
		}
		lastEnd = m.end
		matches = append(matches, m)
		offset += loc[8]
	}
	if len(matches) == 0 {
		return text
	}

	resolved := make(map[string]string)
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		key := strings.ToLower(m.name)
		if m.multi {
			key += e.grammar.Sep
		}
		replacement, ok := resolved[key]
		if !ok {
			var err error
			replacement, err = resolve(m.name, m.multi)
			if err != nil {
				e.logger.Printf("blockweave: resolving %q: %v", m.name, err)
				replacement = ""
			}
			resolved[key] = replacement
		}
		b.WriteString(text[prev:m.start])
		b.WriteString(replacement)
		prev = m.end
	}
	b.WriteString(text[prev:])
	return b.String()
}
