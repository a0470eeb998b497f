package blockweave

import (
	"context"
	"strings"
	"testing"
)

func TestBeforeSaveConvertsCollidingName(t *testing.T) {
	st := newMemStore()
	st.enable("body")
	st.put("docA", "body", "", "start_greeting\nHi from A\nstop_greeting")
	e := newTestEngine(t, WithStore(st))

	text := "intro\nstart_greeting\nHi from B\nstop_greeting\noutro"
	out, changed, warnings, err := e.BeforeSave(context.Background(), "docB", nil, text)
	if err != nil {
		t.Fatal(err)
	}

	if !changed {
		t.Fatal("collision should mark the text changed")
	}
	if !strings.Contains(out, "start__greeting") || !strings.Contains(out, "stop__greeting") {
		t.Errorf("markers not converted to multi form: %q", out)
	}
	if strings.Contains(out, "start_greeting\n") {
		t.Errorf("single-value start marker survived: %q", out)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want exactly 1", len(warnings))
	}
	w := warnings[0]
	if w.Name != "greeting" || w.OldTag != "start_greeting" || w.NewTag != "start__greeting" {
		t.Errorf("warning = %+v", w)
	}
}

func TestBeforeSaveIgnoresOwnDocument(t *testing.T) {
	st := newMemStore()
	st.enable("body")
	st.put("docA", "body", "", "start_greeting\nHi\nstop_greeting")
	e := newTestEngine(t, WithStore(st))

	text := "start_greeting\nHi edited\nstop_greeting"
	out, changed, warnings, err := e.BeforeSave(context.Background(), "docA", nil, text)
	if err != nil {
		t.Fatal(err)
	}
	if changed || len(warnings) != 0 {
		t.Errorf("re-saving the defining document must not convert: changed=%v warnings=%v", changed, warnings)
	}
	if out != text {
		t.Errorf("text modified: %q", out)
	}
}

func TestBeforeSaveLeavesUniqueNamesAlone(t *testing.T) {
	st := newMemStore()
	st.enable("body")
	st.put("docA", "body", "", "start_other\nsomething else\nstop_other")
	e := newTestEngine(t, WithStore(st))

	text := "start_fresh\nbrand new\nstop_fresh"
	out, changed, warnings, err := e.BeforeSave(context.Background(), "docB", nil, text)
	if err != nil {
		t.Fatal(err)
	}
	if changed || len(warnings) != 0 || out != text {
		t.Errorf("unique name must save untouched: changed=%v out=%q", changed, out)
	}
}

func TestBeforeSaveIgnoresLongerNameSharingPrefix(t *testing.T) {
	st := newMemStore()
	st.enable("body")
	// "start_greetings" contains the substring "start_greet", so the corpus
	// search shortlists docA; only real extraction decides the collision.
	st.put("docA", "body", "", "start_greetings\nlong form\nstop_greetings")
	e := newTestEngine(t, WithStore(st))

	text := "start_greet\nshort form\nstop_greet"
	out, changed, warnings, err := e.BeforeSave(context.Background(), "docB", nil, text)
	if err != nil {
		t.Fatal(err)
	}
	if changed || len(warnings) != 0 || out != text {
		t.Errorf("prefix-sharing name must not convert: changed=%v warnings=%v out=%q", changed, warnings, out)
	}
}

func TestBeforeSaveIgnoresTagMentionedInProse(t *testing.T) {
	st := newMemStore()
	st.enable("body")
	// docA mentions the tag in running text but never defines the block.
	st.put("docA", "body", "", "the start_note marker opens a definition")
	e := newTestEngine(t, WithStore(st))

	text := "start_note\nactual content\nstop_note"
	out, changed, warnings, err := e.BeforeSave(context.Background(), "docB", nil, text)
	if err != nil {
		t.Fatal(err)
	}
	if changed || len(warnings) != 0 || out != text {
		t.Errorf("prose mention must not convert: changed=%v warnings=%v out=%q", changed, warnings, out)
	}
}

func TestBeforeSaveSkipsMultiValueNames(t *testing.T) {
	st := newMemStore()
	st.enable("body")
	st.put("docA", "body", "", "start__tip\nexisting\nstop__tip")
	e := newTestEngine(t, WithStore(st))

	text := "start__tip\nanother\nstop__tip"
	out, changed, warnings, err := e.BeforeSave(context.Background(), "docB", nil, text)
	if err != nil {
		t.Fatal(err)
	}
	if changed || len(warnings) != 0 || out != text {
		t.Error("multi-value definitions are allowed to repeat across documents")
	}
}

func TestBeforeSaveNoMarkersFastPath(t *testing.T) {
	st := newMemStore()
	e := newTestEngine(t, WithStore(st))

	text := "plain prose, nothing to validate"
	out, changed, warnings, err := e.BeforeSave(context.Background(), "doc", nil, text)
	if err != nil {
		t.Fatal(err)
	}
	if changed || len(warnings) != 0 || out != text {
		t.Error("marker-free text must pass through untouched")
	}
	if st.findCalls != 0 {
		t.Errorf("corpus queried %d times for marker-free text", st.findCalls)
	}
}

func TestBeforeSaveConvertsWrappedMarkers(t *testing.T) {
	st := newMemStore()
	st.enable("body")
	st.put("docA", "body", "", "start_promo\nexisting\nstop_promo")
	e := newTestEngine(t, WithStore(st))

	text := "<p>start_promo</p>\nnew one\n<p>stop_promo</p>"
	out, changed, _, err := e.BeforeSave(context.Background(), "docB", nil, text)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("wrapped markers should still be converted")
	}
	if out != "<p>start__promo</p>\nnew one\n<p>stop__promo</p>" {
		t.Errorf("converted text = %q, wrapper markup must be preserved", out)
	}
}
