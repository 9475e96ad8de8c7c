package state

import (
	"reflect"
	"testing"

	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
)

func testOptions() []Option {
	return Candidates([]prefix.Entry{
		{ID: "a", Label: "Formal"},
		{ID: "b", Label: "Casual"},
		{ID: "c", Label: "Pirate Formality"},
	})
}

func TestCandidatesStartWithNoneSentinel(t *testing.T) {
	options := testOptions()
	if len(options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(options))
	}
	if options[0] != (Option{ID: selection.None, Label: NoneLabel}) {
		t.Fatalf("expected none sentinel first, got %#v", options[0])
	}
	if options[1].ID != "a" || options[3].ID != "c" {
		t.Fatalf("expected entries in stored order, got %#v", options)
	}
}

func TestFilterOptionsEmptyQueryReturnsAll(t *testing.T) {
	options := testOptions()
	got := FilterOptions(options, "")
	if !reflect.DeepEqual(got, options) {
		t.Fatalf("expected all options, got %#v", got)
	}
	got[0].Label = "changed"
	if options[0].Label != NoneLabel {
		t.Fatal("expected filter to return a copy")
	}
}

func TestFilterOptionsCaseInsensitiveSubstring(t *testing.T) {
	options := testOptions()
	got := FilterOptions(options, "FORM")
	want := []Option{options[1], options[3]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
	got = FilterOptions(options, "sua")
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only Casual, got %#v", got)
	}
	got = FilterOptions(options, "nO")
	if len(got) != 1 || got[0].ID != selection.None {
		t.Fatalf("expected the none sentinel to match its label, got %#v", got)
	}
}

func TestFilterOptionsNoFuzzyMatching(t *testing.T) {
	got := FilterOptions(testOptions(), "fml")
	if len(got) != 0 {
		t.Fatalf("expected no matches for a non-substring query, got %#v", got)
	}
}

func TestBestMatchIndex(t *testing.T) {
	options := testOptions()
	if idx := BestMatchIndex(options, "casual"); idx != 2 {
		t.Fatalf("expected exact match index 2, got %d", idx)
	}
	if idx := BestMatchIndex(options, "pir"); idx != 3 {
		t.Fatalf("expected prefix match index 3, got %d", idx)
	}
	if idx := BestMatchIndex(options, "frml"); idx != 1 {
		t.Fatalf("expected closest fuzzy match index 1, got %d", idx)
	}
	if idx := BestMatchIndex(options, ""); idx != 0 {
		t.Fatalf("expected 0 for empty query, got %d", idx)
	}
	if idx := BestMatchIndex(nil, "x"); idx != -1 {
		t.Fatalf("expected -1 for no options, got %d", idx)
	}
	if idx := BestMatchIndex([]Option{{ID: selection.None, Label: NoneLabel}}, "zzz"); idx != 0 {
		t.Fatalf("expected sentinel fallback, got %d", idx)
	}
}

func TestSetFilterMovesCursorAndRestores(t *testing.T) {
	l := NewList(testOptions())
	l.Cursor = 2
	l.SetFilter("pir", 3)
	if len(l.Items) != 1 || l.Items[0].ID != "c" {
		t.Fatalf("unexpected filtered items %#v", l.Items)
	}
	if l.Cursor != 0 {
		t.Fatalf("expected cursor on best match, got %d", l.Cursor)
	}
	l.SetFilter("", 0)
	if l.Cursor != 2 {
		t.Fatalf("expected cursor restored to 2, got %d", l.Cursor)
	}
	if l.LastCursor != -1 {
		t.Fatalf("expected last cursor reset, got %d", l.LastCursor)
	}
}

func TestFilterEditing(t *testing.T) {
	l := NewList(testOptions())
	if !l.InsertFilterText("fo") {
		t.Fatal("expected insert")
	}
	l.FilterCursor = 1
	l.InsertFilterText("x")
	if l.Filter != "fxo" || l.FilterCursorPos() != 2 {
		t.Fatalf("unexpected filter state %q/%d", l.Filter, l.FilterCursorPos())
	}
	if !l.DeleteFilterRuneBackward() || l.Filter != "fo" {
		t.Fatalf("expected rune deletion, got %q", l.Filter)
	}
	l.SetFilter("pirate form", len("pirate form"))
	if !l.DeleteFilterWordBackward() || l.Filter != "pirate " {
		t.Fatalf("expected word deletion, got %q", l.Filter)
	}
	if !l.MoveFilterCursorStart() || l.FilterCursorPos() != 0 {
		t.Fatal("expected caret at start")
	}
	if l.DeleteFilterRuneBackward() {
		t.Fatal("expected delete at start to fail")
	}
	if !l.MoveFilterCursorEnd() || l.FilterCursorPos() != len("pirate ") {
		t.Fatal("expected caret at end")
	}
	if !l.ClearFilter() || l.Filter != "" {
		t.Fatal("expected filter cleared")
	}
	if l.ClearFilter() {
		t.Fatal("expected clearing an empty filter to report no change")
	}
}

func TestResetPlacesCursorOnSelection(t *testing.T) {
	l := NewList(testOptions())
	l.SetFilter("cas", 3)
	l.Reset("c")
	if l.Filter != "" || len(l.Items) != 4 {
		t.Fatalf("expected unfiltered list, got %q %#v", l.Filter, l.Items)
	}
	if opt, ok := l.Current(); !ok || opt.ID != "c" {
		t.Fatalf("expected cursor on c, got %#v", opt)
	}
	l.Reset("missing")
	if l.Cursor != 0 {
		t.Fatalf("expected cursor at 0 for unknown id, got %d", l.Cursor)
	}
}

func TestVisibleWindowFollowsCursor(t *testing.T) {
	l := NewList(testOptions())
	l.Cursor = 3
	rows, start := l.Visible(2)
	if len(rows) != 2 || start != 2 || rows[1].ID != "c" {
		t.Fatalf("expected last two rows, got %#v from %d", rows, start)
	}
	l.MoveCursorHome()
	rows, start = l.Visible(2)
	if start != 0 || rows[0].ID != selection.None {
		t.Fatalf("expected window at top, got %#v from %d", rows, start)
	}
	if !l.MoveCursorEnd() || l.Cursor != 3 {
		t.Fatalf("expected cursor at end, got %d", l.Cursor)
	}
	if l.MoveCursor(1) {
		t.Fatal("expected move past end to report no change")
	}
}

func TestLabelFor(t *testing.T) {
	options := testOptions()
	if got := LabelFor(options, "b"); got != "Casual" {
		t.Fatalf("expected Casual, got %q", got)
	}
	if got := LabelFor(options, "deleted"); got != NoneLabel {
		t.Fatalf("expected None for stale id, got %q", got)
	}
}
