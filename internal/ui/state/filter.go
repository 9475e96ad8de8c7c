package state

import "unicode"

// SetFilter replaces the search query and places its caret. A non-empty
// query moves the cursor to the best match; clearing the query restores the
// cursor that was active before searching began.
func (l *List) SetFilter(query string, caret int) {
	wasSearching := l.Filter != ""
	l.Filter = query
	l.FilterCursor = clamp(caret, 0, len([]rune(query)))
	switch {
	case query != "" && !wasSearching:
		l.LastCursor = l.Cursor
	case query == "" && wasSearching:
		restore := l.LastCursor
		l.LastCursor = -1
		l.applyFilter()
		if restore >= 0 && restore < len(l.Items) {
			l.Cursor = restore
		}
		return
	}
	l.applyFilter()
	if query != "" {
		if idx := BestMatchIndex(l.Items, query); idx >= 0 {
			l.Cursor = idx
		}
	}
}

func (l *List) applyFilter() {
	l.Items = FilterOptions(l.Options, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the caret as a rune offset into the query.
func (l *List) FilterCursorPos() int {
	return clamp(l.FilterCursor, 0, len([]rune(l.Filter)))
}

// InsertFilterText inserts text at the caret.
func (l *List) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	l.SetFilter(string(updated), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward removes the rune before the caret.
func (l *List) DeleteFilterRuneBackward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	l.SetFilter(string(runes[:pos-1])+string(runes[pos:]), pos-1)
	return true
}

// DeleteFilterWordBackward removes the word before the caret.
func (l *List) DeleteFilterWordBackward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	start := wordStart(runes, pos)
	if start == pos {
		return false
	}
	l.SetFilter(string(runes[:start])+string(runes[pos:]), start)
	return true
}

// ClearFilter empties the query.
func (l *List) ClearFilter() bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("", 0)
	return true
}

// MoveFilterCursor moves the caret by delta runes.
func (l *List) MoveFilterCursor(delta int) bool {
	before := l.FilterCursorPos()
	l.FilterCursor = clamp(before+delta, 0, len([]rune(l.Filter)))
	return l.FilterCursor != before
}

// MoveFilterCursorStart moves the caret to the start of the query.
func (l *List) MoveFilterCursorStart() bool {
	return l.MoveFilterCursor(-l.FilterCursorPos())
}

// MoveFilterCursorEnd moves the caret to the end of the query.
func (l *List) MoveFilterCursorEnd() bool {
	return l.MoveFilterCursor(len([]rune(l.Filter)) - l.FilterCursorPos())
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
