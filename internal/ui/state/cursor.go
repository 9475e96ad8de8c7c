package state

// MoveCursor moves the cursor by delta, clamped to the filtered options.
func (l *List) MoveCursor(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(l.Cursor+delta, 0, len(l.Items)-1)
	return l.Cursor != old
}

// MoveCursorHome moves the cursor to the first option.
func (l *List) MoveCursorHome() bool {
	return l.MoveCursor(-len(l.Items))
}

// MoveCursorEnd moves the cursor to the last option.
func (l *List) MoveCursorEnd() bool {
	return l.MoveCursor(len(l.Items))
}

// EnsureCursorVisible adjusts the viewport so the cursor lies within the
// maxVisible rows being rendered.
func (l *List) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.ViewportOffset = clamp(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if upper := l.ViewportOffset + maxVisible - 1; l.Cursor > upper {
		l.ViewportOffset = clamp(l.Cursor-maxVisible+1, 0, maxOffset)
	}
}

// Visible returns the slice of filtered options inside the viewport along
// with the index of its first row.
func (l *List) Visible(maxVisible int) ([]Option, int) {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		return l.Items, 0
	}
	l.EnsureCursorVisible(maxVisible)
	start := l.ViewportOffset
	return l.Items[start : start+maxVisible], start
}
