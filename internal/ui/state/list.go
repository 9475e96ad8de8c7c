package state

// List holds the prefix menu state: the full option list, the filtered
// view, the search query with its caret, and the cursor/viewport.
type List struct {
	Options        []Option
	Items          []Option
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList constructs a List over options.
func NewList(options []Option) *List {
	l := &List{
		Cursor:     -1,
		LastCursor: -1,
	}
	l.UpdateOptions(options)
	return l
}

// IndexOf returns the filtered index for the option id, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, opt := range l.Items {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the option under the cursor.
func (l *List) Current() (Option, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Option{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateOptions replaces the option list and re-applies the filter.
func (l *List) UpdateOptions(options []Option) {
	prevOffset := l.ViewportOffset
	l.Options = CloneOptions(options)
	l.applyFilter()
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}

// Reset clears the query and puts the cursor on id when present.
func (l *List) Reset(id string) {
	l.Filter = ""
	l.FilterCursor = 0
	l.LastCursor = -1
	l.ViewportOffset = 0
	l.applyFilter()
	l.Cursor = 0
	if idx := l.IndexOf(id); idx >= 0 {
		l.Cursor = idx
	}
}
