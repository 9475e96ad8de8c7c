package prefix

import (
	"context"

	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/logging/events"
)

// Edit holds the label and text being edited before Apply writes them back.
type Edit struct {
	Label string
	Text  string
}

// Editor implements the settings panel workflow over a Registry: add,
// select, edit, apply and a delete that needs a separate confirmation.
// Every change persists the whole list.
type Editor struct {
	registry  *Registry
	entries   []Entry
	selected  string
	pending   *Edit
	confirmed bool
}

// NewEditor loads the current entries from registry.
func NewEditor(ctx context.Context, registry *Registry) *Editor {
	e := &Editor{registry: registry}
	e.Reload(ctx)
	return e
}

// Reload replaces the local list with the stored one and keeps the
// selection when the entry still exists.
func (e *Editor) Reload(ctx context.Context) {
	e.entries = e.registry.Entries(ctx)
	if _, ok := Find(e.entries, e.selected); !ok {
		e.Select("")
	}
}

// Entries returns a copy of the local list.
func (e *Editor) Entries() []Entry {
	return CloneEntries(e.entries)
}

// Selected returns the selected entry, if any.
func (e *Editor) Selected() (Entry, bool) {
	if e.selected == "" {
		return Entry{}, false
	}
	return Find(e.entries, e.selected)
}

// SelectedID returns the selected entry id or "".
func (e *Editor) SelectedID() string { return e.selected }

// Pending returns the in-progress edit for the selected entry.
func (e *Editor) Pending() (Edit, bool) {
	if e.pending == nil {
		return Edit{}, false
	}
	return *e.pending, true
}

// DeleteConfirmed reports the state of the confirmation flag.
func (e *Editor) DeleteConfirmed() bool { return e.confirmed }

// Add appends a fresh entry, persists the list and selects the new entry.
func (e *Editor) Add(ctx context.Context) Entry {
	entry := NewEntry()
	e.entries = append(CloneEntries(e.entries), entry)
	e.persist(ctx)
	e.Select(entry.ID)
	events.Editor.Add(entry.ID)
	return entry
}

// Select changes the selected entry. Unknown ids clear the selection. The
// pending edit is reloaded and the delete confirmation is always reset.
func (e *Editor) Select(id string) {
	e.confirmed = false
	entry, ok := Find(e.entries, id)
	if !ok {
		e.selected = ""
		e.pending = nil
		return
	}
	e.selected = entry.ID
	e.pending = &Edit{Label: entry.Label, Text: entry.Text}
	events.Editor.Select(entry.ID)
}

// SetLabel changes the pending label.
func (e *Editor) SetLabel(label string) {
	if e.pending != nil {
		e.pending.Label = label
	}
}

// SetText changes the pending text.
func (e *Editor) SetText(text string) {
	if e.pending != nil {
		e.pending.Text = text
	}
}

// Apply writes the pending edit into the selected entry and persists.
func (e *Editor) Apply(ctx context.Context) bool {
	if e.selected == "" || e.pending == nil {
		return false
	}
	updated := CloneEntries(e.entries)
	for i := range updated {
		if updated[i].ID == e.selected {
			updated[i].Label = e.pending.Label
			updated[i].Text = e.pending.Text
		}
	}
	e.entries = updated
	e.persist(ctx)
	events.Editor.Apply(e.selected, e.pending.Label)
	return true
}

// SetDeleteConfirmed sets the confirmation flag that enables Delete.
func (e *Editor) SetDeleteConfirmed(confirmed bool) {
	if e.selected == "" {
		e.confirmed = false
		return
	}
	e.confirmed = confirmed
	events.Editor.Confirm(e.selected, confirmed)
}

// Delete removes the selected entry when the confirmation flag is set. It
// reports whether anything was removed.
func (e *Editor) Delete(ctx context.Context) bool {
	if e.selected == "" {
		return false
	}
	if !e.confirmed {
		events.Editor.DeleteBlocked(e.selected)
		return false
	}
	removed := e.selected
	kept := make([]Entry, 0, len(e.entries))
	for _, entry := range e.entries {
		if entry.ID != removed {
			kept = append(kept, entry)
		}
	}
	e.entries = kept
	e.persist(ctx)
	next := ""
	if len(kept) > 0 {
		next = kept[0].ID
	}
	e.Select(next)
	events.Editor.Delete(removed)
	return true
}

func (e *Editor) persist(ctx context.Context) {
	if err := e.registry.SetEntries(ctx, e.entries); err != nil {
		logging.Error(err)
	}
}
