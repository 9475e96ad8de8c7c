// Package prefix owns the user-defined prefix entries: the stored list, the
// registry that persists it and the editor used by the settings panel.
package prefix

import "github.com/google/uuid"

const (
	defaultLabel = "New Entry"
)

// Entry is a labelled piece of text prepended to outgoing messages.
type Entry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// NewEntry returns an entry with a fresh globally unique id and placeholder
// content.
func NewEntry() Entry {
	return Entry{ID: uuid.NewString(), Label: defaultLabel}
}

// Find returns the entry with the given id.
func Find(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// CloneEntries copies entries into a new backing array.
func CloneEntries(entries []Entry) []Entry {
	dup := make([]Entry, len(entries))
	copy(dup, entries)
	return dup
}
