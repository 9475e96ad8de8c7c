package prefix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atomicstack/chat-prefix/internal/kv"
	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/logging/events"
)

const (
	// SettingsKey names the generic settings record.
	SettingsKey = "chatprefix_settings"

	fieldEntries = "prefixEntries"
	fieldDebug   = "debug"
)

var ErrEntryListParse = errors.New("prefix entry list is corrupt")

// Registry reads and replaces the ordered entry list. The list is kept as a
// serialized string field inside the settings record, next to other
// settings that the registry preserves untouched.
type Registry struct {
	backend kv.Backend
}

// NewRegistry builds a registry over backend.
func NewRegistry(backend kv.Backend) *Registry {
	return &Registry{backend: backend}
}

// Entries returns the stored entries in insertion order. Any read or parse
// failure yields an empty list.
func (r *Registry) Entries(ctx context.Context) []Entry {
	settings, err := r.settings(ctx)
	if err != nil {
		logging.Error(err)
		return []Entry{}
	}
	raw, ok := settings[fieldEntries]
	if !ok {
		return []Entry{}
	}
	var serialized string
	if err := json.Unmarshal(raw, &serialized); err != nil {
		logging.Errorf("%w: field is not a string: %v", ErrEntryListParse, err)
		return []Entry{}
	}
	entries, err := parseEntries(serialized)
	if err != nil {
		logging.Error(err)
		return []Entry{}
	}
	events.Registry.Load(len(entries))
	return entries
}

// SetEntries replaces the stored list wholesale.
func (r *Registry) SetEntries(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	serialized, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	if err := r.setField(ctx, fieldEntries, string(serialized)); err != nil {
		return err
	}
	events.Registry.Save(len(entries))
	return nil
}

// Debug reports the settings debug flag. Failures read as false.
func (r *Registry) Debug(ctx context.Context) bool {
	settings, err := r.settings(ctx)
	if err != nil {
		logging.Error(err)
		return false
	}
	raw, ok := settings[fieldDebug]
	if !ok {
		return false
	}
	var debug bool
	if err := json.Unmarshal(raw, &debug); err != nil {
		return false
	}
	return debug
}

// SetDebug stores the settings debug flag.
func (r *Registry) SetDebug(ctx context.Context, debug bool) error {
	return r.setField(ctx, fieldDebug, debug)
}

func (r *Registry) setField(ctx context.Context, field string, value interface{}) error {
	if r == nil || r.backend == nil {
		return errors.New("prefix: registry has no backend")
	}
	settings, err := r.settings(ctx)
	switch {
	case errors.Is(err, ErrEntryListParse):
		// a corrupt settings record is replaced rather than blocking writes
		logging.Error(err)
		settings = map[string]json.RawMessage{}
	case err != nil:
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	settings[field] = encoded
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := r.backend.Set(ctx, SettingsKey, raw); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (r *Registry) settings(ctx context.Context) (map[string]json.RawMessage, error) {
	if r == nil || r.backend == nil {
		return nil, errors.New("prefix: registry has no backend")
	}
	raw, ok, err := r.backend.Get(ctx, SettingsKey)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if !ok || len(raw) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var settings map[string]json.RawMessage
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("%w: settings record: %v", ErrEntryListParse, err)
	}
	if settings == nil {
		settings = map[string]json.RawMessage{}
	}
	return settings, nil
}

func parseEntries(serialized string) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal([]byte(serialized), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryListParse, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
