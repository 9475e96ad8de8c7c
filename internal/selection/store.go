// Package selection persists which prefix entry is active per channel.
package selection

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
	// StorageKey names the single record holding the whole selection map.
	StorageKey = "chatprefix_channelSelections_v1"

	// None selects no prefix.
	None = "none"
	// Global is the channel key used when no channel-specific entry exists.
	Global = "global"
)

var (
	ErrStoreRead  = errors.New("selection store read failed")
	ErrStoreWrite = errors.New("selection store write failed")
)

// Map associates channel ids with an entry id or None.
type Map map[string]string

// Clone returns an independent copy of m.
func (m Map) Clone() Map {
	dup := make(Map, len(m))
	for k, v := range m {
		dup[k] = v
	}
	return dup
}

// Channel is the anchor context handed over by the host. Only the id is used.
type Channel struct {
	ID   string
	Name string
}

// ChannelKey returns the map key for ch, falling back to Global when the
// context or its id is absent.
func ChannelKey(ch *Channel) string {
	if ch == nil || ch.ID == "" {
		return Global
	}
	return ch.ID
}

// Resolve returns the selection for channelID, then the Global default, then None.
func Resolve(m Map, channelID string) string {
	if sel, ok := m[channelID]; ok {
		return sel
	}
	if sel, ok := m[Global]; ok {
		return sel
	}
	return None
}

// Store loads and saves the selection map through an injected backend.
type Store struct {
	backend kv.Backend
	key     string
}

// NewStore builds a store backed by backend.
func NewStore(backend kv.Backend) *Store {
	return &Store{backend: backend, key: StorageKey}
}

// Load reads the selection map. Absent records, malformed records and
// backend failures all yield an empty map; the failure is only logged.
func (s *Store) Load(ctx context.Context) Map {
	if s == nil || s.backend == nil {
		return Map{}
	}
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		logging.Errorf("%w: %v", ErrStoreRead, err)
		events.Store.Fallback(s.key, "read")
		return Map{}
	}
	if !ok || len(raw) == 0 {
		events.Store.Fallback(s.key, "absent")
		return Map{}
	}
	m, err := decode(raw)
	if err != nil {
		logging.Errorf("%w: %v", ErrStoreRead, err)
		events.Store.Fallback(s.key, "malformed")
		return Map{}
	}
	events.Store.Load(s.key, len(m))
	return m
}

// Save replaces the stored map with m. Errors are logged and swallowed.
func (s *Store) Save(ctx context.Context, m Map) {
	if s == nil || s.backend == nil {
		return
	}
	if m == nil {
		m = Map{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		logging.Errorf("%w: %v", ErrStoreWrite, err)
		return
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		logging.Errorf("%w: %v", ErrStoreWrite, err)
		return
	}
	events.Store.Save(s.key, len(m))
}

// Select performs the unserialized read-modify-write used by the menu:
// load, set one key, save. Concurrent calls for the same channel may
// interleave; the last save wins.
func (s *Store) Select(ctx context.Context, channelID, selection string) Map {
	m := s.Load(ctx)
	m[channelID] = selection
	s.Save(ctx, m)
	return m
}

// decode accepts only a JSON object whose values are all strings.
func decode(raw []byte) (Map, error) {
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	if generic == nil {
		return nil, errors.New("selection record is not an object")
	}
	m := make(Map, len(generic))
	for k, v := range generic {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("selection for %q is %T, want string", k, v)
		}
		m[k] = str
	}
	return m, nil
}
