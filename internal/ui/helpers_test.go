package ui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/atomicstack/chat-prefix/internal/testutil"
)

var testEntries = []prefix.Entry{
	{ID: "formal", Label: "Formal", Text: "Dear colleagues,"},
	{ID: "casual", Label: "Casual", Text: "hey"},
	{ID: "pirate", Label: "Pirate", Text: "Arr! "},
}

type fixture struct {
	backend  *testutil.FaultyBackend
	store    *selection.Store
	registry *prefix.Registry
	copied   []string
	copyErr  error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "ui.log"))
	backend := testutil.NewFaultyBackend()
	f := &fixture{
		backend:  backend,
		store:    selection.NewStore(backend),
		registry: prefix.NewRegistry(backend),
	}
	if err := f.registry.SetEntries(context.Background(), testEntries); err != nil {
		t.Fatalf("seed entries: %v", err)
	}
	return f
}

func (f *fixture) options(channels ...selection.Channel) Options {
	return Options{
		Channels: channels,
		Store:    f.store,
		Registry: f.registry,
		Width:    80,
		Height:   24,
		Clipboard: func(text string) error {
			if f.copyErr != nil {
				return f.copyErr
			}
			f.copied = append(f.copied, text)
			return nil
		},
	}
}

// harness returns a started harness over an 80x24 composer.
func (f *fixture) harness(channels ...selection.Channel) *Harness {
	h := NewHarness(NewModel(f.options(channels...)))
	h.Start()
	return h
}

func (f *fixture) seedSelections(t *testing.T, m selection.Map) {
	t.Helper()
	f.store.Save(context.Background(), m)
}
