package prefix

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/atomicstack/chat-prefix/internal/kv"
	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/testutil"
)

func quietLogs(t *testing.T) {
	t.Helper()
	logging.Configure(t.TempDir() + "/test.log")
}

func TestEntriesEmptyWhenUnset(t *testing.T) {
	quietLogs(t)
	r := NewRegistry(kv.NewMemory())
	got := r.Entries(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestSetEntriesRoundTripPreservesOrder(t *testing.T) {
	quietLogs(t)
	ctx := context.Background()
	r := NewRegistry(kv.NewMemory())
	want := []Entry{
		{ID: "b", Label: "Second", Text: "Two "},
		{ID: "a", Label: "First", Text: "One,"},
		{ID: "c", Label: "", Text: ""},
	}
	if err := r.SetEntries(ctx, want); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got := r.Entries(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
	if err := r.SetEntries(ctx, r.Entries(ctx)); err != nil {
		t.Fatalf("re-set failed: %v", err)
	}
	if again := r.Entries(ctx); !reflect.DeepEqual(again, want) {
		t.Fatalf("expected round trip to reproduce list, got %#v", again)
	}
}

func TestEntriesStoredAsStringField(t *testing.T) {
	quietLogs(t)
	ctx := context.Background()
	backend := kv.NewMemory()
	r := NewRegistry(backend)
	if err := r.SetEntries(ctx, []Entry{{ID: "a", Label: "Formal", Text: "Sir, "}}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	raw, ok, err := backend.Get(ctx, SettingsKey)
	if err != nil || !ok {
		t.Fatalf("expected settings record, ok=%v err=%v", ok, err)
	}
	var settings map[string]interface{}
	if err := json.Unmarshal(raw, &settings); err != nil {
		t.Fatalf("settings not json: %v", err)
	}
	if _, isString := settings["prefixEntries"].(string); !isString {
		t.Fatalf("expected prefixEntries to be a string, got %T", settings["prefixEntries"])
	}
}

func TestCorruptEntryListYieldsEmpty(t *testing.T) {
	quietLogs(t)
	cases := map[string]string{
		"corrupt list":     `{"prefixEntries": "[{oops"}`,
		"non-string field": `{"prefixEntries": 12}`,
		"corrupt settings": `not json`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			backend := kv.NewMemory()
			_ = backend.Set(ctx, SettingsKey, []byte(raw))
			if got := NewRegistry(backend).Entries(ctx); len(got) != 0 {
				t.Fatalf("expected empty list, got %#v", got)
			}
		})
	}
}

func TestEntriesBackendFailure(t *testing.T) {
	quietLogs(t)
	backend := testutil.NewFaultyBackend()
	r := NewRegistry(backend)
	_ = r.SetEntries(context.Background(), []Entry{{ID: "a"}})
	backend.FailGets(errors.New("gone"))
	if got := r.Entries(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty list on failure, got %#v", got)
	}
}

func TestSetEntriesPreservesDebugFlag(t *testing.T) {
	quietLogs(t)
	ctx := context.Background()
	r := NewRegistry(kv.NewMemory())
	if err := r.SetDebug(ctx, true); err != nil {
		t.Fatalf("set debug failed: %v", err)
	}
	if err := r.SetEntries(ctx, []Entry{{ID: "a"}}); err != nil {
		t.Fatalf("set entries failed: %v", err)
	}
	if !r.Debug(ctx) {
		t.Fatal("expected debug flag to survive entry replacement")
	}
	if len(r.Entries(ctx)) != 1 {
		t.Fatal("expected entry to survive")
	}
}

func TestSetEntriesKeepsSettingsOnReadFailure(t *testing.T) {
	quietLogs(t)
	ctx := context.Background()
	backend := testutil.NewFaultyBackend()
	r := NewRegistry(backend)
	if err := r.SetDebug(ctx, true); err != nil {
		t.Fatalf("set debug failed: %v", err)
	}
	backend.FailGets(errors.New("transient"))
	if err := r.SetEntries(ctx, []Entry{{ID: "a"}}); err == nil {
		t.Fatal("expected read failure to be reported")
	}
	if _, sets := backend.Calls(); sets != 1 {
		t.Fatalf("expected no write after a failed read, got %d sets", sets)
	}
	backend.FailGets(nil)
	if !r.Debug(ctx) {
		t.Fatal("expected debug flag to survive the failed write")
	}
}

func TestSetEntriesReplacesCorruptRecord(t *testing.T) {
	quietLogs(t)
	ctx := context.Background()
	backend := kv.NewMemory()
	if err := backend.Set(ctx, SettingsKey, []byte("{not json")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	r := NewRegistry(backend)
	if err := r.SetEntries(ctx, []Entry{{ID: "a"}}); err != nil {
		t.Fatalf("expected corrupt record to be replaced, got %v", err)
	}
	if got := r.Entries(ctx); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected stored entry, got %#v", got)
	}
}

func TestSetEntriesReportsWriteFailure(t *testing.T) {
	quietLogs(t)
	backend := testutil.NewFaultyBackend()
	backend.FailSets(errors.New("read-only"))
	if err := NewRegistry(backend).SetEntries(context.Background(), nil); err == nil {
		t.Fatal("expected write failure to be reported")
	}
}

func TestNewEntryIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		e := NewEntry()
		if e.Label != "New Entry" || e.Text != "" {
			t.Fatalf("unexpected placeholder entry %#v", e)
		}
		if _, dup := seen[e.ID]; dup {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
}
