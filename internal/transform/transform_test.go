package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/atomicstack/chat-prefix/internal/kv"
	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/atomicstack/chat-prefix/internal/testutil"
)

var formal = []prefix.Entry{{ID: "a", Label: "Formal", Text: "Sir, "}}

func TestApplyScenarios(t *testing.T) {
	cases := []struct {
		name    string
		channel string
		content string
		m       selection.Map
		entries []prefix.Entry
		want    string
	}{
		{"prepends selected prefix", "C1", "hello", selection.Map{"C1": "a"}, formal, "Sir, hello"},
		{"already prefixed", "C1", "Sir, hello", selection.Map{"C1": "a"}, formal, "Sir, hello"},
		{"no selection and no global", "C1", "hello", selection.Map{"C2": "a"}, formal, "hello"},
		{"global fallback", "C1", "hello", selection.Map{selection.Global: "a"}, formal, "Sir, hello"},
		{"explicit none", "C1", "hello", selection.Map{"C1": selection.None, selection.Global: "a"}, formal, "hello"},
		{"stale selection", "C1", "hello", selection.Map{"C1": "deleted"}, formal, "hello"},
		{"empty entry text", "C1", "hello", selection.Map{"C1": "b"}, []prefix.Entry{{ID: "b", Label: "Blank"}}, "hello"},
		{"separator added", "C1", "hello", selection.Map{"C1": "c"}, []prefix.Entry{{ID: "c", Text: "[bot]"}}, "[bot] hello"},
		{"tab counts as whitespace", "C1", "hello", selection.Map{"C1": "c"}, []prefix.Entry{{ID: "c", Text: "[bot]\t"}}, "[bot]\thello"},
		{"result trimmed", "C1", "hello  ", selection.Map{"C1": "c"}, []prefix.Entry{{ID: "c", Text: "  hey"}}, "hey hello"},
		{"nil inputs", "C1", "hello", nil, nil, "hello"},
		{"bare trimmed prefix left alone", "C1", "Sir,", selection.Map{"C1": "a"}, formal, "Sir,"},
		{"leading-space prefix already applied", "C1", "hey there", selection.Map{"C1": "c"}, []prefix.Entry{{ID: "c", Text: "  hey"}}, "hey there"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Apply(tc.channel, tc.content, tc.m, tc.entries); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	texts := []string{"Sir, ", "[bot]", "»", "a b ", "x\n"}
	contents := []string{"", "hello", "Sir, hello", "  padded  ", "[bot] already", "multi\nline"}
	for _, text := range texts {
		entries := []prefix.Entry{{ID: "e", Text: text}}
		m := selection.Map{"C": "e"}
		for _, content := range contents {
			once := Apply("C", content, m, entries)
			twice := Apply("C", once, m, entries)
			if once != twice {
				t.Fatalf("text %q content %q: expected idempotent result %q, got %q", text, content, once, twice)
			}
		}
	}
}

func newHook(t *testing.T, backend kv.Backend) (*Hook, *selection.Store, *prefix.Registry) {
	t.Helper()
	logging.Configure(t.TempDir() + "/test.log")
	store := selection.NewStore(backend)
	registry := prefix.NewRegistry(backend)
	return NewHook(store, registry, ""), store, registry
}

func TestHookPrefixesMessage(t *testing.T) {
	ctx := context.Background()
	hook, store, registry := newHook(t, kv.NewMemory())
	_ = registry.SetEntries(ctx, formal)
	store.Save(ctx, selection.Map{"C1": "a"})

	msg := &Message{Content: "hello"}
	hook.BeforeSend(ctx, "C1", msg)
	if msg.Content != "Sir, hello" {
		t.Fatalf("expected prefixed content, got %q", msg.Content)
	}
	hook.BeforeSend(ctx, "C1", msg)
	if msg.Content != "Sir, hello" {
		t.Fatalf("expected resend to stay single-prefixed, got %q", msg.Content)
	}
}

func TestHookBypassesRulesChannel(t *testing.T) {
	ctx := context.Background()
	hook, store, registry := newHook(t, kv.NewMemory())
	_ = registry.SetEntries(ctx, formal)
	store.Save(ctx, selection.Map{DefaultRulesChannel: "a", selection.Global: "a"})

	msg := &Message{Content: "hello"}
	hook.BeforeSend(ctx, DefaultRulesChannel, msg)
	if msg.Content != "hello" {
		t.Fatalf("expected rules channel untouched, got %q", msg.Content)
	}
	if hook.RulesChannel() != DefaultRulesChannel {
		t.Fatalf("expected default rules channel, got %q", hook.RulesChannel())
	}
}

func TestHookCustomRulesChannel(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	logging.Configure(t.TempDir() + "/test.log")
	store := selection.NewStore(backend)
	registry := prefix.NewRegistry(backend)
	_ = registry.SetEntries(ctx, formal)
	store.Save(ctx, selection.Map{selection.Global: "a"})
	hook := NewHook(store, registry, "rules")

	msg := &Message{Content: "hello"}
	hook.BeforeSend(ctx, "rules", msg)
	if msg.Content != "hello" {
		t.Fatalf("expected custom rules channel untouched, got %q", msg.Content)
	}
	hook.BeforeSend(ctx, "general", msg)
	if msg.Content != "Sir, hello" {
		t.Fatalf("expected global default applied, got %q", msg.Content)
	}
}

func TestHookToleratesBackendFailure(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFaultyBackend()
	hook, store, registry := newHook(t, backend)
	_ = registry.SetEntries(ctx, formal)
	store.Save(ctx, selection.Map{"C1": "a"})
	backend.FailGets(errors.New("unavailable"))

	msg := &Message{Content: "hello"}
	hook.BeforeSend(ctx, "C1", msg)
	if msg.Content != "hello" {
		t.Fatalf("expected content unchanged on failure, got %q", msg.Content)
	}
}

func TestHookIgnoresNilAndEmptyMessages(t *testing.T) {
	ctx := context.Background()
	hook, store, registry := newHook(t, kv.NewMemory())
	_ = registry.SetEntries(ctx, formal)
	store.Save(ctx, selection.Map{"C1": "a"})

	hook.BeforeSend(ctx, "C1", nil)
	msg := &Message{}
	hook.BeforeSend(ctx, "C1", msg)
	if msg.Content != "" {
		t.Fatalf("expected empty content untouched, got %q", msg.Content)
	}
}

func TestHookRecoversFromPanics(t *testing.T) {
	logging.Configure(t.TempDir() + "/test.log")
	var hook *Hook
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("expected hook to contain panic, got %v", r)
		}
	}()
	msg := &Message{Content: "hello"}
	hook.BeforeSend(context.Background(), "C1", msg)
	if msg.Content != "hello" {
		t.Fatalf("expected content unchanged, got %q", msg.Content)
	}
}
