package kv

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if _, ok, err := m.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	value := []byte("hello")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value[0] = 'j'
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected stored key, got ok=%v err=%v", ok, err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected stored copy %q, got %q", "hello", got)
	}
}

func TestMemoryRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	if err := m.Set(ctx, "k", []byte("v")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if _, _, err := m.Get(ctx, "k"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Set(ctx, "k", []byte("v"))
			_, _, _ = m.Get(ctx, "k")
		}()
	}
	wg.Wait()
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.sqlite")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "selections"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "selections", []byte(`{"C1":"a"}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "selections", []byte(`{"C1":"b"}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, ok, err := store.Get(ctx, "selections")
	if err != nil || !ok {
		t.Fatalf("expected stored key, got ok=%v err=%v", ok, err)
	}
	if string(got) != `{"C1":"b"}` {
		t.Fatalf("expected replaced value, got %q", got)
	}
	if store.Path() != path {
		t.Fatalf("expected path %q, got %q", path, store.Path())
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.sqlite")
	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := first.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	got, ok, err := second.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestClosedSQLiteReturnsErrors(t *testing.T) {
	var store *SQLite
	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from nil store")
	}
	if err := store.Set(context.Background(), "k", nil); err == nil {
		t.Fatal("expected error from nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected nil close on nil store, got %v", err)
	}
}
