// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/atomicstack/chat-prefix/internal/kv"
)

// FaultyBackend wraps a kv.Backend and injects failures on demand. It also
// counts calls so tests can assert on read-modify-write sequences.
type FaultyBackend struct {
	Inner kv.Backend

	mu     sync.Mutex
	getErr error
	setErr error
	gets   int
	sets   int
	hook   func(key string)
}

// NewFaultyBackend wraps an in-memory backend.
func NewFaultyBackend() *FaultyBackend {
	return &FaultyBackend{Inner: kv.NewMemory()}
}

// FailGets makes every Get return err (nil restores normal behaviour).
func (f *FaultyBackend) FailGets(err error) {
	f.mu.Lock()
	f.getErr = err
	f.mu.Unlock()
}

// FailSets makes every Set return err (nil restores normal behaviour).
func (f *FaultyBackend) FailSets(err error) {
	f.mu.Lock()
	f.setErr = err
	f.mu.Unlock()
}

// OnGet registers a callback invoked before each Get.
func (f *FaultyBackend) OnGet(fn func(key string)) {
	f.mu.Lock()
	f.hook = fn
	f.mu.Unlock()
}

// Calls returns the number of Get and Set calls observed.
func (f *FaultyBackend) Calls() (gets, sets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.sets
}

func (f *FaultyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	f.gets++
	err := f.getErr
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(key)
	}
	if err != nil {
		return nil, false, err
	}
	return f.Inner.Get(ctx, key)
}

func (f *FaultyBackend) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.sets++
	err := f.setErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Inner.Set(ctx, key, value)
}
