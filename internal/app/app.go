package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/chat-prefix/internal/kv"
	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/logging/events"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/atomicstack/chat-prefix/internal/transform"
	"github.com/atomicstack/chat-prefix/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	DBPath       string
	Channels     []selection.Channel
	RulesChannel string
	MenuGap      int
	MenuMinWidth int
	Width        int
	Height       int
	ShowFooter   bool
	Debug        bool
}

// Run opens the settings database and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	db, err := kv.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close settings: %w", cerr)
		}
	}()

	model := NewModel(cfg, db)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	events.App.Stop("exit")
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// NewModel wires the stores, registry and send hook over backend.
func NewModel(cfg Config, backend kv.Backend) *ui.Model {
	store := selection.NewStore(backend)
	registry := prefix.NewRegistry(backend)
	if !cfg.Debug && registry.Debug(context.Background()) {
		logging.SetTraceEnabled(true)
	}
	hook := transform.NewHook(store, registry, cfg.RulesChannel)
	return ui.NewModel(ui.Options{
		Channels:     cfg.Channels,
		Store:        store,
		Registry:     registry,
		Hook:         hook,
		Width:        cfg.Width,
		Height:       cfg.Height,
		MenuGap:      cfg.MenuGap,
		MenuMinWidth: cfg.MenuMinWidth,
		ShowFooter:   cfg.ShowFooter,
	})
}
