package ui

import (
	"github.com/atomicstack/chat-prefix/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouseMsg routes left-button presses: the anchor toggles the menu, an
// option row selects it and anything outside both closes the menu.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft {
		return nil
	}
	if m.mode != ModeCompose {
		return nil
	}
	anchor := m.anchorRect()
	if anchor != nil && anchor.Contains(ev.X, ev.Y) {
		return m.toggleMenu()
	}
	if !m.engine.IsOpen() {
		return nil
	}
	if opt, ok := m.optionAt(ev.Y); ok && m.engine.Geometry().Bounds().Contains(ev.X, ev.Y) {
		return m.selectOption(opt.ID)
	}
	if anchor == nil || m.engine.Outside(*anchor, ev.X, ev.Y) {
		m.closeMenu(events.MenuReasonOutside)
	}
	return nil
}
