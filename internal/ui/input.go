package ui

import (
	"strings"
	"unicode"

	"github.com/atomicstack/chat-prefix/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.mode == ModeEditor {
		return m.handleEditorKey(key)
	}
	if m.engine.IsOpen() {
		return m.handleMenuKey(key)
	}
	return m.handleComposeKey(key)
}

func (m *Model) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		return m.switchChannel(1)
	case "shift+tab":
		return m.switchChannel(-1)
	case "enter":
		return m.send()
	case "ctrl+p":
		return m.toggleMenu()
	case "ctrl+y":
		return m.copyLast()
	case "ctrl+e":
		return m.openEditor()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) send() tea.Cmd {
	content := m.input.Value()
	if strings.TrimSpace(content) == "" {
		return nil
	}
	m.input.Reset()
	m.errMsg = ""
	return m.sendCmd(m.channelKey(), content)
}

func (m *Model) copyLast() tea.Cmd {
	sent := m.transcripts[m.channelKey()]
	if len(sent) == 0 {
		m.setInfo("Nothing to copy")
		return nil
	}
	return m.copyCmd(sent[len(sent)-1])
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeMenu(events.MenuReasonEscape)
		return nil
	case "ctrl+p":
		m.closeMenu(events.MenuReasonToggle)
		return nil
	case "enter":
		if opt, ok := m.menu.Current(); ok {
			return m.selectOption(opt.ID)
		}
		return nil
	case "up", "ctrl+k":
		m.moveMenuCursor(-1)
		return nil
	case "down", "ctrl+j":
		m.moveMenuCursor(1)
		return nil
	case "pgup":
		m.moveMenuCursor(-m.maxMenuRows(m.anchorRect()))
		return nil
	case "pgdown":
		m.moveMenuCursor(m.maxMenuRows(m.anchorRect()))
		return nil
	case "home":
		m.moveMenuCursor(-m.menu.Cursor)
		return nil
	case "end":
		m.moveMenuCursor(len(m.menu.Items) - 1 - m.menu.Cursor)
		return nil
	}
	m.handleFilterInput(msg)
	return nil
}

// handleFilterInput edits the menu search query. It reports whether the
// key was consumed.
func (m *Model) handleFilterInput(msg tea.KeyMsg) bool {
	current := m.menu
	switch msg.String() {
	case "ctrl+u":
		if !current.ClearFilter() {
			return false
		}
		m.filterChanged()
		return true
	case "ctrl+w":
		if !current.DeleteFilterWordBackward() {
			return false
		}
		m.filterChanged()
		return true
	case "ctrl+a":
		return current.MoveFilterCursorStart()
	case "ctrl+e":
		return current.MoveFilterCursorEnd()
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !current.DeleteFilterRuneBackward() {
			return false
		}
		m.filterChanged()
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		if !current.InsertFilterText(string(msg.Runes)) {
			return false
		}
		m.filterChanged()
		return true
	case tea.KeySpace:
		if !current.InsertFilterText(" ") {
			return false
		}
		m.filterChanged()
		return true
	case tea.KeyLeft:
		return current.MoveFilterCursor(-1)
	case tea.KeyRight:
		return current.MoveFilterCursor(1)
	}
	return false
}
