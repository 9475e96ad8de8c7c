package ui

import (
	"github.com/atomicstack/chat-prefix/internal/logging/events"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/atomicstack/chat-prefix/internal/ui/overlay"
	"github.com/atomicstack/chat-prefix/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// panelChrome counts the panel rows that are not options: two border rows
// and the search line.
const panelChrome = 3

func (m *Model) handleSelectionLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(selectionLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.generation != m.generation {
		events.Menu.Stale(loaded.channel, loaded.generation)
		return nil
	}
	sel, found := loaded.selections[loaded.channel]
	if !found || sel == "" {
		sel = selection.None
	}
	m.selection = sel
	m.setEntries(loaded.entries)
	return nil
}

func (m *Model) handleEntriesLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(entriesLoadedMsg)
	if !ok {
		return nil
	}
	m.setEntries(loaded.entries)
	return nil
}

func (m *Model) handleSelectionSavedMsg(msg tea.Msg) tea.Cmd {
	saved, ok := msg.(selectionSavedMsg)
	if !ok || saved.channel != m.channelKey() {
		return nil
	}
	m.closeMenu(events.MenuReasonCommit)
	return nil
}

func (m *Model) setEntries(entries []prefix.Entry) {
	m.entries = prefix.CloneEntries(entries)
	m.menu.UpdateOptions(state.Candidates(m.entries))
	if m.engine.IsOpen() {
		m.engine.Invalidate()
	}
}

// selectedLabel is the anchor text for the current selection. Stale ids
// show as none.
func (m *Model) selectedLabel() string {
	return state.LabelFor(m.menu.Options, m.selection)
}

func (m *Model) toggleMenu() tea.Cmd {
	if m.engine.IsOpen() {
		m.closeMenu(events.MenuReasonToggle)
		return nil
	}
	return m.openMenu()
}

// openMenu starts a measuring pass with the cursor on the current selection
// and refreshes the candidate list.
func (m *Model) openMenu() tea.Cmd {
	if m.mode != ModeCompose || m.engine.IsOpen() {
		return nil
	}
	m.menu.Reset(m.selection)
	m.engine.Open()
	events.Menu.Open(m.channelKey(), len(m.menu.Options))
	return m.loadEntriesCmd()
}

// closeMenu hides the panel and clears the search query.
func (m *Model) closeMenu(reason events.MenuReason) {
	if !m.engine.IsOpen() {
		return
	}
	m.engine.Close()
	m.menu.Reset(m.selection)
	events.Menu.Close(m.channelKey(), reason)
}

// selectOption applies id locally, then persists it for the active channel.
// The menu closes once the save completes. Any load still in flight is
// superseded so it cannot overwrite the new choice.
func (m *Model) selectOption(id string) tea.Cmd {
	channel := m.channelKey()
	m.selection = id
	m.generation++
	events.Menu.Select(channel, id)
	return m.saveSelectionCmd(channel, id)
}

func (m *Model) switchChannel(delta int) tea.Cmd {
	if len(m.channels) < 2 || delta == 0 {
		return nil
	}
	m.closeMenu(events.MenuReasonChannel)
	n := len(m.channels)
	m.channelIdx = ((m.channelIdx+delta)%n + n) % n
	m.selection = selection.None
	m.input.Placeholder = "Message #" + m.channelName()
	events.Menu.Channel(m.channelKey())
	return m.reload()
}

func (m *Model) moveMenuCursor(delta int) {
	if !m.menu.MoveCursor(delta) {
		return
	}
	m.menu.EnsureCursorVisible(m.maxMenuRows(m.anchorRect()))
	events.Menu.Cursor(m.menu.Cursor)
}

// filterChanged re-measures the panel after the query changed.
func (m *Model) filterChanged() {
	m.errMsg = ""
	m.forceClearInfo()
	if m.menu.Filter == "" {
		events.Filter.Cleared()
	} else {
		events.Filter.Change(m.menu.Filter, len(m.menu.Items))
	}
	m.engine.Invalidate()
}

// layoutMenu completes a measuring pass: the panel is rendered off-screen,
// its height read, and the geometry committed against the anchor.
func (m *Model) layoutMenu() {
	if m.engine.Phase() != overlay.PhaseMeasuring {
		return
	}
	anchor := m.anchorRect()
	panel := m.renderMenuPanel(m.panelWidth(anchor), m.maxMenuRows(anchor))
	height := overlay.Measure(panel)
	events.Menu.Measure(height)
	if anchor == nil {
		events.Menu.SkipUnmounted()
		return
	}
	if m.engine.Commit(anchor, height) {
		g := m.engine.Geometry()
		events.Menu.Commit(g.Top, g.Left, g.Width)
	}
}

// maxMenuRows is the number of option rows that fit between the top of the
// screen and the anchor.
func (m *Model) maxMenuRows(anchor *overlay.Rect) int {
	if anchor == nil {
		if n := len(m.menu.Items); n > 0 {
			return n
		}
		return 1
	}
	rows := anchor.Top - m.engine.Gap() - panelChrome
	if rows < 1 {
		return 1
	}
	return rows
}

// panelWidth is the rendered panel width: the committed width clipped to
// the screen.
func (m *Model) panelWidth(anchor *overlay.Rect) int {
	screenW, _ := m.screenSize()
	width := m.engine.MinWidth()
	left := 0
	if anchor != nil {
		left = anchor.Left
		if anchor.Width > width {
			width = anchor.Width
		}
	}
	if avail := screenW - left; width > avail {
		width = avail
	}
	if width < panelChrome {
		width = panelChrome
	}
	return width
}

// optionAt maps a screen row inside the committed panel to an option.
func (m *Model) optionAt(y int) (state.Option, bool) {
	if !m.engine.IsPositioned() || len(m.menu.Items) == 0 {
		return state.Option{}, false
	}
	geom := m.engine.Geometry()
	row := y - geom.Top - 2
	if row < 0 {
		return state.Option{}, false
	}
	visible, _ := m.menu.Visible(m.maxMenuRows(m.anchorRect()))
	if row >= len(visible) {
		return state.Option{}, false
	}
	return visible[row], true
}
