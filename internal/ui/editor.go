package ui

import (
	"github.com/atomicstack/chat-prefix/internal/format/table"
	"github.com/atomicstack/chat-prefix/internal/logging/events"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	focusLabel = iota
	focusText
)

// openEditor switches to the entry editor, selecting the first entry.
func (m *Model) openEditor() tea.Cmd {
	m.closeMenu(events.MenuReasonMode)
	m.mode = ModeEditor
	m.editor = prefix.NewEditor(m.ctx, m.registry)
	if entries := m.editor.Entries(); len(entries) > 0 {
		m.editor.Select(entries[0].ID)
	}
	m.syncEditorInputs()
	m.focusEditorField(focusLabel)
	m.input.Blur()
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

// closeEditor returns to the composer and reloads so the anchor reflects
// renamed or deleted entries.
func (m *Model) closeEditor() tea.Cmd {
	m.mode = ModeCompose
	m.editor = nil
	m.labelInput.Blur()
	m.textInput.Blur()
	m.input.Focus()
	m.errMsg = ""
	m.forceClearInfo()
	return m.reload()
}

func (m *Model) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	if m.editor == nil {
		return m.closeEditor()
	}
	switch msg.String() {
	case "esc":
		return m.closeEditor()
	case "up":
		m.moveEditorSelection(-1)
		return nil
	case "down":
		m.moveEditorSelection(1)
		return nil
	case "tab", "shift+tab":
		m.focusEditorField(1 - m.editorFocus)
		return nil
	case "ctrl+n":
		m.editor.Add(m.ctx)
		m.syncEditorInputs()
		m.focusEditorField(focusLabel)
		m.setInfo("Added entry")
		return nil
	case "ctrl+s":
		if m.editor.Apply(m.ctx) {
			m.setInfo("Saved entry")
		}
		return nil
	case "ctrl+d":
		m.editor.SetDeleteConfirmed(!m.editor.DeleteConfirmed())
		return nil
	case "ctrl+x":
		if m.editor.Delete(m.ctx) {
			m.syncEditorInputs()
			m.setInfo("Deleted entry")
			return nil
		}
		if _, ok := m.editor.Selected(); ok {
			m.setInfo("Confirm with ctrl+d before deleting")
		}
		return nil
	}
	if _, ok := m.editor.Pending(); !ok {
		return nil
	}
	var cmd tea.Cmd
	if m.editorFocus == focusText {
		m.textInput, cmd = m.textInput.Update(msg)
		m.editor.SetText(m.textInput.Value())
	} else {
		m.labelInput, cmd = m.labelInput.Update(msg)
		m.editor.SetLabel(m.labelInput.Value())
	}
	return cmd
}

func (m *Model) moveEditorSelection(delta int) {
	entries := m.editor.Entries()
	if len(entries) == 0 {
		return
	}
	idx := 0
	for i, entry := range entries {
		if entry.ID == m.editor.SelectedID() {
			idx = i + delta
			break
		}
	}
	if idx < 0 || idx >= len(entries) {
		return
	}
	m.editor.Select(entries[idx].ID)
	m.syncEditorInputs()
}

// syncEditorInputs loads the pending edit into the text fields.
func (m *Model) syncEditorInputs() {
	pending, _ := m.editor.Pending()
	m.labelInput.SetValue(pending.Label)
	m.textInput.SetValue(pending.Text)
	m.labelInput.CursorEnd()
	m.textInput.CursorEnd()
}

func (m *Model) focusEditorField(field int) {
	m.editorFocus = field
	if field == focusText {
		m.labelInput.Blur()
		m.textInput.Focus()
		return
	}
	m.textInput.Blur()
	m.labelInput.Focus()
}

func (m *Model) viewEditor() string {
	width, height := m.screenSize()
	lines := make([]styledLine, 0, height)
	lines = append(lines, styledLine{text: "Prefix entries", style: styles.Header})

	entries := m.editor.Entries()
	if len(entries) == 0 {
		lines = append(lines, styledLine{text: "(no entries, ctrl+n to add one)", style: styles.TranscriptEmpty})
	} else {
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, []string{"▌", singleLine(entry.Label), singleLine(entry.Text)})
		}
		formatted := table.FormatWidth(rows, nil, width)
		for i, entry := range entries {
			lineStyle, indicatorStyle := styles.Item, styles.ItemIndicator
			if entry.ID == m.editor.SelectedID() {
				lineStyle, indicatorStyle = styles.SelectedItem, styles.SelectedItemIndicator
			}
			lines = append(lines, styledLine{
				text:          formatted[i],
				style:         lineStyle,
				prefixStyle:   indicatorStyle,
				highlightFrom: 1,
			})
		}
	}

	lines = append(lines, styledLine{})
	if _, ok := m.editor.Pending(); ok {
		lines = append(lines,
			styledLine{text: renderStyled(styles.FieldLabel, "Label ") + m.labelInput.View(), raw: true},
			styledLine{text: renderStyled(styles.FieldLabel, "Text  ") + m.textInput.View(), raw: true},
			styledLine{text: m.confirmText(), raw: true},
		)
	}
	if status := m.statusLine(); status != nil {
		lines = append(lines, styledLine{}, *status)
	}
	if m.showFooter {
		for len(lines) < height-1 {
			lines = append(lines, styledLine{})
		}
		lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return renderLines(applyWidth(lines, width))
}

func (m *Model) confirmText() string {
	box := "[ ]"
	if m.editor.DeleteConfirmed() {
		box = "[x]"
	}
	return renderStyled(styles.Confirm, box+" Confirm delete (ctrl+d, then ctrl+x)")
}
