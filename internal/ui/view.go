package ui

import (
	"strings"
	"time"

	"github.com/atomicstack/chat-prefix/internal/ui/overlay"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	noMatchesText     = "No matching prefixes found."
	searchPlaceholder = "Search prefixes..."
	emptyTranscript   = "(no messages yet)"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == ModeEditor {
		return m.viewEditor()
	}
	return m.viewCompose()
}

// viewCompose renders the composer and, once positioned, splices the menu
// panel over it at the committed geometry.
func (m *Model) viewCompose() string {
	width, height := m.screenSize()
	base := renderLines(applyWidth(m.composeLines(width, height), width))
	if !m.engine.IsPositioned() {
		return base
	}
	anchor := m.anchorRect()
	panel := m.renderMenuPanel(m.panelWidth(anchor), m.maxMenuRows(anchor))
	return overlay.Compose(base, panel, m.engine.Geometry(), width, height)
}

// composeLines lays out exactly height rows: channel tabs, the transcript,
// an optional status row, the input bar and the optional footer.
func (m *Model) composeLines(width, height int) []styledLine {
	lines := make([]styledLine, 0, height)
	lines = append(lines, styledLine{text: m.tabsLine(), raw: true})

	status := m.statusLine()
	bodyRows := height - 2 - m.footerRows()
	if status != nil {
		bodyRows--
	}
	lines = append(lines, m.transcriptLines(bodyRows)...)
	if status != nil {
		lines = append(lines, *status)
	}
	lines = append(lines, styledLine{text: m.barLine(), raw: true})
	if m.showFooter {
		lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})
	}
	return lines
}

func (m *Model) footerRows() int {
	if m.showFooter {
		return 1
	}
	return 0
}

// barRow is the screen row holding the anchor and message input.
func (m *Model) barRow() int {
	_, height := m.screenSize()
	return height - 1 - m.footerRows()
}

// anchorRect returns the anchor's screen rectangle, or nil when it is not
// on screen.
func (m *Model) anchorRect() *overlay.Rect {
	if m.mode != ModeCompose {
		return nil
	}
	row := m.barRow()
	if row < 1 {
		return nil
	}
	return &overlay.Rect{
		Top:    row,
		Left:   0,
		Width:  ansi.StringWidth(m.anchorText()),
		Height: 1,
	}
}

func (m *Model) anchorText() string {
	arrow := "▾"
	if m.engine.IsOpen() {
		arrow = "▴"
	}
	return "[ " + m.selectedLabel() + " " + arrow + " ]"
}

func (m *Model) barLine() string {
	anchor := m.anchorText()
	style := styles.Anchor
	if m.engine.IsOpen() {
		style = styles.AnchorOpen
	}
	return renderStyled(style, anchor) + " " + m.input.View()
}

func (m *Model) tabsLine() string {
	if len(m.channels) == 0 {
		return renderStyled(styles.ActiveTab, "#"+m.channelName())
	}
	tabs := make([]string, 0, len(m.channels))
	for i, ch := range m.channels {
		name := ch.Name
		if name == "" {
			name = ch.ID
		}
		style := styles.Tab
		if i == m.channelIdx {
			style = styles.ActiveTab
		}
		tabs = append(tabs, renderStyled(style, "#"+name))
	}
	return strings.Join(tabs, " ")
}

func (m *Model) transcriptLines(rows int) []styledLine {
	if rows <= 0 {
		return nil
	}
	sent := m.transcripts[m.channelKey()]
	lines := make([]styledLine, 0, rows)
	if len(sent) == 0 {
		lines = append(lines, styledLine{text: emptyTranscript, style: styles.TranscriptEmpty})
	} else {
		if len(sent) > rows {
			sent = sent[len(sent)-rows:]
		}
		for _, content := range sent {
			lines = append(lines, styledLine{text: "› " + singleLine(content), style: styles.Transcript})
		}
	}
	for len(lines) < rows {
		lines = append(lines, styledLine{})
	}
	return lines
}

func (m *Model) statusLine() *styledLine {
	if m.errMsg != "" {
		return &styledLine{text: m.errMsg, style: styles.Error}
	}
	if info := m.currentInfo(); info != "" {
		return &styledLine{text: info, style: styles.Info}
	}
	return nil
}

func (m *Model) footerText() string {
	switch {
	case m.mode == ModeEditor:
		return "↑/↓ entry · tab field · ctrl+n new · ctrl+s save · ctrl+d confirm · ctrl+x delete · esc back"
	case m.engine.IsOpen():
		return "type to search · ↑/↓ move · enter select · esc close"
	default:
		return "tab channel · enter send · ctrl+p prefix · ctrl+y copy · ctrl+e edit · ctrl+c quit"
	}
}

// renderMenuPanel draws the bordered search panel at width cells with at
// most maxRows option rows.
func (m *Model) renderMenuPanel(width, maxRows int) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	rows := make([]string, 0, maxRows+1)
	rows = append(rows, m.searchLine(inner))
	if len(m.menu.Items) == 0 {
		rows = append(rows, renderStyled(styles.Info, truncateText(noMatchesText, inner)))
	} else {
		visible, start := m.menu.Visible(maxRows)
		for i, opt := range visible {
			rows = append(rows, m.optionLine(opt.ID, opt.Label, start+i == m.menu.Cursor, inner))
		}
	}
	style := lipgloss.NewStyle()
	if styles.Panel != nil {
		style = styles.Panel.Copy()
	}
	return style.Width(inner).Render(strings.Join(rows, "\n"))
}

func (m *Model) optionLine(id, label string, current bool, width int) string {
	mark := "  "
	if id == m.selection {
		mark = renderStyled(styles.ActiveMark, "✓") + " "
	}
	lineStyle, indicatorStyle := styles.Item, styles.ItemIndicator
	if current {
		lineStyle, indicatorStyle = styles.SelectedItem, styles.SelectedItemIndicator
	}
	text := truncateText(label, width-4)
	if pad := width - 4 - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return renderStyled(indicatorStyle, "▌") + " " + mark + renderStyled(lineStyle, text)
}

// searchLine renders the query with its caret, or the placeholder.
func (m *Model) searchLine(width int) string {
	prompt := renderStyled(styles.FilterPrompt, "» ")
	avail := width - 2
	if avail < 1 {
		avail = 1
	}
	query := m.menu.Filter
	if query == "" {
		placeholder := []rune(truncateText(searchPlaceholder, avail))
		return prompt + renderCaret(string(placeholder[:1])) + renderStyled(styles.FilterPlaceholder, string(placeholder[1:]))
	}
	runes := []rune(query)
	pos := m.menu.FilterCursorPos()
	if len(runes)+1 > avail {
		// keep the caret in view by dropping runes from the left
		drop := len(runes) + 1 - avail
		if drop > pos {
			drop = pos
		}
		runes = runes[drop:]
		pos -= drop
	}
	caret := " "
	after := ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = string(runes[pos+1:])
	}
	return prompt + renderStyled(styles.Filter, string(runes[:pos])) + renderCaret(caret) + renderStyled(styles.Filter, after)
}

func renderCaret(char string) string {
	if styles.Cursor != nil {
		return styles.Cursor.Copy().Inline(true).Render(char)
	}
	return lipgloss.NewStyle().Reverse(true).Render(char)
}

func renderStyled(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func singleLine(text string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.input.Width = m.inputWidth()
	m.engine.Invalidate()
	return nil
}

func (m *Model) inputWidth() int {
	width, _ := m.screenSize()
	w := width - ansi.StringWidth(m.anchorText()) - 2
	if w < 1 {
		return 1
	}
	return w
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{
			text:          text,
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
			raw:           line.raw,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return string([]rune(text)[:1])
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
