package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/chat-prefix/internal/kv"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/atomicstack/chat-prefix/internal/theme"
	"github.com/atomicstack/chat-prefix/internal/transform"
	"github.com/atomicstack/chat-prefix/internal/ui/command"
	"github.com/atomicstack/chat-prefix/internal/ui/overlay"
	"github.com/atomicstack/chat-prefix/internal/ui/state"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeCompose Mode = iota
	ModeEditor
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model. Nil stores fall back to an in-memory backend.
type Options struct {
	Channels     []selection.Channel
	Store        *selection.Store
	Registry     *prefix.Registry
	Hook         *transform.Hook
	Width        int
	Height       int
	MenuGap      int
	MenuMinWidth int
	ShowFooter   bool
	Clipboard    func(string) error
}

// Model implements the Bubble Tea model for the chat composer and its
// prefix menu.
type Model struct {
	ctx  context.Context
	mode Mode

	channels    []selection.Channel
	channelIdx  int
	transcripts map[string][]string
	input       textinput.Model

	store     *selection.Store
	registry  *prefix.Registry
	hook      *transform.Hook
	bus       *command.Bus
	clipboard func(string) error

	selection  string
	entries    []prefix.Entry
	generation int
	menu       *state.List
	engine     *overlay.Engine

	editor      *prefix.Editor
	labelInput  textinput.Model
	textInput   textinput.Model
	editorFocus int

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the composer for the configured channels.
func NewModel(opts Options) *Model {
	store, registry := opts.Store, opts.Registry
	if store == nil || registry == nil {
		backend := kv.NewMemory()
		if store == nil {
			store = selection.NewStore(backend)
		}
		if registry == nil {
			registry = prefix.NewRegistry(backend)
		}
	}
	hook := opts.Hook
	if hook == nil {
		hook = transform.NewHook(store, registry, "")
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	m := &Model{
		ctx:         context.Background(),
		mode:        ModeCompose,
		channels:    append([]selection.Channel(nil), opts.Channels...),
		transcripts: map[string][]string{},
		store:       store,
		registry:    registry,
		hook:        hook,
		bus:         command.New(context.Background(), 0),
		clipboard:   copyFn,
		selection:   selection.None,
		menu:        state.NewList(state.Candidates(nil)),
		engine:      overlay.NewEngine(menuGap(opts.MenuGap), opts.MenuMinWidth),
		showFooter:  opts.ShowFooter,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.input = newInput("Message #" + m.channelName())
	m.input.Focus()
	m.labelInput = newInput("Label")
	m.textInput = newInput("Prefix text")
	m.registerHandlers()
	return m
}

// menuGap treats an unset gap as the default.
func menuGap(gap int) int {
	if gap == 0 {
		return overlay.DefaultGap
	}
	return gap
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.Cursor.SetMode(cursor.CursorStatic)
	if styles.Cursor != nil {
		in.Cursor.Style = styles.Cursor.Copy()
	}
	if styles.FilterPlaceholder != nil {
		in.PlaceholderStyle = styles.FilterPlaceholder.Copy()
	}
	return in
}

// Init is part of the tea.Model interface. It issues the mount-time load.
func (m *Model) Init() tea.Cmd {
	return m.reload()
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):       m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(selectionLoadedMsg{}): m.handleSelectionLoadedMsg,
		reflect.TypeOf(entriesLoadedMsg{}):   m.handleEntriesLoadedMsg,
		reflect.TypeOf(selectionSavedMsg{}):  m.handleSelectionSavedMsg,
		reflect.TypeOf(messageSentMsg{}):     m.handleMessageSentMsg,
		reflect.TypeOf(clipboardResultMsg{}): m.handleClipboardResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate runs the layout pass for a panel waiting to be measured and
// batches the collected commands.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.layoutMenu()
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) currentChannel() *selection.Channel {
	if m.channelIdx < 0 || m.channelIdx >= len(m.channels) {
		return nil
	}
	return &m.channels[m.channelIdx]
}

// channelKey is the selection map key for the active channel.
func (m *Model) channelKey() string {
	return selection.ChannelKey(m.currentChannel())
}

func (m *Model) channelName() string {
	ch := m.currentChannel()
	if ch == nil {
		return selection.Global
	}
	if ch.Name != "" {
		return ch.Name
	}
	return ch.ID
}

func (m *Model) screenSize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// Mode returns the active screen.
func (m *Model) Mode() Mode { return m.mode }

// Selection returns the entry id shown on the anchor for the active channel.
func (m *Model) Selection() string { return m.selection }

// MenuOpen reports whether the prefix menu is open.
func (m *Model) MenuOpen() bool { return m.engine.IsOpen() }

// MenuGeometry returns the committed panel placement.
func (m *Model) MenuGeometry() overlay.Geometry { return m.engine.Geometry() }

// MenuPhase returns the position engine state.
func (m *Model) MenuPhase() overlay.Phase { return m.engine.Phase() }

// Query returns the menu search text.
func (m *Model) Query() string { return m.menu.Filter }

// ChannelKey returns the selection key of the active channel.
func (m *Model) ChannelKey() string { return m.channelKey() }

// Transcript returns the messages sent to channel.
func (m *Model) Transcript(channel string) []string {
	return append([]string(nil), m.transcripts[channel]...)
}
