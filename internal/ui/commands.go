package ui

import (
	"context"

	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/logging/events"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/atomicstack/chat-prefix/internal/transform"
	"github.com/atomicstack/chat-prefix/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// selectionLoadedMsg carries a mount or channel-change load. Only the load
// tagged with the current generation is applied.
type selectionLoadedMsg struct {
	generation int
	channel    string
	selections selection.Map
	entries    []prefix.Entry
}

type entriesLoadedMsg struct {
	entries []prefix.Entry
}

type selectionSavedMsg struct {
	channel   string
	selection string
}

type messageSentMsg struct {
	channel string
	content string
}

type clipboardResultMsg struct {
	err error
}

// reload starts a new generation and loads the selection map and entry
// list for the active channel.
func (m *Model) reload() tea.Cmd {
	m.generation++
	gen := m.generation
	channel := m.channelKey()
	ctx, store, registry := m.ctx, m.store, m.registry
	return func() tea.Msg {
		return selectionLoadedMsg{
			generation: gen,
			channel:    channel,
			selections: store.Load(ctx),
			entries:    registry.Entries(ctx),
		}
	}
}

func (m *Model) loadEntriesCmd() tea.Cmd {
	ctx, registry := m.ctx, m.registry
	return func() tea.Msg {
		return entriesLoadedMsg{entries: registry.Entries(ctx)}
	}
}

// saveSelectionCmd performs the read-modify-write of one channel key.
func (m *Model) saveSelectionCmd(channel, id string) tea.Cmd {
	store := m.store
	return m.bus.Execute(command.Request{
		ID:    "select:" + channel,
		Label: id,
		Run: func(ctx context.Context) tea.Msg {
			store.Select(ctx, channel, id)
			return selectionSavedMsg{channel: channel, selection: id}
		},
	})
}

// sendCmd passes content through the send hook before delivery.
func (m *Model) sendCmd(channel, content string) tea.Cmd {
	hook := m.hook
	return m.bus.Execute(command.Request{
		ID:    "send:" + channel,
		Label: channel,
		Run: func(ctx context.Context) tea.Msg {
			msg := &transform.Message{Content: content}
			hook.BeforeSend(ctx, channel, msg)
			return messageSentMsg{channel: channel, content: msg.Content}
		},
	})
}

func (m *Model) copyCmd(text string) tea.Cmd {
	write := m.clipboard
	return m.bus.Execute(command.Request{
		ID:    "clipboard",
		Label: "copy",
		Run: func(context.Context) tea.Msg {
			return clipboardResultMsg{err: write(text)}
		},
	})
}

func (m *Model) handleMessageSentMsg(msg tea.Msg) tea.Cmd {
	sent, ok := msg.(messageSentMsg)
	if !ok {
		return nil
	}
	m.transcripts[sent.channel] = append(m.transcripts[sent.channel], sent.content)
	events.Send.Deliver(sent.channel, len(sent.content))
	return nil
}

func (m *Model) handleClipboardResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(clipboardResultMsg)
	if !ok {
		return nil
	}
	if result.err != nil {
		logging.Error(result.err)
		events.Action.Error(result.err)
		m.errMsg = "Copy failed: " + result.err.Error()
		m.forceClearInfo()
		return nil
	}
	m.errMsg = ""
	m.setInfo("Copied last message")
	events.Action.Success("clipboard")
	return nil
}
