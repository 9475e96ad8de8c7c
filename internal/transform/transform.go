// Package transform applies the selected prefix to outgoing messages.
package transform

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/atomicstack/chat-prefix/internal/logging"
	"github.com/atomicstack/chat-prefix/internal/logging/events"
	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
)

// DefaultRulesChannel is the channel that is never prefixed.
const DefaultRulesChannel = "1102784112584040479"

// Message is the outbound message handed over by the host.
type Message struct {
	Content string
}

// Apply returns content with the channel's selected prefix prepended. It
// leaves content untouched when nothing is selected, the selection is stale,
// the entry text is empty or content already starts with the text.
func Apply(channelID, content string, m selection.Map, entries []prefix.Entry) (result string) {
	result = content
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("prefix transform for %s: %v", channelID, r)
			result = content
		}
	}()

	sel := selection.Resolve(m, channelID)
	if sel == selection.None {
		return content
	}
	entry, ok := prefix.Find(entries, sel)
	if !ok || entry.Text == "" {
		return content
	}
	if alreadyPrefixed(content, entry.Text) {
		return content
	}
	separator := " "
	if last, _ := utf8.DecodeLastRuneInString(entry.Text); unicode.IsSpace(last) {
		separator = ""
	}
	return strings.TrimSpace(entry.Text + separator + content)
}

// alreadyPrefixed reports whether content starts with text verbatim, or is
// the trimmed output of a previous Apply with the same text. The trimmed
// forms keep Apply idempotent when text carries surrounding whitespace.
func alreadyPrefixed(content, text string) bool {
	if strings.HasPrefix(content, text) {
		return true
	}
	if strings.HasPrefix(content, strings.TrimLeftFunc(text, unicode.IsSpace)) {
		return true
	}
	return content == strings.TrimSpace(text)
}

// Hook is the send-interception point the host calls before delivering a
// message. It never fails: any problem leaves the message as it was.
type Hook struct {
	store        *selection.Store
	registry     *prefix.Registry
	rulesChannel string
}

// NewHook wires the hook to its stores. An empty rulesChannel uses
// DefaultRulesChannel.
func NewHook(store *selection.Store, registry *prefix.Registry, rulesChannel string) *Hook {
	if strings.TrimSpace(rulesChannel) == "" {
		rulesChannel = DefaultRulesChannel
	}
	return &Hook{store: store, registry: registry, rulesChannel: rulesChannel}
}

// RulesChannel returns the channel excluded from prefixing.
func (h *Hook) RulesChannel() string { return h.rulesChannel }

// BeforeSend rewrites msg.Content in place when a prefix applies.
func (h *Hook) BeforeSend(ctx context.Context, channelID string, msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("send hook for %s: %v", channelID, r)
			events.Send.Skip(channelID, events.SendReasonRecovered)
		}
	}()
	if channelID == h.rulesChannel {
		events.Send.Skip(channelID, events.SendReasonRules)
		return
	}
	if msg == nil || msg.Content == "" {
		events.Send.Skip(channelID, events.SendReasonEmpty)
		return
	}
	m := h.store.Load(ctx)
	sel := selection.Resolve(m, channelID)
	if sel == selection.None {
		events.Send.Skip(channelID, events.SendReasonNoPrefix)
		return
	}
	updated := Apply(channelID, msg.Content, m, h.registry.Entries(ctx))
	if updated == msg.Content {
		events.Send.Skip(channelID, events.SendReasonPrefixed)
		return
	}
	msg.Content = updated
	events.Send.Prefix(channelID, sel, updated)
}
