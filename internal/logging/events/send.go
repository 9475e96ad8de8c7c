package events

import "github.com/atomicstack/chat-prefix/internal/logging"

type SendTracer struct{}

type sendReason string

const (
	SendReasonRules     sendReason = "rules-channel"
	SendReasonEmpty     sendReason = "empty-content"
	SendReasonNoPrefix  sendReason = "no-prefix"
	SendReasonPrefixed  sendReason = "already-prefixed"
	SendReasonRecovered sendReason = "recovered"
)

var Send = SendTracer{}

func (SendTracer) Skip(channel string, reason sendReason) {
	logging.Trace("send.skip", map[string]interface{}{"channel": channel, "reason": string(reason)})
}

func (SendTracer) Prefix(channel, selection, content string) {
	logging.Trace("send.prefix", map[string]interface{}{"channel": channel, "selection": selection, "content": content})
}

func (SendTracer) Deliver(channel string, length int) {
	logging.Trace("send.deliver", map[string]interface{}{"channel": channel, "length": length})
}
