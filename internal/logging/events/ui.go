package events

import (
	"time"

	"github.com/atomicstack/chat-prefix/internal/logging"
)

type MenuTracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

// MenuReason names why the prefix menu closed.
type MenuReason string

const (
	MenuReasonToggle  MenuReason = "toggle"
	MenuReasonEscape  MenuReason = "escape"
	MenuReasonOutside MenuReason = "outside"
	MenuReasonCommit  MenuReason = "commit"
	MenuReasonChannel MenuReason = "channel"
	MenuReasonMode    MenuReason = "mode"
)

var (
	Menu    = MenuTracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (MenuTracer) Open(channel string, options int) {
	logging.Trace("menu.open", map[string]interface{}{"channel": channel, "options": options})
}

func (MenuTracer) Close(channel string, reason MenuReason) {
	logging.Trace("menu.close", map[string]interface{}{"channel": channel, "reason": string(reason)})
}

func (MenuTracer) Measure(height int) {
	logging.Trace("menu.measure", map[string]interface{}{"height": height})
}

func (MenuTracer) Commit(top, left, width int) {
	logging.Trace("menu.commit", map[string]interface{}{"top": top, "left": left, "width": width})
}

func (MenuTracer) SkipUnmounted() {
	logging.Trace("menu.skip", map[string]interface{}{"reason": "anchor-unmounted"})
}

func (MenuTracer) Select(channel, selection string) {
	logging.Trace("menu.select", map[string]interface{}{"channel": channel, "selection": selection})
}

func (MenuTracer) Cursor(cursor int) {
	logging.Trace("menu.cursor", map[string]interface{}{"cursor": cursor})
}

func (MenuTracer) Stale(channel string, generation int) {
	logging.Trace("menu.load.stale", map[string]interface{}{"channel": channel, "generation": generation})
}

func (MenuTracer) Channel(channel string) {
	logging.Trace("menu.channel", map[string]interface{}{"channel": channel})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FilterTracer) Change(query string, matches int) {
	logging.Trace("filter.change", map[string]interface{}{"query": query, "matches": matches})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string, elapsed time.Duration) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType, "elapsed_ms": elapsed.Milliseconds()})
}
