package events

import "github.com/atomicstack/chat-prefix/internal/logging"

type EditorTracer struct{}

var Editor = EditorTracer{}

func (EditorTracer) Add(id string) {
	logging.Trace("editor.add", map[string]interface{}{"id": id})
}

func (EditorTracer) Select(id string) {
	logging.Trace("editor.select", map[string]interface{}{"id": id})
}

func (EditorTracer) Apply(id, label string) {
	logging.Trace("editor.apply", map[string]interface{}{"id": id, "label": label})
}

func (EditorTracer) Confirm(id string, confirmed bool) {
	logging.Trace("editor.confirm", map[string]interface{}{"id": id, "confirmed": confirmed})
}

func (EditorTracer) Delete(id string) {
	logging.Trace("editor.delete", map[string]interface{}{"id": id})
}

func (EditorTracer) DeleteBlocked(id string) {
	logging.Trace("editor.delete.blocked", map[string]interface{}{"id": id})
}
