package events

import "github.com/atomicstack/chat-prefix/internal/logging"

type StoreTracer struct{}

type RegistryTracer struct{}

var (
	Store    = StoreTracer{}
	Registry = RegistryTracer{}
)

func (StoreTracer) Load(key string, size int) {
	logging.Trace("store.load", map[string]interface{}{"key": key, "channels": size})
}

func (StoreTracer) Save(key string, size int) {
	logging.Trace("store.save", map[string]interface{}{"key": key, "channels": size})
}

func (StoreTracer) Fallback(key, reason string) {
	logging.Trace("store.fallback", map[string]interface{}{"key": key, "reason": reason})
}

func (RegistryTracer) Load(count int) {
	logging.Trace("registry.load", map[string]interface{}{"entries": count})
}

func (RegistryTracer) Save(count int) {
	logging.Trace("registry.save", map[string]interface{}{"entries": count})
}
