package testutil

import (
	"sync"

	"github.com/hupe1980/agentcouncil/core"
)

// Recorder is a core.Publisher that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []core.Event
}

// Publish implements core.Publisher.
func (r *Recorder) Publish(ev core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Event(nil), r.events...)
}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []core.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

// OfType returns the recorded events of type t.
func (r *Recorder) OfType(t core.EventType) []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
