package checkgroup

// EventKind names a notification relayed from a child to the group and
// re-emitted by the group to its own listeners.
type EventKind string

const (
	EventChange EventKind = "change"
	EventClick  EventKind = "click"
	EventInput  EventKind = "input"
	EventFocus  EventKind = "focus"
	EventBlur   EventKind = "blur"
)

// EventKinds lists every relayed kind in subscription order.
var EventKinds = []EventKind{EventChange, EventClick, EventInput, EventFocus, EventBlur}

// Event is delivered to listeners. Target is always the child the event
// originated from, also when the group re-emits it.
type Event struct {
	Kind   EventKind
	Target Checkable
}

// Listener receives events.
type Listener func(Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// emitter is a minimal ordered listener table. Cancel functions are
// idempotent and it is safe to cancel from inside a listener.
type emitter struct {
	next      uint64
	listeners map[EventKind][]listenerEntry
}

func (e *emitter) on(kind EventKind, fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	if e.listeners == nil {
		e.listeners = make(map[EventKind][]listenerEntry)
	}
	e.next++
	id := e.next
	e.listeners[kind] = append(e.listeners[kind], listenerEntry{id: id, fn: fn})
	return func() { e.off(kind, id) }
}

func (e *emitter) off(kind EventKind, id uint64) {
	entries := e.listeners[kind]
	for i, entry := range entries {
		if entry.id != id {
			continue
		}
		out := make([]listenerEntry, 0, len(entries)-1)
		out = append(out, entries[:i]...)
		out = append(out, entries[i+1:]...)
		if len(out) == 0 {
			delete(e.listeners, kind)
		} else {
			e.listeners[kind] = out
		}
		return
	}
}

func (e *emitter) emit(ev Event) {
	// Snapshot: listeners may cancel or register while we dispatch.
	for _, entry := range e.listeners[ev.Kind] {
		entry.fn(ev)
	}
}

func (e *emitter) count(kind EventKind) int {
	return len(e.listeners[kind])
}
