package checkgroup

import "reflect"

// Slot is the ordered projected content of a group. Structural changes
// (Assign, Append, Remove) notify observers so the owning group can rescan.
//
// Slot is not safe for concurrent use.
type Slot struct {
	nodes     []any
	next      uint64
	observers []slotObserver
}

type slotObserver struct {
	id uint64
	fn func(*Slot)
}

// NewSlot creates a slot holding nodes without notifying anyone.
func NewSlot(nodes ...any) *Slot {
	return &Slot{nodes: append([]any(nil), nodes...)}
}

// Nodes returns a copy of the projected nodes in order.
func (s *Slot) Nodes() []any {
	return append([]any(nil), s.nodes...)
}

// Len returns the number of projected nodes.
func (s *Slot) Len() int {
	return len(s.nodes)
}

// Contains reports whether node is currently projected.
func (s *Slot) Contains(node any) bool {
	return s.index(node) >= 0
}

// Assign replaces the projected content.
func (s *Slot) Assign(nodes ...any) {
	s.nodes = append([]any(nil), nodes...)
	s.notify()
}

// Append projects node after the existing content.
func (s *Slot) Append(node any) {
	s.nodes = append(s.nodes, node)
	s.notify()
}

// Remove drops the first occurrence of node. Observers are notified only
// when something was removed.
func (s *Slot) Remove(node any) bool {
	i := s.index(node)
	if i < 0 {
		return false
	}
	s.nodes = append(s.nodes[:i:i], s.nodes[i+1:]...)
	s.notify()
	return true
}

// OnChange registers fn to run after every structural change.
func (s *Slot) OnChange(fn func(*Slot)) (cancel func()) {
	s.next++
	id := s.next
	s.observers = append(s.observers, slotObserver{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// retain replaces the content without notifying; used by the owner while it
// is already handling a change.
func (s *Slot) retain(nodes []any) {
	s.nodes = nodes
}

func (s *Slot) index(node any) int {
	for i, n := range s.nodes {
		if sameNode(n, node) {
			return i
		}
	}
	return -1
}

func (s *Slot) notify() {
	for _, o := range s.observers {
		o.fn(s)
	}
}

// sameNode compares projected nodes without panicking on uncomparable types.
func sameNode(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}
