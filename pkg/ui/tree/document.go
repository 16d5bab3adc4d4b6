package tree

import "github.com/odvcencio/tabstop/pkg/ui/terminal"

// EventType identifies a document-level event.
type EventType int

const (
	// FocusIn fires after focus moved to Target. RelatedTarget is the
	// previously focused node.
	FocusIn EventType = iota
	// PointerDown fires before the default pointer action (focusing the
	// pressed element) runs.
	PointerDown
	// KeyDown fires before the default key action runs. Target is the
	// focused node, or the body when nothing is focused.
	KeyDown
)

func (t EventType) String() string {
	switch t {
	case FocusIn:
		return "focusin"
	case PointerDown:
		return "pointerdown"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

// Event is dispatched to document listeners.
type Event struct {
	Type          EventType
	Target        *Node
	RelatedTarget *Node
	Key           terminal.KeyEvent

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the host's default action for the event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps remaining listeners from observing the event.
func (e *Event) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }

// FocusOptions mirrors the options of a platform focus call.
type FocusOptions struct {
	PreventScroll bool
}

type listener struct {
	fn      func(*Event)
	removed bool
}

// Document owns a tree rooted at Body and tracks the focused node.
// It is not safe for concurrent use; all calls happen on the UI thread.
type Document struct {
	Body *Node

	active    *Node
	scrolled  *Node
	listeners map[EventType][]*listener
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	d := &Document{listeners: make(map[EventType][]*listener)}
	d.Body = New("body", "")
	d.Body.doc = d
	return d
}

// ActiveElement returns the focused node, or nil when nothing is focused or
// the focused node has been detached since.
func (d *Document) ActiveElement() *Node {
	if d.active != nil && d.active.Owner() != d {
		d.active = nil
	}
	return d.active
}

// LastScrolled returns the last node scrolled into view by a focus call.
func (d *Document) LastScrolled() *Node { return d.scrolled }

// CanFocus reports whether Focus(n) would succeed.
func (d *Document) CanFocus(n *Node) bool {
	if n == nil || n.Owner() != d {
		return false
	}
	if n.Disabled || n.InHiddenSubtree() || n.InInertSubtree() {
		return false
	}
	return n.MatchesFocusable()
}

// Focus moves focus to n. A refused focus leaves the active element
// unchanged, the way a browser silently ignores focus() on hidden or inert
// elements. It reports whether n is focused afterwards.
func (d *Document) Focus(n *Node, opts FocusOptions) bool {
	if !d.CanFocus(n) {
		return false
	}
	if d.ActiveElement() == n {
		return true
	}

	prev := d.active
	d.active = n
	if !opts.PreventScroll {
		d.scrolled = n
	}
	d.Dispatch(&Event{Type: FocusIn, Target: n, RelatedTarget: prev})
	return d.active == n
}

// Blur clears focus.
func (d *Document) Blur() {
	d.active = nil
}

// AddEventListener registers fn for events of type t. The returned function
// removes the listener and is safe to call more than once.
func (d *Document) AddEventListener(t EventType, fn func(*Event)) (remove func()) {
	l := &listener{fn: fn}
	d.listeners[t] = append(d.listeners[t], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := d.listeners[t]
		for i, cur := range list {
			if cur == l {
				d.listeners[t] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// ListenerCount returns the number of live listeners for t.
func (d *Document) ListenerCount(t EventType) int {
	return len(d.listeners[t])
}

// Dispatch delivers ev to listeners, most recently registered first, until
// one stops propagation. Nested layers register after the layers that
// opened them, so they observe shared events first.
func (d *Document) Dispatch(ev *Event) *Event {
	if ev.Target == nil {
		ev.Target = d.Body
	}
	snapshot := append([]*listener(nil), d.listeners[ev.Type]...)
	for i := len(snapshot) - 1; i >= 0; i-- {
		l := snapshot[i]
		if l.removed {
			continue
		}
		l.fn(ev)
		if ev.stopped {
			break
		}
	}
	return ev
}
