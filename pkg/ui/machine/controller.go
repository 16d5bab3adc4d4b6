package machine

import (
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/listnav"
	"github.com/odvcencio/tabstop/pkg/ui/terminal"
)

// ListKey maps a navigation key to a list action. Closed lists open on
// Up and Down with the last or first item active.
func ListKey(ev terminal.KeyEvent, open bool) (Action, bool) {
	switch ev.Key {
	case terminal.KeyDown:
		if !open {
			return Open{Focus: listnav.Go(listnav.First)}, true
		}
		return GoTo{Directive: listnav.Go(listnav.Next)}, true
	case terminal.KeyUp:
		if !open {
			return Open{Focus: listnav.Go(listnav.Last)}, true
		}
		return GoTo{Directive: listnav.Go(listnav.Previous)}, true
	case terminal.KeyHome, terminal.KeyPageUp:
		return GoTo{Directive: listnav.Go(listnav.First)}, open
	case terminal.KeyEnd, terminal.KeyPageDown:
		return GoTo{Directive: listnav.Go(listnav.Last)}, open
	case terminal.KeyEscape:
		return Close{}, open
	}
	return nil, false
}

// TabsKey maps Left, Right, Home and End to tab actions.
func TabsKey(ev terminal.KeyEvent) (Action, bool) {
	switch ev.Key {
	case terminal.KeyRight:
		return GoTo{Directive: listnav.Go(listnav.Next)}, true
	case terminal.KeyLeft:
		return GoTo{Directive: listnav.Go(listnav.Previous)}, true
	case terminal.KeyHome:
		return GoTo{Directive: listnav.Go(listnav.First)}, true
	case terminal.KeyEnd:
		return GoTo{Directive: listnav.Go(listnav.Last)}, true
	}
	return nil, false
}

// List drives a ListState from key events, feeding printable keys through
// a type-ahead buffer.
//
// The buffer may clear itself on a timer goroutine; List only reads it, and
// folds a cleared query into State on the next HandleKey or Sync.
type List[T any] struct {
	State    ListState[T]
	OnChange func(ListState[T])

	typeAhead *listnav.TypeAhead
	metrics   *telemetry.Metrics
}

// NewList creates a controller. typeAhead may be nil to disable search;
// metrics may be nil.
func NewList[T any](typeAhead *listnav.TypeAhead, metrics *telemetry.Metrics) *List[T] {
	return &List[T]{
		State:     NewListState[T](),
		typeAhead: typeAhead,
		metrics:   metrics,
	}
}

// Dispatch reduces a into State and reports whether it changed.
func (l *List[T]) Dispatch(a Action) bool {
	next, changed := ReduceList(l.State, a)
	if !changed {
		return false
	}
	l.State = next
	if _, closed := a.(Close); closed && l.typeAhead != nil {
		l.typeAhead.Clear()
	}
	if l.OnChange != nil {
		l.OnChange(next)
	}
	return true
}

// Sync drops a query the type-ahead buffer already expired.
func (l *List[T]) Sync() bool {
	if l.typeAhead == nil || l.State.Query == "" || l.typeAhead.Query() != "" {
		return false
	}
	return l.Dispatch(ClearSearch{})
}

// HandleKey applies ev and reports whether it was consumed.
func (l *List[T]) HandleKey(ev terminal.KeyEvent) bool {
	l.Sync()

	if a, ok := ListKey(ev, l.State.Open); ok {
		if l.typeAhead != nil {
			l.typeAhead.Clear()
		}
		l.Dispatch(a)
		return true
	}
	if l.typeAhead == nil || !l.State.Open || !ev.Printable() {
		return false
	}

	query := l.typeAhead.Push(ev.Rune)
	l.Dispatch(Search{Query: query})
	if item, ok := l.State.ActiveItem(); ok && listnav.Matches(query, item) {
		l.metrics.TypeAhead("match")
	} else {
		l.metrics.TypeAhead("miss")
	}
	return true
}
