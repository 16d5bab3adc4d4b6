package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

type fixture struct {
	doc     *tree.Document
	stack   *Stack
	coord   *Coordinator
	trigger *tree.Node
	panel   *tree.Node
	ok      *tree.Node
	text    *tree.Node
	other   *tree.Node
}

// newFixture builds body > [trigger, panel > ok, text, other].
func newFixture() *fixture {
	f := &fixture{doc: tree.NewDocument()}
	f.stack = NewStack(nil, nil)
	f.coord = NewCoordinator(f.doc, f.stack, nil, nil)
	f.trigger = tree.New("button", "trigger")
	f.panel = tree.New("div", "panel")
	f.ok = tree.New("button", "ok")
	f.text = tree.New("p", "text")
	f.other = tree.New("button", "other")
	f.doc.Body.Append(f.trigger, f.panel.Append(f.ok), f.text, f.other)
	return f
}

func (f *fixture) press(n *tree.Node) *tree.Event {
	return f.doc.Dispatch(&tree.Event{Type: tree.PointerDown, Target: n})
}

func TestOutsidePressInvokesCallback(t *testing.T) {
	f := newFixture()
	var got []*tree.Node
	f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		OnOutside:  func(ev *tree.Event) { got = append(got, ev.Target) },
	})

	f.press(f.ok)
	assert.Empty(t, got, "inside press is ignored")

	ev := f.press(f.other)
	assert.Equal(t, []*tree.Node{f.other}, got)
	assert.False(t, ev.DefaultPrevented(), "focusable targets keep their default action")
}

func TestOutsidePressOnInertTextRefocusesButton(t *testing.T) {
	f := newFixture()
	f.doc.Focus(f.ok, tree.FocusOptions{})
	calls := 0
	f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		Button:     f.trigger,
		OnOutside:  func(*tree.Event) { calls++ },
	})

	ev := f.press(f.text)

	assert.True(t, ev.DefaultPrevented())
	assert.Same(t, f.trigger, f.doc.ActiveElement())
	assert.Equal(t, 1, calls, "focusing the owned button is not an outside focus change")
}

func TestButtonCountsAsInside(t *testing.T) {
	f := newFixture()
	calls := 0
	f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		Button:     f.trigger,
		OnOutside:  func(*tree.Event) { calls++ },
	})

	f.press(f.trigger)
	assert.Equal(t, 0, calls)
}

func TestOutsideFocusChange(t *testing.T) {
	f := newFixture()
	seenByEarlier := 0
	// Listeners registered before the coordinator still observe focus changes.
	f.doc.AddEventListener(tree.FocusIn, func(*tree.Event) { seenByEarlier++ })
	calls := 0
	f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		OnOutside:  func(*tree.Event) { calls++ },
	})

	f.doc.Focus(f.ok, tree.FocusOptions{})
	assert.Equal(t, 0, calls)

	f.doc.Focus(f.other, tree.FocusOptions{})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, seenByEarlier)
}

func TestIgnoreFocus(t *testing.T) {
	f := newFixture()
	calls := 0
	f.coord.Register(Registration{
		Containers:  []*tree.Node{f.panel},
		IgnoreFocus: true,
		OnOutside:   func(*tree.Event) { calls++ },
	})

	f.doc.Focus(f.other, tree.FocusOptions{})
	assert.Equal(t, 0, calls)
	f.press(f.other)
	assert.Equal(t, 1, calls)
}

func TestDisconnectedTargetIgnored(t *testing.T) {
	f := newFixture()
	calls := 0
	f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		OnOutside:  func(*tree.Event) { calls++ },
	})

	f.other.Detach()
	f.press(f.other)
	f.press(tree.New("button", "never-attached"))
	assert.Equal(t, 0, calls)
}

func TestUnregisterIdempotent(t *testing.T) {
	f := newFixture()
	calls := 0
	unregister := f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		OnOutside:  func(*tree.Event) { calls++ },
	})
	assert.Equal(t, 1, f.coord.Len())

	unregister()
	unregister()
	f.press(f.other)

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, f.coord.Len())
	assert.Equal(t, 0, f.doc.ListenerCount(tree.PointerDown))
	assert.Equal(t, 0, f.doc.ListenerCount(tree.FocusIn))
}

func TestNestedLayersOnlyInnermostReacts(t *testing.T) {
	f := newFixture()
	inner := tree.New("div", "inner")
	f.panel.Append(inner.Append(tree.New("button", "inner-ok")))

	outerLayer := f.stack.Push(KindDialog, f.panel)
	var closed []string
	unregisterOuter := f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		Layer:      outerLayer,
		OnOutside:  func(*tree.Event) { closed = append(closed, "outer") },
	})

	innerLayer := f.stack.Push(KindDialog, inner)
	var unregisterInner func()
	unregisterInner = f.coord.Register(Registration{
		Containers: []*tree.Node{inner},
		Layer:      innerLayer,
		OnOutside: func(*tree.Event) {
			closed = append(closed, "inner")
			unregisterInner()
			f.stack.Pop(innerLayer)
		},
	})

	// Inside the outer panel but outside the inner dialog: only inner closes.
	ev := f.press(f.ok)
	assert.Equal(t, []string{"inner"}, closed)
	assert.True(t, ev.PropagationStopped())

	f.press(f.other)
	assert.Equal(t, []string{"inner", "outer"}, closed)
	unregisterOuter()
}

func TestLayeredRegistrationWaitsUntilTopmost(t *testing.T) {
	f := newFixture()
	outerLayer := f.stack.Push(KindDialog, f.panel)
	calls := 0
	f.coord.Register(Registration{
		Containers: []*tree.Node{f.panel},
		Layer:      outerLayer,
		OnOutside:  func(*tree.Event) { calls++ },
	})

	// A dialog opened later without its own registration still owns the top.
	top := f.stack.Push(KindDialog, f.other)
	f.press(f.text)
	assert.Equal(t, 0, calls)

	f.stack.Pop(top)
	f.press(f.text)
	assert.Equal(t, 1, calls)

	f.stack.Pop(outerLayer)
	f.press(f.text)
	assert.Equal(t, 1, calls, "popped layers never react")
}

func TestCoordinatorClose(t *testing.T) {
	f := newFixture()
	f.coord.Register(Registration{Containers: []*tree.Node{f.panel}})
	f.coord.Register(Registration{Containers: []*tree.Node{f.ok}})

	f.coord.Close()
	assert.Equal(t, 0, f.coord.Len())
	assert.Equal(t, 0, f.doc.ListenerCount(tree.PointerDown))
}
