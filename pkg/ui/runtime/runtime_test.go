package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tabstop/pkg/ui/terminal"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

func TestRectIntersection(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	assert.Equal(t, NewRect(5, 5, 5, 5), r.Intersection(NewRect(5, 5, 10, 10)))
	assert.True(t, r.Intersection(NewRect(20, 20, 1, 1)).Empty())
	assert.True(t, r.Contains(9, 9))
	assert.False(t, r.Contains(10, 0))
	assert.Equal(t, NewRect(1, 1, 8, 8), r.Inset(1))
	assert.True(t, NewRect(0, 0, 2, 2).Inset(1).Empty())
}

func TestHitGridLaterAdditionsWin(t *testing.T) {
	g := NewHitGrid(10, 5)
	back := tree.New("div", "back")
	front := tree.New("div", "front")

	g.Add(back, NewRect(0, 0, 10, 5))
	g.Add(front, NewRect(2, 1, 3, 2))

	assert.Same(t, back, g.NodeAt(0, 0))
	assert.Same(t, front, g.NodeAt(3, 2))
	assert.Nil(t, g.NodeAt(-1, 0))
	assert.Nil(t, g.NodeAt(10, 0))

	g.Clear()
	assert.Nil(t, g.NodeAt(3, 2))
}

func TestHitGridClipsAndIgnoresNil(t *testing.T) {
	g := NewHitGrid(4, 2)
	n := tree.New("div", "n")

	g.Add(nil, NewRect(0, 0, 4, 2))
	g.Add(n, NewRect(3, 1, 10, 10))
	assert.Nil(t, g.NodeAt(0, 0))
	assert.Same(t, n, g.NodeAt(3, 1))

	g.Resize(0, 0)
	assert.Nil(t, g.NodeAt(0, 0))
}

func TestHitGridResizeStartsEmpty(t *testing.T) {
	g := NewHitGrid(3, 3)
	n := tree.New("div", "n")
	g.Add(n, NewRect(0, 0, 3, 3))

	g.Resize(3, 3)
	assert.Same(t, n, g.NodeAt(1, 1), "same size keeps the grid")

	g.Resize(5, 2)
	w, h := g.Size()
	assert.Equal(t, 5, w)
	assert.Equal(t, 2, h)
	assert.Nil(t, g.NodeAt(1, 1))
	g.Add(n, NewRect(4, 1, 1, 1))
	assert.Same(t, n, g.NodeAt(4, 1))
}

func TestHitGridAddLabelUsesDisplayWidth(t *testing.T) {
	g := NewHitGrid(20, 1)
	n := tree.New("button", "wide")

	bounds := g.AddLabel(n, 1, 0, "日本")
	assert.Equal(t, 4, bounds.Width, "each CJK rune takes two cells")
	assert.Same(t, n, g.NodeAt(4, 0))
	assert.Nil(t, g.NodeAt(5, 0))
}

type world struct {
	doc   *tree.Document
	disp  *Dispatcher
	a     *tree.Node
	b     *tree.Node
	text  *tree.Node
	box   *tree.Node
	inBox *tree.Node
}

// newWorld lays out a row of [a][b] text above a focusable box holding a label.
func newWorld() *world {
	w := &world{doc: tree.NewDocument()}
	w.a = tree.New("button", "a")
	w.b = tree.New("button", "b")
	w.text = tree.New("p", "text")
	w.inBox = tree.New("span", "label")
	w.box = tree.New("div", "box").SetTabIndex(-1).Append(w.inBox)
	w.doc.Body.Append(w.a, w.b, w.text, w.box)

	grid := NewHitGrid(20, 3)
	grid.AddLabel(w.a, 0, 0, "[a]")
	grid.AddLabel(w.b, 3, 0, "[b]")
	grid.AddLabel(w.text, 7, 0, "text")
	grid.Add(w.box, NewRect(0, 1, 20, 2))
	grid.AddLabel(w.inBox, 1, 2, "label")
	w.disp = NewDispatcher(w.doc, grid, nil, nil)
	return w
}

func (w *world) click(x, y int) *tree.Event {
	return w.disp.Dispatch(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
}

func TestDispatchTabWraps(t *testing.T) {
	w := newWorld()
	tab := terminal.KeyEvent{Key: terminal.KeyTab}

	w.disp.Dispatch(tab)
	assert.Same(t, w.a, w.doc.ActiveElement())
	w.disp.Dispatch(tab)
	assert.Same(t, w.b, w.doc.ActiveElement())
	w.disp.Dispatch(tab)
	assert.Same(t, w.a, w.doc.ActiveElement(), "tab index -1 is skipped and the walk wraps")

	w.disp.Dispatch(terminal.KeyEvent{Key: terminal.KeyTab, Shift: true})
	assert.Same(t, w.b, w.doc.ActiveElement())
}

func TestDispatchKeyTargetsActiveElement(t *testing.T) {
	w := newWorld()
	var targets []*tree.Node
	w.doc.AddEventListener(tree.KeyDown, func(ev *tree.Event) { targets = append(targets, ev.Target) })

	w.disp.Dispatch(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x'})
	w.doc.Focus(w.b, tree.FocusOptions{})
	ev := w.disp.Dispatch(terminal.KeyEvent{Key: terminal.KeyEnter})

	require.NotNil(t, ev)
	assert.Equal(t, []*tree.Node{w.doc.Body, w.b}, targets)
}

func TestDispatchPreventedTab(t *testing.T) {
	w := newWorld()
	w.doc.AddEventListener(tree.KeyDown, func(ev *tree.Event) { ev.PreventDefault() })

	w.disp.Dispatch(terminal.KeyEvent{Key: terminal.KeyTab})
	assert.Nil(t, w.doc.ActiveElement())
}

func TestDispatchPressFocuses(t *testing.T) {
	w := newWorld()

	ev := w.click(4, 0)
	require.NotNil(t, ev)
	assert.Same(t, w.b, ev.Target)
	assert.Same(t, w.b, w.doc.ActiveElement())

	w.click(2, 2)
	assert.Same(t, w.box, w.doc.ActiveElement(), "the nearest focusable ancestor takes focus")

	w.click(8, 0)
	assert.Nil(t, w.doc.ActiveElement(), "pressing plain text blurs")

	ev = w.click(19, 0)
	assert.Same(t, w.doc.Body, ev.Target, "empty cells target the body")
}

func TestDispatchPreventedPress(t *testing.T) {
	w := newWorld()
	w.doc.Focus(w.a, tree.FocusOptions{})
	w.doc.AddEventListener(tree.PointerDown, func(ev *tree.Event) { ev.PreventDefault() })

	w.click(4, 0)
	assert.Same(t, w.a, w.doc.ActiveElement())
}

func TestDispatchIgnoresOtherMouseEvents(t *testing.T) {
	w := newWorld()
	assert.Nil(t, w.disp.Dispatch(terminal.MouseEvent{X: 4, Button: terminal.MouseLeft, Action: terminal.MouseRelease}))
	assert.Nil(t, w.disp.Dispatch(terminal.MouseEvent{X: 4, Button: terminal.MouseWheelUp, Action: terminal.MousePress}))
	assert.Nil(t, w.doc.ActiveElement())
}

func TestDispatchResize(t *testing.T) {
	w := newWorld()
	assert.Nil(t, w.disp.Dispatch(terminal.ResizeEvent{Width: 5, Height: 5}))
	width, height := w.disp.Grid().Size()
	assert.Equal(t, 5, width)
	assert.Equal(t, 5, height)
	assert.Nil(t, w.disp.Grid().NodeAt(0, 0), "resizing clears stale hit regions")
}
