package runtime

import (
	"log/slog"

	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/focus"
	"github.com/odvcencio/tabstop/pkg/ui/terminal"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Dispatcher feeds terminal events into a document.
//
// Key events become KeyDown events targeting the focused node. A left press
// becomes a PointerDown event targeting the node under the cursor (or the
// body). When no listener prevented the default, Tab moves focus through
// the whole document with wraparound and a press focuses the nearest
// focusable ancestor of its target, or blurs.
type Dispatcher struct {
	doc     *tree.Document
	grid    *HitGrid
	logger  *logging.Logger
	metrics *telemetry.Metrics
}

// NewDispatcher creates a dispatcher. Logger and metrics may be nil.
func NewDispatcher(doc *tree.Document, grid *HitGrid, logger *logging.Logger, metrics *telemetry.Metrics) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	if grid == nil {
		grid = NewHitGrid(0, 0)
	}
	return &Dispatcher{doc: doc, grid: grid, logger: logger, metrics: metrics}
}

// Grid returns the hit grid consulted for mouse events.
func (d *Dispatcher) Grid() *HitGrid { return d.grid }

// Dispatch handles ev and returns the document event it produced, or nil
// for events with no document counterpart.
func (d *Dispatcher) Dispatch(ev terminal.Event) *tree.Event {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return d.key(e)
	case terminal.MouseEvent:
		if e.Action != terminal.MousePress || e.Button != terminal.MouseLeft {
			return nil
		}
		return d.press(e.X, e.Y)
	case terminal.ResizeEvent:
		d.grid.Resize(e.Width, e.Height)
	}
	return nil
}

func (d *Dispatcher) key(k terminal.KeyEvent) *tree.Event {
	ev := d.doc.Dispatch(&tree.Event{
		Type:   tree.KeyDown,
		Target: d.doc.ActiveElement(),
		Key:    k,
	})
	if ev.DefaultPrevented() || k.Key != terminal.KeyTab {
		return ev
	}

	dir := focus.Next
	if k.Shift {
		dir = focus.Previous
	}
	result := focus.In(d.doc, focus.Candidates(d.doc.Body), dir|focus.WrapAround, focus.WithMetrics(d.metrics))
	d.logger.Debug("tab default action", slog.String("result", result.String()))
	return ev
}

func (d *Dispatcher) press(x, y int) *tree.Event {
	target := d.grid.NodeAt(x, y)
	if target == nil || !target.Connected() {
		target = d.doc.Body
	}
	ev := d.doc.Dispatch(&tree.Event{Type: tree.PointerDown, Target: target})
	if ev.DefaultPrevented() {
		return ev
	}

	for n := target; n != nil; n = n.Parent() {
		if d.doc.CanFocus(n) {
			d.doc.Focus(n, tree.FocusOptions{})
			return ev
		}
	}
	d.doc.Blur()
	return ev
}
