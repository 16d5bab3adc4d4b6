package layer

import (
	"log/slog"

	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/focus"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Registration describes the region one widget owns.
type Registration struct {
	// Containers are the owned subtrees. Events targeting them are inside.
	Containers []*tree.Node
	// Layer, when set, limits reactions to while the layer is topmost of
	// its kind. Reacting to a pointer-down then stops propagation so outer
	// layers never see it.
	Layer *Layer
	// Button is the owned control that receives focus when an outside
	// press lands on something that cannot take focus. It counts as inside.
	Button *tree.Node
	// OnOutside is invoked for each outside pointer-down or focus change.
	OnOutside func(ev *tree.Event)
	// IgnoreFocus skips focus changes, for owners whose focus trap already
	// pulls focus back.
	IgnoreFocus bool
}

// Coordinator detects interactions outside registered regions.
type Coordinator struct {
	doc     *tree.Document
	stack   *Stack
	logger  *logging.Logger
	metrics *telemetry.Metrics

	next int
	regs map[int]func()
}

// NewCoordinator creates a coordinator observing doc. Layered registrations
// consult stack.
func NewCoordinator(doc *tree.Document, stack *Stack, logger *logging.Logger, metrics *telemetry.Metrics) *Coordinator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Coordinator{
		doc:     doc,
		stack:   stack,
		logger:  logger,
		metrics: metrics,
		regs:    make(map[int]func()),
	}
}

// Register starts watching for outside interactions. The returned function
// stops watching and may be called more than once.
func (c *Coordinator) Register(r Registration) (unregister func()) {
	w := &watcher{c: c, reg: r}
	removeDown := c.doc.AddEventListener(tree.PointerDown, w.handle)
	removeFocus := c.doc.AddEventListener(tree.FocusIn, w.handle)

	c.next++
	id := c.next
	unregister = func() {
		if _, ok := c.regs[id]; !ok {
			return
		}
		delete(c.regs, id)
		removeDown()
		removeFocus()
	}
	c.regs[id] = unregister
	return unregister
}

// Len returns the number of live registrations.
func (c *Coordinator) Len() int { return len(c.regs) }

// Close removes every registration.
func (c *Coordinator) Close() {
	for _, unregister := range c.regs {
		unregister()
	}
}

type watcher struct {
	c        *Coordinator
	reg      Registration
	reacting bool
}

func (w *watcher) handle(ev *tree.Event) {
	if w.reacting || (w.reg.IgnoreFocus && ev.Type == tree.FocusIn) {
		return
	}
	target := ev.Target
	if target == nil || target.Owner() != w.c.doc {
		return
	}
	if w.inside(target) {
		return
	}
	if l := w.reg.Layer; l != nil && (w.c.stack == nil || !w.c.stack.IsTopmost(l)) {
		return
	}

	w.reacting = true
	defer func() { w.reacting = false }()

	w.c.metrics.Outside(ev.Type.String())
	w.c.logger.Debug("outside interaction",
		slog.String("event", ev.Type.String()),
		slog.String("target", target.String()),
	)

	pointer := ev.Type == tree.PointerDown
	refocus := pointer && !focus.IsFocusable(target, focus.Loose)
	if refocus {
		ev.PreventDefault()
	}
	if w.reg.OnOutside != nil {
		w.reg.OnOutside(ev)
	}
	if refocus && w.reg.Button != nil {
		w.c.doc.Focus(w.reg.Button, tree.FocusOptions{})
	}
	if pointer && w.reg.Layer != nil {
		ev.StopPropagation()
	}
}

func (w *watcher) inside(n *tree.Node) bool {
	if w.reg.Button != nil && w.reg.Button.Contains(n) {
		return true
	}
	for _, c := range w.reg.Containers {
		if c != nil && c.Contains(n) {
			return true
		}
	}
	return false
}
