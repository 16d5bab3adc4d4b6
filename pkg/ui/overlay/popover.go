package overlay

import (
	"github.com/google/uuid"

	tserrors "github.com/odvcencio/tabstop/pkg/errors"
	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/ui/env"
	"github.com/odvcencio/tabstop/pkg/ui/focus"
	"github.com/odvcencio/tabstop/pkg/ui/layer"
	"github.com/odvcencio/tabstop/pkg/ui/terminal"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// PopoverOptions configures OpenPopover.
type PopoverOptions struct {
	// Panel is the popover root. Required.
	Panel *tree.Node
	// Trigger is the button toggling the popover. Presses on it are not
	// outside presses; it regains focus when the popover closes while
	// focus was inside.
	Trigger *tree.Node
	// Kind defaults to layer.KindPopover. Menus and listboxes pass their
	// own kind so they only compete with their peers.
	Kind layer.Kind
	// FocusFirst moves focus to the first focusable element on open.
	FocusFirst bool
	// OnClose runs once after teardown.
	OnClose func(Reason)
}

// Popover is an open non-modal overlay. It neither traps Tab nor makes the
// rest of the page inert; focus leaving the panel closes it.
type Popover struct {
	ID string

	env    *env.Environment
	opts   PopoverOptions
	layer  *layer.Layer
	logger *logging.Logger

	removeEscape      func()
	unregisterOutside func()
	untrack           func()
	closed            bool
}

// OpenPopover shows a non-modal overlay.
func OpenPopover(e *env.Environment, opts PopoverOptions) (*Popover, error) {
	if e == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoDocument, "popover requires an environment")
	}
	if opts.Panel == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoContainer, "popover requires a panel")
	}
	if opts.Kind == "" {
		opts.Kind = layer.KindPopover
	}

	p := &Popover{ID: uuid.NewString(), env: e, opts: opts}
	p.layer = e.Stack.Push(opts.Kind, opts.Panel)
	p.logger = e.Logger.Component("popover").WithSession(p.ID).WithLayer(string(opts.Kind), p.layer.Order())

	if opts.FocusFirst && focus.InContainer(opts.Panel, focus.First, focus.WithMetrics(e.Metrics)) == focus.Error {
		p.logger.NoFocusableElement(opts.Panel.String())
	}

	p.unregisterOutside = e.Coordinator.Register(layer.Registration{
		Containers: []*tree.Node{opts.Panel},
		Layer:      p.layer,
		Button:     opts.Trigger,
		OnOutside:  func(*tree.Event) { p.close(ReasonOutside) },
	})
	p.removeEscape = e.Doc.AddEventListener(tree.KeyDown, p.onKeyDown)
	p.untrack = e.Track(func() { p.close(ReasonEnvironment) })

	p.logger.Debug("popover opened")
	return p, nil
}

// Topmost reports whether the popover is the topmost of its kind.
func (p *Popover) Topmost() bool {
	return !p.closed && p.env.Stack.IsTopmost(p.layer)
}

// Layer returns the popover's layer.
func (p *Popover) Layer() *layer.Layer { return p.layer }

// Closed reports whether the popover was closed.
func (p *Popover) Closed() bool { return p.closed }

// Close tears the popover down. Calling it again does nothing.
func (p *Popover) Close() { p.close(ReasonProgrammatic) }

func (p *Popover) close(reason Reason) {
	if p.closed {
		return
	}
	p.closed = true

	p.removeEscape()
	p.unregisterOutside()
	p.untrack()
	p.env.Stack.Pop(p.layer)

	// Focus that already moved elsewhere stays there.
	active := p.env.Doc.ActiveElement()
	if active == nil || !active.Connected() || p.opts.Panel.Contains(active) {
		restoreFocus(p.env, p.opts.Trigger, []*tree.Node{p.opts.Panel})
	}

	p.logger.Debug("popover closed", "reason", reason.String())
	if p.opts.OnClose != nil {
		p.opts.OnClose(reason)
	}
}

func (p *Popover) onKeyDown(ev *tree.Event) {
	if ev.Key.Key != terminal.KeyEscape || ev.DefaultPrevented() || !p.Topmost() {
		return
	}
	ev.PreventDefault()
	ev.StopPropagation()
	p.close(ReasonEscape)
}
