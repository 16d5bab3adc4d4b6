// Package overlay composes traps, inert guards, layers and outside-click
// detection into modal dialog and popover sessions.
package overlay

import (
	"github.com/google/uuid"

	tserrors "github.com/odvcencio/tabstop/pkg/errors"
	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/ui/env"
	"github.com/odvcencio/tabstop/pkg/ui/focus"
	"github.com/odvcencio/tabstop/pkg/ui/inert"
	"github.com/odvcencio/tabstop/pkg/ui/layer"
	"github.com/odvcencio/tabstop/pkg/ui/terminal"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Reason says why a session closed.
type Reason int

const (
	// ReasonProgrammatic means the owner called Close.
	ReasonProgrammatic Reason = iota
	// ReasonEscape means the user pressed Escape while the session was topmost.
	ReasonEscape
	// ReasonOutside means the user interacted outside the panel.
	ReasonOutside
	// ReasonEnvironment means the environment was closed.
	ReasonEnvironment
)

func (r Reason) String() string {
	switch r {
	case ReasonEscape:
		return "escape"
	case ReasonOutside:
		return "outside"
	case ReasonEnvironment:
		return "environment"
	default:
		return "programmatic"
	}
}

// DialogOptions configures Open.
type DialogOptions struct {
	// Panel is the dialog root. Required.
	Panel *tree.Node
	// Trigger is the control that opened the dialog. Focus returns to it
	// on close when it is still connected.
	Trigger *tree.Node
	// InitialFocus overrides the first focusable element of Panel.
	InitialFocus *tree.Node
	// Portals are extra containers that belong to the dialog.
	Portals []*tree.Node
	// KeepOpenOnOutside disables closing on outside presses.
	KeepOpenOnOutside bool
	// OnClose runs once after teardown.
	OnClose func(Reason)
}

// Dialog is an open modal dialog.
type Dialog struct {
	ID string

	env     *env.Environment
	opts    DialogOptions
	layer   *layer.Layer
	trap    *focus.Trap
	logger  *logging.Logger
	release inert.Release

	removeEscape      func()
	unregisterOutside func()
	untrack           func()
	closed            bool
}

// Open shows a modal dialog: it pushes a dialog layer, makes everything
// outside the panel inert, traps focus inside it and closes on Escape or an
// outside press while it is the topmost dialog.
func Open(e *env.Environment, opts DialogOptions) (*Dialog, error) {
	if e == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoDocument, "dialog requires an environment")
	}
	if opts.Panel == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoContainer, "dialog requires a panel")
	}

	d := &Dialog{ID: uuid.NewString(), env: e, opts: opts}
	d.layer = e.Stack.Push(layer.KindDialog, opts.Panel)
	d.logger = e.Logger.Component("dialog").WithSession(d.ID).WithLayer(string(d.layer.Kind), d.layer.Order())

	containers := append([]*tree.Node{opts.Panel}, opts.Portals...)
	release, err := e.Guard.GuardOthers(containers)
	if err != nil {
		e.Stack.Pop(d.layer)
		return nil, err
	}
	d.release = release

	trap, err := e.NewTrap(focus.TrapOptions{
		Containers:   containers,
		Features:     e.TrapFeatures() &^ focus.FeatureRestoreFocus,
		InitialFocus: opts.InitialFocus,
		Enabled:      d.Topmost,
	})
	if err != nil {
		d.release()
		e.Stack.Pop(d.layer)
		return nil, err
	}
	d.trap = trap
	restore := e.Doc.ActiveElement()
	trap.Activate()
	if d.opts.Trigger == nil {
		d.opts.Trigger = restore
	}

	d.unregisterOutside = e.Coordinator.Register(layer.Registration{
		Containers:  containers,
		Layer:       d.layer,
		IgnoreFocus: true,
		OnOutside: func(*tree.Event) {
			if !opts.KeepOpenOnOutside {
				d.close(ReasonOutside)
			}
		},
	})
	d.removeEscape = e.Doc.AddEventListener(tree.KeyDown, d.onKeyDown)
	d.untrack = e.Track(func() { d.close(ReasonEnvironment) })

	d.logger.Debug("dialog opened")
	return d, nil
}

// Topmost reports whether the dialog is the topmost open dialog.
func (d *Dialog) Topmost() bool {
	return !d.closed && d.env.Stack.IsTopmost(d.layer)
}

// Layer returns the dialog's layer.
func (d *Dialog) Layer() *layer.Layer { return d.layer }

// Trap returns the dialog's focus trap.
func (d *Dialog) Trap() *focus.Trap { return d.trap }

// Closed reports whether the dialog was closed.
func (d *Dialog) Closed() bool { return d.closed }

// Close tears the dialog down. Calling it again does nothing.
func (d *Dialog) Close() { d.close(ReasonProgrammatic) }

func (d *Dialog) close(reason Reason) {
	if d.closed {
		return
	}
	d.closed = true

	d.removeEscape()
	d.unregisterOutside()
	d.untrack()
	d.env.ReleaseTrap(d.trap)
	// The trigger usually sits in a subtree this dialog made inert, so the
	// guard and layer go before focus is restored.
	d.release()
	d.env.Stack.Pop(d.layer)
	restoreFocus(d.env, d.opts.Trigger, d.trap.Containers())

	d.logger.Debug("dialog closed", "reason", reason.String())
	if d.opts.OnClose != nil {
		d.opts.OnClose(reason)
	}
}

func (d *Dialog) onKeyDown(ev *tree.Event) {
	if ev.Key.Key != terminal.KeyEscape || ev.DefaultPrevented() || !d.Topmost() {
		return
	}
	ev.PreventDefault()
	ev.StopPropagation()
	d.close(ReasonEscape)
}

// restoreFocus focuses target when the trap's features ask for it, falling
// back to the most recent history entry outside containers.
func restoreFocus(e *env.Environment, target *tree.Node, containers []*tree.Node) {
	if !e.TrapFeatures().Has(focus.FeatureRestoreFocus) {
		return
	}
	opts := tree.FocusOptions{PreventScroll: true}
	if target != nil && target.Connected() && e.Doc.Focus(target, opts) {
		return
	}
	if fallback := e.History.LatestExcept(containers); fallback != nil {
		e.Doc.Focus(fallback, opts)
	}
}
