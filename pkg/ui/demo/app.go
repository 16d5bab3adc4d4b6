// Package demo is a small terminal application that drives the focus core:
// a toolbar, a tab list, a fruit menu with type-ahead search and nested
// modal dialogs, all rendered through a backend.Backend.
package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/ui/backend"
	"github.com/odvcencio/tabstop/pkg/ui/env"
	"github.com/odvcencio/tabstop/pkg/ui/layer"
	"github.com/odvcencio/tabstop/pkg/ui/listnav"
	"github.com/odvcencio/tabstop/pkg/ui/machine"
	"github.com/odvcencio/tabstop/pkg/ui/overlay"
	"github.com/odvcencio/tabstop/pkg/ui/runtime"
	"github.com/odvcencio/tabstop/pkg/ui/terminal"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Fruits are the menu entries, in display order.
var Fruits = []string{"Apple", "Banana", "Avocado", "Cherry"}

type tab struct {
	label string
	text  string
}

var tabs = []tab{
	{"Focus", "Tab and Shift+Tab walk the page; dialogs trap them."},
	{"Layers", "Escape and outside presses reach the topmost layer only."},
	{"Inert", "Everything behind an open dialog is inert and aria-hidden."},
}

// typeAheadExpired is posted when the menu's search query times out so the
// reducer catches up on the UI goroutine.
type typeAheadExpired struct{}

type dialogView struct {
	dialog *overlay.Dialog
	panel  *tree.Node
	title  string
	bounds runtime.Rect
	// buttons in display order
	buttons []*tree.Node
}

// App is the demo application. Handle and Render must be called from one
// goroutine; Run does that.
type App struct {
	env    *env.Environment
	doc    *tree.Document
	out    backend.Backend
	disp   *runtime.Dispatcher
	logger *logging.Logger

	toolbar    *tree.Node
	openDialog *tree.Node
	openMenu   *tree.Node
	quit       *tree.Node

	tabList *tree.Node
	tabs    machine.TabsState[*tree.Node]
	tabText map[*tree.Node]string

	menuPanel *tree.Node
	menu      *machine.List[*tree.Node]
	popover   *overlay.Popover

	dialogs []*dialogView
	actions map[*tree.Node]func()
	status  string
	running bool
}

// New builds the demo tree inside e's document and draws on out.
func New(e *env.Environment, out backend.Backend) *App {
	w, h := out.Size()
	a := &App{
		env:     e,
		doc:     e.Doc,
		out:     out,
		disp:    runtime.NewDispatcher(e.Doc, runtime.NewHitGrid(w, h), e.Logger.Component("input"), e.Metrics),
		logger:  e.Logger.Component("demo"),
		tabs:    machine.NewTabsState[*tree.Node](),
		tabText: make(map[*tree.Node]string),
		actions: make(map[*tree.Node]func()),
		status:  "ready",
		running: true,
	}

	a.toolbar = tree.New("div", "toolbar")
	a.openDialog = a.button("open-dialog", "Open dialog", a.showDialog)
	a.openMenu = a.button("open-menu", "Fruit", a.toggleMenu)
	a.quit = a.button("quit", "Quit", func() { a.running = false })
	a.toolbar.Append(a.openDialog, a.openMenu, a.quit)

	a.tabList = tree.New("div", "tabs")
	for i, t := range tabs {
		n := a.button("tab-"+t.label, t.label, nil)
		a.actions[n] = func() { a.selectTab(listnav.To(n.ID)) }
		a.tabText[n] = t.text
		a.tabList.Append(n)
		a.tabs, _ = machine.ReduceTabs(a.tabs, machine.Register[*tree.Node]{
			Item: listnav.Item[*tree.Node]{ID: n.ID, TextValue: t.label, Order: i, Payload: n},
		})
	}

	a.menuPanel = tree.New("div", "menu")
	ta := e.NewTypeAhead()
	ta.OnClear(func() { _ = out.PostEvent(terminal.InterruptEvent{Data: typeAheadExpired{}}) })
	a.menu = machine.NewList[*tree.Node](ta, e.Metrics)
	for i, fruit := range Fruits {
		n := a.button("fruit-"+fruit, fruit, nil)
		a.actions[n] = func() { a.pick(n) }
		a.menuPanel.Append(n)
		a.menu.Dispatch(machine.Register[*tree.Node]{
			Item: listnav.Item[*tree.Node]{ID: n.ID, TextValue: fruit, Order: i, Payload: n},
		})
	}

	a.doc.Body.Append(a.toolbar, a.tabList)
	return a
}

func (a *App) button(id, label string, action func()) *tree.Node {
	n := tree.New("button", id)
	n.Text = label
	if action != nil {
		a.actions[n] = action
	}
	return n
}

// Running reports whether the app still wants events.
func (a *App) Running() bool { return a.running }

// Status returns the status line message.
func (a *App) Status() string { return a.status }

// Doc returns the document the app renders.
func (a *App) Doc() *tree.Document { return a.doc }

// Node returns the node with id, or nil.
func (a *App) Node(id string) *tree.Node { return a.doc.Body.Find(id) }

// SelectedTab returns the label of the selected tab.
func (a *App) SelectedTab() string {
	if a.tabs.Selected == listnav.None {
		return ""
	}
	return a.tabs.Tabs[a.tabs.Selected].Payload.Text
}

// MenuOpen reports whether the fruit menu is shown.
func (a *App) MenuOpen() bool { return a.popover != nil }

// OpenDialogs returns the number of open dialogs.
func (a *App) OpenDialogs() int { return len(a.dialogs) }

// Run renders and handles events until Quit, ctx cancellation or the
// backend shutting down.
func (a *App) Run(ctx context.Context) error {
	events := make(chan terminal.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := a.out.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.Render()
	for a.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.Handle(ev)
			a.Render()
		}
	}
	return nil
}

// Handle applies one terminal event.
func (a *App) Handle(ev terminal.Event) {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		a.handleKey(e)
	case terminal.MouseEvent:
		a.handleMouse(e)
	case terminal.ResizeEvent:
		a.disp.Dispatch(e)
	case terminal.InterruptEvent:
		if _, ok := e.Data.(typeAheadExpired); ok {
			a.menu.Sync()
		}
	}
}

func (a *App) handleKey(k terminal.KeyEvent) {
	if k.Key == terminal.KeyCtrlC {
		a.running = false
		return
	}
	ev := a.disp.Dispatch(k)
	if ev.DefaultPrevented() {
		return
	}

	active := a.doc.ActiveElement()
	switch {
	case k.Key == terminal.KeyEnter:
		a.activate(active)
	case a.popover != nil && a.menuPanel.Contains(active):
		if a.menu.HandleKey(k) {
			a.focusMenuItem()
		}
	case active != nil && active.Parent() == a.tabList:
		if action, ok := machine.TabsKey(k); ok {
			a.selectTab(action.(machine.GoTo).Directive)
		}
	}
}

func (a *App) handleMouse(m terminal.MouseEvent) {
	target := a.disp.Grid().NodeAt(m.X, m.Y)
	blocked := target != nil && target.InInertSubtree()

	ev := a.disp.Dispatch(m)
	if ev == nil || ev.DefaultPrevented() || blocked {
		return
	}
	for n := ev.Target; n != nil; n = n.Parent() {
		if _, ok := a.actions[n]; ok {
			a.activate(n)
			return
		}
	}
}

func (a *App) activate(n *tree.Node) {
	action, ok := a.actions[n]
	if !ok || !n.Connected() || n.InInertSubtree() {
		return
	}
	a.logger.Debug("activate", slog.String("node", n.String()))
	action()
}

func (a *App) selectTab(d listnav.Directive) {
	next, changed := machine.ReduceTabs(a.tabs, machine.GoTo{Directive: d})
	if !changed {
		return
	}
	a.tabs = next
	a.doc.Focus(a.tabs.Tabs[a.tabs.Selected].Payload, focusOpts)
}

var focusOpts = tree.FocusOptions{PreventScroll: true}

func (a *App) toggleMenu() {
	if a.popover != nil {
		a.popover.Close()
		return
	}

	a.doc.Body.Append(a.menuPanel)
	a.menu.Dispatch(machine.Open{Focus: listnav.Go(listnav.First)})
	pop, err := overlay.OpenPopover(a.env, overlay.PopoverOptions{
		Panel:   a.menuPanel,
		Trigger: a.openMenu,
		Kind:    layer.KindMenu,
		OnClose: func(overlay.Reason) {
			a.menu.Dispatch(machine.Close{})
			a.menuPanel.Detach()
			a.popover = nil
		},
	})
	if err != nil {
		a.menuPanel.Detach()
		a.menu.Dispatch(machine.Close{})
		a.status = err.Error()
		return
	}
	a.popover = pop
	a.focusMenuItem()
}

func (a *App) focusMenuItem() {
	if item, ok := a.menu.State.ActiveItem(); ok {
		a.doc.Focus(item.Payload, focusOpts)
	}
}

func (a *App) pick(n *tree.Node) {
	a.status = "picked " + n.Text
	if a.popover != nil {
		a.popover.Close()
	}
}

func (a *App) showDialog() {
	depth := len(a.dialogs)
	v := &dialogView{
		panel:  tree.New("div", fmt.Sprintf("dialog-%d", depth)),
		title:  fmt.Sprintf("Dialog %d", depth+1),
		bounds: runtime.NewRect(4+depth*6, 5+depth*2, 34, 5),
	}
	nested := a.button(fmt.Sprintf("dialog-%d-nested", depth), "Nested", a.showDialog)
	closeBtn := a.button(fmt.Sprintf("dialog-%d-close", depth), "Close", nil)
	a.actions[closeBtn] = func() {
		if v.dialog != nil {
			v.dialog.Close()
		}
	}
	v.buttons = []*tree.Node{nested, closeBtn}
	v.panel.Append(nested, closeBtn)

	trigger := a.doc.ActiveElement()
	a.doc.Body.Append(v.panel)
	d, err := overlay.Open(a.env, overlay.DialogOptions{
		Panel:   v.panel,
		Trigger: trigger,
		OnClose: func(r overlay.Reason) {
			a.removeDialog(v)
			a.status = fmt.Sprintf("%s closed (%s)", v.title, r)
		},
	})
	if err != nil {
		v.panel.Detach()
		a.status = err.Error()
		return
	}
	v.dialog = d
	a.dialogs = append(a.dialogs, v)
	a.status = v.title + " open"
}

func (a *App) removeDialog(v *dialogView) {
	v.panel.Detach()
	for _, b := range v.buttons {
		delete(a.actions, b)
	}
	for i, cur := range a.dialogs {
		if cur == v {
			a.dialogs = append(a.dialogs[:i], a.dialogs[i+1:]...)
			return
		}
	}
}
