package demo

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/tabstop/pkg/ui/backend"
	"github.com/odvcencio/tabstop/pkg/ui/runtime"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

const (
	toolbarRow = 0
	tabsRow    = 2
	tabTextRow = 3
)

var (
	plainStyle    = backend.DefaultStyle()
	focusedStyle  = backend.DefaultStyle().With(backend.AttrReverse)
	selectedStyle = backend.DefaultStyle().With(backend.AttrUnderline | backend.AttrBold)
	inertStyle    = backend.DefaultStyle().With(backend.AttrDim)
	frameStyle    = backend.DefaultStyle().Foreground(backend.ColorCyan)
)

// Render redraws the screen and rebuilds the hit grid. Layers paint bottom
// first so presses hit what is on top.
func (a *App) Render() {
	w, h := a.out.Size()
	grid := a.disp.Grid()
	grid.Resize(w, h)
	grid.Clear()
	a.out.Clear()

	x := 0
	for _, n := range a.toolbar.Children() {
		x += a.drawButton(n, x, toolbarRow) + 1
	}

	x = 0
	for _, n := range a.tabList.Children() {
		x += a.drawButton(n, x, tabsRow) + 1
	}
	if a.tabs.Selected != -1 {
		sel := a.tabs.Tabs[a.tabs.Selected].Payload
		backend.DrawText(a.out, 1, tabTextRow, a.tabText[sel], a.styleFor(a.tabList, plainStyle))
	}

	if a.popover != nil {
		a.drawMenu()
	}
	for _, v := range a.dialogs {
		a.drawDialog(v)
	}

	if h > 0 {
		backend.DrawText(a.out, 0, h-1, a.statusLine(), inertStyle)
	}
	a.out.Show()
}

func (a *App) statusLine() string {
	active := "none"
	if n := a.doc.ActiveElement(); n != nil {
		active = n.String()
	}
	query := ""
	if q := a.menu.State.Query; q != "" {
		query = fmt.Sprintf(" | search %q", q)
	}
	return fmt.Sprintf("focus %s | layers %d | inert %d%s | %s",
		active, a.env.Stack.Len(), a.env.Guard.Len(), query, a.status)
}

func (a *App) styleFor(n *tree.Node, base backend.Style) backend.Style {
	switch {
	case n.InInertSubtree():
		return inertStyle
	case n == a.doc.ActiveElement():
		return focusedStyle
	default:
		return base
	}
}

// drawButton paints "[label]" and returns its width.
func (a *App) drawButton(n *tree.Node, x, y int) int {
	label := "[" + n.Text + "]"
	base := plainStyle
	if a.tabs.Selected != -1 && a.tabs.Tabs[a.tabs.Selected].Payload == n {
		base = selectedStyle
	}
	backend.DrawText(a.out, x, y, label, a.styleFor(n, base))
	return a.disp.Grid().AddLabel(n, x, y, label).Width
}

func (a *App) drawMenu() {
	x := 0
	for _, n := range a.toolbar.Children() {
		if n == a.openMenu {
			break
		}
		x += runewidth.StringWidth(n.Text) + 3
	}

	width := 0
	for _, n := range a.menuPanel.Children() {
		width = max(width, runewidth.StringWidth(n.Text)+2)
	}
	items := a.menuPanel.Children()
	bounds := runtime.NewRect(x, toolbarRow+1, width, len(items))
	backend.Fill(a.out, bounds.X, bounds.Y, bounds.Width, bounds.Height, ' ', plainStyle)
	a.disp.Grid().Add(a.menuPanel, bounds)

	for i, n := range items {
		a.drawButton(n, x, bounds.Y+i)
	}
}

func (a *App) drawDialog(v *dialogView) {
	b := v.bounds
	style := a.styleFor(v.panel, frameStyle)
	backend.Fill(a.out, b.X, b.Y, b.Width, b.Height, ' ', plainStyle)
	a.drawFrame(b, v.title, style)
	a.disp.Grid().Add(v.panel, b)

	inner := b.Inset(1)
	x := inner.X + 1
	for _, n := range v.buttons {
		x += a.drawButton(n, x, inner.Y+inner.Height-1) + 1
	}
}

func (a *App) drawFrame(r runtime.Rect, title string, style backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1
	horizontal := strings.Repeat("─", r.Width-2)
	backend.DrawText(a.out, r.X, r.Y, "┌"+horizontal+"┐", style)
	backend.DrawText(a.out, r.X, bottom, "└"+horizontal+"┘", style)
	for y := r.Y + 1; y < bottom; y++ {
		a.out.SetContent(r.X, y, '│', style)
		a.out.SetContent(right, y, '│', style)
	}
	backend.DrawText(a.out, r.X+2, r.Y, " "+title+" ", style)
}
