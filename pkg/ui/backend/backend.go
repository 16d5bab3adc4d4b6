// Package backend defines the terminal surface the demo draws on and reads
// input from. The tcell backend drives real terminals; the sim backend
// captures frames for tests.
package backend

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/tabstop/pkg/ui/terminal"
)

// Backend is the terminal abstraction layer.
type Backend interface {
	RenderTarget

	// Init enters raw mode and the alternate screen.
	Init() error
	// Fini restores the terminal.
	Fini()
	// Show flushes drawn cells to the terminal.
	Show()
	// Clear blanks the screen.
	Clear()
	// PollEvent blocks until an event is available. It returns nil once
	// the backend is shutting down.
	PollEvent() terminal.Event
	// PostEvent injects an event into the queue. It is safe to call from
	// other goroutines.
	PostEvent(ev terminal.Event) error
}

// RenderTarget is the drawing half of a Backend.
type RenderTarget interface {
	Size() (width, height int)
	SetContent(x, y int, r rune, style Style)
}

// DrawText writes s at (x, y), advancing by each rune's display width, and
// returns the number of columns used. Text past the right edge is clipped.
func DrawText(t RenderTarget, x, y int, s string, style Style) int {
	width, _ := t.Size()
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > width {
			break
		}
		t.SetContent(col, y, r, style)
		col += w
	}
	return col - x
}

// Fill paints a rectangle with r.
func Fill(t RenderTarget, x, y, w, h int, r rune, style Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			t.SetContent(col, row, r, style)
		}
	}
}
