package listnav

import (
	"sync"
	"time"

	"github.com/odvcencio/tabstop/pkg/ui/terminal"
)

// Scheduler runs f once after d. The returned cancel stops a pending call
// and is safe to call after it fired.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// TypeAhead accumulates printable keystrokes into a search query that is
// cleared after an idle timeout, on Escape or Enter, and on Dispose.
type TypeAhead struct {
	mu      sync.Mutex
	timeout time.Duration
	sched   Scheduler
	query   string
	cancel  func()
	onClear func()
	closed  bool
	gen     int
}

// NewTypeAhead creates a type-ahead buffer. A nil scheduler uses timers.
func NewTypeAhead(timeout time.Duration, sched Scheduler) *TypeAhead {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &TypeAhead{timeout: timeout, sched: sched}
}

// OnClear registers a callback run whenever a non-empty query is cleared.
// Widgets use it to reset their reducer's search state.
func (t *TypeAhead) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// Push appends r and restarts the idle timer. It returns the accumulated
// query.
func (t *TypeAhead) Push(r rune) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ""
	}
	t.query += string(r)
	t.stopLocked()
	t.gen++
	gen := t.gen
	t.cancel = t.sched.AfterFunc(t.timeout, func() { t.expire(gen) })
	return t.query
}

// Query returns the accumulated query.
func (t *TypeAhead) Query() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}

// HandleKey feeds a key event. Printable keys extend the query and report
// ok; Escape and Enter clear it.
func (t *TypeAhead) HandleKey(ev terminal.KeyEvent) (query string, ok bool) {
	switch {
	case ev.Key == terminal.KeyEscape || ev.Key == terminal.KeyEnter:
		t.Clear()
		return "", false
	case ev.Printable():
		return t.Push(ev.Rune), true
	default:
		return t.Query(), false
	}
}

// Clear drops the query and cancels the pending timer.
func (t *TypeAhead) Clear() {
	t.mu.Lock()
	t.stopLocked()
	fn := t.resetLocked()
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Dispose clears the query and refuses further input. Widgets call it on
// unmount so no timer fires against a destroyed list.
func (t *TypeAhead) Dispose() {
	t.mu.Lock()
	t.stopLocked()
	t.query = ""
	t.closed = true
	t.onClear = nil
	t.mu.Unlock()
}

// expire runs on the scheduler. A timer that fired after being superseded
// by a newer keystroke is ignored.
func (t *TypeAhead) expire(gen int) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.cancel = nil
	fn := t.resetLocked()
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (t *TypeAhead) resetLocked() func() {
	if t.query == "" {
		return nil
	}
	t.query = ""
	return t.onClear
}

func (t *TypeAhead) stopLocked() {
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
