package focus

import "github.com/odvcencio/tabstop/pkg/ui/tree"

// History remembers the most recently focused nodes of a document so a
// trap whose recorded restore target was removed can fall back to the
// newest node that is still attached.
type History struct {
	size    int
	entries []*tree.Node
	remove  func()
}

// NewHistory records focus changes on doc, keeping at most size entries.
func NewHistory(doc *tree.Document, size int) *History {
	if size < 1 {
		size = 1
	}
	h := &History{size: size}
	if doc != nil {
		h.remove = doc.AddEventListener(tree.FocusIn, func(ev *tree.Event) {
			h.Record(ev.Target)
		})
	}
	return h
}

// Record appends n, dropping the oldest entry when full. Consecutive
// duplicates are collapsed.
func (h *History) Record(n *tree.Node) {
	if n == nil {
		return
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == n {
		return
	}
	h.entries = append(h.entries, n)
	if len(h.entries) > h.size {
		h.entries = append(h.entries[:0:0], h.entries[len(h.entries)-h.size:]...)
	}
}

// Latest returns the newest recorded node still connected, or nil.
func (h *History) Latest() *tree.Node {
	return h.LatestExcept(nil)
}

// LatestExcept is Latest ignoring nodes inside any of the given containers.
func (h *History) LatestExcept(containers []*tree.Node) *tree.Node {
	if h == nil {
		return nil
	}
outer:
	for i := len(h.entries) - 1; i >= 0; i-- {
		n := h.entries[i]
		if !n.Connected() {
			continue
		}
		for _, c := range containers {
			if c.Contains(n) {
				continue outer
			}
		}
		return n
	}
	return nil
}

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }

// Close stops recording.
func (h *History) Close() {
	if h.remove != nil {
		h.remove()
	}
}
