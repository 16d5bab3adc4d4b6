// Package inert marks subtrees non-interactive with reference counting so
// overlapping modal layers compose.
package inert

import (
	tserrors "github.com/odvcencio/tabstop/pkg/errors"
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Release undoes one acquisition. Calling it more than once is a no-op.
type Release func()

type record struct {
	ariaHidden    string
	hadAriaHidden bool
	inert         bool
	count         int
}

// Guard owns the inert bookkeeping for one focus environment.
type Guard struct {
	records map[*tree.Node]*record
	metrics *telemetry.Metrics
}

// NewGuard creates an empty guard. Metrics may be nil.
func NewGuard(metrics *telemetry.Metrics) *Guard {
	return &Guard{
		records: make(map[*tree.Node]*record),
		metrics: metrics,
	}
}

// Acquire marks n inert and aria-hidden. The first acquisition snapshots the
// original values; the last release restores them.
func (g *Guard) Acquire(n *tree.Node) (Release, error) {
	if n == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoContainer, "inert guard requires an element")
	}
	g.acquire(n)
	return g.once(func() { g.release(n) }), nil
}

// GuardOthers inerts everything outside the ancestor chains of allowed: at
// every level from each allowed element up to the body, siblings that
// contain no allowed element are acquired. Each sibling is acquired at most
// once per call.
func (g *Guard) GuardOthers(allowed []*tree.Node) (Release, error) {
	var keep []*tree.Node
	for _, n := range allowed {
		if n != nil {
			keep = append(keep, n)
		}
	}
	if len(keep) == 0 {
		return func() {}, nil
	}

	seen := make(map[*tree.Node]bool)
	var guarded []*tree.Node
	for _, el := range keep {
		body := bodyOf(el)
		for child := el; child != nil && child != body && child.Parent() != nil; child = child.Parent() {
			for _, sibling := range child.Parent().Children() {
				if seen[sibling] || containsAny(sibling, keep) {
					continue
				}
				seen[sibling] = true
				g.acquire(sibling)
				guarded = append(guarded, sibling)
			}
		}
	}

	return g.once(func() {
		for i := len(guarded) - 1; i >= 0; i-- {
			g.release(guarded[i])
		}
	}), nil
}

// Count returns the number of outstanding acquisitions for n.
func (g *Guard) Count(n *tree.Node) int {
	if r, ok := g.records[n]; ok {
		return r.count
	}
	return 0
}

// Len returns the number of elements currently guarded.
func (g *Guard) Len() int { return len(g.records) }

func (g *Guard) acquire(n *tree.Node) {
	r, ok := g.records[n]
	if ok {
		r.count++
		return
	}
	v, had := n.Attr(tree.AttrAriaHidden)
	g.records[n] = &record{
		ariaHidden:    v,
		hadAriaHidden: had,
		inert:         n.Inert(),
		count:         1,
	}
	n.SetAttr(tree.AttrAriaHidden, "true")
	n.SetInert(true)
	g.metrics.GuardedDelta(1)
}

func (g *Guard) release(n *tree.Node) {
	r, ok := g.records[n]
	if !ok {
		tserrors.Invariant("inert release without acquisition for %s", n)
		return
	}
	r.count--
	if r.count > 0 {
		return
	}
	if r.count < 0 {
		tserrors.Invariant("inert reference count for %s went negative", n)
	}

	if r.hadAriaHidden {
		n.SetAttr(tree.AttrAriaHidden, r.ariaHidden)
	} else {
		n.RemoveAttr(tree.AttrAriaHidden)
	}
	n.SetInert(r.inert)
	delete(g.records, n)
	g.metrics.GuardedDelta(-1)
}

func (g *Guard) once(fn func()) Release {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		fn()
	}
}

// bodyOf returns the document body of n, or nil when n is detached.
func bodyOf(n *tree.Node) *tree.Node {
	if doc := n.Owner(); doc != nil {
		return doc.Body
	}
	return nil
}

func containsAny(n *tree.Node, nodes []*tree.Node) bool {
	for _, other := range nodes {
		if n.Contains(other) {
			return true
		}
	}
	return false
}
