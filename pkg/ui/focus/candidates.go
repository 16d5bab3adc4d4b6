// Package focus implements focus traversal, focus history and focus traps
// over a tree.Document.
package focus

import (
	"math"
	"sort"

	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Mode selects how IsFocusable matches.
type Mode int

const (
	// Strict matches only the node itself.
	Strict Mode = iota
	// Loose matches the node or any of its ancestors.
	Loose
)

// Candidates returns the tab-order candidates inside container: descendants
// matching the interactive selector list, minus tab index -1, disabled
// nodes and nodes under a hidden or inert subtree. Positive tab indexes come
// first in ascending order, then everything else in document order.
func Candidates(container *tree.Node) []*tree.Node {
	if container == nil || container.InInertSubtree() || container.InHiddenSubtree() {
		return nil
	}
	var out []*tree.Node
	for _, child := range container.Children() {
		child.Walk(func(n *tree.Node) bool {
			if n.Hidden || n.Inert() {
				return false
			}
			if !n.MatchesFocusable() || n.Disabled {
				return true
			}
			if idx, ok := n.TabIndex(); ok && idx < 0 {
				return true
			}
			out = append(out, n)
			return true
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return tabOrder(out[i]) < tabOrder(out[j])
	})
	return out
}

// CandidatesIn returns the union of the candidates of every container, in
// document order, without duplicates.
func CandidatesIn(containers []*tree.Node) []*tree.Node {
	seen := make(map[*tree.Node]bool)
	var all []*tree.Node
	for _, c := range containers {
		for _, n := range Candidates(c) {
			if !seen[n] {
				seen[n] = true
				all = append(all, n)
			}
		}
	}
	return tree.SortByPosition(all)
}

func tabOrder(n *tree.Node) int {
	if idx, ok := n.TabIndex(); ok && idx > 0 {
		return idx
	}
	return math.MaxInt
}

// IsFocusable reports whether n (Strict) or n or an ancestor (Loose)
// matches the interactive selector list.
func IsFocusable(n *tree.Node, mode Mode) bool {
	if n == nil {
		return false
	}
	if mode == Strict {
		return n.MatchesFocusable()
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.MatchesFocusable() {
			return true
		}
	}
	return false
}
