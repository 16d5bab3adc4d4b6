package tree

import "sort"

// path returns the child indexes from the root down to n.
func (n *Node) path() []int {
	var rev []int
	for cur := n; cur.parent != nil; cur = cur.parent {
		idx := 0
		for i, c := range cur.parent.children {
			if c == cur {
				idx = i
				break
			}
		}
		rev = append(rev, idx)
	}
	out := make([]int, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// ComparePosition orders two nodes by document position: negative when a
// precedes b, positive when it follows, zero for the same node or nodes in
// different trees. An ancestor precedes its descendants.
func ComparePosition(a, b *Node) int {
	if a == b || a == nil || b == nil {
		return 0
	}
	if a.Root() != b.Root() {
		return 0
	}
	pa, pb := a.path(), b.path()
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			return pa[i] - pb[i]
		}
	}
	return len(pa) - len(pb)
}

// SortByPosition returns a copy of nodes sorted into document order. Nodes
// that cannot be compared keep their relative order.
func SortByPosition(nodes []*Node) []*Node {
	out := append([]*Node(nil), nodes...)
	sort.SliceStable(out, func(i, j int) bool {
		return ComparePosition(out[i], out[j]) < 0
	})
	return out
}
