// Package tree is the host element tree the focus core operates on.
//
// It stands in for a browser DOM: nodes carry a tag, attributes, a disabled
// flag, an optional explicit tab index and an inert flag. Document order is
// the pre-order position of a node below its root.
package tree

import "strings"

// AttrAriaHidden is the attribute toggled alongside the inert flag.
const AttrAriaHidden = "aria-hidden"

// Node is a single element in the host tree.
type Node struct {
	ID   string
	Tag  string
	Text string

	// Disabled form controls and disabled custom items refuse focus.
	Disabled bool
	// Hidden nodes (and their descendants) are not rendered and refuse focus.
	Hidden bool

	tabIndex    int
	hasTabIndex bool
	attrs       map[string]string
	inert       bool

	parent   *Node
	children []*Node
	doc      *Document // set on the document body only
}

// New creates a detached node.
func New(tag, id string) *Node {
	return &Node{Tag: strings.ToLower(tag), ID: id}
}

// String returns "tag#id" for logs and test failures.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.ID == "" {
		return n.Tag
	}
	return n.Tag + "#" + n.ID
}

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child list. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// Append adds children at the end, detaching them from any previous parent.
// It returns n for chaining.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		n.Insert(len(n.children), c)
	}
	return n
}

// Insert places child at index i among n's children.
func (n *Node) Insert(i int, child *Node) {
	if child == nil || child == n || child.Contains(n) {
		return
	}
	child.Detach()
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
}

// Remove detaches child from n. It reports whether child was a child of n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	if n == nil {
		return false
	}
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Owner returns the document n is connected to, or nil when detached.
func (n *Node) Owner() *Document {
	if n == nil {
		return nil
	}
	return n.Root().doc
}

// Connected reports whether n is attached to a document.
func (n *Node) Connected() bool { return n.Owner() != nil }

// Attr returns an attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(name, value string) *Node {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	return n
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(name string) {
	delete(n.attrs, name)
}

// TabIndex returns the explicit tab index, if one is set.
func (n *Node) TabIndex() (int, bool) { return n.tabIndex, n.hasTabIndex }

// SetTabIndex assigns an explicit tab index.
func (n *Node) SetTabIndex(i int) *Node {
	n.tabIndex = i
	n.hasTabIndex = true
	return n
}

// ClearTabIndex removes the explicit tab index.
func (n *Node) ClearTabIndex() {
	n.tabIndex = 0
	n.hasTabIndex = false
}

// Inert reports the node's own inert flag.
func (n *Node) Inert() bool { return n.inert }

// SetInert sets the node's own inert flag.
func (n *Node) SetInert(v bool) { n.inert = v }

// InInertSubtree reports whether n or an ancestor is inert.
func (n *Node) InInertSubtree() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.inert {
			return true
		}
	}
	return false
}

// InHiddenSubtree reports whether n or an ancestor is hidden.
func (n *Node) InHiddenSubtree() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Hidden {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node in n's subtree with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

var interactiveTags = map[string]bool{
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"iframe":   true,
}

// MatchesFocusable reports whether the node itself matches the interactive
// selector list: an explicit tab index, a form control or iframe, a link or
// area with href, or contenteditable="true".
func (n *Node) MatchesFocusable() bool {
	if n == nil {
		return false
	}
	if n.hasTabIndex {
		return true
	}
	if interactiveTags[n.Tag] {
		return true
	}
	if (n.Tag == "a" || n.Tag == "area") && n.HasAttr("href") {
		return true
	}
	if v, ok := n.Attr("contenteditable"); ok && strings.EqualFold(v, "true") {
		return true
	}
	return false
}
