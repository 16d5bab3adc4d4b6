package focus

import (
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Focus is a focus move directive. Exactly one of First, Previous, Next or
// Last must be set; WrapAround and NoScroll modify it.
type Focus int

const (
	First Focus = 1 << iota
	Previous
	Next
	Last
	WrapAround
	NoScroll
)

func (f Focus) base() Focus { return f & (First | Previous | Next | Last) }

// Result is the outcome of a focus move.
type Result int

const (
	// Error means nothing could be focused: an empty list, an invalid
	// directive, or every candidate refused focus.
	Error Result = iota
	// Overflow means a forward move ran past the end without wrapping.
	Overflow
	// Success means a candidate received focus.
	Success
	// Underflow means a backward move ran past the start without wrapping.
	Underflow
)

func (r Result) String() string {
	switch r {
	case Overflow:
		return "overflow"
	case Success:
		return "success"
	case Underflow:
		return "underflow"
	default:
		return "error"
	}
}

type options struct {
	relativeTo *tree.Node
	sorted     bool
	skip       map[*tree.Node]bool
	metrics    *telemetry.Metrics
}

// Option adjusts a focus move.
type Option func(*options)

// RelativeTo computes the start position from n instead of the active element.
func RelativeTo(n *tree.Node) Option {
	return func(o *options) { o.relativeTo = n }
}

// Sorted sorts the candidate list into document order before moving.
func Sorted() Option {
	return func(o *options) { o.sorted = true }
}

// Skip removes nodes from the candidate list.
func Skip(nodes ...*tree.Node) Option {
	return func(o *options) {
		if o.skip == nil {
			o.skip = make(map[*tree.Node]bool, len(nodes))
		}
		for _, n := range nodes {
			o.skip[n] = true
		}
	}
}

// WithMetrics records the result of the move.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// InContainer resolves the candidates of container and moves focus among
// them.
func InContainer(container *tree.Node, f Focus, opts ...Option) Result {
	if container == nil {
		return Error
	}
	doc := container.Owner()
	if doc == nil {
		return Error
	}
	return In(doc, Candidates(container), f, opts...)
}

// In moves focus among candidates according to f.
//
// The scan starts next to the active element (or at an end for First and
// Last) and keeps going while the host refuses focus, giving up after one
// attempt per candidate. On success a node without an explicit tab index
// receives tab index 0.
func In(doc *tree.Document, candidates []*tree.Node, f Focus, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	result := move(doc, candidates, f, &o)
	o.metrics.Traversal(result.String())
	return result
}

func move(doc *tree.Document, candidates []*tree.Node, f Focus, o *options) Result {
	if doc == nil {
		return Error
	}
	elements := candidates
	if o.sorted {
		elements = tree.SortByPosition(elements)
	}
	if len(o.skip) > 0 {
		filtered := make([]*tree.Node, 0, len(elements))
		for _, n := range elements {
			if !o.skip[n] {
				filtered = append(filtered, n)
			}
		}
		elements = filtered
	}

	total := len(elements)
	if total == 0 {
		return Error
	}

	active := o.relativeTo
	if active == nil {
		active = doc.ActiveElement()
	}
	current := indexOf(elements, active)

	var direction, start int
	switch f.base() {
	case First:
		direction, start = 1, 0
	case Next:
		direction = 1
		if current < 0 {
			start = 0
		} else {
			start = current + 1
		}
	case Previous:
		direction = -1
		if current < 0 {
			start = total - 1
		} else {
			start = current - 1
		}
	case Last:
		direction, start = -1, total-1
	default:
		return Error
	}

	focusOpts := tree.FocusOptions{PreventScroll: f&NoScroll != 0}
	offset := 0
	var next *tree.Node
	for {
		if offset >= total || -offset >= total {
			return Error
		}
		idx := start + offset
		if f&WrapAround != 0 {
			idx = ((idx % total) + total) % total
		} else {
			if idx < 0 {
				return Underflow
			}
			if idx >= total {
				return Overflow
			}
		}

		next = elements[idx]
		doc.Focus(next, focusOpts)
		offset += direction

		if next == doc.ActiveElement() {
			break
		}
	}

	if _, ok := next.TabIndex(); !ok {
		next.SetTabIndex(0)
	}
	return Success
}

func indexOf(nodes []*tree.Node, n *tree.Node) int {
	if n == nil {
		return -1
	}
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}
