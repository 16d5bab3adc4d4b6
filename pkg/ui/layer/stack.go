// Package layer tracks open modal-like layers and decides which of them owns
// outside interactions and Escape.
package layer

import (
	"github.com/odvcencio/tabstop/pkg/logging"
	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// Kind names a family of layers competing for the same keys and clicks.
type Kind string

const (
	KindDialog  Kind = "Dialog"
	KindPopover Kind = "Popover"
	KindMenu    Kind = "Menu"
	KindListbox Kind = "Listbox"
)

// Layer is one open layer.
type Layer struct {
	Kind    Kind
	Element *tree.Node
	order   int
}

// Order is the push sequence number of the layer.
func (l *Layer) Order() int { return l.order }

// Stack is an append-ordered list of open layers. It never enforces
// exclusivity; each layer asks whether it is topmost.
type Stack struct {
	layers []*Layer
	next   int
	logger *logging.Logger
	metric *telemetry.Metrics
}

// NewStack creates an empty stack. Logger and metrics may be nil.
func NewStack(logger *logging.Logger, metrics *telemetry.Metrics) *Stack {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Stack{logger: logger, metric: metrics}
}

// Push registers a layer. Pushing the same kind and element twice returns
// the existing layer.
func (s *Stack) Push(kind Kind, element *tree.Node) *Layer {
	for _, l := range s.layers {
		if l.Kind == kind && l.Element == element {
			return l
		}
	}
	s.next++
	l := &Layer{Kind: kind, Element: element, order: s.next}
	s.layers = append(s.layers, l)
	s.metric.LayerDelta(string(kind), 1)
	s.logger.LayerPushed(string(kind), element.String(), len(s.layers))
	return l
}

// Pop removes l. It reports whether l was on the stack.
func (s *Stack) Pop(l *Layer) bool {
	if l == nil {
		return false
	}
	for i, cur := range s.layers {
		if cur == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			s.metric.LayerDelta(string(l.Kind), -1)
			s.logger.LayerPopped(string(l.Kind), l.Element.String(), len(s.layers))
			return true
		}
	}
	return false
}

// Acquire pushes a layer and returns a release that pops it once.
func (s *Stack) Acquire(kind Kind, element *tree.Node) (*Layer, func()) {
	l := s.Push(kind, element)
	done := false
	return l, func() {
		if done {
			return
		}
		done = true
		s.Pop(l)
	}
}

// Topmost returns the most recently pushed layer of kind, or nil.
func (s *Stack) Topmost(kind Kind) *Layer {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].Kind == kind {
			return s.layers[i]
		}
	}
	return nil
}

// IsTopmost reports whether l is the topmost layer of its kind.
func (s *Stack) IsTopmost(l *Layer) bool {
	return l != nil && s.Topmost(l.Kind) == l
}

// Contains reports whether l is on the stack.
func (s *Stack) Contains(l *Layer) bool {
	for _, cur := range s.layers {
		if cur == l {
			return true
		}
	}
	return false
}

// Len returns the number of open layers.
func (s *Stack) Len() int { return len(s.layers) }

// Layers returns a copy of the open layers, bottom first.
func (s *Stack) Layers() []*Layer {
	return append([]*Layer(nil), s.layers...)
}

// Reset pops every layer, topmost first.
func (s *Stack) Reset() {
	for len(s.layers) > 0 {
		s.Pop(s.layers[len(s.layers)-1])
	}
}
