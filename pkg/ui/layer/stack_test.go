package layer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tabstop/pkg/telemetry"
	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

func TestStackPushIdempotent(t *testing.T) {
	s := NewStack(nil, nil)
	el := tree.New("div", "dialog")

	first := s.Push(KindDialog, el)
	second := s.Push(KindDialog, el)

	assert.Same(t, first, second)
	assert.Equal(t, 1, s.Len())

	other := s.Push(KindPopover, el)
	assert.NotSame(t, first, other, "kind is part of the identity")
	assert.Equal(t, 2, s.Len())
}

func TestStackPopIdempotent(t *testing.T) {
	s := NewStack(nil, nil)
	l := s.Push(KindDialog, tree.New("div", "d"))

	assert.True(t, s.Pop(l))
	assert.False(t, s.Pop(l))
	assert.False(t, s.Pop(nil))
	assert.Equal(t, 0, s.Len())
}

func TestStackTopmostPerKind(t *testing.T) {
	s := NewStack(nil, nil)
	outer := s.Push(KindDialog, tree.New("div", "outer"))
	menu := s.Push(KindMenu, tree.New("div", "menu"))
	inner := s.Push(KindDialog, tree.New("div", "inner"))

	assert.Same(t, inner, s.Topmost(KindDialog))
	assert.Same(t, menu, s.Topmost(KindMenu))
	assert.Nil(t, s.Topmost(KindListbox))
	assert.True(t, s.IsTopmost(inner))
	assert.False(t, s.IsTopmost(outer))
	assert.True(t, s.IsTopmost(menu), "layers of other kinds do not compete")

	s.Pop(inner)
	assert.True(t, s.IsTopmost(outer))
	assert.False(t, s.IsTopmost(inner))
}

func TestStackOutOfOrderPop(t *testing.T) {
	s := NewStack(nil, nil)
	a := s.Push(KindDialog, tree.New("div", "a"))
	b := s.Push(KindDialog, tree.New("div", "b"))
	c := s.Push(KindDialog, tree.New("div", "c"))

	s.Pop(b)
	assert.Equal(t, []*Layer{a, c}, s.Layers())
	assert.Same(t, c, s.Topmost(KindDialog))
	assert.Less(t, a.Order(), c.Order())
}

func TestStackLayersIsCopy(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(KindDialog, tree.New("div", "a"))

	layers := s.Layers()
	layers[0] = nil
	assert.NotNil(t, s.Layers()[0])
}

func TestStackAcquireReleasesOnce(t *testing.T) {
	s := NewStack(nil, nil)
	el := tree.New("div", "a")
	l, release := s.Acquire(KindDialog, el)

	// A second push of the same layer shares it; releasing the handle
	// twice must not pop anything else.
	s.Push(KindPopover, el)
	release()
	release()

	assert.False(t, s.Contains(l))
	assert.Equal(t, 1, s.Len())
}

func TestStackReset(t *testing.T) {
	s := NewStack(nil, nil)
	s.Push(KindDialog, tree.New("div", "a"))
	s.Push(KindMenu, tree.New("div", "b"))

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestStackMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := telemetry.NewMetrics("stack_test", reg)
	require.NoError(t, err)
	s := NewStack(nil, m)

	a := s.Push(KindDialog, tree.New("div", "a"))
	b := tree.New("div", "b")
	s.Push(KindDialog, b)
	s.Push(KindDialog, b)
	s.Pop(a)
	s.Pop(a)

	families, err := reg.Gather()
	require.NoError(t, err)
	got := map[string]float64{}
	for _, fam := range families {
		if fam.GetName() != "stack_test_layers_active" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			for _, label := range metric.GetLabel() {
				got[label.GetValue()] = metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, map[string]float64{"Dialog": 1}, got)
}
