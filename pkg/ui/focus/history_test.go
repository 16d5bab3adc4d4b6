package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

func TestHistoryRecordsFocusChanges(t *testing.T) {
	doc, _, nodes := buttons(3)
	h := NewHistory(doc, 5)
	defer h.Close()

	require.True(t, doc.Focus(nodes[0], tree.FocusOptions{}))
	require.True(t, doc.Focus(nodes[1], tree.FocusOptions{}))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, nodes[1], h.Latest())
}

func TestHistoryBounded(t *testing.T) {
	doc, _, nodes := buttons(4)
	h := NewHistory(doc, 2)

	for _, n := range nodes {
		h.Record(n)
	}
	h.Record(nodes[3])

	assert.Equal(t, 2, h.Len())
	nodes[3].Detach()
	assert.Equal(t, nodes[2], h.Latest())
	nodes[2].Detach()
	assert.Nil(t, h.Latest(), "older entries were evicted")
}

func TestHistoryLatestExcept(t *testing.T) {
	doc, list, nodes := buttons(2)
	other := tree.New("button", "other")
	doc.Body.Append(other)
	h := NewHistory(doc, 5)

	h.Record(other)
	h.Record(nodes[0])

	assert.Equal(t, other, h.LatestExcept([]*tree.Node{list}))
}

func TestHistoryCloseStopsRecording(t *testing.T) {
	doc, _, nodes := buttons(2)
	h := NewHistory(doc, 0)
	h.Close()
	h.Close()

	require.True(t, doc.Focus(nodes[0], tree.FocusOptions{}))
	assert.Zero(t, h.Len())

	var nilHistory *History
	assert.Nil(t, nilHistory.Latest())
}
