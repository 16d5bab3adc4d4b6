package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/tabstop/pkg/ui/tree"
)

// HitGrid answers which node a mouse press landed on. Each cell holds the
// node painted there last, so overlays are added after what they cover.
type HitGrid struct {
	width, height int
	owners        []*tree.Node
}

func NewHitGrid(width, height int) *HitGrid {
	g := &HitGrid{}
	g.Resize(width, height)
	return g
}

// Size returns the grid dimensions.
func (g *HitGrid) Size() (width, height int) { return g.width, g.height }

// Resize reallocates on a size change; the grid comes back empty.
func (g *HitGrid) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width, g.height = width, height
	g.owners = nil
	if width > 0 && height > 0 {
		g.owners = make([]*tree.Node, width*height)
	}
}

func (g *HitGrid) Clear() { clear(g.owners) }

// Add claims the cells of bounds for node, clipped to the grid.
func (g *HitGrid) Add(node *tree.Node, bounds Rect) {
	if node == nil {
		return
	}
	area := bounds.Intersection(Rect{Width: g.width, Height: g.height})
	for y := area.Y; y < area.Y+area.Height; y++ {
		row := g.owners[y*g.width : (y+1)*g.width]
		for x := area.X; x < area.X+area.Width; x++ {
			row[x] = node
		}
	}
}

// AddLabel claims a one-row label at (x, y) as wide as it renders and
// returns the claimed bounds.
func (g *HitGrid) AddLabel(node *tree.Node, x, y int, label string) Rect {
	bounds := Rect{X: x, Y: y, Width: runewidth.StringWidth(label), Height: 1}
	g.Add(node, bounds)
	return bounds
}

// NodeAt returns the owner of cell (x, y), or nil.
func (g *HitGrid) NodeAt(x, y int) *tree.Node {
	if !(Rect{Width: g.width, Height: g.height}).Contains(x, y) {
		return nil
	}
	return g.owners[y*g.width+x]
}
