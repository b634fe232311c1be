// Package layout decorates a finished mind map with display scales and colors.
//
// Scales shrink with depth so the root is drawn largest. Colors split the
// hue wheel evenly between the root's children; every deeper node takes its
// parent's color faded toward white, more strongly the further it sits from
// the root, so each top-level branch forms one color family.
package layout

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/wikimap/pkg/mindmap"
)

// RootColor is the fill of the root node.
const RootColor = "#000000"

// DefaultBaseScale is the scale of a leaf at the deepest level.
const DefaultBaseScale = 1.0

// fade is the share of the distance to white reached at the deepest level.
const fade = 0.8

var white = colorful.Color{R: 1, G: 1, B: 1}

// Options configures [Apply].
type Options struct {
	BaseScale float64 // Scale unit; defaults to DefaultBaseScale
}

// Apply sets Scale and Color on every node reachable from the root.
//
// effectiveDepth is the depth the scale gradient is spread over, normally
// max(1, min(longest path, requested depth)). A root without children is a
// valid single-node map and only gets the root decorations.
func Apply(g *mindmap.Graph, effectiveDepth int, opts Options) error {
	if _, err := g.Root(); err != nil {
		return err
	}
	if opts.BaseScale <= 0 {
		opts.BaseScale = DefaultBaseScale
	}
	effectiveDepth = max(1, effectiveDepth)

	depths := g.Depths()
	applyScales(g, depths, effectiveDepth, opts.BaseScale)
	return applyColors(g, depths)
}

// Scale returns the scale of a node at depth for the given effective depth.
func Scale(base float64, effectiveDepth, depth int) float64 {
	return base * float64(effectiveDepth-depth+1)
}

func applyScales(g *mindmap.Graph, depths []int, effectiveDepth int, base float64) {
	for _, n := range g.Nodes() {
		if d := depths[n.ID]; d >= 0 {
			n.Scale = Scale(base, effectiveDepth, d)
		}
	}
}

func applyColors(g *mindmap.Graph, depths []int) error {
	maxDepth := 0
	for _, d := range depths {
		maxDepth = max(maxDepth, d)
	}

	hues := make(map[int]string)
	top := g.Children(mindmap.RootID)
	for i, id := range top {
		hues[id] = BranchColor(i, len(top))
	}

	// Parents always have lower IDs than their children, so ID order colors
	// every parent first.
	for _, n := range g.Nodes() {
		d := depths[n.ID]
		switch {
		case d < 0:
			continue
		case d == 0:
			n.Color = RootColor
		case d == 1:
			n.Color = hues[n.ID]
		default:
			parent, ok := g.Node(n.Parent)
			if !ok {
				return fmt.Errorf("node %d: %w", n.ID, mindmap.ErrUnknownParent)
			}
			c, err := Fade(parent.Color, d, maxDepth)
			if err != nil {
				return fmt.Errorf("node %d: %w", n.ID, err)
			}
			n.Color = c
		}
	}
	return nil
}

// BranchColor returns the fully saturated color of the i-th of n root
// children, spacing hues evenly around the wheel.
func BranchColor(i, n int) string {
	if n <= 0 {
		return RootColor
	}
	hue := float64(i) / float64(n) * 360
	return colorful.Hsv(hue, 1, 1).Clamped().Hex()
}

// Fade blends a "#rrggbb" color toward white by fade*depth/(maxDepth+1).
func Fade(hex string, depth, maxDepth int) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("parse color %q: %w", hex, err)
	}
	t := fade * float64(depth) / float64(maxDepth+1)
	return c.BlendRgb(white, t).Clamped().Hex(), nil
}
