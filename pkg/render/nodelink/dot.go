package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/wikimap/pkg/mindmap"
	"github.com/matzehuels/wikimap/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node key and source article to labels.
	Detailed bool
}

const (
	baseFontSize  = 10.0
	fontSizeStep  = 4.0
	darkThreshold = 0.5
)

// graphAttrs are written at the top of every diagram.
var graphAttrs = []string{
	`rankdir=LR`,
	`bgcolor="transparent"`,
	`ranksep=0.6`,
	`nodesep=0.2`,
	`node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"]`,
	`edge [arrowhead=none, color="#999999"]`,
}

// ToDOT converts a laid-out mind map to Graphviz DOT. Nodes are emitted in
// ID order, each edge points from parent to child, and nodes without a
// layout color are drawn white.
func ToDOT(g *mindmap.Graph, opts Options) string {
	var b strings.Builder
	b.WriteString("digraph mindmap {\n")
	for _, a := range graphAttrs {
		fmt.Fprintf(&b, "  %s;\n", a)
	}

	nodes := g.Nodes()
	for _, n := range nodes {
		fmt.Fprintf(&b, "  n%d [%s];\n", n.ID, strings.Join(fmtAttrs(*n, fmtLabel(*n, opts.Detailed)), ", "))
	}
	for _, n := range nodes {
		for _, child := range g.Children(n.ID) {
			fmt.Fprintf(&b, "  n%d -> n%d;\n", n.ID, child)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func fmtLabel(n mindmap.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{fmt.Sprintf("key: %d", n.ID)}
	if n.OriginPage != "" {
		parts = append(parts, "page: "+n.OriginPage)
	}
	return n.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n mindmap.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Scale > 0 {
		attrs = append(attrs, fmt.Sprintf("fontsize=%.1f", baseFontSize+fontSizeStep*n.Scale))
	}
	if c, err := colorful.Hex(n.Color); err == nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c.Hex()))
		if isDark(c) {
			attrs = append(attrs, "fontcolor=white")
		}
	}
	return attrs
}

// isDark reports whether white text reads better than black on c.
func isDark(c colorful.Color) bool {
	r, g, b := c.LinearRgb()
	return 0.2126*r+0.7152*g+0.0722*b < darkThreshold*darkThreshold
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG whose root
// element carries a plain viewBox, so browsers scale it cleanly.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("graphviz svg: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph to PDF. It needs [render.Converter].
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph to PNG at the given zoom. It needs
// [render.Converter].
func RenderPNG(ctx context.Context, dot string, zoom float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, zoom)
}
