// Package nodelink renders mind maps as node-link diagrams.
//
// # Overview
//
// This package produces Graphviz diagrams where every mind map node is a
// rounded box filled with its layout color and connected to its parent. The
// tree is laid out left to right, and font sizes follow the node scales so
// the root stands out.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PDF and PNG go through SVG first:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2)
//
// # Options
//
//   - Detailed: node labels include the node key and source article
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
