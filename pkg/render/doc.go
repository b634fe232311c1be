// Package render converts rendered mind maps between output formats.
//
// The [nodelink] subpackage draws a mind map as a Graphviz diagram and
// produces SVG in-process. PDF and PNG are derived from that SVG by the
// external [Converter] (rsvg-convert, part of librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2)
//
// [nodelink]: github.com/matzehuels/wikimap/pkg/render/nodelink
package render
