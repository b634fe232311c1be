package pipeline

import (
	"bytes"
	"context"
	"fmt"

	pkgio "github.com/matzehuels/wikimap/pkg/io"
	"github.com/matzehuels/wikimap/pkg/mindmap"
	"github.com/matzehuels/wikimap/pkg/render/nodelink"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Detailed bool    // Add keys and origin pages to DOT labels
	PNGScale float64 // Raster scale factor; defaults to 2
}

// Render writes a laid-out graph in the given format. ctx bounds the
// external converter used for pdf and png.
func Render(ctx context.Context, g *mindmap.Graph, format string, opts RenderOptions) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := pkgio.WriteJSON(g, &buf); err != nil {
			return nil, fmt.Errorf("render json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		if err := pkgio.WriteYAML(g, &buf); err != nil {
			return nil, fmt.Errorf("render yaml: %w", err)
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case FormatPNG:
		scale := opts.PNGScale
		if scale <= 0 {
			scale = 2
		}
		data, err = nodelink.RenderPNG(ctx, dot, scale)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
