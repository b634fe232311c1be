package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/wikimap/pkg/io"
	"github.com/matzehuels/wikimap/pkg/mindmap"
	"github.com/matzehuels/wikimap/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string
	format   string
	detailed bool
	scale    float64 // PNG raster scale
	noCache  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <url|file.json|snapshot>",
		Short: "Render a mind map as a node-link diagram",
		Long: `Render a mind map as a node-link diagram.

The source is a Wikipedia URL (generated with the configured defaults), a
TreeModel JSON file, or the name of a stored snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := opts.format
			if format == "" && opts.output == "" {
				format = pipeline.FormatSVG
			}
			format, err := resolveFormat(format, opts.output)
			if err != nil {
				return err
			}
			if isBinaryFormat(format) && opts.output == "" {
				return fmt.Errorf("%s output needs a file, use -o", format)
			}
			return c.runRender(cmd.Context(), args[0], format, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot, pdf, png, json, yaml")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with keys and source pages")
	cmd.Flags().Float64Var(&opts.scale, "png-scale", 2, "raster scale for png output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache when generating from a URL")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, src, format string, opts *renderOpts) error {
	g, err := c.loadGraph(ctx, src, opts.noCache)
	if err != nil {
		return err
	}

	data, err := pipeline.Render(ctx, g, format, pipeline.RenderOptions{Detailed: opts.detailed, PNGScale: opts.scale})
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", format)
	printFile(opts.output)
	return nil
}

// loadGraph resolves a render source: URL, then file, then snapshot name.
func (c *CLI) loadGraph(ctx context.Context, src string, noCache bool) (*mindmap.Graph, error) {
	if looksLikeURL(src) {
		runner, err := c.newRunner(noCache)
		if err != nil {
			return nil, err
		}
		defer runner.Close()

		spin := newSpinnerWithContext(ctx, "Crawling "+src)
		spin.Start()
		res, err := runner.Generate(ctx, pipeline.Options{
			URL:         src,
			MaxDepth:    c.Config.Fetch.MaxDepth,
			Concurrency: c.Config.Fetch.Concurrency,
			Timeout:     c.Config.Fetch.Timeout,
			Logger:      loggerFromContext(ctx),
		})
		spin.Stop()
		if err != nil {
			return nil, err
		}
		return res.Graph, nil
	}

	if _, err := os.Stat(src); err == nil {
		return pkgio.ImportJSON(src)
	}

	store, err := c.newStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open snapshots: %w", err)
	}
	defer store.Close(ctx)
	data, err := store.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return readGraph(data)
}

func readGraph(data []byte) (*mindmap.Graph, error) {
	return pkgio.ReadJSON(bytes.NewReader(data))
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
