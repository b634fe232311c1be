package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikimap/pkg/pipeline"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	maxDepth    int
	format      string
	output      string
	concurrency int
	timeout     time.Duration
	scale       float64
	refresh     bool
	noCache     bool
	save        string
	detailed    bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Build a mind map from a Wikipedia article",
		Long: `Build a mind map from a Wikipedia article.

The article's section headings become branches. Headings that point to a
"main article" are expanded with that article's own sections, down to
--max-depth levels.

Examples:
  wikimap generate https://en.wikipedia.org/wiki/Mind_map
  wikimap generate https://en.wikipedia.org/wiki/Mind_map --max-depth 4 -o map.svg
  wikimap generate https://fr.wikipedia.org/wiki/Carte_heuristique --save carte`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.fillGenerateDefaults(cmd, &opts)
			return c.runGenerate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.maxDepth, "max-depth", "d", pipeline.DefaultMaxDepth, "maximum crawl depth")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, yaml, dot, svg, pdf, png (default from -o, else json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", pipeline.DefaultConcurrency, "parallel page fetches")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "stop crawling after this long and keep the partial map")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "scale of the deepest level")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached pages and maps")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache")
	cmd.Flags().StringVar(&opts.save, "save", "", "also store the map as a snapshot under this name")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label graph nodes with keys and source pages")

	return cmd
}

// fillGenerateDefaults takes unset flags from the config.
func (c *CLI) fillGenerateDefaults(cmd *cobra.Command, opts *generateOpts) {
	fc := c.Config.Fetch
	if !cmd.Flags().Changed("max-depth") && fc.MaxDepth > 0 {
		opts.maxDepth = fc.MaxDepth
	}
	if !cmd.Flags().Changed("concurrency") && fc.Concurrency > 0 {
		opts.concurrency = fc.Concurrency
	}
	if !cmd.Flags().Changed("timeout") {
		opts.timeout = fc.Timeout
	}
}

// resolveFormat picks the explicit format, else the one implied by the
// output path, else JSON.
func resolveFormat(format, output string) (string, error) {
	if format == "" && output != "" {
		format = pipeline.FormatFromPath(output)
	}
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func isBinaryFormat(format string) bool {
	return format == pipeline.FormatPDF || format == pipeline.FormatPNG
}

func (c *CLI) runGenerate(ctx context.Context, url string, opts *generateOpts) error {
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	if isBinaryFormat(format) && opts.output == "" {
		return fmt.Errorf("%s output needs a file, use -o", format)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, "Crawling "+url)
	spin.Start()

	res, err := runner.Generate(ctx, pipeline.Options{
		URL:         url,
		MaxDepth:    opts.maxDepth,
		BaseScale:   opts.scale,
		Concurrency: opts.concurrency,
		Refresh:     opts.refresh,
		Timeout:     opts.timeout,
		Logger:      logger,
	})
	if err != nil {
		spin.StopWithError("Crawl failed")
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Built %d nodes from %d pages", res.Stats.NodeCount, res.Stats.Pages))
	if res.Truncated {
		logger.Warn("crawl timed out, map is partial", "timeout", opts.timeout)
	}

	data, err := pipeline.Render(ctx, res.Graph, format, pipeline.RenderOptions{Detailed: opts.detailed})
	if err != nil {
		return err
	}

	if opts.save != "" {
		if err := c.saveSnapshot(ctx, opts.save, res); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Mind map written")
	printFile(opts.output)
	printStats(res.Stats.NodeCount, res.Stats.Pages, res.CacheHit, res.Truncated)
	if res.Truncated {
		printWarning("Partial map: the crawl stopped after %s", opts.timeout)
	}
	if format != pipeline.FormatSVG {
		printNextStep("Render it", fmt.Sprintf("%s render %s -o map.svg", appName, opts.output))
	}
	return nil
}

func (c *CLI) saveSnapshot(ctx context.Context, name string, res *pipeline.Result) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open snapshots: %w", err)
	}
	defer store.Close(ctx)

	data, err := json.Marshal(res.Model)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, name, data); err != nil {
		return err
	}
	loggerFromContext(ctx).Info("saved snapshot", "name", name)
	return nil
}
