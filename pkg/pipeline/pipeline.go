// Package pipeline runs the complete mind map generation for a seed URL.
//
// The CLI and the HTTP server both go through [Runner.Generate], which
// validates the request, serves a cached map when one exists, and
// otherwise runs the three stages:
//
//  1. Crawl: grow the tree from the seed article ([crawl.Builder])
//  2. Layout: assign scales and colors ([layout.Apply])
//  3. Export: flatten the tree into TreeModel records ([pkgio.ToTreeModel])
//
// Usage:
//
//	runner := pipeline.NewRunner(fetcher, store, nil, logger)
//	res, err := runner.Generate(ctx, pipeline.Options{
//	    URL:      "https://en.wikipedia.org/wiki/Mind_map",
//	    MaxDepth: 3,
//	})
//	_ = pkgio.EncodeJSON(res.Model, os.Stdout)
//
// [Render] turns a finished graph into any of the output formats.
//
// [crawl.Builder]: github.com/matzehuels/wikimap/pkg/crawl.Builder
// [layout.Apply]: github.com/matzehuels/wikimap/pkg/layout.Apply
// [pkgio.ToTreeModel]: github.com/matzehuels/wikimap/pkg/io.ToTreeModel
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikimap/pkg/cache"
	"github.com/matzehuels/wikimap/pkg/crawl"
	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
	pkgio "github.com/matzehuels/wikimap/pkg/io"
	"github.com/matzehuels/wikimap/pkg/layout"
	"github.com/matzehuels/wikimap/pkg/mindmap"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the crawl depth used by the CLI and the API when
	// the caller does not ask for one.
	DefaultMaxDepth = 3

	// DefaultConcurrency is the number of prefetch workers.
	DefaultConcurrency = 4
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return wmerrors.New(wmerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, yaml, dot, svg, pdf, png)", format)
	}
	return nil
}

// FormatFromPath guesses the output format from a file extension.
// It returns "" when the extension is not a known format.
func FormatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	ext := strings.ToLower(path[i+1:])
	if ext == "yml" {
		ext = FormatYAML
	}
	if !ValidFormats[ext] {
		return ""
	}
	return ext
}

// =============================================================================
// Options - Generation Configuration
// =============================================================================

// Options configures one generation run. It doubles as the JSON body of the
// API's generate endpoint.
type Options struct {
	URL         string  `json:"url"`
	MaxDepth    int     `json:"max_depth"`
	BaseScale   float64 `json:"base_scale,omitempty"`
	Concurrency int     `json:"concurrency,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"`

	// Timeout bounds the crawl. When it expires the partial map is laid
	// out and returned with Result.Truncated set.
	Timeout time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the request and fills unset optional fields.
// A missing URL or a non-positive depth is rejected; nothing is fetched
// before this passes.
func (o *Options) ValidateAndSetDefaults() error {
	o.URL = strings.TrimSpace(o.URL)
	if err := wmerrors.ValidateSeedURL(o.URL); err != nil {
		return err
	}
	if err := wmerrors.ValidateMaxDepth(o.MaxDepth); err != nil {
		return err
	}
	if o.BaseScale <= 0 {
		o.BaseScale = layout.DefaultBaseScale
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// MapKeyOpts returns the cache key options for the finished map.
func (o *Options) MapKeyOpts() cache.MapKeyOpts {
	return cache.MapKeyOpts{MaxDepth: o.MaxDepth, BaseScale: o.BaseScale}
}

// CrawlOptions returns the builder options for this run.
func (o *Options) CrawlOptions() crawl.Options {
	return crawl.Options{
		Concurrency: o.Concurrency,
		Refresh:     o.Refresh,
		Logger:      o.Logger,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a generation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Graph is the laid-out mind map.
	Graph *mindmap.Graph

	// Model is the exported record form of Graph.
	Model pkgio.TreeModel

	// Truncated reports that the timeout expired before the crawl finished.
	Truncated bool

	// CacheHit reports that the map came from the cache without crawling.
	CacheHit bool

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	NodeCount      int
	Pages          int
	Failures       int
	EffectiveDepth int
	CrawlTime      time.Duration
	LayoutTime     time.Duration
}
