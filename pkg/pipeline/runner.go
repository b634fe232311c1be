package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/wikimap/pkg/cache"
	"github.com/matzehuels/wikimap/pkg/crawl"
	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
	pkgio "github.com/matzehuels/wikimap/pkg/io"
	"github.com/matzehuels/wikimap/pkg/layout"
	"github.com/matzehuels/wikimap/pkg/locale"
	"github.com/matzehuels/wikimap/pkg/observability"
)

// Runner executes generation runs with caching. Both the CLI and the API
// use it so that caching behaves the same everywhere.
//
// The Runner keeps no per-run state; multiple goroutines can call Generate
// concurrently.
type Runner struct {
	Fetcher crawl.Fetcher
	Cache   cache.Cache
	Keyer   cache.Keyer
	Locales *locale.Registry
	Logger  *log.Logger
}

// NewRunner creates a runner fetching pages through f.
// A nil cache disables map caching; a nil keyer uses the default keyer.
func NewRunner(f crawl.Fetcher, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Fetcher: f,
		Cache:   c,
		Keyer:   keyer,
		Locales: locale.Default(),
		Logger:  logger,
	}
}

// Generate builds the mind map for opts.URL.
//
// Invalid options fail before any page is fetched. Page-level failures
// during the crawl only shrink the map. Cancellation of ctx aborts the run
// with ctx.Err(); expiry of opts.Timeout returns the partial map instead.
func (r *Runner) Generate(ctx context.Context, opts Options) (res *Result, err error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	opts.Logger = logger

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.URL, opts.MaxDepth)
	start := time.Now()
	defer func() {
		nodes := 0
		if res != nil {
			nodes = res.Stats.NodeCount
		}
		hooks.OnGenerateComplete(ctx, opts.URL, nodes, time.Since(start), err)
	}()

	key := r.Keyer.MapKey(opts.URL, opts.MapKeyOpts())
	if !opts.Refresh {
		if cached, ok := r.cached(ctx, key); ok {
			logger.Debug("mind map served from cache", "url", opts.URL)
			cached.RunID = runID
			return cached, nil
		}
	}

	res, err = r.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	res.RunID = runID

	if res.Truncated {
		logger.Warn("timeout reached, returning partial mind map",
			"url", opts.URL, "nodes", res.Stats.NodeCount, "timeout", opts.Timeout)
		return res, nil
	}
	r.store(ctx, key, res.Model)
	return res, nil
}

func (r *Runner) build(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	crawlOpts := opts.CrawlOptions()
	crawlOpts.Locales = r.Locales

	crawlStart := time.Now()
	built, err := crawl.NewBuilder(r.Fetcher, crawlOpts).Build(ctx, opts.URL, opts.MaxDepth)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if wmerrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInternal, err, "crawl %s", opts.URL)
	}
	crawlTime := time.Since(crawlStart)
	logger.Info("crawled pages",
		"pages", built.Pages,
		"failures", built.Failures,
		"nodes", built.Graph.Len(),
		"duration", crawlTime)

	layoutStart := time.Now()
	if err := layout.Apply(built.Graph, built.EffectiveDepth, layout.Options{BaseScale: opts.BaseScale}); err != nil {
		return nil, wmerrors.Wrap(wmerrors.ErrCodeInternal, err, "layout")
	}
	layoutTime := time.Since(layoutStart)
	logger.Debug("applied layout", "depth", built.EffectiveDepth, "duration", layoutTime)

	return &Result{
		Graph:     built.Graph,
		Model:     pkgio.ToTreeModel(built.Graph),
		Truncated: built.Truncated,
		Stats: Stats{
			NodeCount:      built.Graph.Len(),
			Pages:          built.Pages,
			Failures:       built.Failures,
			EffectiveDepth: built.EffectiveDepth,
			CrawlTime:      crawlTime,
			LayoutTime:     layoutTime,
		},
	}, nil
}

// cached loads a finished map. Entries that no longer decode are treated as
// misses and regenerated.
func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	ch := observability.Cache()
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil || !ok {
		ch.OnCacheMiss(ctx, cache.KeyTypeMap)
		return nil, false
	}
	model, err := pkgio.DecodeJSON(bytes.NewReader(data))
	if err != nil {
		ch.OnCacheMiss(ctx, cache.KeyTypeMap)
		return nil, false
	}
	g, err := pkgio.FromTreeModel(model)
	if err != nil {
		ch.OnCacheMiss(ctx, cache.KeyTypeMap)
		return nil, false
	}
	ch.OnCacheHit(ctx, cache.KeyTypeMap)

	depths := g.Depths()
	maxDepth := 0
	for _, d := range depths {
		maxDepth = max(maxDepth, d)
	}
	return &Result{
		Graph:    g,
		Model:    model,
		CacheHit: true,
		Stats:    Stats{NodeCount: g.Len(), EffectiveDepth: max(1, maxDepth)},
	}, true
}

func (r *Runner) store(ctx context.Context, key string, m pkgio.TreeModel) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLMap); err != nil {
		r.Logger.Debug("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cache.KeyTypeMap, len(data))
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
