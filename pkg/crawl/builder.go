// Package crawl builds a mind map by walking an article's section headers
// and the "main article" pages its sections link to.
//
// Starting from a seed URL, [Builder.Build] fetches the page, attaches its
// h2 headers under the root and its h3 headers under the preceding h2, and
// recurses into linked sub-pages while the depth budget allows. A header at
// toclevel t on a page at level l costs l+t; sub-pages of that header are
// processed at that level. Each URL is fetched at most once per run.
//
// Graph mutation happens on a single goroutine in document order, so the
// resulting IDs are deterministic. With [Options.Concurrency] above one the
// builder warms a per-run page memo in the background with the sub-pages it
// is about to visit.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikimap/pkg/document"
	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
	"github.com/matzehuels/wikimap/pkg/locale"
	"github.com/matzehuels/wikimap/pkg/mindmap"
	"github.com/matzehuels/wikimap/pkg/observability"
	"github.com/matzehuels/wikimap/pkg/wikiurl"
)

// Skip reasons reported to [observability.CrawlHooks.OnPageSkip].
const (
	SkipVisited        = "visited"
	SkipUnclassifiable = "unclassifiable"
	SkipCanceled       = "canceled"
)

// ErrUnclassifiable is reported for pages whose URL maps to no known
// Wikipedia language.
var ErrUnclassifiable = errors.New("unclassifiable article url")

// Fetcher retrieves the raw markup of an article.
type Fetcher interface {
	// Fetch returns the page body. If refresh is true, cached data is bypassed.
	Fetch(ctx context.Context, url string, refresh bool) ([]byte, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, url string, refresh bool) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	return f(ctx, url, refresh)
}

// Page is a parsed article as seen by the builder.
type Page interface {
	Title() (string, bool)
	Headers(levels ...int) []document.Header
	CalloutLinks(loc *locale.Locale) []document.Link
}

// ParseFunc turns raw markup into a [Page].
type ParseFunc func(data []byte) (Page, error)

// Options configures a [Builder].
type Options struct {
	Concurrency int                       // Background prefetch workers; <= 1 disables prefetching
	Refresh     bool                      // Bypass fetcher caches
	Locales     *locale.Registry          // Language rules; defaults to locale.Default()
	Parse       ParseFunc                 // Markup parser; defaults to document.Parse
	Logger      *log.Logger               // Progress logger; defaults to a discarding logger
	Hooks       observability.CrawlHooks // Page events; defaults to the registered crawl hooks
}

// WithDefaults returns a copy of opts with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Locales == nil {
		o.Locales = locale.Default()
	}
	if o.Parse == nil {
		o.Parse = parseDocument
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Hooks == nil {
		o.Hooks = observability.Crawl()
	}
	return o
}

// Result is the outcome of a build.
type Result struct {
	Graph          *mindmap.Graph
	EffectiveDepth int  // max(1, min(longest path, maxDepth)), used by the layout pass
	Pages          int  // Pages fetched and processed
	Failures       int  // Pages that failed to fetch, parse, or classify
	Truncated      bool // The context deadline expired before the crawl finished
}

// Builder grows mind maps from seed URLs. A Builder is safe for concurrent
// use; every Build call owns its own graph and visited set.
type Builder struct {
	fetcher Fetcher
	opts    Options
}

// NewBuilder creates a builder that retrieves pages with fetcher.
func NewBuilder(fetcher Fetcher, opts Options) *Builder {
	return &Builder{fetcher: fetcher, opts: opts.WithDefaults()}
}

// Build crawls from seed down to maxDepth and returns the resulting graph.
//
// Only invalid arguments and cancellation are errors. Pages that fail to load
// are logged and counted in [Result.Failures]; a seed that cannot be fetched
// yields a single-node graph named after the URL. When ctx carries a deadline
// that expires mid-crawl, the partial graph is returned with
// [Result.Truncated] set.
func (b *Builder) Build(ctx context.Context, seed string, maxDepth int) (*Result, error) {
	if err := wmerrors.ValidateSeedURL(seed); err != nil {
		return nil, err
	}
	if err := wmerrors.ValidateMaxDepth(maxDepth); err != nil {
		return nil, err
	}
	seed = strings.TrimSpace(seed)

	g := mindmap.New()
	g.AddNode(wikiurl.DisplayName(wikiurl.Suffix(seed)))

	prefetchCtx, cancel := context.WithCancel(ctx)
	r := &run{
		ctx:      ctx,
		opts:     b.opts,
		logger:   b.opts.Logger,
		g:        g,
		maxDepth: maxDepth,
		visited:  make(map[string]struct{}),
		memo:     newPageMemo(b.fetcher, b.opts.Refresh),
	}
	if b.opts.Concurrency > 1 {
		r.prefetcher = newPrefetcher(prefetchCtx, r.memo, b.opts.Concurrency)
	}

	r.expand(task{url: seed, parent: mindmap.RootID, level: 0})

	cancel()
	if r.prefetcher != nil {
		r.prefetcher.wait()
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	res := &Result{
		Graph:          g,
		EffectiveDepth: max(1, min(g.LongestPath(), maxDepth)),
		Pages:          r.pages,
		Failures:       r.failures,
		Truncated:      errors.Is(ctx.Err(), context.DeadlineExceeded),
	}
	return res, nil
}

// task is one unit of expansion: a page and the node its headers hang from.
type task struct {
	url    string
	parent int
	level  int
}

// link is a callout link resolved to an absolute URL.
type link struct {
	first string // First word of the anchor text
	url   string
}

// run holds the state of a single Build call.
type run struct {
	ctx    context.Context
	opts   Options
	logger *log.Logger

	g          *mindmap.Graph
	maxDepth   int
	visited    map[string]struct{}
	titled     bool
	memo       *pageMemo
	prefetcher *prefetcher

	pages    int
	failures int
}

func (r *run) expand(t task) {
	if r.ctx.Err() != nil {
		r.opts.Hooks.OnPageSkip(r.ctx, t.url, SkipCanceled)
		return
	}
	if _, seen := r.visited[t.url]; seen {
		r.logger.Debug("already visited", "url", t.url)
		r.opts.Hooks.OnPageSkip(r.ctx, t.url, SkipVisited)
		return
	}
	r.visited[t.url] = struct{}{}

	start := time.Now()
	r.opts.Hooks.OnPageStart(r.ctx, t.url, t.level)
	page, err := r.load(t.url)
	if err != nil {
		r.failures++
		r.logger.Warn("fetch failed", "url", t.url, "err", err)
		r.opts.Hooks.OnPageComplete(r.ctx, t.url, 0, time.Since(start), err)
		return
	}

	site, ok := wikiurl.Classify(t.url)
	var loc *locale.Locale
	if ok {
		loc, ok = r.opts.Locales.Lookup(site.Lang)
	}
	if !ok {
		r.failures++
		r.logger.Warn("unsupported article url", "url", t.url, "lang", site.Lang)
		r.opts.Hooks.OnPageComplete(r.ctx, t.url, 0, time.Since(start), fmt.Errorf("%w: %s", ErrUnclassifiable, t.url))
		r.opts.Hooks.OnPageSkip(r.ctx, t.url, SkipUnclassifiable)
		return
	}
	r.pages++

	if t.parent == mindmap.RootID && !r.titled {
		r.titled = true
		if title, ok := page.Title(); ok {
			if name := loc.StripTitle(title); name != "" {
				if err := r.g.SetName(mindmap.RootID, name); err != nil {
					r.logger.Error("set root name", "name", name, "err", err)
				}
			}
		}
	}

	if t.level >= r.maxDepth {
		r.opts.Hooks.OnPageComplete(r.ctx, t.url, 0, time.Since(start), nil)
		return
	}

	levels := []int{2}
	if t.level+2 <= r.maxDepth {
		levels = append(levels, 3)
	}
	headers := page.Headers(levels...)
	links := r.resolveLinks(site, page.CalloutLinks(loc))

	if r.prefetcher != nil {
		r.prefetcher.warm(r.candidates(t, site, loc, headers, links))
	}

	r.logger.Debug("expanding page", "url", t.url, "level", t.level, "headers", len(headers), "links", len(links))
	r.opts.Hooks.OnPageComplete(r.ctx, t.url, len(headers), time.Since(start), nil)

	r.attach(t, site, loc, headers, links)
}

// attach adds the headers of a page under t.parent in document order and
// recurses into matching sub-pages of every accepted header.
func (r *run) attach(t task, site wikiurl.Site, loc *locale.Locale, headers []document.Header, links []link) {
	suffix := wikiurl.Suffix(t.url)
	section, hasSection := 0, false

	for _, h := range headers {
		name := loc.Clean(h.Text, site.Mobile)
		toc := h.TocLevel()

		var (
			id       int
			accepted bool
		)
		switch toc {
		case 1:
			// The previous section stays current, so subsections
			// following an excluded header land under it.
			if loc.IsExcluded(name) {
				continue
			}
			var err error
			if id, err = r.g.AddChild(t.parent, name); err != nil {
				r.logger.Error("attach header", "name", name, "err", err)
				continue
			}
			section, hasSection, accepted = id, true, true
		case 2:
			if loc.IsExcluded(name) || !hasSection {
				continue
			}
			var err error
			if id, accepted, err = r.g.AddChildIfAbsent(section, name); err != nil {
				r.logger.Error("attach header", "name", name, "err", err)
				continue
			}
		}
		if !accepted {
			continue
		}
		if err := r.g.SetOriginPage(id, suffix); err != nil {
			r.logger.Error("set origin page", "id", id, "err", err)
		}

		if t.level+toc > r.maxDepth {
			continue
		}
		first := firstWord(name)
		if first == "" {
			continue
		}
		for _, l := range links {
			if l.first == first {
				r.expand(task{url: l.url, parent: id, level: t.level + toc})
			}
		}
	}
}

// resolveLinks drops callout links without text or href and resolves the
// rest against the page's site.
func (r *run) resolveLinks(site wikiurl.Site, raw []document.Link) []link {
	links := make([]link, 0, len(raw))
	for _, l := range raw {
		first := firstWord(l.Text)
		if first == "" || !l.HasHref {
			r.logger.Debug("skipping malformed link", "text", l.Text, "href", l.Href)
			continue
		}
		u, err := wikiurl.Resolve(site, l.Href)
		if err != nil {
			r.logger.Debug("skipping malformed link", "text", l.Text, "err", err)
			continue
		}
		links = append(links, link{first: first, url: u})
	}
	return links
}

// candidates predicts the sub-pages attach will visit from this page. The
// prediction ignores sibling deduplication and may include a few pages that
// end up unused.
func (r *run) candidates(t task, site wikiurl.Site, loc *locale.Locale, headers []document.Header, links []link) []string {
	var urls []string
	seen := make(map[string]bool)
	hasSection := false
	for _, h := range headers {
		name := loc.Clean(h.Text, site.Mobile)
		toc := h.TocLevel()
		if loc.IsExcluded(name) {
			continue
		}
		if toc == 1 {
			hasSection = true
		} else if !hasSection {
			continue
		}
		if t.level+toc > r.maxDepth {
			continue
		}
		first := firstWord(name)
		for _, l := range links {
			if first != "" && l.first == first && !seen[l.url] {
				if _, visited := r.visited[l.url]; !visited {
					seen[l.url] = true
					urls = append(urls, l.url)
				}
			}
		}
	}
	return urls
}

func (r *run) load(url string) (Page, error) {
	data, err := r.memo.get(r.ctx, url)
	if err != nil {
		return nil, err
	}
	return r.opts.Parse(data)
}

func parseDocument(data []byte) (Page, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
