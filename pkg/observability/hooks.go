// Package observability carries instrumentation events out of wikimap's
// libraries without tying them to a metrics backend.
//
// Events are grouped into four categories: generation runs, crawled pages,
// cache lookups and outgoing HTTP calls. Each category has a hook
// interface, a no-op implementation and a process-wide slot. Libraries only
// ever read the slots; the binary fills them at startup:
//
//	prom := observability.NewPrometheus(nil)
//	observability.Register(prom)
//	defer observability.Reset()
//
// and library code reports through the accessors:
//
//	observability.Crawl().OnPageStart(ctx, url, level)
//	observability.Crawl().OnPageComplete(ctx, url, headers, time.Since(start), err)
//
// [Prometheus] implements every category and is what `wikimap serve`
// installs.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from generation runs.
type PipelineHooks interface {
	// OnGenerateStart is called before the crawl of a seed URL begins.
	OnGenerateStart(ctx context.Context, url string, maxDepth int)

	// OnGenerateComplete is called when a run finishes, successfully or not.
	OnGenerateComplete(ctx context.Context, url string, nodeCount int, duration time.Duration, err error)
}

// CrawlHooks receives events from the hierarchy builder.
type CrawlHooks interface {
	// OnPageStart records that a page is about to be fetched.
	OnPageStart(ctx context.Context, url string, level int)

	// OnPageComplete records a processed page. err is non-nil for fetch failures.
	OnPageComplete(ctx context.Context, url string, headers int, duration time.Duration, err error)

	// OnPageSkip records a page that was not processed (already visited,
	// unsupported language, ...).
	OnPageSkip(ctx context.Context, url, reason string)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCrawlHooks is a no-op implementation of CrawlHooks.
type NoopCrawlHooks struct{}

func (NoopCrawlHooks) OnPageStart(context.Context, string, int)                            {}
func (NoopCrawlHooks) OnPageComplete(context.Context, string, int, time.Duration, error) {}
func (NoopCrawlHooks) OnPageSkip(context.Context, string, string)                          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds the registered implementation of one hook category.
type slot[T any] struct {
	mu  sync.RWMutex
	def T
	cur T
}

func newSlot[T any](def T) *slot[T] {
	return &slot[T]{def: def, cur: def}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	crawlSlot    = newSlot[CrawlHooks](NoopCrawlHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks installs h for generation events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCrawlHooks installs h for page events. A nil h is ignored.
func SetCrawlHooks(h CrawlHooks) { crawlSlot.set(h) }

// SetCacheHooks installs h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks installs h for outgoing HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Register installs h for every hook category it implements.
func Register(h any) {
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
	}
	if c, ok := h.(CrawlHooks); ok {
		SetCrawlHooks(c)
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
	}
	if c, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(c)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Crawl() CrawlHooks       { return crawlSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset restores the no-op hooks in every category.
func Reset() {
	pipelineSlot.reset()
	crawlSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
