package crawl

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// pageMemo remembers every fetch result of a run. Concurrent requests for the
// same URL share one fetch.
type pageMemo struct {
	fetcher Fetcher
	refresh bool

	group singleflight.Group
	mu    sync.Mutex
	pages map[string]memoEntry
}

type memoEntry struct {
	data []byte
	err  error
}

func newPageMemo(f Fetcher, refresh bool) *pageMemo {
	return &pageMemo{fetcher: f, refresh: refresh, pages: make(map[string]memoEntry)}
}

func (m *pageMemo) lookup(url string) (memoEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.pages[url]
	return e, ok
}

func (m *pageMemo) get(ctx context.Context, url string) ([]byte, error) {
	if e, ok := m.lookup(url); ok {
		return e.data, e.err
	}
	v, err, _ := m.group.Do(url, func() (any, error) {
		if e, ok := m.lookup(url); ok {
			return e.data, e.err
		}
		data, err := m.fetcher.Fetch(ctx, url, m.refresh)
		if ctx.Err() == nil {
			m.mu.Lock()
			m.pages[url] = memoEntry{data: data, err: err}
			m.mu.Unlock()
		}
		return data, err
	})
	data, _ := v.([]byte)
	return data, err
}

// prefetcher loads pages into a memo on a bounded pool of goroutines.
type prefetcher struct {
	ctx  context.Context
	memo *pageMemo
	pool *errgroup.Group

	dispatch sync.WaitGroup
}

func newPrefetcher(ctx context.Context, memo *pageMemo, workers int) *prefetcher {
	pool := &errgroup.Group{}
	pool.SetLimit(workers)
	return &prefetcher{ctx: ctx, memo: memo, pool: pool}
}

// warm schedules urls for fetching and returns immediately.
func (p *prefetcher) warm(urls []string) {
	if len(urls) == 0 {
		return
	}
	p.dispatch.Add(1)
	go func() {
		defer p.dispatch.Done()
		for _, u := range urls {
			if p.ctx.Err() != nil {
				return
			}
			p.pool.Go(func() error {
				_, _ = p.memo.get(p.ctx, u)
				return nil
			})
		}
	}()
}

// wait blocks until every scheduled fetch has returned.
func (p *prefetcher) wait() {
	p.dispatch.Wait()
	_ = p.pool.Wait()
}
