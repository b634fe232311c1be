// Package wikipedia fetches raw article markup from *.wikipedia.org.
//
// [Client] implements the crawler's Fetcher: pages are cached for
// [cache.TTLPage], requests carry a descriptive User-Agent and are rate
// limited, and transient failures are retried.
//
//	c := wikipedia.NewClient(store, cache.TTLPage, wikipedia.Options{Rate: 5})
//	html, err := c.Fetch(ctx, "https://en.wikipedia.org/wiki/Mind_map", false)
//
// [cache.TTLPage]: github.com/matzehuels/wikimap/pkg/cache.TTLPage
package wikipedia
