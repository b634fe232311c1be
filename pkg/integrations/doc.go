// Package integrations provides the HTTP layer for upstream content sources.
//
// [Client] is shared by every source client. It applies a token bucket rate
// limit, sets common headers such as the User-Agent, maps status codes to
// [ErrNotFound], [ErrRateLimited] and [ErrNetwork], retries transient
// failures with exponential backoff through [httputil.Retry], and caches bodies in a
// [cache.Cache]:
//
//	c := integrations.NewClient(store, cache.TTLPage, integrations.Options{
//	    Headers: map[string]string{"User-Agent": "wikimap/1.0"},
//	    Rate:    5,
//	})
//	body, err := c.Cached(ctx, key, cache.KeyTypePage, false, func() ([]byte, error) {
//	    return c.GetBytes(ctx, url)
//	})
//
// The [wikipedia] subpackage builds on it to fetch article markup.
//
// [httputil.Retry]: github.com/matzehuels/wikimap/pkg/httputil.Retry
// [cache.Cache]: github.com/matzehuels/wikimap/pkg/cache.Cache
// [wikipedia]: github.com/matzehuels/wikimap/pkg/integrations/wikipedia
package integrations
