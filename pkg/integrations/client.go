package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/wikimap/pkg/cache"
	"github.com/matzehuels/wikimap/pkg/httputil"
	"github.com/matzehuels/wikimap/pkg/observability"
)

// Options configures a [Client].
type Options struct {
	// Headers are set on every request.
	Headers map[string]string
	// Rate is the sustained request rate per second. Zero or less means
	// unlimited.
	Rate float64
	// Burst is the number of requests allowed at once. Defaults to 1.
	Burst int
	// HTTPClient replaces the default client from [NewHTTPClient].
	HTTPClient *http.Client
}

// Client is the shared HTTP layer for upstream APIs: rate limiting, common
// headers, status mapping, retries and response caching. It is safe for
// concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
	limiter *rate.Limiter

	attempts   int
	retryDelay time.Duration
}

// NewClient returns a Client that caches responses in c for ttl. A nil c
// disables caching.
func NewClient(c cache.Cache, ttl time.Duration, opts Options) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = NewHTTPClient()
	}
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	return &Client{
		http:    hc,
		cache:   c,
		ttl:     ttl,
		headers: opts.Headers,
		limiter: rate.NewLimiter(limit, max(opts.Burst, 1)),

		attempts:   httputil.DefaultAttempts,
		retryDelay: httputil.DefaultDelay,
	}
}

// Cached returns the entry for key, or runs fetch with retries and stores
// its result. With refresh set the cache is not read but is still written.
// keyType labels the cache hook events.
func (c *Client) Cached(ctx context.Context, key, keyType string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Cache()
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			hooks.OnCacheHit(ctx, keyType)
			return data, nil
		}
		hooks.OnCacheMiss(ctx, keyType)
	}

	var data []byte
	err := httputil.Retry(ctx, c.attempts, c.retryDelay, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}

// GetBytes performs one GET and returns the body. Transport errors, 429 and
// 5xx responses come back wrapped in [httputil.RetryableError].
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(ErrRateLimited)
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
