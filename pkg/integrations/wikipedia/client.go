package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/wikimap/pkg/buildinfo"
	"github.com/matzehuels/wikimap/pkg/cache"
	"github.com/matzehuels/wikimap/pkg/integrations"
	"github.com/matzehuels/wikimap/pkg/wikiurl"
)

// DefaultRate is the request rate used when Options.Rate is zero.
const DefaultRate = 10

// ErrUnsupportedHost is returned for URLs outside *.wikipedia.org.
var ErrUnsupportedHost = errors.New("not a wikipedia url")

// Options configures a [Client].
type Options struct {
	UserAgent  string  // defaults to buildinfo.UserAgent()
	Rate       float64 // requests per second; negative disables limiting
	Burst      int
	Keyer      cache.Keyer
	HTTPClient *http.Client
}

// Client fetches article HTML.
type Client struct {
	*integrations.Client
	keys cache.Keyer
}

// NewClient returns a client caching pages in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration, opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = buildinfo.UserAgent()
	}
	if opts.Rate == 0 {
		opts.Rate = DefaultRate
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		Client: integrations.NewClient(c, ttl, integrations.Options{
			Headers:    map[string]string{"User-Agent": opts.UserAgent},
			Rate:       opts.Rate,
			Burst:      opts.Burst,
			HTTPClient: opts.HTTPClient,
		}),
		keys: opts.Keyer,
	}
}

// Fetch returns the markup of url, from cache unless refresh is set.
func (c *Client) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if !Supported(url) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHost, url)
	}
	return c.Cached(ctx, c.keys.PageKey(url), cache.KeyTypePage, refresh, func() ([]byte, error) {
		return c.GetBytes(ctx, url)
	})
}

// Supported reports whether url points at a Wikipedia article host.
func Supported(url string) bool {
	_, ok := wikiurl.Classify(url)
	return ok
}
