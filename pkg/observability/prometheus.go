package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements every hook interface on top of its own Prometheus
// registry. Install it with [Register] and expose it with [Prometheus.Handler].
type Prometheus struct {
	registry *prometheus.Registry

	GenerateTotal    *prometheus.CounterVec
	GenerateDuration prometheus.Histogram
	GenerateNodes    prometheus.Histogram

	PagesTotal   *prometheus.CounterVec
	PageDuration prometheus.Histogram
	PagesSkipped *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrorsTotal     *prometheus.CounterVec

	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
}

// NewPrometheus creates the metric set on reg. A nil reg gets a fresh registry
// with the Go and process collectors installed.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	p := &Prometheus{registry: reg}
	f := promauto.With(reg)

	p.GenerateTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikimap_generate_total",
			Help: "Total number of mind map generation runs",
		},
		[]string{"status"},
	)
	p.GenerateDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "wikimap_generate_duration_seconds",
		Help:    "Duration of mind map generation runs",
		Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
	p.GenerateNodes = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "wikimap_generate_nodes",
		Help:    "Number of nodes in generated mind maps",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	p.PagesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikimap_crawl_pages_total",
			Help: "Total number of pages processed by the crawler",
		},
		[]string{"status"},
	)
	p.PageDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "wikimap_crawl_page_duration_seconds",
		Help:    "Time spent fetching and parsing a page",
		Buckets: prometheus.DefBuckets,
	})
	p.PagesSkipped = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikimap_crawl_pages_skipped_total",
			Help: "Pages the crawler did not process",
		},
		[]string{"reason"},
	)

	p.CacheHits = f.NewCounterVec(
		prometheus.CounterOpts{Name: "wikimap_cache_hits_total", Help: "Cache hits"},
		[]string{"type"},
	)
	p.CacheMisses = f.NewCounterVec(
		prometheus.CounterOpts{Name: "wikimap_cache_misses_total", Help: "Cache misses"},
		[]string{"type"},
	)
	p.CacheBytes = f.NewCounterVec(
		prometheus.CounterOpts{Name: "wikimap_cache_written_bytes_total", Help: "Bytes written to the cache"},
		[]string{"type"},
	)

	p.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikimap_upstream_requests_total",
			Help: "Outgoing HTTP requests by host and status",
		},
		[]string{"method", "host", "status"},
	)
	p.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wikimap_upstream_request_duration_seconds",
			Help:    "Outgoing HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "host"},
	)
	p.HTTPErrorsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikimap_upstream_errors_total",
			Help: "Outgoing HTTP requests that failed without a response",
		},
		[]string{"method", "host"},
	)

	p.APIRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikimap_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)
	p.APIRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wikimap_http_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	return p
}

// Registry returns the underlying Prometheus registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// RecordAPIRequest records a served API request.
func (p *Prometheus) RecordAPIRequest(method, route string, status int, duration time.Duration) {
	p.APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (p *Prometheus) OnGenerateStart(context.Context, string, int) {}

func (p *Prometheus) OnGenerateComplete(_ context.Context, _ string, nodeCount int, duration time.Duration, err error) {
	p.GenerateTotal.WithLabelValues(status(err)).Inc()
	p.GenerateDuration.Observe(duration.Seconds())
	if err == nil {
		p.GenerateNodes.Observe(float64(nodeCount))
	}
}

func (p *Prometheus) OnPageStart(context.Context, string, int) {}

func (p *Prometheus) OnPageComplete(_ context.Context, _ string, _ int, duration time.Duration, err error) {
	p.PagesTotal.WithLabelValues(status(err)).Inc()
	p.PageDuration.Observe(duration.Seconds())
}

func (p *Prometheus) OnPageSkip(_ context.Context, _ string, reason string) {
	p.PagesSkipped.WithLabelValues(reason).Inc()
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheHits.WithLabelValues(keyType).Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheMisses.WithLabelValues(keyType).Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, host, _ string, statusCode int, duration time.Duration) {
	p.HTTPRequestsTotal.WithLabelValues(method, host, strconv.Itoa(statusCode)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, host).Observe(duration.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, host, _ string, _ error) {
	p.HTTPErrorsTotal.WithLabelValues(method, host).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
