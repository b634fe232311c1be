package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusImplementsHooks(t *testing.T) {
	var _ PipelineHooks = (*Prometheus)(nil)
	var _ CrawlHooks = (*Prometheus)(nil)
	var _ CacheHooks = (*Prometheus)(nil)
	var _ HTTPHooks = (*Prometheus)(nil)
}

func TestPrometheusRecordsEvents(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry())
	ctx := context.Background()

	p.OnGenerateComplete(ctx, "u", 12, time.Second, nil)
	p.OnGenerateComplete(ctx, "u", 0, time.Second, errors.New("boom"))
	if got := testutil.ToFloat64(p.GenerateTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("generate ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.GenerateTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("generate error = %v, want 1", got)
	}

	p.OnPageComplete(ctx, "u", 3, time.Millisecond, nil)
	p.OnPageSkip(ctx, "u", "visited")
	p.OnPageSkip(ctx, "u", "visited")
	if got := testutil.ToFloat64(p.PagesTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("pages ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.PagesSkipped.WithLabelValues("visited")); got != 2 {
		t.Errorf("pages skipped = %v, want 2", got)
	}

	p.OnCacheHit(ctx, "page")
	p.OnCacheMiss(ctx, "page")
	p.OnCacheSet(ctx, "page", 512)
	if got := testutil.ToFloat64(p.CacheHits.WithLabelValues("page")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.CacheBytes.WithLabelValues("page")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}

	p.OnResponse(ctx, "GET", "en.wikipedia.org", "/wiki/X", 200, time.Millisecond)
	p.OnError(ctx, "GET", "en.wikipedia.org", "/wiki/X", errors.New("reset"))
	if got := testutil.ToFloat64(p.HTTPRequestsTotal.WithLabelValues("GET", "en.wikipedia.org", "200")); got != 1 {
		t.Errorf("upstream requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.HTTPErrorsTotal.WithLabelValues("GET", "en.wikipedia.org")); got != 1 {
		t.Errorf("upstream errors = %v, want 1", got)
	}

	p.RecordAPIRequest("POST", "/generate", 200, time.Millisecond)
	if got := testutil.ToFloat64(p.APIRequestsTotal.WithLabelValues("POST", "/generate", "200")); got != 1 {
		t.Errorf("api requests = %v, want 1", got)
	}
}

func TestPrometheusHandler(t *testing.T) {
	p := NewPrometheus(nil)
	p.OnCacheHit(context.Background(), "map")

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `wikimap_cache_hits_total{type="map"} 1`) {
		t.Errorf("metrics output missing cache hit counter:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("default registry should include Go collector metrics")
	}
}
