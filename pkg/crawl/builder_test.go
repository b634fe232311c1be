package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
	"github.com/matzehuels/wikimap/pkg/mindmap"
	"github.com/matzehuels/wikimap/pkg/observability"
)

const seed = "https://en.wikipedia.org/wiki/Mind_map"

// fakeFetcher serves canned pages and counts fetches per URL.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	slow   map[string]bool
	counts map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, slow: map[string]bool{}, counts: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, _ bool) ([]byte, error) {
	f.mu.Lock()
	f.counts[url]++
	body, ok := f.pages[url]
	slow := f.slow[url]
	f.mu.Unlock()

	if slow {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if !ok {
		return nil, fmt.Errorf("404 not found: %s", url)
	}
	return []byte(body), nil
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[url]
}

func enPage(title, body string) string {
	return `<html><head><title>` + title + ` - Wikipedia</title></head><body>` +
		`<div id="mw-content-text"><div class="mw-parser-output">` + body + `</div></div></body></html>`
}

func h2(text string) string { return "<h2>" + text + "[edit]</h2>" }
func h3(text string) string { return "<h3>" + text + "[edit]</h3>" }

func mainArticle(links ...string) string {
	var b strings.Builder
	b.WriteString(`<div role="note" class="hatnote">Main article: `)
	for _, l := range links {
		text, href, _ := strings.Cut(l, "|")
		fmt.Fprintf(&b, `<a href="%s">%s</a> `, href, text)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func build(t *testing.T, f Fetcher, maxDepth int, opts Options) *Result {
	t.Helper()
	res, err := NewBuilder(f, opts).Build(context.Background(), seed, maxDepth)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := res.Graph.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	return res
}

// names returns "parentName>name" for every non-root node, in ID order.
func names(g *mindmap.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		if n.IsRoot() {
			continue
		}
		p, _ := g.Node(n.Parent)
		out = append(out, p.Name+">"+n.Name)
	}
	return out
}

func assertNames(t *testing.T, g *mindmap.Graph, want ...string) {
	t.Helper()
	got := names(g)
	if strings.Join(got, ", ") != strings.Join(want, ", ") {
		t.Errorf("nodes = %v\nwant    %v", got, want)
	}
}

func TestBuildSectionsAndExclusions(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map", h2("Background")+h2("History")+h3("Early Period")+h2("See also")),
	})

	res := build(t, f, 2, Options{})
	if res.Graph.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", res.Graph.Len())
	}
	assertNames(t, res.Graph, "Mind map>Background", "Mind map>History", "History>Early Period")

	root, _ := res.Graph.Root()
	if root.Name != "Mind map" {
		t.Errorf("root name = %q, want title without suffix", root.Name)
	}
	if res.Pages != 1 || res.Failures != 0 {
		t.Errorf("Pages = %d, Failures = %d", res.Pages, res.Failures)
	}
	if res.EffectiveDepth != 2 {
		t.Errorf("EffectiveDepth = %d, want 2", res.EffectiveDepth)
	}
	for _, n := range res.Graph.Nodes()[1:] {
		if n.OriginPage != "Mind_map" {
			t.Errorf("node %q OriginPage = %q, want Mind_map", n.Name, n.OriginPage)
		}
	}
}

func TestBuildExcludedSectionKeepsPreviousParent(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map",
			h2("Uses")+h3("Education")+
				h2("See also")+h3("Related diagrams")+
				h2("References")),
	})

	res := build(t, f, 3, Options{})
	assertNames(t, res.Graph, "Mind map>Uses", "Uses>Education", "Uses>Related diagrams")
	for _, n := range res.Graph.Nodes() {
		if n.Name == "See also" || n.Name == "References" {
			t.Errorf("excluded header %q became a node", n.Name)
		}
	}
}

func TestBuildOrphanSubsectionDropped(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map", h3("Lonely")+h2("History")),
	})
	res := build(t, f, 3, Options{})
	assertNames(t, res.Graph, "Mind map>History")
}

func TestBuildShallowDepthIgnoresSubsections(t *testing.T) {
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map", h3("Only")+h3("Subsections")),
	})

	res := build(t, f, 1, Options{})
	if res.Graph.Len() != 1 {
		t.Fatalf("Len() = %d, want root only", res.Graph.Len())
	}
	if res.EffectiveDepth != 1 {
		t.Errorf("EffectiveDepth = %d, want 1", res.EffectiveDepth)
	}
}

func TestBuildFollowsMainArticles(t *testing.T) {
	history := "https://en.wikipedia.org/wiki/History_of_mind_maps"
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map",
			h2("History")+
				mainArticle("History of mind maps|/wiki/History_of_mind_maps", "Concept map|/wiki/Concept_map")),
		history: enPage("History of mind maps", h2("Origins")+h3("Porphyry")),
	})

	res := build(t, f, 3, Options{})
	assertNames(t, res.Graph, "Mind map>History", "History>Origins", "Origins>Porphyry")

	if f.count("https://en.wikipedia.org/wiki/Concept_map") != 0 {
		t.Error("link whose first word differs from the header should not be followed")
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}

	origins, _ := res.Graph.Node(2)
	if origins.OriginPage != "History_of_mind_maps" {
		t.Errorf("OriginPage = %q", origins.OriginPage)
	}
	root, _ := res.Graph.Root()
	if root.Name != "Mind map" {
		t.Errorf("sub-page title must not rename the root, got %q", root.Name)
	}
}

func TestBuildDepthBound(t *testing.T) {
	pages := map[string]string{}
	// A chain of pages each linking to the next through its only section.
	for i := range 6 {
		url := seed
		if i > 0 {
			url = fmt.Sprintf("https://en.wikipedia.org/wiki/Topic_%d", i)
		}
		pages[url] = enPage(fmt.Sprintf("Topic %d", i),
			h2("Topic")+h3("Topic detail")+
				mainArticle(fmt.Sprintf("Topic %d|/wiki/Topic_%d", i+1, i+1)))
	}

	for maxDepth := 1; maxDepth <= 4; maxDepth++ {
		t.Run(fmt.Sprint(maxDepth), func(t *testing.T) {
			f := newFakeFetcher(pages)
			res := build(t, f, maxDepth, Options{})
			if lp := res.Graph.LongestPath(); lp > maxDepth {
				t.Errorf("LongestPath() = %d exceeds maxDepth %d", lp, maxDepth)
			}
			if res.EffectiveDepth < 1 || res.EffectiveDepth > maxDepth {
				t.Errorf("EffectiveDepth = %d", res.EffectiveDepth)
			}
			// Level l only fetches pages while l < maxDepth: topics 0..maxDepth.
			if got := f.count(fmt.Sprintf("https://en.wikipedia.org/wiki/Topic_%d", maxDepth+1)); got != 0 {
				t.Errorf("page beyond depth budget fetched %d times", got)
			}
		})
	}
}

func TestBuildCyclesFetchOnce(t *testing.T) {
	other := "https://en.wikipedia.org/wiki/Mind_mapping"
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map", h2("Mind")+mainArticle("Mind mapping|/wiki/Mind_mapping")),
		other: enPage("Mind mapping",
			h2("Mind")+mainArticle("Mind map|/wiki/Mind_map", "Mind mapping|/wiki/Mind_mapping#Self")),
	})

	res := build(t, f, 5, Options{})
	if got := f.count(seed); got != 1 {
		t.Errorf("seed fetched %d times, want 1", got)
	}
	if got := f.count(other); got != 1 {
		t.Errorf("linked page fetched %d times, want 1", got)
	}
	assertNames(t, res.Graph, "Mind map>Mind", "Mind>Mind")
}

func TestBuildSiblingDeduplication(t *testing.T) {
	uses := "https://en.wikipedia.org/wiki/Uses_of_mind_maps"
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map",
			h2("Uses")+mainArticle("Uses of mind maps|/wiki/Uses_of_mind_maps")+
				h3("Overview")+h3("Overview")),
		uses: enPage("Uses of mind maps", h2("Overview")),
	})

	res := build(t, f, 3, Options{})
	assertNames(t, res.Graph, "Mind map>Uses", "Uses>Overview")

	overview, _ := res.Graph.Node(2)
	if overview.OriginPage != "Uses_of_mind_maps" {
		t.Errorf("merged node should keep the page it was first read from, got %q", overview.OriginPage)
	}
}

func TestBuildFetchFailures(t *testing.T) {
	t.Run("seed", func(t *testing.T) {
		res := build(t, newFakeFetcher(nil), 3, Options{})
		if res.Graph.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", res.Graph.Len())
		}
		root, _ := res.Graph.Root()
		if root.Name != "Mind map" {
			t.Errorf("root name = %q, want name derived from URL", root.Name)
		}
		if res.Failures != 1 || res.Pages != 0 {
			t.Errorf("Pages = %d, Failures = %d", res.Pages, res.Failures)
		}
	})

	t.Run("sub-page", func(t *testing.T) {
		f := newFakeFetcher(map[string]string{
			seed: enPage("Mind map",
				h2("History")+mainArticle("History missing|/wiki/Missing")+
					h2("Design")),
		})
		res := build(t, f, 3, Options{})
		assertNames(t, res.Graph, "Mind map>History", "Mind map>Design")
		if res.Failures != 1 {
			t.Errorf("Failures = %d, want 1", res.Failures)
		}
	})
}

func TestBuildUnclassifiableLink(t *testing.T) {
	foreign := "https://example.com/wiki/History"
	f := newFakeFetcher(map[string]string{
		seed:    enPage("Mind map", h2("History")+mainArticle("History elsewhere|"+foreign)),
		foreign: enPage("Elsewhere", h2("Should not appear")),
	})
	res := build(t, f, 3, Options{})
	assertNames(t, res.Graph, "Mind map>History")
	if res.Failures != 1 {
		t.Errorf("Failures = %d, want 1", res.Failures)
	}
}

func TestBuildUnknownLanguage(t *testing.T) {
	de := "https://de.wikipedia.org/wiki/Mindmap"
	f := newFakeFetcher(map[string]string{de: enPage("Mindmap", h2("Geschichte"))})
	res, err := NewBuilder(f, Options{}).Build(context.Background(), de, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Graph.Len() != 1 || res.Failures != 1 {
		t.Errorf("Len() = %d, Failures = %d", res.Graph.Len(), res.Failures)
	}
}

func TestBuildUnknownLanguagePairsHooks(t *testing.T) {
	de := "https://de.wikipedia.org/wiki/Mindmap"
	f := newFakeFetcher(map[string]string{de: enPage("Mindmap", h2("Geschichte"))})
	hooks := newRecordingHooks()
	if _, err := NewBuilder(f, Options{Hooks: hooks}).Build(context.Background(), de, 2); err != nil {
		t.Fatal(err)
	}

	if len(hooks.started) != 1 {
		t.Fatalf("OnPageStart called %d times, want 1", len(hooks.started))
	}
	err, ok := hooks.completed[de]
	if !ok {
		t.Fatal("OnPageComplete not called for a started page")
	}
	if !errors.Is(err, ErrUnclassifiable) {
		t.Errorf("OnPageComplete error = %v, want ErrUnclassifiable", err)
	}
	if hooks.skipped[SkipUnclassifiable] != 1 {
		t.Errorf("unclassifiable skips = %d, want 1", hooks.skipped[SkipUnclassifiable])
	}
}

func TestBuildMalformedLinksSkipped(t *testing.T) {
	history := "https://en.wikipedia.org/wiki/History_of_mind_maps"
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map",
			h2("History")+
				`<div role="note">Main article: <a>History without href</a> <a href="#History">History anchor</a> `+
				`<a href="/wiki/Empty"> </a> <a href="/wiki/History_of_mind_maps">History of mind maps</a></div>`),
		history: enPage("History of mind maps", h2("Origins")),
	})
	res := build(t, f, 2, Options{})
	assertNames(t, res.Graph, "Mind map>History", "History>Origins")
	if f.count("https://en.wikipedia.org/wiki/Empty") != 0 {
		t.Error("link without text should be skipped")
	}
}

func TestBuildMobileAndFrench(t *testing.T) {
	t.Run("mobile", func(t *testing.T) {
		mobile := "https://en.m.wikipedia.org/wiki/Mind_map"
		f := newFakeFetcher(map[string]string{
			mobile: enPage("Mind map", "<h2>HistoryEdit</h2>"),
		})
		res, err := NewBuilder(f, Options{}).Build(context.Background(), mobile, 2)
		if err != nil {
			t.Fatal(err)
		}
		assertNames(t, res.Graph, "Mind map>History")
	})

	t.Run("french", func(t *testing.T) {
		fr := "https://fr.wikipedia.org/wiki/Carte_heuristique"
		hist := "https://fr.wikipedia.org/wiki/Histoire_des_cartes"
		page := func(title, body string) string {
			return `<html><head><title>` + title + ` - Wikipédia</title></head><body><div id="mw-content-text">` + body + `</div></body></html>`
		}
		f := newFakeFetcher(map[string]string{
			fr: page("Carte heuristique",
				`<h2>Histoire[modifier | modifier le code]</h2>`+
					`<div class="bandeau-cell bandeau-icone-css loupe">Article détaillé : <a href="/wiki/Histoire_des_cartes">Histoire des cartes</a></div>`+
					`<h2>Voir aussi[modifier | modifier le code]</h2>`),
			hist: page("Histoire des cartes", `<h2>Origines[modifier | modifier le code]</h2>`),
		})
		res, err := NewBuilder(f, Options{}).Build(context.Background(), fr, 2)
		if err != nil {
			t.Fatal(err)
		}
		assertNames(t, res.Graph, "Carte heuristique>Histoire", "Histoire>Origines")
	})
}

func TestBuildInvalidInput(t *testing.T) {
	b := NewBuilder(newFakeFetcher(nil), Options{})
	tests := []struct {
		url   string
		depth int
		code  wmerrors.Code
	}{
		{"", 3, wmerrors.ErrCodeInvalidURL},
		{"   ", 3, wmerrors.ErrCodeInvalidURL},
		{seed, 0, wmerrors.ErrCodeInvalidDepth},
		{seed, -2, wmerrors.ErrCodeInvalidDepth},
	}
	for _, tt := range tests {
		_, err := b.Build(context.Background(), tt.url, tt.depth)
		if !wmerrors.Is(err, tt.code) {
			t.Errorf("Build(%q, %d) error = %v, want code %s", tt.url, tt.depth, err, tt.code)
		}
	}
}

func TestBuildConcurrentMatchesSequential(t *testing.T) {
	pages := map[string]string{
		seed: enPage("Mind map",
			h2("History")+mainArticle("History of mind maps|/wiki/A", "History again|/wiki/B")+
				h3("Early")+
				h2("Design")+mainArticle("Design basics|/wiki/C", "Design patterns|/wiki/D")),
		"https://en.wikipedia.org/wiki/A": enPage("A", h2("One")+h2("Two")),
		"https://en.wikipedia.org/wiki/B": enPage("B", h2("Three")+mainArticle("Three more|/wiki/A")),
		"https://en.wikipedia.org/wiki/C": enPage("C", h2("Four")),
		"https://en.wikipedia.org/wiki/D": enPage("D", h2("Five")+h2("Six")),
	}

	seq := build(t, newFakeFetcher(pages), 4, Options{})
	for range 5 {
		f := newFakeFetcher(pages)
		par := build(t, f, 4, Options{Concurrency: 4})
		if got, want := names(par.Graph), names(seq.Graph); strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("concurrent build = %v\nsequential build  = %v", got, want)
		}
		for url := range pages {
			if c := f.count(url); c > 1 {
				t.Errorf("%s fetched %d times", url, c)
			}
		}
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newFakeFetcher(map[string]string{seed: enPage("Mind map", h2("History"))})
	_, err := NewBuilder(f, Options{}).Build(ctx, seed, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestBuildDeadlineReturnsPartialGraph(t *testing.T) {
	slow := "https://en.wikipedia.org/wiki/History_of_mind_maps"
	f := newFakeFetcher(map[string]string{
		seed: enPage("Mind map",
			h2("History")+mainArticle("History of mind maps|/wiki/History_of_mind_maps")+
				h2("Design")),
	})
	f.slow[slow] = true

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := NewBuilder(f, Options{}).Build(ctx, seed, 3)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !res.Truncated {
		t.Error("Truncated should be set when the deadline expires")
	}
	// The header after the slow link is still attached; only expansion stops.
	assertNames(t, res.Graph, "Mind map>History", "Mind map>Design")
}

type recordingHooks struct {
	observability.NoopCrawlHooks
	mu      sync.Mutex
	started   []string
	completed map[string]error
	skipped   map[string]int
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{completed: map[string]error{}, skipped: map[string]int{}}
}

func (h *recordingHooks) OnPageComplete(_ context.Context, url string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed[url] = err
}

func (h *recordingHooks) OnPageStart(_ context.Context, url string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, url)
}

func (h *recordingHooks) OnPageSkip(_ context.Context, _ string, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.skipped[reason]++
}

func TestBuildEmitsHooks(t *testing.T) {
	other := "https://en.wikipedia.org/wiki/Mind_mapping"
	f := newFakeFetcher(map[string]string{
		seed:  enPage("Mind map", h2("Mind")+mainArticle("Mind mapping|/wiki/Mind_mapping")),
		other: enPage("Mind mapping", h2("Mind")+mainArticle("Mind map|/wiki/Mind_map")),
	})
	hooks := newRecordingHooks()
	build(t, f, 5, Options{Hooks: hooks})

	if len(hooks.started) != 2 {
		t.Errorf("OnPageStart called %d times, want 2", len(hooks.started))
	}
	if hooks.skipped[SkipVisited] != 1 {
		t.Errorf("visited skips = %d, want 1", hooks.skipped[SkipVisited])
	}
}
