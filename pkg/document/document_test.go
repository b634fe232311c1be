package document

import (
	"testing"

	"github.com/matzehuels/wikimap/pkg/locale"
)

const enPage = `<!DOCTYPE html>
<html><head><title>Mind map - Wikipedia</title></head>
<body>
<div id="mw-navigation"><h2>Navigation menu</h2></div>
<div id="mw-content-text"><div class="mw-parser-output">
  <h2><span class="mw-headline">Background</span><span class="mw-editsection">[edit]</span></h2>
  <h2><span class="mw-headline">History</span><span class="mw-editsection">[edit]</span></h2>
  <div role="note" class="hatnote">Main article: <a href="/wiki/History_of_mind_maps">History of mind maps</a></div>
  <h3><span class="mw-headline">Early period</span><span class="mw-editsection">[edit]</span></h3>
  <div role="note" class="hatnote">Further information: <a href="/wiki/Concept_map">Concept map</a></div>
  <h4>Too deep</h4>
  <h2>See also</h2>
  <div role="note">Main article: <a>No href</a> <a href="/wiki/Radial_tree">Radial tree</a></div>
</div></div>
</body></html>`

const frPage = `<html><head><title>Carte heuristique - Wikipédia</title></head>
<body><div id="mw-content-text">
  <h2>Histoire[modifier | modifier le code]</h2>
  <div class="bandeau-container">
    <div class="bandeau-cell bandeau-icone-css loupe">Article détaillé : <a href="/wiki/Histoire_des_cartes">Histoire des cartes</a>.</div>
  </div>
  <div class="bandeau-cell bandeau-icone-css loupe">Voir : <a href="/wiki/Autre">Autre</a></div>
</div></body></html>`

func TestTitle(t *testing.T) {
	d, err := Parse([]byte(enPage))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	title, ok := d.Title()
	if !ok || title != "Mind map - Wikipedia" {
		t.Errorf("Title() = %q, %v", title, ok)
	}

	d, _ = Parse([]byte(`<html><body><p>no title</p></body></html>`))
	if _, ok := d.Title(); ok {
		t.Error("Title() should report missing title")
	}
}

func TestHeaders(t *testing.T) {
	d, err := Parse([]byte(enPage))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	all := d.Headers(2, 3)
	want := []Header{
		{2, "Background[edit]"},
		{2, "History[edit]"},
		{3, "Early period[edit]"},
		{2, "See also"},
	}
	if len(all) != len(want) {
		t.Fatalf("Headers(2,3) = %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("Headers(2,3)[%d] = %+v, want %+v", i, all[i], want[i])
		}
	}

	h2 := d.Headers(2)
	if len(h2) != 3 {
		t.Errorf("Headers(2) returned %d headers, want 3", len(h2))
	}
	for _, h := range h2 {
		if h.TocLevel() != 1 {
			t.Errorf("TocLevel() = %d, want 1", h.TocLevel())
		}
	}

	if got := d.Headers(); got != nil {
		t.Errorf("Headers() with no levels = %v, want nil", got)
	}
}

func TestHeadersWithoutContent(t *testing.T) {
	d, _ := Parse([]byte(`<html><body><h2>Orphan</h2></body></html>`))
	if got := d.Headers(2, 3); len(got) != 0 {
		t.Errorf("Headers() = %v, want none outside the content container", got)
	}
	if got := d.CalloutLinks(locale.English); len(got) != 0 {
		t.Errorf("CalloutLinks() = %v, want none", got)
	}
}

func TestCalloutLinksAttributeMatch(t *testing.T) {
	d, _ := Parse([]byte(enPage))
	links := d.CalloutLinks(locale.English)

	want := []Link{
		{Text: "History of mind maps", Href: "/wiki/History_of_mind_maps", HasHref: true},
		{Text: "No href", HasHref: false},
		{Text: "Radial tree", Href: "/wiki/Radial_tree", HasHref: true},
	}
	if len(links) != len(want) {
		t.Fatalf("CalloutLinks() = %+v, want %+v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("CalloutLinks()[%d] = %+v, want %+v", i, links[i], want[i])
		}
	}
}

func TestCalloutLinksCSSMatch(t *testing.T) {
	d, _ := Parse([]byte(frPage))
	links := d.CalloutLinks(locale.French)
	if len(links) != 1 {
		t.Fatalf("CalloutLinks() = %+v, want one link", links)
	}
	if links[0].Href != "/wiki/Histoire_des_cartes" {
		t.Errorf("Href = %q", links[0].Href)
	}
}
