// Package document wraps a parsed article with the queries the crawler needs.
//
// The markup is parsed with goquery. Queries are scoped to the article body
// (the "#mw-content-text" container) so that navigation chrome never turns
// into mind map nodes.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/wikimap/pkg/locale"
)

// ContentSelector locates the article body.
const ContentSelector = "#mw-content-text"

// Header is a section title with its heading level (2 for h2, 3 for h3).
type Header struct {
	Level int
	Text  string
}

// TocLevel returns the normalized header depth (level minus one).
func (h Header) TocLevel() int { return h.Level - 1 }

// Link is an anchor found inside a main-article callout.
type Link struct {
	Text    string // Visible anchor text
	Href    string // Raw href attribute (may be relative)
	HasHref bool   // False when the anchor has no href attribute
}

// Document is a parsed article.
type Document struct {
	doc *goquery.Document
}

// Parse parses raw HTML into a Document.
func Parse(data []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Title returns the text of the <title> element.
func (d *Document) Title() (string, bool) {
	sel := d.doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}

// Headers returns the headers of the given levels inside the article body in
// document order. Header text is returned raw; locale cleanup is the
// caller's job.
func (d *Document) Headers(levels ...int) []Header {
	content := d.content()
	if content.Length() == 0 || len(levels) == 0 {
		return nil
	}

	tags := make([]string, len(levels))
	for i, l := range levels {
		tags[i] = fmt.Sprintf("h%d", l)
	}

	var headers []Header
	content.Find(strings.Join(tags, ", ")).Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		var level int
		if _, err := fmt.Sscanf(name, "h%d", &level); err != nil {
			return
		}
		headers = append(headers, Header{Level: level, Text: s.Text()})
	})
	return headers
}

// CalloutLinks returns the anchors of every main-article callout in the
// article body, in document order. An element is a callout when it matches
// the locale's selector and its text contains one of the locale's marker
// phrases.
func (d *Document) CalloutLinks(loc *locale.Locale) []Link {
	content := d.content()
	if content.Length() == 0 || loc == nil {
		return nil
	}

	var callouts *goquery.Selection
	switch sel := loc.Callout.(type) {
	case locale.AttributeMatch:
		callouts = content.Find(sel.Tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
			v, ok := s.Attr(sel.Attr)
			return ok && v == sel.Value
		})
	case locale.CSSMatch:
		callouts = content.Find(sel.Selector)
	default:
		return nil
	}

	var links []Link
	callouts.Each(func(_ int, c *goquery.Selection) {
		if !loc.HasMarker(c.Text()) {
			return
		}
		c.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			links = append(links, Link{
				Text:    strings.TrimSpace(a.Text()),
				Href:    href,
				HasHref: ok,
			})
		})
	})
	return links
}

func (d *Document) content() *goquery.Selection {
	return d.doc.Find(ContentSelector).First()
}
