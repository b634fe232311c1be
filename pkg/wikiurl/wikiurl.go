// Package wikiurl classifies encyclopedia URLs and resolves article links.
//
// Wikipedia serves each language edition from its own subdomain
// (en.wikipedia.org, fr.wikipedia.org) and a mobile rendering from an
// ".m." infixed host (en.m.wikipedia.org). [Classify] recovers the language
// code and the mobile flag from a URL; the language selects which locale rules
// apply while the page is processed.
package wikiurl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Domain is the registrable domain of the supported encyclopedia.
const Domain = "wikipedia.org"

// ErrMalformedLink is returned by [Resolve] for hrefs that cannot be turned
// into an article URL (empty, fragment-only, or path-relative).
var ErrMalformedLink = errors.New("malformed link")

// Site identifies a language edition and rendering variant.
type Site struct {
	Lang   string // Language code, e.g. "en"
	Mobile bool   // True for the mobile rendering (*.m.wikipedia.org)
}

// BaseURL returns the desktop origin for the site's language,
// e.g. "https://en.wikipedia.org".
func (s Site) BaseURL() string {
	return fmt.Sprintf("https://%s.%s", s.Lang, Domain)
}

// Classify derives the language code and the mobile flag from an article URL.
// It returns ok=false if the URL does not belong to the encyclopedia domain or
// carries no language subdomain.
func Classify(rawURL string) (site Site, ok bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return Site{}, false
	}
	host := strings.ToLower(u.Hostname())
	sub, found := strings.CutSuffix(host, "."+Domain)
	if !found || sub == "" {
		return Site{}, false
	}

	if lang, mobile := strings.CutSuffix(sub, ".m"); mobile {
		site = Site{Lang: lang, Mobile: true}
	} else {
		parts := strings.Split(sub, ".")
		site = Site{Lang: parts[len(parts)-1]}
	}
	if site.Lang == "" {
		return Site{}, false
	}
	return site, true
}

// Resolve turns a link href found on a page of the given site into an
// absolute URL. Absolute http(s) hrefs are returned unchanged, protocol
// relative hrefs get an https scheme, and root-relative hrefs are prefixed
// with the site's desktop origin. Fragments are dropped so that anchors into
// the same article resolve to one URL.
func Resolve(site Site, href string) (string, error) {
	href = strings.TrimSpace(href)
	switch {
	case href == "", strings.HasPrefix(href, "#"):
		return "", fmt.Errorf("%w: %q", ErrMalformedLink, href)
	case strings.HasPrefix(href, "http"):
	case strings.HasPrefix(href, "//"):
		href = "https:" + href
	case strings.HasPrefix(href, "/"):
		if site.Lang == "" {
			return "", fmt.Errorf("%w: relative %q without language", ErrMalformedLink, href)
		}
		href = site.BaseURL() + href
	default:
		return "", fmt.Errorf("%w: %q", ErrMalformedLink, href)
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedLink, err)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// Suffix returns the last path segment of a URL, which for article URLs is
// the page title (e.g. "Mind_map").
func Suffix(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	rawURL = strings.TrimRight(rawURL, "/")
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		return rawURL[i+1:]
	}
	return rawURL
}

// DisplayName converts a URL suffix into a readable title
// ("Mind_map" -> "Mind map").
func DisplayName(suffix string) string {
	if s, err := url.PathUnescape(suffix); err == nil {
		suffix = s
	}
	return strings.ReplaceAll(suffix, "_", " ")
}
