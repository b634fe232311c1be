// Package locale holds the per-language rules used to read encyclopedia articles.
//
// A [Locale] bundles the static lookup tables for one language edition:
// section titles that never become mind map nodes (references, external
// links, ...), the marker phrases of "main article" callouts, the edit-link
// noise to strip from header text, the suffix appended to page titles, and
// the [CalloutSelector] that finds callout elements in the markup.
//
// Built-in locales cover English and French. Additional languages can be
// registered at runtime or loaded from TOML with [LoadTOML].
//
// # Usage
//
//	loc, ok := locale.Lookup("en")
//	if !ok {
//	    return fmt.Errorf("unsupported language")
//	}
//	title := loc.Clean(rawHeader, mobile)
//	if loc.IsExcluded(title) {
//	    // skip section
//	}
package locale

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
)

// EditNoise holds the patterns stripped from header text. Desktop and mobile
// renderings of the same article decorate headers differently.
type EditNoise struct {
	Desktop *regexp.Regexp
	Mobile  *regexp.Regexp
}

// Locale is the rule set for one language edition.
type Locale struct {
	Code        string          // Language code, e.g. "en"
	Excluded    []string        // Section titles that are dropped entirely
	Markers     []string        // Phrases identifying main-article callouts
	Noise       EditNoise       // Edit-link noise stripped from header text
	TitleSuffix string          // Suffix stripped from the <title> text
	Callout     CalloutSelector // How callout elements are located
}

// Clean strips edit-link noise from a raw header text and trims surrounding
// whitespace. The mobile pattern is used for mobile renderings.
func (l *Locale) Clean(raw string, mobile bool) string {
	re := l.Noise.Desktop
	if mobile {
		re = l.Noise.Mobile
	}
	if re != nil {
		raw = re.ReplaceAllString(raw, "")
	}
	return strings.TrimSpace(raw)
}

// IsExcluded reports whether a cleaned section title is on the excluded list.
// Matching is exact.
func (l *Locale) IsExcluded(title string) bool {
	return slices.Contains(l.Excluded, title)
}

// HasMarker reports whether text contains one of the main-article marker phrases.
func (l *Locale) HasMarker(text string) bool {
	for _, m := range l.Markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// StripTitle removes the edition suffix (" - Wikipedia") from a page title.
func (l *Locale) StripTitle(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, l.TitleSuffix, ""))
}

// English is the rule set for en.wikipedia.org.
var English = &Locale{
	Code: "en",
	Excluded: []string{
		"References", "Sources", "See also", "Citations", "Bibliography", "Notes",
		"Further reading", "External links",
	},
	Markers: []string{"Main article"},
	Noise: EditNoise{
		Desktop: regexp.MustCompile(`\[edit\]`),
		Mobile:  regexp.MustCompile(`Edit`),
	},
	TitleSuffix: " - Wikipedia",
	Callout:     AttributeMatch{Tag: "div", Attr: "role", Value: "note"},
}

// French is the rule set for fr.wikipedia.org.
var French = &Locale{
	Code: "fr",
	Excluded: []string{
		"Références", "Sources", "Voir aussi", "Citations", "Bibliographie", "Notes",
		"Articles connexes", "Liens externes", "Annexes",
	},
	Markers: []string{"Article détaillé", "Articles détaillés"},
	Noise: EditNoise{
		Desktop: regexp.MustCompile(`\[modifier \| modifier le code\]`),
		Mobile:  regexp.MustCompile(`Modifier`),
	},
	TitleSuffix: " - Wikipédia",
	Callout:     CSSMatch{Selector: "div.bandeau-cell.bandeau-icone-css.loupe"},
}

// Registry maps language codes to locales. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	locales map[string]*Locale
}

// NewRegistry creates a registry holding the given locales.
func NewRegistry(locales ...*Locale) *Registry {
	r := &Registry{locales: make(map[string]*Locale, len(locales))}
	for _, l := range locales {
		r.locales[l.Code] = l
	}
	return r
}

// Default returns a registry with the built-in locales.
func Default() *Registry {
	return NewRegistry(English, French)
}

// Register adds or replaces a locale.
func (r *Registry) Register(l *Locale) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locales[l.Code] = l
}

// Lookup returns the locale for a language code.
func (r *Registry) Lookup(code string) (*Locale, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locales[code]
	return l, ok
}

// Codes returns the registered language codes in sorted order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.locales))
	for c := range r.locales {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

var builtin = Default()

// Lookup returns a built-in locale by language code.
func Lookup(code string) (*Locale, bool) {
	return builtin.Lookup(code)
}
