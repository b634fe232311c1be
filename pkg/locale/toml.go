package locale

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Definition is the TOML form of a [Locale]:
//
//	[locales.de]
//	excluded     = ["Einzelnachweise", "Literatur", "Weblinks", "Siehe auch"]
//	markers      = ["Hauptartikel"]
//	edit_desktop = '\[Bearbeiten \| Quelltext bearbeiten\]'
//	edit_mobile  = 'Bearbeiten'
//	title_suffix = " – Wikipedia"
//
//	[locales.de.callout]
//	attr  = "role"
//	value = "note"
//	tag   = "div"
//
// A callout table with a "css" key builds a [CSSMatch]; otherwise an
// [AttributeMatch] is built from tag, attr and value.
type Definition struct {
	Excluded    []string          `toml:"excluded"`
	Markers     []string          `toml:"markers"`
	EditDesktop string            `toml:"edit_desktop"`
	EditMobile  string            `toml:"edit_mobile"`
	TitleSuffix string            `toml:"title_suffix"`
	Callout     CalloutDefinition `toml:"callout"`
}

// CalloutDefinition is the TOML form of a [CalloutSelector].
type CalloutDefinition struct {
	CSS   string `toml:"css"`
	Tag   string `toml:"tag"`
	Attr  string `toml:"attr"`
	Value string `toml:"value"`
}

// Build compiles the definition into a Locale for the given language code.
func (s Definition) Build(code string) (*Locale, error) {
	if code == "" {
		return nil, fmt.Errorf("locale: empty language code")
	}
	l := &Locale{
		Code:        code,
		Excluded:    s.Excluded,
		Markers:     s.Markers,
		TitleSuffix: s.TitleSuffix,
	}
	var err error
	if l.Noise.Desktop, err = compileOptional(s.EditDesktop); err != nil {
		return nil, fmt.Errorf("locale %s: edit_desktop: %w", code, err)
	}
	if l.Noise.Mobile, err = compileOptional(s.EditMobile); err != nil {
		return nil, fmt.Errorf("locale %s: edit_mobile: %w", code, err)
	}

	switch c := s.Callout; {
	case c.CSS != "":
		l.Callout = CSSMatch{Selector: c.CSS}
	case c.Attr != "":
		tag := c.Tag
		if tag == "" {
			tag = "div"
		}
		l.Callout = AttributeMatch{Tag: tag, Attr: c.Attr, Value: c.Value}
	default:
		return nil, fmt.Errorf("locale %s: callout needs either css or attr", code)
	}
	if len(l.Markers) == 0 {
		return nil, fmt.Errorf("locale %s: at least one marker is required", code)
	}
	return l, nil
}

func compileOptional(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

// BuildAll compiles a set of definitions keyed by language code.
func BuildAll(defs map[string]Definition) ([]*Locale, error) {
	out := make([]*Locale, 0, len(defs))
	for code, s := range defs {
		l, err := s.Build(code)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// LoadTOML decodes the [locales.<code>] tables of a TOML document.
func LoadTOML(data []byte) ([]*Locale, error) {
	var doc struct {
		Locales map[string]Definition `toml:"locales"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode locales: %w", err)
	}
	return BuildAll(doc.Locales)
}
