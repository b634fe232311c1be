package locale

import "fmt"

// CalloutSelector describes how main-article callout elements are found in an
// article. It is a closed set of variants: [AttributeMatch] and [CSSMatch].
// Consumers switch on the concrete type.
type CalloutSelector interface {
	fmt.Stringer
	calloutSelector()
}

// AttributeMatch selects elements by tag name and an exact attribute value,
// e.g. <div role="note">.
type AttributeMatch struct {
	Tag   string
	Attr  string
	Value string
}

func (AttributeMatch) calloutSelector() {}

func (m AttributeMatch) String() string {
	return fmt.Sprintf("%s[%s=%q]", m.Tag, m.Attr, m.Value)
}

// CSSMatch selects elements matching a CSS selector.
type CSSMatch struct {
	Selector string
}

func (CSSMatch) calloutSelector() {}

func (m CSSMatch) String() string { return m.Selector }
