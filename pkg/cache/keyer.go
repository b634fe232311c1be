package cache

// Keyer builds cache keys.
type Keyer interface {
	// PageKey identifies the raw markup of one page.
	PageKey(url string) string
	// MapKey identifies a finished mind map generated from url.
	MapKey(url string, opts MapKeyOpts) string
}

// MapKeyOpts holds every generation option that changes the produced map.
type MapKeyOpts struct {
	MaxDepth  int     `json:"max_depth"`
	BaseScale float64 `json:"base_scale"`
}

// DefaultKeyer hashes its inputs so keys have a fixed length.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PageKey(url string) string {
	return hashKey(KeyTypePage, url)
}

func (DefaultKeyer) MapKey(url string, opts MapKeyOpts) string {
	return hashKey(KeyTypeMap, url, opts)
}
