package cache

// ScopedKeyer prefixes every key of an inner Keyer. [Config.Keyer] returns
// one for the redis backend so deployments sharing an instance keep their
// entries apart.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PageKey returns the prefixed page key.
func (k *ScopedKeyer) PageKey(url string) string {
	return k.prefix + k.inner.PageKey(url)
}

// MapKey returns the prefixed map key.
func (k *ScopedKeyer) MapKey(url string, opts MapKeyOpts) string {
	return k.prefix + k.inner.MapKey(url, opts)
}
