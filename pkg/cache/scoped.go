package cache

// ScopedKeyer wraps a Keyer with a prefix so that independent jobs can
// share one backend without seeing each other's entries.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "job:nightly:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey implements [Keyer].
func (k *ScopedKeyer) ResultKey(recordsHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(recordsHash, opts)
}

// SchemaKey implements [Keyer].
func (k *ScopedKeyer) SchemaKey(schemaHash string) string {
	return k.prefix + k.inner.SchemaKey(schemaHash)
}
