package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or tenants
// can share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Keys for one API deployment on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "railyard:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TreeKey generates a prefixed key for parsed trees.
func (k *ScopedKeyer) TreeKey(pattern, flags string) string {
	return k.prefix + k.inner.TreeKey(pattern, flags)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
