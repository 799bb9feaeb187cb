package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating deployments that share
// one backend (for example several API instances on the same Redis).
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "triage-eu:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// AnalysisKey generates a prefixed key for analysis result caching.
func (k *ScopedKeyer) AnalysisKey(contentSHA256, tableFingerprint string) string {
	return k.prefix + k.inner.AnalysisKey(contentSHA256, tableFingerprint)
}
