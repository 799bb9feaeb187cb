package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a cached API response within a namespace (e.g., "github:").
	HTTPKey(namespace, key string) string

	// AnalysisKey keys an analysis result by content digest and the
	// fingerprint of the version table it was resolved against.
	AnalysisKey(contentSHA256, tableFingerprint string) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// AnalysisKey returns "analysis:<hash>". The table fingerprint is part of the
// hash so that refreshing the table invalidates resolved versions.
func (DefaultKeyer) AnalysisKey(contentSHA256, tableFingerprint string) string {
	return hashKey("analysis", contentSHA256, tableFingerprint)
}
