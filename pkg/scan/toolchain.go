package scan

import "regexp"

var toolchainHashPattern = regexp.MustCompile(`/rustc/([a-f0-9]{40})`)

// VersionTable resolves a rustc commit hash to a release label such as
// "1.69.0". Implementations must be safe for concurrent reads.
type VersionTable interface {
	Lookup(hash string) (version string, ok bool)
}

// ExtractToolchainHash returns the rustc commit hash from the first path,
// in scan order, that contains "/rustc/<40 hex>". Later hashes are ignored.
func ExtractToolchainHash(paths []string) (string, bool) {
	for _, p := range paths {
		if m := toolchainHashPattern.FindStringSubmatch(p); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ResolveToolchain extracts the toolchain hash from paths and looks it up in
// table. Either result may be nil: no hash found, no table, or a hash the
// table does not know. None of these are errors.
func ResolveToolchain(paths []string, table VersionTable) (hash, version *string) {
	h, ok := ExtractToolchainHash(paths)
	if !ok {
		return nil, nil
	}
	hash = &h
	if table == nil {
		return hash, nil
	}
	if v, ok := table.Lookup(h); ok {
		version = &v
	}
	return hash, version
}
