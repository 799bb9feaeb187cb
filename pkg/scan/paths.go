package scan

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"
)

// pathPattern matches an absolute source path ending in ".rs": a drive
// prefix ("C:\") or a leading "/", one or more directory segments, then the
// file name. The 512-segment bound only caps work on pathological input.
var pathPattern = regexp.MustCompile(`(?:[a-zA-Z]:[\\/]|/)(?:[a-zA-Z0-9._\-]+[\\/]){1,512}?(?:[a-zA-Z0-9._\-]+)\.rs`)

// Origin says where an embedded source path comes from.
type Origin string

const (
	// OriginFramework marks compiler, standard library, registry cache and
	// build-container paths.
	OriginFramework Origin = "framework"

	// OriginUser marks everything else: the binary author's own project.
	OriginUser Origin = "user"
)

// Prefixes and substrings under which rustc, the standard library and the
// cargo registry embed source paths on common build machines.
var (
	frameworkPrefixes = []string{
		"/rust",
		"/root/",
		"/cargo/",
		"/core/",
		"/std/",
		"/alloc/",
		"/library/",
		"/proc_macro/",
		"/test/",
	}
	frameworkMarkers = []string{
		".cargo",
		".rustup",
		".crates.io",
	}
)

var rsSuffix = []byte(".rs")

// isPathByte reports whether b can appear in a pathPattern match.
func isPathByte(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case '.', '_', '-', '/', '\\', ':':
		return true
	}
	return false
}

// pathMatches returns the same indexes as pathPattern.FindAllIndex over data.
// A match consists of path bytes only, so it lies inside one maximal run of
// them, and only runs containing ".rs" can hold a match. The regexp runs
// over those runs alone.
func pathMatches(data []byte) [][]int {
	var out [][]int
	pos := 0
	for {
		i := bytes.Index(data[pos:], rsSuffix)
		if i < 0 {
			return out
		}
		lo, hi := pos+i, pos+i+len(rsSuffix)
		for lo > pos && isPathByte(data[lo-1]) {
			lo--
		}
		for hi < len(data) && isPathByte(data[hi]) {
			hi++
		}
		for _, loc := range pathPattern.FindAllIndex(data[lo:hi], -1) {
			out = append(out, []int{lo + loc[0], lo + loc[1]})
		}
		pos = hi
	}
}

// ScanPaths returns the distinct source paths embedded in data, in the order
// they are first encountered. Matches that are not valid UTF-8 are skipped.
func ScanPaths(data []byte) []string {
	seen := make(map[string]struct{})
	paths := []string{}
	for _, loc := range pathMatches(data) {
		match := data[loc[0]:loc[1]]
		if !utf8.Valid(match) {
			continue
		}
		p := string(match)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

// Classify reports whether path belongs to the toolchain or to the user.
//
// This is a heuristic allowlist. Anything not recognized is reported as
// [OriginUser], so unfamiliar build layouts surface for review instead of
// being hidden.
func Classify(path string) Origin {
	if IsFramework(path) {
		return OriginFramework
	}
	return OriginUser
}

// IsFramework reports whether path matches one of the known toolchain,
// standard library or registry locations.
func IsFramework(path string) bool {
	for _, m := range frameworkMarkers {
		if strings.Contains(path, m) {
			return true
		}
	}
	for _, p := range frameworkPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ClassifyPaths partitions paths into framework and user paths. Each input
// path lands in exactly one of the two results; input order is preserved.
func ClassifyPaths(paths []string) (framework, user []string) {
	framework, user = []string{}, []string{}
	for _, p := range paths {
		if Classify(p) == OriginFramework {
			framework = append(framework, p)
		} else {
			user = append(user, p)
		}
	}
	return framework, user
}
