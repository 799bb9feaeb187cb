package scan

import (
	"bytes"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// packageExpr matches a cargo registry cache directory:
//
//	.cargo/registry/src/<index>-<hex id>/<name>-<version>
//
// The leading wildcard is deliberately not a literal dot so that container
// builds using /cargo/registry/... match as well. Either separator is
// accepted at every position. The name is lazy and the dash before the
// version optional, so a crate literally named "base64" yields name "base"
// and version "64".
//
// Wildcards exclude newlines and U+FFFD. The regexp engine decodes every
// invalid UTF-8 byte as U+FFFD, so a match never runs across binary garbage
// and swallows a real registry path that follows it.
const packageExpr = `[^\n\x{FFFD}]cargo(?:/|\\)registry(?:/|\\)src(?:/|\\)[^\n\x{FFFD}]*?-[a-f0-9]{8,}(?:/|\\)([^\n\x{FFFD}]*?)-?([\d\.]{2,})`

// packageAnchored matches packageExpr at the start of its input only. Every
// match has "cargo" right after its first rune, so ExtractPackages finds
// candidates with bytes.Index and runs the regexp just there.
var packageAnchored = regexp.MustCompile(`^(?:` + packageExpr + `)`)

var cargoMarker = []byte("cargo")

// Package is a crate found in a registry cache path.
//
// Package is a comparable value type: two packages are the same only when
// Path, Name and Version all match. The same crate fetched through two
// registry mirrors is therefore reported twice, since the mirror reveals the
// distribution channel.
type Package struct {
	Path    string `json:"path"`    // Matched fragment, separators verbatim
	Name    string `json:"name"`    // Crate name (e.g., "addr2line")
	Version string `json:"version"` // Digits-and-dots version (e.g., "0.17.0")
}

// PackageSet deduplicates packages by their full (path, name, version) triple.
type PackageSet map[Package]struct{}

// Add inserts p and reports whether it was not already present.
func (s PackageSet) Add(p Package) bool {
	if _, ok := s[p]; ok {
		return false
	}
	s[p] = struct{}{}
	return true
}

// Contains reports whether p is in the set.
func (s PackageSet) Contains(p Package) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of distinct packages.
func (s PackageSet) Len() int { return len(s) }

// Slice materializes the set. Order carries no meaning; packages are sorted
// by name, version and path so that output is stable across runs.
func (s PackageSet) Slice() []Package {
	out := make([]Package, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Package) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := strings.Compare(a.Version, b.Version); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

// ExtractPackages scans data for registry cache paths and returns the
// distinct packages found. Matches that are not valid UTF-8 are skipped.
// An empty set is a valid result (stripped binary, no registry crates).
func ExtractPackages(data []byte) PackageSet {
	set := make(PackageSet)
	for _, m := range packageMatches(data) {
		match := data[m[0]:m[1]]
		if !utf8.Valid(match) {
			continue
		}
		set.Add(Package{
			Path:    string(match),
			Name:    string(data[m[2]:m[3]]),
			Version: string(data[m[4]:m[5]]),
		})
	}
	return set
}

// packageMatches returns the same submatch indexes as an unanchored
// FindAllSubmatchIndex of packageExpr over data, in order and without
// overlaps, but only runs the regexp at "cargo" candidates.
func packageMatches(data []byte) [][]int {
	var out [][]int
	floor := 0 // end of the previous match; no match may start before it
	pos := 0
	for {
		i := bytes.Index(data[pos:], cargoMarker)
		if i < 0 {
			return out
		}
		c := pos + i
		pos = c + len(cargoMarker)

		start, ok := runeBefore(data, c, floor)
		if !ok {
			continue
		}
		m := packageAnchored.FindSubmatchIndex(data[start:])
		if m == nil {
			continue
		}
		for k := range m {
			if m[k] >= 0 {
				m[k] += start
			}
		}
		out = append(out, m)
		floor = m[1]
		pos = max(pos, floor)
	}
}

// runeBefore returns the start of the rune that ends at c, provided it is at
// or after floor and is one the leading wildcard accepts.
func runeBefore(data []byte, c, floor int) (int, bool) {
	if c-1 < floor {
		return 0, false
	}
	if b := data[c-1]; b < utf8.RuneSelf {
		return c - 1, b != '\n'
	}
	for w := 2; w <= utf8.UTFMax && c-w >= floor; w++ {
		r, size := utf8.DecodeRune(data[c-w : c])
		if size == w {
			return c - w, r != utf8.RuneError
		}
	}
	// A stray continuation or truncated sequence decodes as U+FFFD.
	return 0, false
}
