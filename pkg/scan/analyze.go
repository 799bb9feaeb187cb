package scan

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rustprint/pkg/errors"
)

// Result is the provenance recovered from one binary.
//
// FrameworkSourcePaths and UserSourcePaths are disjoint and together hold
// every distinct source path found. ToolchainVersion is only set when
// ToolchainHash is set and the version table knows it.
type Result struct {
	Packages             []Package `json:"packages"`
	FrameworkSourcePaths []string  `json:"framework_source_paths"`
	UserSourcePaths      []string  `json:"user_source_paths"`
	ToolchainHash        *string   `json:"toolchain_hash"`
	ToolchainVersion     *string   `json:"toolchain_version"`
}

// Summary holds the headline numbers of a Result.
type Summary struct {
	Packages         int
	FrameworkPaths   int
	UserPaths        int
	ToolchainHash    string
	ToolchainVersion string
}

// String renders the summary as a single line.
func (s Summary) String() string {
	toolchain := "unknown"
	switch {
	case s.ToolchainVersion != "":
		toolchain = s.ToolchainVersion
	case len(s.ToolchainHash) > 12:
		toolchain = s.ToolchainHash[:12]
	case s.ToolchainHash != "":
		toolchain = s.ToolchainHash
	}
	return fmt.Sprintf("%d packages, %d framework paths, %d user paths, rustc %s",
		s.Packages, s.FrameworkPaths, s.UserPaths, toolchain)
}

// Summary returns the headline numbers of r.
func (r *Result) Summary() Summary {
	s := Summary{
		Packages:       len(r.Packages),
		FrameworkPaths: len(r.FrameworkSourcePaths),
		UserPaths:      len(r.UserSourcePaths),
	}
	if r.ToolchainHash != nil {
		s.ToolchainHash = *r.ToolchainHash
	}
	if r.ToolchainVersion != nil {
		s.ToolchainVersion = *r.ToolchainVersion
	}
	return s
}

// Analyze scans data and assembles a Result. table may be nil, in which case
// the toolchain version is never resolved.
//
// The package extractor and the path scanner run concurrently; classification
// and toolchain resolution consume the scanner's candidates. The same input
// always yields the same Result.
func Analyze(data []byte, table VersionTable) *Result {
	var (
		packages PackageSet
		paths    []string
	)

	var g errgroup.Group
	g.Go(func() error {
		packages = ExtractPackages(data)
		return nil
	})
	g.Go(func() error {
		paths = ScanPaths(data)
		return nil
	})
	_ = g.Wait()

	framework, user := ClassifyPaths(paths)
	slices.Sort(framework)
	slices.Sort(user)

	hash, version := ResolveToolchain(paths, table)

	return &Result{
		Packages:             packages.Slice(),
		FrameworkSourcePaths: framework,
		UserSourcePaths:      user,
		ToolchainHash:        hash,
		ToolchainVersion:     version,
	}
}

// AnalyzeFile reads the file at path and analyzes its content.
//
// A missing file is reported as [errors.ErrCodeFileNotFound], any other read
// failure as [errors.ErrCodeIO]. No partial result is returned.
func AnalyzeFile(path string, table VersionTable) (*Result, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Analyze(data, table), nil
}

// ReadFile reads a sample into memory, mapping failures to structured errors.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return data, nil
}
