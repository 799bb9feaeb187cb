// Package pipeline runs binary analysis for rustprint with caching and
// report persistence.
//
// The CLI and the HTTP API both go through a [Runner] so that cache keys,
// report metadata and persistence behave identically everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, table, logger)
//	report, err := runner.AnalyzeFile(ctx, "target/release/app", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Summary())
//
// # Caching
//
// Results are cached under [cache.Keyer.AnalysisKey], built from the SHA-256
// of the analyzed bytes and the fingerprint of the version table. Rebuilding
// the table therefore invalidates every cached toolchain version. Cache
// failures are logged and never fail an analysis.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/scan"
)

// Output formats understood by the CLI and API.
const (
	FormatJSON    = "json"
	FormatSummary = "summary"
)

// ValidFormats lists every supported output format.
var ValidFormats = []string{FormatJSON, FormatSummary}

// ValidateFormat reports an INVALID_INPUT error for unknown formats.
// Formats are case-sensitive.
func ValidateFormat(format string) error {
	if slices.Contains(ValidFormats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format %q: must be one of %v", format, ValidFormats)
}

// Options control a single analysis.
type Options struct {
	// Refresh ignores any cached result and recomputes it.
	Refresh bool

	// Persist saves the report to the runner's store, if one is configured.
	Persist bool

	// Progress, if set, is called by AnalyzeFiles after each finished file
	// with the number of files done so far. Calls may come from several
	// goroutines.
	Progress func(done, total int)
}

// Report is an analysis result together with metadata about the input.
type Report struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SHA256     string    `json:"sha256"`
	Size       int64     `json:"size"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Cached     bool      `json:"cached"`

	scan.Result
}

// String returns "name (sha256 prefix): summary".
func (r *Report) String() string {
	digest := r.SHA256
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return fmt.Sprintf("%s (%s): %s", r.Name, digest, r.Summary())
}

// ReportSaver persists reports. store.Store implementations satisfy it.
type ReportSaver interface {
	Save(ctx context.Context, report *Report) error
}
