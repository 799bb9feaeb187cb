package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rustprint/pkg/cache"
	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/observability"
	"github.com/matzehuels/rustprint/pkg/scan"
	"github.com/matzehuels/rustprint/pkg/versions"
)

// Runner encapsulates analysis with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner holds no per-analysis state, so multiple goroutines can safely
// share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  ReportSaver // optional
	Table  versions.Table
	TTL    time.Duration // cached results; 0 means cache.TTLAnalysis
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer, and version table.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil table disables version resolution.
func NewRunner(c cache.Cache, keyer cache.Keyer, table versions.Table, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Table:  table,
		TTL:    cache.TTLAnalysis,
		Logger: logger,
	}
}

// AnalyzeBytes analyzes data and wraps the result in a Report named name.
func (r *Runner) AnalyzeBytes(ctx context.Context, name string, data []byte, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Analysis()
	hooks.OnAnalyzeStart(ctx, name, int64(len(data)))
	start := time.Now()

	digest := cache.Hash(data)
	result, hit := r.analyze(ctx, digest, data, opts)

	report := &Report{
		ID:         uuid.NewString(),
		Name:       name,
		SHA256:     digest,
		Size:       int64(len(data)),
		AnalyzedAt: time.Now().UTC(),
		Cached:     hit,
		Result:     *result,
	}

	var err error
	if opts.Persist && r.Store != nil {
		if err = r.Store.Save(ctx, report); err != nil {
			err = errors.Wrap(errors.ErrCodeIO, err, "save report %s", name)
		}
	}

	elapsed := time.Since(start)
	hooks.OnAnalyzeComplete(ctx, name, len(report.Packages), elapsed, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("analyzed", "name", name, "sha256", digest[:12], "cached", hit, "duration", elapsed)
	return report, nil
}

// analyze returns the cached result for digest, or computes and caches it.
func (r *Runner) analyze(ctx context.Context, digest string, data []byte, opts Options) (*scan.Result, bool) {
	key := r.Keyer.AnalysisKey(digest, r.Table.Fingerprint())
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		raw, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		if err == nil && hit {
			var cached scan.Result
			if err := json.Unmarshal(raw, &cached); err == nil {
				cacheHooks.OnCacheHit(ctx, "analysis")
				return &cached, true
			}
		}
		cacheHooks.OnCacheMiss(ctx, "analysis")
	}

	result := scan.Analyze(data, r.Table)

	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLAnalysis
	}
	if encoded, err := json.Marshal(result); err == nil {
		if err := r.Cache.Set(ctx, key, encoded, ttl); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "analysis", len(encoded))
		}
	}
	return result, false
}

// AnalyzeFile reads path and analyzes its contents. The report is named
// after the file's base name.
func (r *Runner) AnalyzeFile(ctx context.Context, path string, opts Options) (*Report, error) {
	data, err := scan.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.AnalyzeBytes(ctx, filepath.Base(path), data, opts)
}

// AnalyzeFiles analyzes several files, at most limit at a time (no limit
// when limit <= 0). Reports are returned in the order of paths. The first
// failure cancels the remaining work.
func (r *Runner) AnalyzeFiles(ctx context.Context, paths []string, opts Options, limit int) ([]*Report, error) {
	reports := make([]*Report, len(paths))
	var done atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			report, err := r.AnalyzeFile(ctx, path, opts)
			if err != nil {
				return err
			}
			reports[i] = report
			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), len(paths))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
