package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/pipeline"
)

// FileStore is a file-based report store for CLI use.
// Reports are stored as <sha256>.json in a single directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based report store in baseDir, creating the
// directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Dir returns the directory reports are written to.
func (s *FileStore) Dir() string { return s.baseDir }

func (s *FileStore) reportPath(sha256 string) string {
	return filepath.Join(s.baseDir, sha256+".json")
}

// Save writes r, replacing any earlier report for the same digest.
func (s *FileStore) Save(ctx context.Context, r *pipeline.Report) error {
	if err := errors.ValidateSHA256(r.SHA256); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(s.reportPath(r.SHA256), data, 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// Get loads the report stored for sha256.
func (s *FileStore) Get(ctx context.Context, sha256 string) (*pipeline.Report, error) {
	if err := errors.ValidateSHA256(sha256); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := readReport(s.reportPath(sha256))
	if os.IsNotExist(err) {
		return nil, notFound(sha256)
	}
	return r, err
}

// ByToolchain scans every stored report for a matching toolchain hash.
// Unreadable files are skipped.
func (s *FileStore) ByToolchain(ctx context.Context, hash string) ([]*pipeline.Report, error) {
	if err := errors.ValidateToolchainHash(hash); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read report dir: %w", err)
	}

	reports := []*pipeline.Report{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := readReport(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		if r.ToolchainHash != nil && *r.ToolchainHash == hash {
			reports = append(reports, r)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].AnalyzedAt.After(reports[j].AnalyzedAt)
	})
	return reports, nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error { return nil }

func readReport(path string) (*pipeline.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r pipeline.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

var _ Store = (*FileStore)(nil)
