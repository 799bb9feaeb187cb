package versions

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/scan"
)

// DefaultFile is the conventional file name for a saved table.
const DefaultFile = "rust_versions.json"

// Table maps rustc commit hashes to release tags.
// A nil Table is valid and knows no hashes.
type Table map[string]string

var _ scan.VersionTable = Table(nil)

// Lookup returns the release tag recorded for hash.
func (t Table) Lookup(hash string) (string, bool) {
	v, ok := t[hash]
	return v, ok
}

// Len returns the number of hashes in the table.
func (t Table) Len() int { return len(t) }

// Fingerprint identifies the table's contents. Two tables with the same
// entries share a fingerprint; an empty table reports "none".
func (t Table) Fingerprint() string {
	if len(t) == 0 {
		return "none"
	}
	// encoding/json writes map keys in sorted order.
	data, _ := json.Marshal(map[string]string(t))
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load reads a table from path. Missing files report FILE_NOT_FOUND and
// unparseable ones INVALID_FORMAT.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "version table %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read version table %s", path)
	}

	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse version table %s", path)
	}
	return t, nil
}

// LoadOrWarn loads the table at path. On failure it logs a warning and
// returns nil so callers can continue without version resolution.
func LoadOrWarn(path string, logger *log.Logger) Table {
	if logger == nil {
		logger = log.Default()
	}
	t, err := Load(path)
	if err != nil {
		logger.Warn("version table unavailable, toolchain versions will not be resolved",
			"path", path, "err", errors.UserMessage(err))
		return nil
	}
	logger.Debug("loaded version table", "path", path, "entries", t.Len())
	return t
}

// Save writes t to path as two-space indented JSON with sorted keys,
// creating parent directories as needed. The file is replaced atomically.
func Save(path string, t Table) error {
	if t == nil {
		t = Table{}
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode version table")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".rust_versions-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write version table %s", path)
	}
	_ = tmp.Chmod(0o644)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeIO, err, "write version table %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeIO, err, "write version table %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeIO, err, "write version table %s", path)
	}
	return nil
}
