// Package config loads rustprint's TOML configuration.
//
// Configuration is read from $XDG_CONFIG_HOME/rustprint/config.toml (or
// ~/.config/rustprint/config.toml) unless a path is given explicitly.
// Values not present in the file keep their defaults, and a few environment
// variables override the file:
//
//	GITHUB_TOKEN              github.token
//	RUSTPRINT_VERSIONS_FILE   versions_file
//
// Example:
//
//	versions_file = "/var/lib/rustprint/rust_versions.json"
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//	namespace = "triage-eu:"
//	ttl       = "72h"
//
//	[store]
//	backend   = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rustprint/pkg/cache"
	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/versions"
)

// AppName names the per-user config, cache, and data directories.
const AppName = "rustprint"

// Backend names accepted in [cache] and [store].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the full configuration.
type Config struct {
	VersionsFile string       `toml:"versions_file"`
	GitHub       GitHubConfig `toml:"github"`
	Cache        CacheConfig  `toml:"cache"`
	Store        StoreConfig  `toml:"store"`
	Server       ServerConfig `toml:"server"`
}

// GitHubConfig selects the repository whose tags name rustc releases.
type GitHubConfig struct {
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`
	Token string `toml:"token"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // none, file, redis
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"` // analysis results
	RedisURL  string   `toml:"redis_url"`
	Namespace string   `toml:"namespace"` // key prefix for shared backends
}

// StoreConfig selects where reports are persisted.
type StoreConfig struct {
	Backend  string `toml:"backend"` // none, file, mongo
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures "rustprint serve".
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		VersionsFile: versions.DefaultFile,
		GitHub: GitHubConfig{
			Owner: versions.DefaultOwner,
			Repo:  versions.DefaultRepo,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     userDir("XDG_CACHE_HOME", ".cache"),
			TTL:     Duration{cache.TTLAnalysis},
		},
		Store: StoreConfig{
			Backend:  BackendFile,
			Dir:      filepath.Join(userDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "reports"),
			Database: AppName,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 256 << 20,
		},
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(userDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

// Load reads the config at path over the defaults and applies environment
// overrides. With an empty path the default location is used, and a missing
// file there is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case stderrors.Is(err, fs.ErrNotExist):
		if explicit {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("RUSTPRINT_VERSIONS_FILE"); v != "" {
		c.VersionsFile = v
	}
}

// Validate checks backend names and the settings each backend needs.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone:
	case BackendFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
		}
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case BackendNone:
	case BackendFile:
		if c.Store.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.dir is required for the file backend")
		}
	case BackendMongo:
		if c.Store.MongoURI == "" || c.Store.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri and store.database are required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store.backend %q", c.Store.Backend)
	}

	if c.VersionsFile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "versions_file cannot be empty")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	return nil
}

// userDir returns $env/rustprint, falling back to ~/<fallback>/rustprint.
func userDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, fallback, AppName)
}
