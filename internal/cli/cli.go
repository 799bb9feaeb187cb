package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rustprint/internal/config"
	"github.com/matzehuels/rustprint/pkg/buildinfo"
	"github.com/matzehuels/rustprint/pkg/cache"
	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/pipeline"
	"github.com/matzehuels/rustprint/pkg/store"
	"github.com/matzehuels/rustprint/pkg/versions"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = config.AppName

	// redisPrefix namespaces every rustprint key in a shared Redis database.
	redisPrefix = "rustprint:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// Invoked with a single file argument it analyzes that file and prints the
// result as JSON. With --update-versions it rebuilds the version table.
func (c *CLI) RootCommand() *cobra.Command {
	var updateVersions bool

	root := &cobra.Command{
		Use:   "rustprint [file]",
		Short: "rustprint identifies the Rust toolchain and crates inside a binary",
		Long: `rustprint scans a compiled binary for embedded Rust provenance: statically
linked crates, the rustc build that produced it, and which embedded source
paths belong to the toolchain or registry versus the author's own project.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case updateVersions && len(args) > 0:
				return errors.New(errors.ErrCodeInvalidInput, "--update-versions cannot be combined with a file argument")
			case updateVersions:
				_, err := c.updateVersions(cmd.Context(), "", true)
				return err
			case len(args) == 1:
				return c.runDefault(cmd, args[0])
			default:
				return cmd.Help()
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.Flags().BoolVar(&updateVersions, "update-versions", false, "rebuild the rustc version table from GitHub tags")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.clusterCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// runDefault analyzes one file and prints the bare result as indented JSON.
func (c *CLI) runDefault(cmd *cobra.Command, path string) error {
	runner, err := c.newRunner(cmd.Context(), false, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	report, err := runner.AnalyzeFile(cmd.Context(), path, pipeline.Options{})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report.Result)
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = &cfg
	return c.cfg, nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use. With withStore the
// configured report store is attached; callers must Close the runner's
// store through closeRunner.
func (c *CLI) newRunner(ctx context.Context, noCache, withStore bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	table := versions.LoadOrWarn(cfg.VersionsFile, c.Logger)
	runner := pipeline.NewRunner(backend, c.newKeyer(), table, c.Logger)
	if cfg.Cache.TTL.Duration > 0 {
		runner.TTL = cfg.Cache.TTL.Duration
	}

	if withStore {
		st, err := c.newStore(ctx)
		if err != nil {
			backend.Close()
			return nil, err
		}
		if st != nil {
			runner.Store = st
		}
	}
	return runner, nil
}

func (c *CLI) newKeyer() cache.Keyer {
	if c.cfg != nil && c.cfg.Cache.Namespace != "" {
		return cache.NewScopedKeyer(nil, c.cfg.Cache.Namespace)
	}
	return cache.NewDefaultKeyer()
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendFile:
		return cache.NewFileCache(cfg.Cache.Dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL, redisPrefix)
	default:
		return cache.NewNullCache(), nil
	}
}

// newStore opens the configured report store. It returns nil when the
// store backend is "none".
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case config.BackendFile:
		return store.NewFileStore(cfg.Store.Dir)
	case config.BackendMongo:
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database)
	default:
		return nil, nil
	}
}

// requireStore is newStore for commands that cannot work without one.
func (c *CLI) requireStore(ctx context.Context) (store.Store, error) {
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no report store configured (set [store] backend)")
	}
	return st, nil
}

// closeRunner closes the runner's cache and store.
func closeRunner(r *pipeline.Runner) {
	if s, ok := r.Store.(store.Store); ok {
		_ = s.Close()
	}
	_ = r.Close()
}

// =============================================================================
// Output
// =============================================================================

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
