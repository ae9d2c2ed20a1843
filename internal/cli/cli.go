// Package cli implements the postcard command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/postcard/pkg/buildinfo"
	"github.com/matzehuels/postcard/pkg/cache"
	"github.com/matzehuels/postcard/pkg/config"
	"github.com/matzehuels/postcard/pkg/fonts"
	"github.com/matzehuels/postcard/pkg/pipeline"
	"github.com/matzehuels/postcard/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "postcard"

	// defaultUser owns cards rendered from the command line.
	defaultUser = "local"
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
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Postcard renders greeting cards",
		Long:         `Postcard overlays a title and a message on background images and saves one PNG card per colour style.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: $"+config.EnvConfig+" or ./"+config.DefaultPath+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.occasionsCommand())
	root.AddCommand(c.backgroundsCommand())
	root.AddCommand(c.cardsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "output", cfg.OutputDir, "backgrounds", cfg.BackgroundsDir, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from cfg.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := storage.NewStore(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	fontSet, err := fonts.LoadSet(cfg.Fonts.Title, cfg.Fonts.Body)
	if err != nil {
		return nil, err
	}
	table, err := cfg.StyleTable()
	if err != nil {
		return nil, err
	}
	ca, err := openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	r := pipeline.NewRunner(store, ca, c.Logger)
	r.Fonts = fontSet
	r.Styles = table
	if cfg.Cache.Namespace != "" {
		r.Keyer = cache.NewScopedKeyer(nil, cfg.Cache.Namespace)
	}
	r.Concurrency = cfg.Render.Concurrency
	r.BestEffort = cfg.Render.BestEffort
	r.Timeout = cfg.Render.Timeout.Duration
	r.CacheTTL = cfg.Cache.TTL.Duration
	r.MinTitleSize = cfg.Render.MinTitleSize
	return r, nil
}

// openCache opens the configured artifact cache. A file cache without an
// explicit directory lives under the user cache directory.
func openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := cache.Options{
		Backend:   cfg.Cache.Backend,
		Dir:       cfg.Cache.Dir,
		RedisAddr: cfg.Cache.RedisAddr,
	}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/postcard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
