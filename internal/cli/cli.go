// Package cli implements the beamsplit command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beamsplit/pkg/buildinfo"
	"github.com/matzehuels/beamsplit/pkg/cache"
	"github.com/matzehuels/beamsplit/pkg/config"
	"github.com/matzehuels/beamsplit/pkg/observability"
	"github.com/matzehuels/beamsplit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "beamsplit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdout receives command output. Tests replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and default settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// EnableDebugHooks routes pipeline, cache and server events to the logger.
func (c *CLI) EnableDebugHooks() {
	observability.NewLogHooks(c.Logger).Register()
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Beamsplit counts splits and paths of a signal through a splitter grid",
		Long:         `Beamsplit simulates a signal entering a grid at S and travelling downward, splitting left and right at every ^ it meets. It reports how many splits happen and how many distinct paths reach the bottom edge.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/beamsplit/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment and applies the log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(config.LoadOptions{Path: c.configPath})
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.LogLevel())
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if p := c.Config.Cache.Prefix; p != "" {
		keyer = cache.NewScopedKeyer(nil, p)
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts, err := c.Config.CacheOptions()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the default cache directory using the XDG standard
// (~/.cache/beamsplit/).
func cacheDir() (string, error) {
	return config.DefaultCacheDir()
}

// fileCacheDir returns the configured file cache directory.
func (c *CLI) fileCacheDir() (string, error) {
	opts, err := c.Config.CacheOptions()
	if err != nil {
		return "", err
	}
	if opts.Dir == "" {
		return cacheDir()
	}
	return opts.Dir, nil
}
