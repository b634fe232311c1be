// Package cli implements the wikimap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikimap/pkg/buildinfo"
	"github.com/matzehuels/wikimap/pkg/cache"
	"github.com/matzehuels/wikimap/pkg/config"
	"github.com/matzehuels/wikimap/pkg/integrations/wikipedia"
	"github.com/matzehuels/wikimap/pkg/pipeline"
	"github.com/matzehuels/wikimap/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

const appName = config.AppName

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

	// Config is loaded before any subcommand runs.
	Config     *config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
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

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Wikimap turns Wikipedia articles into mind maps",
		Long:         `Wikimap crawls a Wikipedia article, follows its "main article" links down to a chosen depth, and lays the section structure out as a colored mind map.`,
		Version:      buildinfo.Current().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.Config = cfg
			if cfg.Path != "" {
				c.Logger.Debug("loaded config", "path", cfg.Path)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/wikimap/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.localesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache and a
// rate-limited Wikipedia client.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	locales, err := c.Config.Registry()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("locales: %w", err)
	}

	keys := c.Config.CacheConfig().Keyer()
	fetch := wikipedia.NewClient(store, cache.TTLPage, wikipedia.Options{
		UserAgent: c.Config.Fetch.UserAgent,
		Rate:      c.Config.Fetch.Rate,
		Burst:     c.Config.Fetch.Burst,
		Keyer:     keys,
	})
	r := pipeline.NewRunner(fetch, store, keys, c.Logger)
	r.Locales = locales
	return r, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.New(c.Config.CacheConfig())
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}

// newStore opens the snapshot store: mongo when a URI is configured, the
// snapshot directory otherwise.
func (c *CLI) newStore(ctx context.Context) (snapshot.Store, error) {
	sc := c.Config.Snapshots
	if sc.MongoURI != "" {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s, err := snapshot.NewMongoStore(ctx, sc.MongoURI, sc.MongoDB)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := snapshot.NewFileStore(sc.Dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}
