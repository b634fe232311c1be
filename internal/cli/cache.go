package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikimap/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page and map cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached pages and maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.CacheConfig()
			switch cc.Backend {
			case "", cache.BackendFile:
			case cache.BackendMemory, cache.BackendNone:
				printInfo("The %s cache is not persisted, nothing to clear", cc.Backend)
				return nil
			default:
				return fmt.Errorf("cache clear is not supported for the %s backend", cc.Backend)
			}

			fc, err := cache.NewFileCache(cc.Dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cache cleared")
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, c.Config.Cache.Dir)
		},
	}
}
