package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikimap/pkg/pipeline"
	"github.com/matzehuels/wikimap/pkg/snapshot"
)

// errNoSelection is returned when the picker is closed without a choice.
var errNoSelection = errors.New("no snapshot selected")

func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Manage saved mind maps",
	}

	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

// withStore opens the snapshot store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(snapshot.Store) error) error {
	store, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open snapshots: %w", err)
	}
	defer store.Close(ctx)
	return fn(store)
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved mind maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store snapshot.Store) error {
				names, err := store.List(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					printInfo("No snapshots saved")
					return nil
				}
				for _, n := range names {
					fmt.Fprintln(stdout, n)
				}
				return nil
			})
		},
	}
}

func (c *CLI) snapshotShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a saved mind map (pick one interactively without a name)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			if isBinaryFormat(format) {
				return fmt.Errorf("%s output is not printable, use render -o", format)
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(store snapshot.Store) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				} else {
					var err error
					if name, err = pickSnapshot(ctx, store); err != nil {
						return err
					}
				}
				return showSnapshot(ctx, store, name, format)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json, yaml, dot, svg")
	return cmd
}

func showSnapshot(ctx context.Context, store snapshot.Store, name, format string) error {
	data, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	if format != pipeline.FormatJSON {
		g, err := readGraph(data)
		if err != nil {
			return err
		}
		if data, err = pipeline.Render(ctx, g, format, pipeline.RenderOptions{}); err != nil {
			return err
		}
	}
	_, err = stdout.Write(data)
	return err
}

// pickSnapshot lets the user choose a snapshot with the arrow keys.
func pickSnapshot(ctx context.Context, store snapshot.Store) (string, error) {
	if !stderrIsTerminal() {
		return "", errors.New("snapshot name required when not running in a terminal")
	}
	names, err := store.List(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", errors.New("no snapshots saved")
	}

	final, err := tea.NewProgram(NewSnapshotListModel(names), tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(SnapshotListModel)
	if !ok || m.Selected == "" {
		return "", errNoSelection
	}
	return m.Selected, nil
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved mind map",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store snapshot.Store) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}
