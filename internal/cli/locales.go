package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) localesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the Wikipedia languages that can be crawled",
		Long: `List the Wikipedia languages that can be crawled.

English and French are built in. More can be added with [locales.<code>]
tables in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.Config.Registry()
			if err != nil {
				return err
			}
			for _, code := range reg.Codes() {
				l, _ := reg.Lookup(code)
				printInfo("%s", StyleTitle.Render(code))
				printKeyValue("  markers", strings.Join(l.Markers, ", "))
				printKeyValue("  excluded", strings.Join(l.Excluded, ", "))
				printKeyValue("  callout", l.Callout.String())
			}
			return nil
		},
	}
}
