package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func categoriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories [name]",
		Short: "Show category cards, or the items of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Catalog.Load(cmd.Context()); err != nil {
				return err
			}

			if len(args) == 1 {
				if err := c.app.View.Select(args[0]); err != nil {
					return err
				}
				return c.printItems(cmd, c.app.View.Items(), false)
			}

			cards := c.app.View.Categories()
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items yet.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tITEMS\tCOVER")
			for _, card := range cards {
				cover, err := c.app.Assets.URL(cmd.Context(), card.Cover)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", card.Category, card.Count, cover)
			}
			return tw.Flush()
		},
	}
}
