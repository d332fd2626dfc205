package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

func itemsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and manage clothing items",
	}
	cmd.AddCommand(itemsListCmd(c), itemsAddCmd(c), itemsEditCmd(c), itemsRmCmd(c))
	return cmd
}

func itemsListCmd(c *cli) *cobra.Command {
	var withURLs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every item in server order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Catalog.Load(cmd.Context()); err != nil {
				return err
			}
			return c.printItems(cmd, c.app.Catalog.Items(), withURLs)
		},
	}
	cmd.Flags().BoolVar(&withURLs, "urls", false, "Include image URLs")
	return cmd
}

func itemsAddCmd(c *cli) *cobra.Command {
	var category, color string

	cmd := &cobra.Command{
		Use:   "add <image>",
		Short: "Upload an image as a new item",
		Long: `Upload an image (png, jpg or jpeg) as a new item. Category and color are
inferred by the service when omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer f.Close()

			item, err := c.app.Catalog.Create(cmd.Context(), domain.NewItem{
				File:     &domain.Upload{Name: filepath.Base(args[0]), Content: f},
				Category: category,
				Color:    color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %s (%s, %s)\n", item.ID, item.GroupKey(), item.Color)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Item category")
	cmd.Flags().StringVar(&color, "color", "", "Item color")
	return cmd
}

func itemsEditCmd(c *cli) *cobra.Command {
	var category, color string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an item's category or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ItemPatch
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change: pass --category and/or --color")
			}

			item, err := c.app.Catalog.Update(cmd.Context(), domain.ID(args[0]), patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s (%s, %s)\n", item.ID, item.GroupKey(), item.Color)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	return cmd
}

func itemsRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Catalog.Delete(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) printItems(cmd *cobra.Command, items []domain.ClothingItem, withURLs bool) error {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No items yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	header := "ID\tCATEGORY\tCOLOR\tFILE"
	if withURLs {
		header += "\tURL"
	}
	fmt.Fprintln(tw, header)

	for _, item := range items {
		line := fmt.Sprintf("%s\t%s\t%s\t%s", item.ID, item.GroupKey(), orDash(item.Color), item.Filename)
		if withURLs {
			u, err := c.app.Assets.URL(cmd.Context(), item.Filename)
			if err != nil {
				return err
			}
			line += "\t" + u
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
