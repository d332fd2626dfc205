package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/outfit"
)

func outfitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "outfit <prompt>",
		Short: "Ask for a one-off outfit suggestion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suggestion, err := c.app.Outfits.Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printOutfit(cmd.OutOrStdout(), suggestion)
			return nil
		},
	}
}

func printOutfit(w io.Writer, s *domain.OutfitSuggestion) {
	if s == nil {
		return
	}
	for _, slot := range outfit.Slots(s) {
		fmt.Fprintf(w, "  %-10s %s (%s, %s)\n", slot.Label+":", slot.Item.Filename, slot.Item.GroupKey(), orDash(slot.Item.Color))
	}
	if s.WeatherInfo != "" {
		fmt.Fprintf(w, "  Weather:   %s\n", s.WeatherInfo)
	}
	if s.StylistNotes != "" {
		fmt.Fprintf(w, "  Notes:     %s\n", s.StylistNotes)
	}
}
