package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func settingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change local preferences",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s := c.app.Settings.Current()
				fmt.Fprintf(cmd.OutOrStdout(), "dark mode:    %s\n", onOff(s.DarkMode))
				fmt.Fprintf(cmd.OutOrStdout(), "sidebar:      %s\n", onOff(s.SidebarVisible))
				fmt.Fprintf(cmd.OutOrStdout(), "last session: %s\n", orDash(s.LastSession.String()))
				return nil
			},
		},
		toggleCmd("dark-mode", "Set or toggle dark mode",
			c.setDarkMode, func(cmd *cobra.Command) (bool, error) {
				return c.app.Settings.ToggleDarkMode(cmd.Context())
			}),
		toggleCmd("sidebar", "Show, hide or toggle the session sidebar",
			c.setSidebar, func(cmd *cobra.Command) (bool, error) {
				return c.app.Settings.ToggleSidebar(cmd.Context())
			}),
	)
	return cmd
}

func (c *cli) setDarkMode(cmd *cobra.Command, on bool) error {
	return c.app.Settings.SetDarkMode(cmd.Context(), on)
}

func (c *cli) setSidebar(cmd *cobra.Command, on bool) error {
	return c.app.Settings.SetSidebarVisible(cmd.Context(), on)
}

// toggleCmd builds "<name> [on|off|toggle]"; no argument toggles
func toggleCmd(name, short string, set func(*cobra.Command, bool) error, toggle func(*cobra.Command) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:       name + " [on|off|toggle]",
		Short:     short,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				value bool
				err   error
			)
			if len(args) == 0 || args[0] == "toggle" {
				value, err = toggle(cmd)
			} else {
				value, err = parseOnOff(args[0])
				if err == nil {
					err = set(cmd, value)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, onOff(value))
			return nil
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on, off or toggle, got %q", s)
	}
	return b, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
