package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/service"
)

func chatCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the stylist and manage chat sessions",
	}
	cmd.AddCommand(
		chatNewCmd(c),
		chatListCmd(c),
		chatUseCmd(c),
		chatRenameCmd(c),
		chatRmCmd(c),
		chatHistoryCmd(c),
		chatSendCmd(c),
	)
	return cmd
}

// selectRemembered lists sessions and re-selects the remembered one when it
// still exists. Unlike RestoreSession it never creates a session.
func (c *cli) selectRemembered(ctx context.Context) error {
	if _, err := c.app.Sessions.ListSessions(ctx); err != nil {
		return err
	}
	if last := c.app.Settings.Current().LastSession; !last.IsZero() {
		_ = c.app.Sessions.Select(last)
	}
	return nil
}

func chatNewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new chat and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := c.app.Sessions.CreateSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started chat %s (%s)\n", created.ID, created.Title)
			return nil
		},
	}
}

func chatListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List chat sessions in server order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.selectRemembered(cmd.Context()); err != nil {
				return err
			}

			sessions := c.app.Sessions.Sessions()
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chats yet. Start one with 'stylist chat new'.")
				return nil
			}

			active, _ := c.app.Sessions.Active()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tTITLE\tCREATED")
			for _, s := range sessions {
				marker := ""
				if s.ID == active {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, s.ID, s.Title, created(s.CreatedAt))
			}
			return tw.Flush()
		},
	}
}

func created(ts domain.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.Time(ts.Time)
}

func chatUseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a chat the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.Sessions.ListSessions(cmd.Context()); err != nil {
				return err
			}
			if err := c.app.Sessions.Select(domain.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Now chatting in %s\n", args[0])
			return nil
		},
	}
}

func chatRenameCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a chat",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.selectRemembered(cmd.Context()); err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			if err := c.app.Sessions.RenameSession(cmd.Context(), domain.ID(args[0]), title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed chat %s\n", args[0])
			return nil
		},
	}
}

func chatRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a chat",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.selectRemembered(cmd.Context()); err != nil {
				return err
			}
			if err := c.app.Sessions.DeleteSession(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted chat %s\n", args[0])
			if active, ok := c.app.Sessions.Active(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Now chatting in %s\n", active)
			}
			return nil
		},
	}
}

func chatHistoryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the messages of the active chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.RestoreSession(cmd.Context()); err != nil {
				return err
			}
			msgs := c.app.Messages.Messages()
			if len(msgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No messages yet.")
				return nil
			}
			for _, m := range msgs {
				printMessage(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func chatSendCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message to the stylist in the active chat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.app.RestoreSession(cmd.Context())
			if err != nil {
				return err
			}

			res := c.app.Messages.SendMessage(cmd.Context(), id, strings.Join(args, " "))
			switch res.Status {
			case service.SendAppended:
				printMessage(cmd.OutOrStdout(), *res.Reply)
				return nil
			case service.SendFailed:
				printMessage(cmd.OutOrStdout(), domain.NewApologyMessage())
				return res.Err
			case service.SendRejected:
				return fmt.Errorf("message not sent: empty message or no active chat")
			default:
				return res.Err
			}
		},
	}
}

func printMessage(w io.Writer, m domain.Message) {
	who := "you"
	if m.Role == domain.RoleAssistant {
		who = "stylist"
	}
	fmt.Fprintf(w, "%s: %s\n", who, m.Content)
	printOutfit(w, m.Outfit)
}
