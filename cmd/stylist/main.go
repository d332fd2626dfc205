// Command stylist drives the wardrobe catalog and stylist chat from a
// terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rrens/wardrobe-stylist/internal/app"
	"github.com/Rrens/wardrobe-stylist/internal/config"
	"github.com/Rrens/wardrobe-stylist/internal/logging"
)

const (
	Version = "0.1.0"
	appName = "stylist"
)

// cli carries what every command needs once the root pre-run has finished
type cli struct {
	configPath string
	logLevel   string

	out    io.Writer
	errOut io.Writer

	newApp    func(ctx context.Context, cfg *config.Config, notices io.Writer) (*app.App, error)
	app       *app.App
	logCloser io.Closer
}

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{out: os.Stdout, errOut: os.Stderr}
	err := newRootCmd(c).ExecuteContext(ctx)
	// Post-run is skipped when a command fails
	_ = c.stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultApp(ctx context.Context, cfg *config.Config, notices io.Writer) (*app.App, error) {
	return app.New(ctx, cfg, app.Options{Notices: notices})
}

func newRootCmd(c *cli) *cobra.Command {
	if c.newApp == nil {
		c.newApp = defaultApp
	}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Wardrobe catalog and stylist chat client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["standalone"] == "true" {
				return nil
			}
			return c.start(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.stop()
		},
	}
	cmd.SetOut(c.out)
	cmd.SetErr(c.errOut)

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file path (YAML), defaults to $CONFIG_PATH")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		itemsCmd(c),
		categoriesCmd(c),
		chatCmd(c),
		outfitCmd(c),
		settingsCmd(c),
		&cobra.Command{
			Use:         "version",
			Short:       "Print version information",
			Annotations: map[string]string{"standalone": "true"},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

func (c *cli) start(ctx context.Context) error {
	path := c.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}

	if c.logCloser, err = logging.Setup(cfg.Logging, cfg.IsProduction()); err != nil {
		return err
	}

	c.app, err = c.newApp(ctx, cfg, c.errOut)
	return err
}

func (c *cli) stop() error {
	var err error
	if c.app != nil {
		err = c.app.Close()
		c.app = nil
	}
	if c.logCloser != nil {
		_ = c.logCloser.Close()
		c.logCloser = nil
	}
	return err
}
