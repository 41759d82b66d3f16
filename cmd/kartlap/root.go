package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"kartlap/internal/app"
	"kartlap/internal/config"
	"kartlap/internal/infrastructure"
	"kartlap/pkg/contracts"
	"kartlap/pkg/contracts/domain"
)

// cli carries state shared by the subcommands.
type cli struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger

	// opts are passed to every container; tests inject fetchers here.
	opts []app.Option
}

func newCLI() *cli {
	return &cli{}
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "kartlap",
		Short:         "Kart heat timing extraction and lap reconciliation",
		Version:       contracts.GetVersionInfo().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: config.yaml or $KARTLAP_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newScrapeCommand(c),
		newShowCommand(c),
		newExportCommand(c),
		newBatchCommand(c),
		newServeCommand(c),
		newTracksCommand(c),
	)
	return root
}

// load reads configuration. CLI logs go to stderr so stdout stays clean
// for tables.
func (c *cli) load(stderr io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if c.configFile != "" {
		cfg, err = config.LoadFrom(c.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	c.cfg = cfg
	c.logger = infrastructure.NewLogger(stderr, cfg.Logging.Level)
	return nil
}

func (c *cli) container(ctx context.Context) (*app.Container, error) {
	return app.NewContainer(ctx, c.cfg, c.logger, c.opts...)
}

// withContainer runs fn with a container that is closed afterwards.
func (c *cli) withContainer(ctx context.Context, fn func(*app.Container) error) error {
	container, err := c.container(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := container.Close(context.WithoutCancel(ctx)); cerr != nil {
			c.logger.Warn("Failed to close container", slog.String("error", cerr.Error()))
		}
	}()
	return fn(container)
}

// heatFlags are the --track/--session pair shared by several commands.
type heatFlags struct {
	track   string
	session string
}

func (f *heatFlags) register(cmd *cobra.Command, sessionRequired bool) {
	cmd.Flags().StringVarP(&f.track, "track", "t", string(domain.DefaultTrack), "track name")
	cmd.Flags().StringVarP(&f.session, "session", "s", "", "heat session id")
	if sessionRequired {
		_ = cmd.MarkFlagRequired("session")
	}
}

func (f *heatFlags) ref() (domain.Track, string, error) {
	track, err := domain.ParseTrack(f.track)
	if err != nil {
		return "", "", err
	}
	if err := domain.ValidateSessionID(f.session); err != nil {
		return "", "", err
	}
	return track, f.session, nil
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
