package main

import (
	"github.com/spf13/cobra"

	"kartlap/internal/app"
	"kartlap/internal/infrastructure"
	"kartlap/pkg/contracts/domain"
)

func newServeCommand(c *cli) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket events and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}
			a, err := app.NewApplication(cmd.Context(), c.cfg, c.opts...)
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default: server.port)")
	return cmd
}

func newTracksCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List supported tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range domain.Tracks() {
				mark := ""
				if t == domain.DefaultTrack {
					mark = " (default)"
				}
				printf(cmd.OutOrStdout(), "%s%s\n", t, mark)
			}
			return nil
		},
	}
}
