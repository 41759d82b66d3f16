package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kartlap/internal/app"
	"kartlap/internal/exporter"
	"kartlap/internal/files"
	"kartlap/internal/scraper"
	"kartlap/internal/services"
	"kartlap/internal/validation"
	"kartlap/pkg/contracts/domain"
)

func newScrapeCommand(c *cli) *cobra.Command {
	var (
		flags    heatFlags
		out      string
		format   string
		workbook string
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch a heat page, store the heat and print its results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			track, id, err := flags.ref()
			if err != nil {
				return err
			}
			if workbook != "" {
				c.opts = append(c.opts, app.WithFetcher(scraper.NewWorkbookFetcher(workbook, "", c.logger)))
			}
			return c.withContainer(cmd.Context(), func(container *app.Container) error {
				svc := container.HeatService(nil)
				heat, err := svc.Import(cmd.Context(), track, id)
				if err != nil {
					return err
				}
				if err := exporter.NewConsoleWriter(cmd.OutOrStdout()).PrintHeat(heat); err != nil {
					return err
				}
				if out == "" {
					return nil
				}
				return exportTo(cmd, c, svc, track, id, format, out)
			})
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVarP(&out, "out", "o", "", "also export the heat into this directory")
	cmd.Flags().StringVarP(&format, "format", "f", string(exporter.FormatXLSX), "export format with --out (csv, xlsx)")
	cmd.Flags().StringVar(&workbook, "from-xlsx", "", "read the page rows from a saved workbook instead of the timing site")
	return cmd
}

func newShowCommand(c *cli) *cobra.Command {
	var (
		flags heatFlags
		file  string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a stored heat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd.Context(), func(container *app.Container) error {
				var (
					heat *domain.Heat
					err  error
				)
				if file != "" {
					var path string
					if path, err = filepath.Abs(file); err != nil {
						return err
					}
					if err = validation.NewFileValidator(c.logger).ValidateHeatFile(path); err != nil {
						return err
					}
					heat, err = files.NewHeatStore(container.Paths, c.logger).LoadFile(path)
				} else {
					var (
						track domain.Track
						id    string
					)
					if track, id, err = flags.ref(); err != nil {
						return err
					}
					heat, err = container.HeatService(nil).Get(cmd.Context(), track, id)
				}
				if err != nil {
					return err
				}

				w := exporter.NewConsoleWriter(cmd.OutOrStdout())
				if err := w.PrintHeat(heat); err != nil {
					return err
				}
				for _, rows := range [][][]string{heat.SideInfo(), heat.StintInfo()} {
					if len(rows) == 0 {
						continue
					}
					printf(cmd.OutOrStdout(), "\n")
					if err := w.Print(rows, false); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&file, "file", "", "read the heat from this JSON file instead of storage")
	cmd.MarkFlagsMutuallyExclusive("file", "session")
	cmd.MarkFlagsOneRequired("file", "session")
	return cmd
}

func newExportCommand(c *cli) *cobra.Command {
	var (
		flags  heatFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored heat as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			track, id, err := flags.ref()
			if err != nil {
				return err
			}
			return c.withContainer(cmd.Context(), func(container *app.Container) error {
				dir := out
				if dir == "" {
					dir = container.Paths.ExportsDir
				}
				return exportTo(cmd, c, container.HeatService(nil), track, id, format, dir)
			})
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVarP(&format, "format", "f", string(exporter.FormatXLSX), "export format (csv, xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: paths.exports_dir)")
	return cmd
}

func exportTo(cmd *cobra.Command, c *cli, svc *services.HeatService, track domain.Track, id, format, dir string) error {
	f, err := exporter.ParseFormat(format)
	if err != nil {
		return err
	}
	res, err := svc.Export(cmd.Context(), track, id, f)
	if err != nil {
		return err
	}
	if err := validation.NewFileValidator(c.logger).ValidateOutputDirectory(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, res.Filename)
	if err := os.WriteFile(path, res.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	printf(cmd.OutOrStdout(), "Exported %s\n", path)
	return nil
}

func newBatchCommand(c *cli) *cobra.Command {
	var (
		track    string
		sessions []string
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Import several heats of one track concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseTrack(track)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(sessions))
			for _, s := range sessions {
				if s = strings.TrimSpace(s); s != "" {
					ids = append(ids, s)
				}
			}

			return c.withContainer(cmd.Context(), func(container *app.Container) error {
				results, err := container.HeatService(nil).ImportBatch(cmd.Context(), t, ids, workers)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, r := range results {
					if r.Err != nil {
						printf(w, "%-12s failed  %v\n", r.SessionID, r.Err)
						continue
					}
					printf(w, "%-12s ok      %d drivers, %d laps\n", r.SessionID, r.Heat.DriverCount(), r.Heat.LapCount())
				}
				if failed := services.Failed(results); len(failed) > 0 {
					return fmt.Errorf("%d of %d sessions failed", len(failed), len(results))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&track, "track", "t", string(domain.DefaultTrack), "track name")
	cmd.Flags().StringSliceVar(&sessions, "sessions", nil, "comma separated session ids")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent imports (default: scraper.batch_workers)")
	_ = cmd.MarkFlagRequired("sessions")
	return cmd
}
