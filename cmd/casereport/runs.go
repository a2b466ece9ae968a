package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gyeh/casereport/internal/archive"
	"github.com/gyeh/casereport/internal/exitcode"
	"github.com/gyeh/casereport/internal/logging"
	"github.com/gyeh/casereport/internal/render"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived report runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print an archived run as a text report",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsLimit int

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	pool, err := connectArchive(ctx, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	runs, err := archive.ListRuns(ctx, pool, runsLimit)
	if err != nil {
		log.Error().Err(err).Msg("list runs failed")
		os.Exit(exitcode.ArchiveError)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Created", "Duration", "Sources"})
	for _, r := range runs {
		t.AppendRow(table.Row{r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Duration, r.Sources})
	}
	t.Render()
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	id, err := uuid.Parse(args[0])
	if err != nil {
		log.Error().Err(err).Msg("invalid run id")
		os.Exit(exitcode.UsageError)
	}

	pool, err := connectArchive(ctx, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summaries, err := archive.LoadSummaries(ctx, pool, id)
	if err != nil {
		log.Error().Err(err).Msg("load run failed")
		os.Exit(exitcode.ArchiveError)
	}
	out, err := render.Text(summaries)
	if err != nil {
		log.Error().Err(err).Msg("render failed")
		os.Exit(exitcode.RenderError)
	}
	fmt.Println(out)
	return nil
}
