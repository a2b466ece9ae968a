package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/casereport/internal/archive"
	"github.com/gyeh/casereport/internal/exitcode"
	"github.com/gyeh/casereport/internal/logging"
	"github.com/gyeh/casereport/internal/render"
	"github.com/gyeh/casereport/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report FILE...",
	Short: "Aggregate the three source tables and render the report",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.String("format", "xlsx", "Output format: xlsx, html, text, parquet or json")
	f.StringP("out", "o", "", `Output path ("-" for stdout; default processed_file.<ext>)`)
	f.Bool("archive", false, "Also store the run in Postgres (requires --dsn)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		log.Error().Err(err).Msg("invalid format")
		os.Exit(exitcode.UsageError)
	}
	if cfg.Archive {
		if err := cfg.RequireDSN(); err != nil {
			log.Error().Err(err).Msg("config validation failed")
			os.Exit(exitcode.UsageError)
		}
	}

	tables, err := report.OpenFiles(args)
	if err != nil {
		log.Error().Err(err).Msg("read failed")
		os.Exit(exitCodeFor(err))
	}

	res, err := report.Run(log, tables)
	if err != nil {
		if pe, ok := err.(*report.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("report failed")
		} else {
			log.Error().Err(err).Msg("report failed")
		}
		os.Exit(exitCodeFor(err))
	}

	out := cfg.Out
	if out == "" {
		out = format.Filename()
	}
	if err := writeReport(out, format, res); err != nil {
		log.Error().Err(err).Str("out", out).Msg("render failed")
		os.Exit(exitCodeFor(err))
	}

	if cfg.Archive {
		if err := archiveRun(log, res, args); err != nil {
			log.Error().Err(err).Msg("archive failed")
			os.Exit(exitcode.ArchiveError)
		}
	}

	if out != "-" {
		fmt.Printf("Report complete: %s (%s, run %s, %.2fs)\n",
			out, format, res.RunID, res.Duration.Seconds())
	}
	return nil
}

// writeReport renders the whole report in memory and only then writes it,
// so a render failure never leaves a partial file behind. Files are written
// to a temporary sibling and renamed into place.
func writeReport(out string, format render.Format, res *report.Result) error {
	var buf bytes.Buffer
	if err := report.Render(&buf, format, res); err != nil {
		return err
	}
	if out == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod output: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}

func archiveRun(log zerolog.Logger, res *report.Result, paths []string) error {
	ctx := context.Background()

	hashes, err := archive.HashFiles(paths)
	if err != nil {
		return err
	}

	pool, err := connectArchive(ctx, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	return archive.Save(ctx, pool, log, res, archive.Sources(res, hashes))
}
