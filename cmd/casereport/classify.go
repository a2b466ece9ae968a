package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gyeh/casereport/internal/classify"
	"github.com/gyeh/casereport/internal/exitcode"
	"github.com/gyeh/casereport/internal/logging"
	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/normalize"
	"github.com/gyeh/casereport/internal/tableread"
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE...",
	Short: "Dry-run: show each file's role and validate its columns (no output written)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Role", "Rows", "Columns", "Size", "SHA-256", "Columns check"})

	var tables []*tableread.Table
	failed := false
	for _, path := range args {
		sha, err := normalize.FileHash(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to hash file")
			os.Exit(exitcode.ValidationError)
		}
		stat, err := os.Stat(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to stat file")
			os.Exit(exitcode.ValidationError)
		}
		tbl, err := tableread.Open(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to read table")
			os.Exit(exitcode.ValidationError)
		}
		tables = append(tables, tbl)

		check := "OK"
		role, err := classify.Classify(tbl)
		if err == nil {
			err = tableread.RequireColumns(tbl, model.RequiredColumns(role))
		}
		if err != nil {
			failed = true
			check = columnProblem(err)
			log.Debug().Err(err).Str("file", path).Msg("column check failed")
		}
		t.AppendRow(table.Row{path, role, tbl.NumRows(), len(tbl.Columns), stat.Size(), sha[:12], check})
	}
	t.Render()
	fmt.Println()

	if _, err := classify.Assign(tables...); err != nil {
		fmt.Printf("Role assignment: %v\n", err)
		os.Exit(exitcode.ValidationError)
	}
	if failed {
		os.Exit(exitcode.ValidationError)
	}
	fmt.Println("Role assignment: OK")
	return nil
}

func columnProblem(err error) string {
	switch {
	case errors.Is(err, classify.ErrUnrecognizedStructure):
		return "no signature column"
	case errors.Is(err, tableread.ErrMissingColumn):
		return "missing columns"
	}
	return "error"
}
