package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/casereport/internal/archive"
	"github.com/gyeh/casereport/internal/exitcode"
	"github.com/gyeh/casereport/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the report archive schema migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.RequireDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := archive.NewPool(ctx, cfg.DSN, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	applied, err := archive.ApplyMigrations(ctx, pool, log)
	if err != nil {
		log.Error().Err(err).Int("applied", applied).Msg("archive migration failed")
		os.Exit(exitcode.ArchiveError)
	}

	fmt.Printf("Archive schema ready: %d migration(s) applied\n", applied)
	return nil
}
