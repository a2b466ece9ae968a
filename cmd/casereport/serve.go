package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gyeh/casereport/internal/exitcode"
	"github.com/gyeh/casereport/internal/logging"
	"github.com/gyeh/casereport/internal/metrics"
	"github.com/gyeh/casereport/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload form, report downloads and the JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, log, metrics.New())
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(exitcode.ServerError)
	}
	return nil
}
