package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/casereport/internal/config"
	"github.com/gyeh/casereport/internal/exitcode"
	"github.com/gyeh/casereport/internal/report"
)

var (
	cfg     config.Config
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "casereport",
	Short: "Surveillance case tables → aggregated report",
	Long: "Classifies the outcome, comorbidity and demographic tables of a surveillance export, " +
		"sums them per case category and renders the merged-header report as a spreadsheet, HTML, text, Parquet or JSON.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file, ignored if missing")
	pf.String("dsn", "", "Postgres connection string (or set CASEREPORT_DSN)")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("log-level", "info", "Log level: trace, debug, info, warn or error")
}

// loadConfig resolves cfg from defaults, dotenv, environment, the config
// file and finally the flags set on the command line.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(envFile, cfgFile)
	if err != nil {
		return err
	}
	if err := loaded.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = *loaded
	return nil
}

// exitCodeFor maps a pipeline failure to the process exit code.
func exitCodeFor(err error) int {
	var pe *report.PipelineError
	if !errors.As(err, &pe) {
		return exitcode.ValidationError
	}
	switch pe.Phase {
	case report.PhaseRead, report.PhaseClassify:
		return exitcode.ValidationError
	case report.PhaseAggregate:
		return exitcode.AggregateError
	default:
		return exitcode.RenderError
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(exitcode.UsageError)
	}
}
