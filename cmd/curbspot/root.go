package main

import (
	"fmt"
	"log/slog"

	"github.com/curbspot/curbspot/pkg/observability"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "curbspot",
	Short: "Curbspot availability engine",
	Long: `Curbspot checks whether parking spaces are bookable for a requested
time window: recurring open hours, existing reservations, and batched
concurrent checks across many spaces.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := observability.DefaultLogConfig()
		if verbose {
			cfg.Level = observability.LogLevelDebug
		}
		logger = observability.NewLogger(cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "curbspot %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
}
