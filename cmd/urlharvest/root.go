package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "urlharvest",
	Short: "A checkpointed, concurrency-bounded URL harvesting pipeline",
	Long: `urlharvest fetches a list of URLs, classifies each response, extracts the
embedded payload, and persists it — with an append-only checkpoint so an
interrupted pass resumes exactly where it left off.

A pass is idempotent: re-running over the same work list and checkpoint
processes zero additional URLs. After a pass, the rewrite command produces
the next work list from the recorded outcomes.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .urlharvest.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
