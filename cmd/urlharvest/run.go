package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"urlharvest/pkg/config"
	"urlharvest/pkg/harvester"
	"urlharvest/pkg/logger"
)

var (
	inputList      string
	checkpointFile string
	artifactDir    string
	concurrent     int
	notFoundMarker string
	fetchTimeout   time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full pass over the work list",
	Long: `Execute one full pass: every URL in the input list that has no
checkpoint record yet is fetched, classified, and — when it carries a
payload — extracted and saved as an artifact. Exactly one outcome per URL
is appended to the checkpoint.

Individual URL failures never abort the pass; only a checkpoint write
failure does. Re-invoking the command after a crash resumes from the
checkpoint automatically.`,
	Example: `  # Run a pass with defaults (urls.txt, checkpoint.txt, ./artifacts)
  urlharvest run

  # Custom paths and a wider worker budget
  urlharvest run --input queue.txt --artifacts ./out --concurrent 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runPass()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&inputList, "input", "i", "", "work list file (newline-separated URLs)")
	runCmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "checkpoint file path")
	runCmd.Flags().StringVarP(&artifactDir, "artifacts", "a", "", "artifact output directory")
	runCmd.Flags().IntVar(&concurrent, "concurrent", 10, "concurrency budget (max in-flight fetches)")
	runCmd.Flags().StringVar(&notFoundMarker, "not-found-marker", "", "not-found marker text")
	runCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0, "per-request fetch timeout")
}

func loadConfig() *config.Config {
	flags := make(map[string]interface{})
	if inputList != "" {
		flags["input"] = inputList
	}
	if checkpointFile != "" {
		flags["checkpoint"] = checkpointFile
	}
	if artifactDir != "" {
		flags["artifacts"] = artifactDir
	}
	if concurrent != 10 {
		flags["concurrent"] = concurrent
	}
	if notFoundMarker != "" {
		flags["not-found-marker"] = notFoundMarker
	}
	if fetchTimeout > 0 {
		flags["timeout"] = fetchTimeout
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if logFile != "" {
		flags["log-file"] = logFile
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		logger.GetLogger().WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		logger.GetLogger().WithError(err).Error("failed to initialize logger")
		os.Exit(1)
	}

	return cfg
}

func runPass() {
	cfg := loadConfig()
	log := logger.GetLogger()
	log.WithField("version", version).Info("urlharvest starting")

	h, err := harvester.New(cfg)
	if err != nil {
		log.WithError(err).Error("failed to initialize harvester")
		os.Exit(1)
	}

	if _, err := h.Run(context.Background()); err != nil {
		log.WithError(err).Error("pass aborted")
		os.Exit(1)
	}
}
