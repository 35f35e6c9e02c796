package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"urlharvest/pkg/harvester"
	"urlharvest/pkg/logger"
	"urlharvest/pkg/models"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show checkpoint outcome counts without running a pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		runStatus()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "checkpoint file path")
}

func runStatus() {
	cfg := loadConfig()
	log := logger.GetLogger()

	h, err := harvester.New(cfg)
	if err != nil {
		log.WithError(err).Error("failed to initialize harvester")
		os.Exit(1)
	}

	counts, total, err := h.Status()
	if err != nil {
		log.WithError(err).Error("failed to read checkpoint")
		os.Exit(1)
	}

	fmt.Printf("checkpoint: %s\n", cfg.Harvest.CheckpointFile)
	fmt.Printf("  total:     %d\n", total)
	fmt.Printf("  saved:     %d\n", counts[models.KindSaved])
	fmt.Printf("  failed:    %d\n", counts[models.KindFailed])
	fmt.Printf("  not found: %d\n", counts[models.KindNotFound])
	if n := counts[models.KindUnchanged] + counts[models.KindRewritten]; n > 0 {
		fmt.Printf("  unchanged: %d\n", counts[models.KindUnchanged])
		fmt.Printf("  rewritten: %d\n", counts[models.KindRewritten])
	}
}
