package main

import (
	"os"

	"github.com/spf13/cobra"
	"urlharvest/pkg/harvester"
	"urlharvest/pkg/logger"
	"urlharvest/pkg/rewrite"
)

var (
	rewriteMode   string
	rewriteOutput string
	rewriteRecord string
	rewriteOld    string
	rewriteNew    string
)

// rewriteCmd represents the rewrite command
var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Produce the next pass's work list from the checkpoint",
	Long: `Consume the completed checkpoint and the original work list to produce
a filtered or transformed URL list for a follow-up pass.

Modes:
  drop    emit every URL whose outcome is not 404, in original order
  relink  substitute the configured naming-convention rewrite for URLs
          whose outcome signals a dead link; keep everything else

Output order always matches input order.`,
	Example: `  # Drop not-found URLs from the next pass
  urlharvest rewrite --mode drop --output next.txt

  # Rewrite dead links (singular -> plural resource suffix) and record decisions
  urlharvest rewrite --mode relink --output next.txt \
      --old /resource --new /resources --record rewrite.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runRewrite()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringVarP(&inputList, "input", "i", "", "work list file (newline-separated URLs)")
	rewriteCmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "checkpoint file path")
	rewriteCmd.Flags().StringVarP(&rewriteMode, "mode", "m", "drop", "rewrite mode (drop, relink)")
	rewriteCmd.Flags().StringVarP(&rewriteOutput, "output", "o", "next_urls.txt", "output work list path")
	rewriteCmd.Flags().StringVar(&rewriteRecord, "record", "", "record relink decisions to this checkpoint file")
	rewriteCmd.Flags().StringVar(&rewriteOld, "old", "", "dead-link fragment to replace (relink mode)")
	rewriteCmd.Flags().StringVar(&rewriteNew, "new", "", "replacement fragment (relink mode)")
}

func runRewrite() {
	cfg := loadConfig()
	log := logger.GetLogger()

	// Flags override the configured rewrite rule.
	old, replacement := cfg.Harvest.RewriteOld, cfg.Harvest.RewriteNew
	if rewriteOld != "" {
		old, replacement = rewriteOld, rewriteNew
	}
	rule := rewrite.SubstringRule{Old: old, New: replacement}

	h, err := harvester.New(cfg)
	if err != nil {
		log.WithError(err).Error("failed to initialize harvester")
		os.Exit(1)
	}

	if err := h.RewriteQueue(rewriteMode, rewriteOutput, rewriteRecord, rule); err != nil {
		log.WithError(err).Error("rewrite failed")
		os.Exit(1)
	}
}
