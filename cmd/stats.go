package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kherrera/gitattrib/core"
	"github.com/kherrera/gitattrib/internal/contract"
)

// statsCmd aggregates per-author commit statistics.
var statsCmd = &cobra.Command{
	Use:   "stats [repo-path]",
	Short: "Aggregate commit counts and line churn per author.",
	Long: `Walk the commit history and aggregate commits, additions, and
deletions per author, plus a per-day activity timeline.

Merge commits are excluded by default since their line counts double up
the work of the merged branches. Use --include-merges to keep them.

Examples:
  # Commit stats for the whole history
  gitattrib stats

  # Stats for the last quarter only
  gitattrib stats --since "3 months ago"

  # Include merge commits
  gitattrib stats --include-merges`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCommitStats(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run stats analysis", err)
		}
	},
}
