package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kherrera/gitattrib/core"
	"github.com/kherrera/gitattrib/internal/contract"
)

// timelineCmd buckets repository activity by calendar period.
var timelineCmd = &cobra.Command{
	Use:   "timeline [repo-path]",
	Short: "Bucket repository activity by calendar period.",
	Long: `Roll daily activity up into week, month, quarter, or year buckets
and show the top contributor of each bucket.

Weeks are Monday-anchored. By default only periods with activity are
shown; --fill-gaps inserts zero buckets so charts have no holes.

Examples:
  # Weekly activity buckets
  gitattrib timeline

  # Monthly buckets with gaps filled
  gitattrib timeline --period month --fill-gaps

  # Export the daily activity matrix to Parquet
  gitattrib timeline --output parquet --output-file daily.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTimeline(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run timeline analysis", err)
		}
	},
}
