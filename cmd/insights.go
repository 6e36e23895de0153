package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kherrera/gitattrib/core"
	"github.com/kherrera/gitattrib/internal/contract"
)

// insightsCmd derives secondary activity signals.
var insightsCmd = &cobra.Command{
	Use:   "insights [repo-path]",
	Short: "Derive working-pattern signals from the history.",
	Long: `Extract secondary signals from the commit history:
- Busiest weekday and busiest hour of the day
- Weekday versus weekend commit split
- Files only ever touched by a single contributor

Examples:
  # Working-pattern summary
  gitattrib insights

  # Same signals as JSON for dashboards
  gitattrib insights --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInsights(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run insights analysis", err)
		}
	},
}
