package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kherrera/gitattrib/core"
	"github.com/kherrera/gitattrib/internal/contract"
)

// contributorsCmd resolves commit authors into canonical contributors.
var contributorsCmd = &cobra.Command{
	Use:   "contributors [repo-path]",
	Short: "Resolve commit authors into canonical contributors.",
	Long: `Merge the many name/email spellings of each person into one
canonical contributor and aggregate per-person statistics.

Identities are merged by normalized email, then by platform author ID
when remote data is present. Automation accounts (dependabot and
friends) are filtered out unless --include-bots is set.

Examples:
  # Canonical contributor list
  gitattrib contributors

  # Keep bot identities in the result
  gitattrib contributors --include-bots

  # Export per-person stats to Parquet
  gitattrib contributors --output parquet --output-file contributors.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteContributors(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run contributors analysis", err)
		}
	},
}
