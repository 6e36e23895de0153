package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kherrera/gitattrib/core"
	"github.com/kherrera/gitattrib/internal/contract"
)

// ownershipCmd performs line-ownership analysis.
var ownershipCmd = &cobra.Command{
	Use:   "ownership [repo-path]",
	Short: "Show who owns the surviving lines of the repository.",
	Long: `Blame every tracked file in parallel and attribute each surviving line
to its last author.

Helps you:
- See who actually owns the code as it exists today
- Find dominant owners and knowledge concentration
- Compare ownership share against commit counts

Binary files are skipped and per-file blame failures are downgraded to
warnings, so a single unreadable file never sinks the whole scan.

Examples:
  # Rank authors by surviving lines
  gitattrib ownership

  # Ownership of a specific branch with more workers
  gitattrib ownership --branch release-2.0 --workers 8

  # Export findings to CSV for tracking
  gitattrib ownership --output csv --output-file ownership.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteOwnership(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run ownership analysis", err)
		}
	},
}
