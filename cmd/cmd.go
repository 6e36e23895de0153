// Package cmd defines the command-line interface for gitattrib.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ownershipCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("since", "", "Only include commits after this date (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("until", "", "Only include commits before this date (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("branch", "", "Git branch or ref to analyze (default: checked-out HEAD)")
	rootCmd.PersistentFlags().Bool("include-merges", false, "Include merge commits in history analysis")
	rootCmd.PersistentFlags().Bool("include-bots", false, "Include automation identities in results")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent blame workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of ownershipCmd to Viper
	ownershipCmd.Flags().Bool("no-ignore-whitespace", false, "Count whitespace-only changes as authorship")
	ownershipCmd.Flags().Bool("no-detect-moves", false, "Disable moved-line attribution (-M)")
	ownershipCmd.Flags().Bool("no-detect-copies", false, "Disable copied-line attribution (-C)")
	ownershipCmd.Flags().Bool("no-mailmap", false, "Skip .mailmap identity rewriting")
	if err := viper.BindPFlags(ownershipCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ownership flags", err)
	}

	// Bind all flags of timelineCmd to Viper
	timelineCmd.Flags().String("period", string(schema.WeekPeriod), "Bucketing granularity: week or month or quarter or year")
	timelineCmd.Flags().Bool("fill-gaps", false, "Insert zero buckets for periods with no activity")
	if err := viper.BindPFlags(timelineCmd.Flags()); err != nil {
		contract.LogFatal("Error binding timeline flags", err)
	}

	// Bind all flags of fetchCmd to Viper
	fetchCmd.Flags().StringP("repo", "r", "", "Remote repository as owner/name")
	fetchCmd.Flags().String("token", "", "API token (prefer GITATTRIB_TOKEN env var over this flag)")
	fetchCmd.Flags().Int("max-commits", 0, "Maximum commits to fetch (0 = default budget)")
	fetchCmd.Flags().Int("start-page", 0, "Page offset to start listing from (0 = first page)")
	fetchCmd.Flags().Bool("resume", false, "Resume pagination from the last recorded fetch of this repo")
	if err := viper.BindPFlags(fetchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding fetch flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", ":8080", "Listen address for the progress server")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
