package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/internal/iocache"
	"github.com/kherrera/gitattrib/internal/remote"
	"github.com/kherrera/gitattrib/schema"
)

// fetchCmd downloads commit history from a remote hosting platform.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch commit history from a remote repository.",
	Long: `Download commit history for a hosted repository through the platform
API, with rate-limit awareness and incremental progress.

The fetch stops early when the remaining API quota drops below a safety
floor, and reports a "load more" page so a later run can continue where
this one stopped. Completed runs are recorded in the fetch journal
(created by 'gitattrib cache migrate') so --resume can pick up the next
page automatically.

Examples:
  # Fetch up to the default commit budget
  gitattrib fetch --repo golang/go

  # Authenticated fetch with a higher budget
  GITATTRIB_TOKEN=ghp_... gitattrib fetch --repo golang/go --max-commits 2000

  # Continue where the last run stopped
  gitattrib fetch --repo golang/go --resume

  # Dump the fetched commits as JSON
  gitattrib fetch --repo golang/go --output json --output-file commits.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runFetch(); err != nil {
			contract.LogFatal("Cannot fetch remote history", err)
		}
	},
}

// runFetch drives one fetch run, including journal resume bookkeeping.
func runFetch() error {
	if cfg.RemoteRepo == "" {
		return fmt.Errorf("--repo is required (owner/name)")
	}
	parts := strings.SplitN(cfg.RemoteRepo, "/", 2)

	journal, err := iocache.NewJournalStore(cfg.CacheBackend, cfg.CacheDBConnect)
	if err != nil {
		return fmt.Errorf("failed to open fetch journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	startPage := cfg.StartPage
	if viper.GetBool("resume") && startPage == 0 {
		last, found, err := journal.LastRun(cfg.RemoteRepo)
		if err != nil {
			contract.LogWarn("fetch journal unavailable, starting from the first page (run 'gitattrib cache migrate' to enable resume)", err)
		} else if found && last.HasMore {
			startPage = last.NextPage
			fmt.Fprintf(os.Stderr, "Resuming %s from page %d (last run fetched %d commits on %s)\n",
				cfg.RemoteRepo, startPage, last.Commits, last.FinishedAt.Format(contract.DateTimeFormat))
		}
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	fetcher := remote.NewFetcher(nil, cfg.Token, &logger)

	result, err := fetcher.Fetch(rootCtx, remote.Options{
		Owner:         parts[0],
		Repo:          parts[1],
		Token:         cfg.Token,
		MaxCommits:    cfg.MaxCommits,
		IncludeMerges: cfg.IncludeMerges,
		Since:         cfg.Since,
		Until:         cfg.Until,
		StartPage:     startPage,
		Progress: func(message string, percent float64) {
			fmt.Fprintf(os.Stderr, "[%5.1f%%] %s\n", percent, message)
		},
	})
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warn fetch: %s\n", w)
	}

	if err := journal.Record(iocache.FetchRun{
		Repo:       cfg.RemoteRepo,
		Commits:    len(result.Commits),
		NextPage:   result.NextPage,
		HasMore:    result.HasMore,
		FinishedAt: time.Now().UTC(),
	}); err != nil {
		contract.LogWarn("fetch journal not updated (run 'gitattrib cache migrate' to create it)", err)
	}

	return printFetchResult(result)
}

// printFetchResult renders the fetched commits in the configured format.
func printFetchResult(result *remote.Result) error {
	switch cfg.Output {
	case schema.JSONOut:
		file, err := contract.SelectOutputFile(cfg.OutputFile)
		if err != nil {
			return err
		}
		if file != os.Stdout {
			defer func() { _ = file.Close() }()
		}
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Commits); err != nil {
			return err
		}
		if file != os.Stdout {
			fmt.Fprintf(os.Stderr, "Wrote %d commits to %s\n", len(result.Commits), cfg.OutputFile)
		}
		return nil

	case schema.TextOut:
		fmt.Printf("Fetched %d commits from %s\n", len(result.Commits), cfg.RemoteRepo)
		if result.HasMore {
			fmt.Printf("More history remains. Continue with --start-page %d or --resume.\n", result.NextPage)
		}
		return nil

	default:
		return fmt.Errorf("output format %q is not supported for fetch (use text or json)", cfg.Output)
	}
}
