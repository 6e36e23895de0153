package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// PrintCommitStatsResults outputs the commit stats, dispatching on the configured format.
func PrintCommitStatsResults(result *schema.CommitStatsResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "JSON")

	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCommitStatsCSV(w, result)
		}, "CSV")

	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for commit stats")

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCommitStatsTable(w, result, cfg, duration)
		}, "table")
	}
}

// writeCommitStatsTable generates and writes the human-readable table.
func writeCommitStatsTable(w io.Writer, result *schema.CommitStatsResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "Email", "Commits", "Additions", "Deletions"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	authors := limitRows(result.Authors, cfg.ResultLimit)

	var data [][]string
	for i, a := range authors {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(a.Name, nameWidth),
			contract.TruncatePath(a.Email, nameWidth),
			strconv.Itoa(a.Commits),
			strconv.Itoa(a.Additions),
			strconv.Itoa(a.Deletions),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalCommits := 0
	totalAdditions := 0
	totalDeletions := 0
	for _, a := range result.Authors {
		totalCommits += a.Commits
		totalAdditions += a.Additions
		totalDeletions += a.Deletions
	}
	if _, err := fmt.Fprintf(w, "Showing top %d of %d authors (commits: %d, +%d/-%d across %d active days)\n",
		len(authors), len(result.Authors), totalCommits, totalAdditions, totalDeletions, countTimelineDays(result.Timeline)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// countTimelineDays counts the distinct dates in the timeline rows.
func countTimelineDays(timeline []schema.TimelineEntry) int {
	days := make(map[string]struct{}, len(timeline))
	for _, e := range timeline {
		days[e.Date] = struct{}{}
	}
	return len(days)
}

// writeCommitStatsCSV writes per-author rows followed by the daily timeline.
func writeCommitStatsCSV(w io.Writer, result *schema.CommitStatsResult) error {
	header := []string{"rank", "author", "email", "commits", "additions", "deletions"}
	if err := writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, a := range result.Authors {
			rec := []string{
				strconv.Itoa(i + 1),
				a.Name,
				a.Email,
				strconv.Itoa(a.Commits),
				strconv.Itoa(a.Additions),
				strconv.Itoa(a.Deletions),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	// Timeline rows form a second CSV block separated by a blank line.
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeCSVWithHeader(w, []string{"date", "author", "commits"}, func(cw *csv.Writer) error {
		for _, e := range result.Timeline {
			if err := cw.Write([]string{e.Date, e.Author, strconv.Itoa(e.Commits)}); err != nil {
				return err
			}
		}
		return nil
	})
}
