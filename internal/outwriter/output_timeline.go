package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/internal/parquet"
	"github.com/kherrera/gitattrib/schema"
)

// timelineOutput is the combined JSON shape for a bucketed timeline.
type timelineOutput struct {
	Timeline *schema.RepositoryTimeline `json:"timeline"`
	Buckets  []schema.PeriodBucket      `json:"buckets"`
}

// PrintTimelineResults outputs the bucketed timeline, dispatching on the configured format.
func PrintTimelineResults(timeline *schema.RepositoryTimeline, buckets []schema.PeriodBucket, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, timelineOutput{Timeline: timeline, Buckets: buckets})
		}, "JSON")

	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimelineCSV(w, buckets)
		}, "CSV")

	case schema.ParquetOut:
		return writeTimelineParquet(timeline, cfg)

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimelineTable(w, timeline, buckets, cfg, duration)
		}, "table")
	}
}

// writeTimelineTable generates and writes the human-readable bucket table.
func writeTimelineTable(w io.Writer, timeline *schema.RepositoryTimeline, buckets []schema.PeriodBucket, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Start", "Commits", "Additions", "Deletions", "Net", "Top Contributor"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	rows := limitRows(buckets, cfg.ResultLimit)

	var data [][]string
	for _, b := range rows {
		data = append(data, []string{
			b.Label,
			b.Start,
			strconv.Itoa(b.Commits),
			strconv.Itoa(b.Additions),
			strconv.Itoa(b.Deletions),
			strconv.Itoa(b.NetLines),
			contract.TruncatePath(b.TopContributor, nameWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d %s buckets (%d contributors, commits: %d, +%d/-%d)\n",
		len(rows), len(buckets), cfg.Period, len(timeline.Users),
		timeline.TotalCommits, timeline.TotalAdditions, timeline.TotalDeletions); err != nil {
		return err
	}
	if !timeline.RepoFirstCommit.IsZero() {
		if _, err := fmt.Fprintf(w, "History spans %s to %s\n",
			timeline.RepoFirstCommit.Format(dateFormat), timeline.RepoLastCommit.Format(dateFormat)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeTimelineCSV writes the bucket rows in CSV format.
func writeTimelineCSV(w io.Writer, buckets []schema.PeriodBucket) error {
	header := []string{"period", "start", "commits", "additions", "deletions", "net_lines", "top_contributor"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range buckets {
			rec := []string{
				b.Label,
				b.Start,
				strconv.Itoa(b.Commits),
				strconv.Itoa(b.Additions),
				strconv.Itoa(b.Deletions),
				strconv.Itoa(b.NetLines),
				b.TopContributor,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeTimelineParquet exports the per-user daily rows to a Parquet file.
// Buckets are derivable from the daily grain, so only the daily rows are
// exported.
func writeTimelineParquet(timeline *schema.RepositoryTimeline, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}

	var daily []schema.DailyMetric
	for _, u := range timeline.Users {
		daily = append(daily, u.Daily...)
	}
	rows := parquet.ConvertDailyMetrics(daily)
	if err := parquet.WriteDailyActivityParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d daily activity rows to %s\n", len(rows), cfg.OutputFile)
	return nil
}
