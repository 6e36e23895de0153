package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/internal/parquet"
	"github.com/kherrera/gitattrib/schema"
)

// dateFormat is the compact calendar form used in tables and CSV.
const dateFormat = "2006-01-02"

// PrintContributorResults outputs the resolved contributor report,
// dispatching on the configured format.
func PrintContributorResults(report *schema.ContributorReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "JSON")

	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeContributorsCSV(w, report)
		}, "CSV")

	case schema.ParquetOut:
		return writeContributorsParquet(report, cfg)

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeContributorsTable(w, report, cfg, duration)
		}, "table")
	}
}

// writeContributorsTable generates and writes the human-readable table.
func writeContributorsTable(w io.Writer, report *schema.ContributorReport, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Contributor", "Login", "Commits", "Additions", "Deletions", "Net", "First", "Last", "Days"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	contributors := limitRows(report.Contributors, cfg.ResultLimit)

	var data [][]string
	for i, c := range contributors {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(c.DisplayName, nameWidth),
			c.PlatformLogin,
			strconv.Itoa(c.Commits),
			strconv.Itoa(c.Additions),
			strconv.Itoa(c.Deletions),
			strconv.Itoa(c.NetLines),
			c.FirstCommitDate.Format(dateFormat),
			c.LastCommitDate.Format(dateFormat),
			strconv.Itoa(c.ActiveDays),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing top %d of %d contributors (%d bot identities filtered, %d merges tracked)\n",
		len(contributors), len(report.Contributors), report.BotsFiltered, len(report.MergeSummaries)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeContributorsCSV writes the contributor rows in CSV format.
func writeContributorsCSV(w io.Writer, report *schema.ContributorReport) error {
	header := []string{
		"rank",
		"canonical_key",
		"display_name",
		"emails",
		"platform_login",
		"commits",
		"additions",
		"deletions",
		"net_lines",
		"first_commit",
		"last_commit",
		"active_days",
		"is_merge_committer",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, c := range report.Contributors {
			rec := []string{
				strconv.Itoa(i + 1),
				c.CanonicalKey,
				c.DisplayName,
				strings.Join(c.Emails, "|"),
				c.PlatformLogin,
				strconv.Itoa(c.Commits),
				strconv.Itoa(c.Additions),
				strconv.Itoa(c.Deletions),
				strconv.Itoa(c.NetLines),
				c.FirstCommitDate.Format(dateFormat),
				c.LastCommitDate.Format(dateFormat),
				strconv.Itoa(c.ActiveDays),
				strconv.FormatBool(c.IsMergeCommitter),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeContributorsParquet exports the contributor rows to a Parquet file.
func writeContributorsParquet(report *schema.ContributorReport, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	rows := parquet.ConvertContributors(report.Contributors)
	if err := parquet.WriteContributorsParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d contributor rows to %s\n", len(rows), cfg.OutputFile)
	return nil
}
