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

// PrintOwnershipResults outputs a blame scan, dispatching on the configured format.
func PrintOwnershipResults(result *schema.OwnershipResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOwnershipJSON(w, result)
		}, "JSON")

	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOwnershipCSV(w, result)
		}, "CSV")

	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for ownership results")

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOwnershipTable(w, result, cfg, duration)
		}, "table")
	}
}

// writeOwnershipTable generates and writes the human-readable table.
func writeOwnershipTable(w io.Writer, result *schema.OwnershipResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "Email", "Lines", "Share", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	authors := limitRows(result.Authors, cfg.ResultLimit)

	var data [][]string
	for i, a := range authors {
		share := shareOf(a.Lines, result.TotalLines)
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(a.Name, nameWidth),
			contract.TruncatePath(a.Email, nameWidth),
			strconv.Itoa(a.Lines),
			fmt.Sprintf("%.1f%%", share),
			labelFor(share, cfg.UseColors),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing top %d of %d authors (total lines: %d, files: %d processed, %d skipped)\n",
		len(authors), len(result.Authors), result.TotalLines, result.FilesProcessed, result.FilesSkipped); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scan completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend)
	return err
}

// writeOwnershipCSV writes the blame scan in CSV format.
func writeOwnershipCSV(w io.Writer, result *schema.OwnershipResult) error {
	header := []string{"rank", "author", "email", "lines", "share", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, a := range result.Authors {
			share := shareOf(a.Lines, result.TotalLines)
			rec := []string{
				strconv.Itoa(i + 1),
				a.Name,
				a.Email,
				strconv.Itoa(a.Lines),
				fmt.Sprintf("%.1f", share),
				contract.GetPlainLabel(share),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeOwnershipJSON writes the blame scan in JSON format with rank and
// label added to each author row.
func writeOwnershipJSON(w io.Writer, result *schema.OwnershipResult) error {
	type jsonAuthor struct {
		Rank  int     `json:"rank"`
		Share float64 `json:"share"`
		Label string  `json:"label"`
		schema.AuthorAttribution
	}
	type jsonResult struct {
		Authors        []jsonAuthor `json:"authors"`
		FilesProcessed int          `json:"filesProcessed"`
		FilesSkipped   int          `json:"filesSkipped"`
		TotalLines     int          `json:"totalLines"`
		Warnings       []string     `json:"warnings,omitempty"`
	}

	out := jsonResult{
		Authors:        make([]jsonAuthor, len(result.Authors)),
		FilesProcessed: result.FilesProcessed,
		FilesSkipped:   result.FilesSkipped,
		TotalLines:     result.TotalLines,
		Warnings:       result.Warnings,
	}
	for i, a := range result.Authors {
		share := shareOf(a.Lines, result.TotalLines)
		out.Authors[i] = jsonAuthor{
			Rank:              i + 1,
			Share:             share,
			Label:             contract.GetPlainLabel(share),
			AuthorAttribution: a,
		}
	}
	return writeJSON(w, out)
}
