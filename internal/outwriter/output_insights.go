package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// PrintInsightsResults outputs derived activity insights, dispatching on
// the configured format. Insights are a small key-value report, so CSV
// and text share the same plain rendering.
func PrintInsightsResults(insights *schema.Insights, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, insights)
		}, "JSON")

	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for insights")

	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsText(w, insights, cfg, duration)
		}, "insights")
	}
}

// writeInsightsText writes the plain key-value report.
func writeInsightsText(w io.Writer, insights *schema.Insights, cfg *contract.Config, duration time.Duration) error {
	if insights.BusiestWeekday != "" {
		if _, err := fmt.Fprintf(w, "Busiest weekday:  %s\n", insights.BusiestWeekday); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Busiest hour:     %02d:00\n", insights.BusiestHour); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Weekday commits:  %d\n", insights.WeekdayCommits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Weekend commits:  %d\n", insights.WeekendCommits); err != nil {
		return err
	}
	if insights.TotalFiles > 0 {
		if _, err := fmt.Fprintf(w, "Solo-owned files: %d of %d\n", insights.SoloFileCount, insights.TotalFiles); err != nil {
			return err
		}
		limit := cfg.ResultLimit
		for i, path := range insights.SoloFiles {
			if limit > 0 && i >= limit {
				break
			}
			if _, err := fmt.Fprintf(w, "  %s\n", path); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}
