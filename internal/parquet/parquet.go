// Package parquet exports contributor and timeline data to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kherrera/gitattrib/schema"
)

// ContributorRow is one resolved contributor, flattened for columnar
// storage. Emails are joined with "|" since repeated audit values are
// not worth a nested column.
type ContributorRow struct {
	// CanonicalKey is the stable identity key (platform:, email:, or name: form)
	CanonicalKey string `parquet:"canonical_key,snappy"`

	// DisplayName is the best-known human-readable name
	DisplayName string `parquet:"display_name,snappy"`

	// Emails is the "|"-joined audit trail of observed addresses
	Emails string `parquet:"emails,snappy"`

	// PlatformLogin is the hosting-platform login, when known
	PlatformLogin string `parquet:"platform_login,snappy"`

	Commits   int64 `parquet:"commits,snappy"`
	Additions int64 `parquet:"additions,snappy"`
	Deletions int64 `parquet:"deletions,snappy"`
	NetLines  int64 `parquet:"net_lines,snappy"`

	// FirstCommitDate and LastCommitDate bound the activity window
	FirstCommitDate time.Time `parquet:"first_commit_date,snappy"`
	LastCommitDate  time.Time `parquet:"last_commit_date,snappy"`

	ActiveDays       int32 `parquet:"active_days,snappy"`
	IsMergeCommitter bool  `parquet:"is_merge_committer,snappy"`
}

// DailyActivityRow is one (user, calendar day) activity cell.
type DailyActivityRow struct {
	Date      string `parquet:"date,snappy"` // YYYY-MM-DD
	UserID    string `parquet:"user_id,snappy"`
	UserName  string `parquet:"user_name,snappy"`
	Commits   int64  `parquet:"commits,snappy"`
	Additions int64  `parquet:"additions,snappy"`
	Deletions int64  `parquet:"deletions,snappy"`
	NetLines  int64  `parquet:"net_lines,snappy"`
}

// WriteContributorsParquet writes contributor rows to a Parquet file.
func WriteContributorsParquet(data []ContributorRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the struct tags
	writer := parquet.NewGenericWriter[ContributorRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteDailyActivityParquet writes daily activity rows to a Parquet file.
func WriteDailyActivityParquet(data []DailyActivityRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the struct tags
	writer := parquet.NewGenericWriter[DailyActivityRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// ConvertContributors converts resolved contributor stats to Parquet rows.
func ConvertContributors(stats []schema.ContributorStats) []ContributorRow {
	result := make([]ContributorRow, len(stats))
	for i, s := range stats {
		result[i] = ContributorRow{
			CanonicalKey:     s.CanonicalKey,
			DisplayName:      s.DisplayName,
			Emails:           strings.Join(s.Emails, "|"),
			PlatformLogin:    s.PlatformLogin,
			Commits:          int64(s.Commits),
			Additions:        int64(s.Additions),
			Deletions:        int64(s.Deletions),
			NetLines:         int64(s.NetLines),
			FirstCommitDate:  s.FirstCommitDate,
			LastCommitDate:   s.LastCommitDate,
			ActiveDays:       int32(s.ActiveDays),
			IsMergeCommitter: s.IsMergeCommitter,
		}
	}
	return result
}

// ConvertDailyMetrics converts daily metric rows to Parquet rows.
func ConvertDailyMetrics(metrics []schema.DailyMetric) []DailyActivityRow {
	result := make([]DailyActivityRow, len(metrics))
	for i, m := range metrics {
		result[i] = DailyActivityRow{
			Date:      m.Date,
			UserID:    m.UserID,
			UserName:  m.UserName,
			Commits:   int64(m.Commits),
			Additions: int64(m.Additions),
			Deletions: int64(m.Deletions),
			NetLines:  int64(m.NetLines),
		}
	}
	return result
}
