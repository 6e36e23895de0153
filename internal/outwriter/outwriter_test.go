package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// testConfig returns a config that writes to a temp file and avoids
// terminal detection and color codes.
func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       schema.TextOut,
		OutputFile:   filepath.Join(t.TempDir(), "out.txt"),
		ResultLimit:  50,
		Width:        120,
		UseColors:    false,
		Workers:      4,
		Period:       schema.WeekPeriod,
		CacheBackend: schema.NoneBackend,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func sampleOwnership() *schema.OwnershipResult {
	return &schema.OwnershipResult{
		Authors: []schema.AuthorAttribution{
			{Name: "Alice", Email: "alice@example.com", Lines: 60},
			{Name: "Bob", Email: "bob@example.com", Lines: 30},
			{Name: "Carol", Email: "carol@example.com", Lines: 10},
		},
		FilesProcessed: 12,
		FilesSkipped:   1,
		TotalLines:     100,
	}
}

func TestOwnershipTable(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, NewOutWriter().WriteOwnership(sampleOwnership(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, contract.DominantValue)
	assert.Contains(t, out, "Showing top 3 of 3 authors (total lines: 100, files: 12 processed, 1 skipped)")
}

func TestOwnershipTableLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.ResultLimit = 1
	require.NoError(t, NewOutWriter().WriteOwnership(sampleOwnership(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "Carol")
	assert.Contains(t, out, "Showing top 1 of 3 authors")
}

func TestOwnershipCSV(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.CSVOut
	require.NoError(t, NewOutWriter().WriteOwnership(sampleOwnership(), cfg, time.Second))

	out := readOutput(t, cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "rank,author,email,lines,share,label", lines[0])
	assert.Equal(t, "1,Alice,alice@example.com,60,60.0,Dominant", lines[1])
}

func TestOwnershipJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.JSONOut
	require.NoError(t, NewOutWriter().WriteOwnership(sampleOwnership(), cfg, time.Second))

	var decoded struct {
		Authors []struct {
			Rank  int     `json:"rank"`
			Name  string  `json:"name"`
			Share float64 `json:"share"`
			Label string  `json:"label"`
		} `json:"authors"`
		TotalLines int `json:"totalLines"`
	}
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	require.Len(t, decoded.Authors, 3)
	assert.Equal(t, 1, decoded.Authors[0].Rank)
	assert.Equal(t, "Alice", decoded.Authors[0].Name)
	assert.InDelta(t, 60.0, decoded.Authors[0].Share, 0.01)
	assert.Equal(t, "Dominant", decoded.Authors[0].Label)
	assert.Equal(t, 100, decoded.TotalLines)
}

func TestOwnershipParquetUnsupported(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.ParquetOut
	assert.Error(t, NewOutWriter().WriteOwnership(sampleOwnership(), cfg, time.Second))
}

func sampleCommitStats() *schema.CommitStatsResult {
	return &schema.CommitStatsResult{
		Authors: []schema.AuthorStat{
			{Name: "Alice", Email: "alice@example.com", Commits: 5, Additions: 100, Deletions: 20},
			{Name: "Bob", Email: "bob@example.com", Commits: 2, Additions: 10, Deletions: 5},
		},
		Timeline: []schema.TimelineEntry{
			{Date: "2026-03-09", Author: "Alice", Commits: 3},
			{Date: "2026-03-10", Author: "Alice", Commits: 2},
			{Date: "2026-03-10", Author: "Bob", Commits: 2},
		},
	}
}

func TestCommitStatsTable(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, NewOutWriter().WriteCommitStats(sampleCommitStats(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Showing top 2 of 2 authors (commits: 7, +110/-25 across 2 active days)")
}

func TestCommitStatsCSVBlocks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.CSVOut
	require.NoError(t, NewOutWriter().WriteCommitStats(sampleCommitStats(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "rank,author,email,commits,additions,deletions")
	assert.Contains(t, out, "date,author,commits")
	assert.Contains(t, out, "2026-03-09,Alice,3")
}

func sampleContributors() *schema.ContributorReport {
	return &schema.ContributorReport{
		Contributors: []schema.ContributorStats{
			{
				CanonicalKey:    "email:alice@example.com",
				DisplayName:     "Alice",
				Emails:          []string{"alice@example.com"},
				Commits:         5,
				Additions:       100,
				Deletions:       20,
				NetLines:        80,
				FirstCommitDate: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
				LastCommitDate:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
				ActiveDays:      65,
			},
			{
				CanonicalKey:  "platform:99",
				DisplayName:   "bob",
				PlatformLogin: "bob",
				Commits:       1,
			},
		},
		BotsFiltered: 2,
	}
}

func TestContributorsTable(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, NewOutWriter().WriteContributors(sampleContributors(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "2026-01-05")
	assert.Contains(t, out, "2 bot identities filtered")
}

func TestContributorsCSV(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.CSVOut
	require.NoError(t, NewOutWriter().WriteContributors(sampleContributors(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "canonical_key")
	assert.Contains(t, out, "email:alice@example.com")
	assert.Contains(t, out, "platform:99")
}

func TestContributorsParquet(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "contributors.parquet")
	require.NoError(t, NewOutWriter().WriteContributors(sampleContributors(), cfg, time.Second))

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestContributorsParquetRequiresOutputFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = ""
	assert.Error(t, NewOutWriter().WriteContributors(sampleContributors(), cfg, time.Second))
}

func sampleTimeline() (*schema.RepositoryTimeline, []schema.PeriodBucket) {
	timeline := &schema.RepositoryTimeline{
		RepoFirstCommit: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
		RepoLastCommit:  time.Date(2026, 3, 17, 18, 0, 0, 0, time.UTC),
		Users: []schema.UserTimelineData{
			{
				UserID:       "email:alice@example.com",
				UserName:     "Alice",
				TotalCommits: 4,
				Daily: []schema.DailyMetric{
					{Date: "2026-03-09", UserID: "email:alice@example.com", UserName: "Alice", Commits: 2},
					{Date: "2026-03-16", UserID: "email:alice@example.com", UserName: "Alice", Commits: 2},
				},
			},
		},
		TotalCommits: 4,
	}
	buckets := []schema.PeriodBucket{
		{Label: "2026-03-09", Start: "2026-03-09", Commits: 2, TopContributor: "Alice"},
		{Label: "2026-03-16", Start: "2026-03-16", Commits: 2, TopContributor: "Alice"},
	}
	return timeline, buckets
}

func TestTimelineTable(t *testing.T) {
	cfg := testConfig(t)
	timeline, buckets := sampleTimeline()
	require.NoError(t, NewOutWriter().WriteTimeline(timeline, buckets, cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "2026-03-09")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Showing 2 of 2 week buckets")
	assert.Contains(t, out, "History spans 2026-03-09 to 2026-03-17")
}

func TestTimelineCSV(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.CSVOut
	timeline, buckets := sampleTimeline()
	require.NoError(t, NewOutWriter().WriteTimeline(timeline, buckets, cfg, time.Second))

	out := readOutput(t, cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "period,start,commits,additions,deletions,net_lines,top_contributor", lines[0])
}

func TestTimelineJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.JSONOut
	timeline, buckets := sampleTimeline()
	require.NoError(t, NewOutWriter().WriteTimeline(timeline, buckets, cfg, time.Second))

	var decoded timelineOutput
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	require.NotNil(t, decoded.Timeline)
	assert.Equal(t, 4, decoded.Timeline.TotalCommits)
	assert.Len(t, decoded.Buckets, 2)
}

func TestTimelineParquet(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "daily.parquet")
	timeline, buckets := sampleTimeline()
	require.NoError(t, NewOutWriter().WriteTimeline(timeline, buckets, cfg, time.Second))

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestInsightsText(t *testing.T) {
	cfg := testConfig(t)
	insights := &schema.Insights{
		BusiestWeekday: "Tuesday",
		BusiestHour:    14,
		WeekdayCommits: 40,
		WeekendCommits: 2,
		SoloFiles:      []string{"cmd/main.go"},
		SoloFileCount:  1,
		TotalFiles:     10,
	}
	require.NoError(t, NewOutWriter().WriteInsights(insights, cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Busiest weekday:  Tuesday")
	assert.Contains(t, out, "Busiest hour:     14:00")
	assert.Contains(t, out, "Solo-owned files: 1 of 10")
	assert.Contains(t, out, "cmd/main.go")
}

func TestCacheStatusText(t *testing.T) {
	cfg := testConfig(t)
	status := schema.CacheStatus{
		Backend:    schema.SQLiteBackend,
		Connected:  true,
		Entries:    3,
		SizeBytes:  4096,
		OldestItem: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		NewestItem: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewOutWriter().WriteCacheStatus(status, cfg))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Backend:   sqlite")
	assert.Contains(t, out, "Entries:   3")
	assert.Contains(t, out, "4096 bytes")
}

func TestCacheStatusJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.JSONOut
	status := schema.CacheStatus{Backend: schema.NoneBackend}
	require.NoError(t, NewOutWriter().WriteCacheStatus(status, cfg))

	var decoded schema.CacheStatus
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, schema.NoneBackend, decoded.Backend)
}
