package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

const sampleNumstatLog = "" +
	"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\tparent1\tAlice\talice@example.com\t2026-03-10T09:00:00+00:00\tadd parser\n" +
	"10\t2\tparser.go\n" +
	"5\t0\tparser_test.go\n" +
	"\n" +
	"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\tparent1 parent2\tBob\tBOB@example.com\t2026-03-11T10:30:00+00:00\tMerge branch 'feature'\n" +
	"\n" +
	"cccccccccccccccccccccccccccccccccccccccc\t\tAlice\talice@example.com\t2026-03-11T11:00:00+00:00\tinitial commit\n" +
	"-\t-\tlogo.png\n" +
	"3\t1\tmain.go\n"

func TestParseNumstatLog(t *testing.T) {
	commits, warnings := parseNumstatLog([]byte(sampleNumstatLog))
	require.Empty(t, warnings)
	require.Len(t, commits, 3)

	first := commits[0]
	assert.Equal(t, "Alice", first.AuthorName)
	assert.Equal(t, 15, first.Additions)
	assert.Equal(t, 2, first.Deletions)
	assert.Len(t, first.Files, 2)
	assert.False(t, first.IsMerge())

	merge := commits[1]
	assert.True(t, merge.IsMerge())
	assert.Equal(t, "Merge branch 'feature'", merge.FirstLine())
	assert.Zero(t, merge.Additions)

	// Binary stats ("-") count as zero churn but still record the touch.
	root := commits[2]
	assert.Empty(t, root.ParentSHAs)
	assert.Equal(t, 3, root.Additions)
	assert.Len(t, root.Files, 2)
	assert.Equal(t, "logo.png", root.Files[0].Path)
	assert.Zero(t, root.Files[0].Additions)
}

// TestParseCommitHeaderNormalizesToUTC pins the UTC-instant contract:
// a zoned author date and its UTC equivalent must decode to equal
// time.Time values, so cached copies compare equal after a JSON round
// trip regardless of the host timezone.
func TestParseCommitHeaderNormalizesToUTC(t *testing.T) {
	zoned, ok := parseCommitHeader("eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee\t\tEve\teve@example.com\t2026-03-10T09:00:00+02:00\tsubject")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC), zoned.AuthorDate)

	local, ok := parseCommitHeader("ffffffffffffffffffffffffffffffffffffffff\t\tEve\teve@example.com\t2026-03-10T07:00:00+00:00\tsubject")
	require.True(t, ok)
	assert.Equal(t, zoned.AuthorDate, local.AuthorDate)
}

func TestParseNumstatLogMalformedStatLine(t *testing.T) {
	log := "dddddddddddddddddddddddddddddddddddddddd\t\tEve\teve@example.com\t2026-01-01T00:00:00+00:00\tsubject\n" +
		"not-a-number\t4\tfile.go\n" +
		"2\t2\tok.go\n"

	commits, warnings := parseNumstatLog([]byte(log))
	require.Len(t, commits, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "unparseable stat line")
	assert.Equal(t, 2, commits[0].Additions)
	assert.Len(t, commits[0].Files, 1)
}

func TestCleanRenamePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain/path.go", "plain/path.go"},
		{"old.go => new.go", "new.go"},
		{"pkg/{old => new}/file.go", "pkg/new/file.go"},
		{"pkg/{old.go => new.go}", "pkg/new.go"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, cleanRenamePath(tt.input), tt.input)
	}
}

func statsConfig() *contract.Config {
	return &contract.Config{RepoPath: "/repo"}
}

func TestCollectCommitsEmptyRepository(t *testing.T) {
	client := &contract.MockGitClient{}
	ctx := context.Background()
	client.On("GetNumstatLog", ctx, "/repo", contract.LogFilter{}).Return([]byte(""), nil)
	client.On("CountCommits", ctx, "/repo").Return(0, nil)

	_, _, err := collectCommits(ctx, statsConfig(), client)
	assert.ErrorIs(t, err, contract.ErrEmptyRepository)
}

func TestCollectCommitsOnlyMerges(t *testing.T) {
	client := &contract.MockGitClient{}
	ctx := context.Background()
	client.On("GetNumstatLog", ctx, "/repo", contract.LogFilter{}).Return([]byte(""), nil)
	client.On("CountCommits", ctx, "/repo").Return(5, nil)

	_, _, err := collectCommits(ctx, statsConfig(), client)
	assert.ErrorIs(t, err, contract.ErrNoNonMergeCommits)
}

func TestCollectCommitsFilteredToNothing(t *testing.T) {
	client := &contract.MockGitClient{}
	ctx := context.Background()
	cfg := statsConfig()
	cfg.Since = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	client.On("GetNumstatLog", ctx, "/repo", contract.LogFilter{Since: cfg.Since}).Return([]byte(""), nil)
	client.On("CountCommits", ctx, "/repo").Return(5, nil)

	commits, _, err := collectCommits(ctx, cfg, client)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestAggregateCommitStats(t *testing.T) {
	commits, _ := parseNumstatLog([]byte(sampleNumstatLog))
	result := aggregateCommitStats(commits, nil)

	require.Len(t, result.Authors, 2)
	// Alice has two commits, Bob one. Emails are normalized.
	assert.Equal(t, "Alice", result.Authors[0].Name)
	assert.Equal(t, 2, result.Authors[0].Commits)
	assert.Equal(t, 18, result.Authors[0].Additions)
	assert.Equal(t, "bob@example.com", result.Authors[1].Email)

	require.Len(t, result.Timeline, 3)
	assert.Equal(t, "2026-03-10", result.Timeline[0].Date)
	for _, entry := range result.Timeline {
		assert.True(t, strings.Contains("AliceBob", entry.Author))
	}
}

// TestAggregateCommitStatsTieBreak verifies the deterministic author sort.
func TestAggregateCommitStatsTieBreak(t *testing.T) {
	commits := []schema.CommitRecord{
		{SHA: "1", AuthorName: "Zed", AuthorEmail: "z@x.com", AuthorDate: time.Now()},
		{SHA: "2", AuthorName: "Ann", AuthorEmail: "a@x.com", AuthorDate: time.Now()},
	}
	result := aggregateCommitStats(commits, nil)
	require.Len(t, result.Authors, 2)
	assert.Equal(t, "Ann", result.Authors[0].Name)
	assert.Equal(t, "Zed", result.Authors[1].Name)
}
