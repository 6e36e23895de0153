package schema

import "time"

// DailyMetric is one (user, calendar day) row with at least one commit.
// Aggregated upward into period buckets by summing the numeric fields,
// never downward.
type DailyMetric struct {
	Date      string `json:"date"` // YYYY-MM-DD
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	NetLines  int    `json:"netLines"`
}

// PeriodBucket is a week/month/quarter/year rollup of daily metrics.
type PeriodBucket struct {
	Label          string `json:"label"` // e.g. 2024-W07, 2024-03, 2024-Q2, 2024
	Start          string `json:"start"` // YYYY-MM-DD of the bucket anchor
	Commits        int    `json:"commits"`
	Additions      int    `json:"additions"`
	Deletions      int    `json:"deletions"`
	NetLines       int    `json:"netLines"`
	TopContributor string `json:"topContributor,omitempty"`
}

// UserTimelineData is one user's share of a repository timeline.
type UserTimelineData struct {
	UserID         string        `json:"userId"`
	UserName       string        `json:"userName"`
	TotalCommits   int           `json:"totalCommits"`
	TotalAdditions int           `json:"totalAdditions"`
	TotalDeletions int           `json:"totalDeletions"`
	TotalNetLines  int           `json:"totalNetLines"`
	Daily          []DailyMetric `json:"daily"`
}

// RepositoryTimeline aggregates all users over a repository's history.
// Invariant: the sum of Users[i].TotalCommits equals TotalCommits when
// both are backed by the same commit set.
type RepositoryTimeline struct {
	RepoFirstCommit time.Time          `json:"repoFirstCommit"`
	RepoLastCommit  time.Time          `json:"repoLastCommit"`
	Users           []UserTimelineData `json:"users"`
	TotalCommits    int                `json:"totalCommits"`
	TotalAdditions  int                `json:"totalAdditions"`
	TotalDeletions  int                `json:"totalDeletions"`
	TotalNetLines   int                `json:"totalNetLines"`
}
