package schema

import "time"

// AuthorStat is a per-author counter row from the commit stats engine,
// keyed by the same (name, normalized email) shape as blame output.
type AuthorStat struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Commits   int    `json:"commits"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// TimelineEntry is one (day, author) cell of the commit stats timeline.
type TimelineEntry struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}

// CommitStatsResult is the output of the commit stats engine.
type CommitStatsResult struct {
	Authors  []AuthorStat    `json:"authors"` // sorted by Commits desc
	Timeline []TimelineEntry `json:"timeline"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ContributorStats is an immutable per-person snapshot after identity
// resolution. NetLines may be negative; ActiveDays is 0 for a single
// commit.
type ContributorStats struct {
	CanonicalKey     string    `json:"canonicalKey"`
	DisplayName      string    `json:"displayName"`
	Emails           []string  `json:"emails"` // audit trail, sorted
	PlatformID       int64     `json:"platformId,omitempty"`
	PlatformLogin    string    `json:"platformLogin,omitempty"`
	AvatarURL        string    `json:"avatarUrl,omitempty"`
	Commits          int       `json:"commits"`
	Additions        int       `json:"additions"`
	Deletions        int       `json:"deletions"`
	NetLines         int       `json:"netLines"`
	FirstCommitDate  time.Time `json:"firstCommitDate"`
	LastCommitDate   time.Time `json:"lastCommitDate"`
	ActiveDays       int       `json:"activeDays"`
	IsMergeCommitter bool      `json:"isMergeCommitter"`
}

// FileTouch records one contributor touching one file in one commit.
// Files with more than MaxFileTouchLines changed lines are presumed
// binary or generated and skipped.
type FileTouch struct {
	CanonicalKey string    `json:"canonicalKey"`
	Path         string    `json:"path"`
	Date         time.Time `json:"date"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
}

// MaxFileTouchLines caps the per-file change size recorded as a touch.
const MaxFileTouchLines = 10000

// MergeSummary is a compact record of one merge commit.
type MergeSummary struct {
	SHA          string    `json:"sha"`
	CanonicalKey string    `json:"canonicalKey"`
	Date         time.Time `json:"date"`
	Subject      string    `json:"subject"`
}

// ContributorReport is the full output of the identity resolver. All
// slices are produced in the same single pass over the commit set.
type ContributorReport struct {
	Contributors   []ContributorStats `json:"contributors"` // Commits desc, key asc
	Messages       []string           `json:"messages"`     // first lines, commit order
	CommitTimes    []time.Time        `json:"commitTimes"`
	FileTouches    []FileTouch        `json:"fileTouches,omitempty"`
	MergeSummaries []MergeSummary     `json:"mergeSummaries,omitempty"`
	BotsFiltered   int                `json:"botsFiltered"`
	Warnings       []string           `json:"warnings,omitempty"`
}
