// Package schema has configs, models and shared constants for all parts of gitattrib.
package schema

import (
	"strings"
	"time"
)

// CommitRecord is one historical commit, produced by the commit stats
// engine or the remote fetcher. Immutable once constructed.
type CommitRecord struct {
	SHA              string     `json:"sha"`
	AuthorName       string     `json:"authorName"`
	AuthorEmail      string     `json:"authorEmail"` // lower-cased, trimmed
	AuthorDate       time.Time  `json:"authorDate"`  // UTC
	Message          string     `json:"message"`
	Additions        int        `json:"additions"`
	Deletions        int        `json:"deletions"`
	ParentSHAs       []string   `json:"parentShas"`
	PlatformAuthorID int64      `json:"platformAuthorId,omitempty"`
	PlatformLogin    string     `json:"platformLogin,omitempty"`
	AvatarURL        string     `json:"avatarUrl,omitempty"`
	Files            []FileStat `json:"files,omitempty"`
}

// FileStat is the per-file churn of one commit.
type FileStat struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// IsMerge reports whether the commit joins two or more parents.
func (c *CommitRecord) IsMerge() bool {
	return len(c.ParentSHAs) >= 2
}

// FirstLine returns the subject line of the commit message.
func (c *CommitRecord) FirstLine() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// NormalizeEmail lower-cases and trims an author email for use in
// attribution keys. Blame and commit-stats use the same normalization
// so their outputs are comparable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims a display name and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
