// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/kherrera/gitattrib/schema"
)

// GitClient defines the necessary operations for repository attribution.
// This allows the engines to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Preconditions / Reference Resolution ---

	// VerifyRepository fails with ErrNotARepository unless repoPath is
	// inside a git work tree. All engines call this before anything else.
	VerifyRepository(ctx context.Context, repoPath string) error

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// CountCommits returns the total number of commits reachable from HEAD.
	CountCommits(ctx context.Context, repoPath string) (int, error)

	// --- File State ---

	// ListTrackedFiles returns all paths tracked in the index.
	ListTrackedFiles(ctx context.Context, repoPath string) ([]string, error)

	// --- Attribution Queries ---

	// BlameFile returns the raw --line-porcelain blame output for one path.
	BlameFile(ctx context.Context, repoPath, path string, opts BlameFlags) ([]byte, error)

	// GetNumstatLog returns the raw commit log with per-file numeric stats.
	GetNumstatLog(ctx context.Context, repoPath string, opts LogFilter) ([]byte, error)

	// CheckMailmap resolves raw "Name <email>" contacts through the
	// repository mailmap in a single batched call. The returned slice is
	// positionally aligned with contacts.
	CheckMailmap(ctx context.Context, repoPath string, contacts []string) ([]string, error)
}

// BlameFlags controls the per-file line-ownership query. All three
// detections default to on and are independently toggleable.
type BlameFlags struct {
	IgnoreWhitespace bool
	DetectMoves      bool
	DetectCopies     bool
}

// DefaultBlameFlags returns the default-on flag set.
func DefaultBlameFlags() BlameFlags {
	return BlameFlags{IgnoreWhitespace: true, DetectMoves: true, DetectCopies: true}
}

// LogFilter carries optional history filters, passed through to git
// rather than post-filtered.
type LogFilter struct {
	Since         time.Time
	Until         time.Time
	Branch        string
	IncludeMerges bool
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
