// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteOwnership prints line-ownership results using the configured output format.
func (ow *OutWriter) WriteOwnership(result *schema.OwnershipResult, cfg *contract.Config, duration time.Duration) error {
	return PrintOwnershipResults(result, cfg, duration)
}

// WriteCommitStats prints commit-stats results using the configured output format.
func (ow *OutWriter) WriteCommitStats(result *schema.CommitStatsResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCommitStatsResults(result, cfg, duration)
}

// WriteContributors prints the resolved contributor report using the configured output format.
func (ow *OutWriter) WriteContributors(report *schema.ContributorReport, cfg *contract.Config, duration time.Duration) error {
	return PrintContributorResults(report, cfg, duration)
}

// WriteTimeline prints the bucketed repository timeline using the configured output format.
func (ow *OutWriter) WriteTimeline(timeline *schema.RepositoryTimeline, buckets []schema.PeriodBucket, cfg *contract.Config, duration time.Duration) error {
	return PrintTimelineResults(timeline, buckets, cfg, duration)
}

// WriteInsights prints derived activity insights using the configured output format.
func (ow *OutWriter) WriteInsights(insights *schema.Insights, cfg *contract.Config, duration time.Duration) error {
	return PrintInsightsResults(insights, cfg, duration)
}

// WriteCacheStatus prints cache store status using the configured output format.
func (ow *OutWriter) WriteCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	return PrintCacheStatus(status, cfg)
}
