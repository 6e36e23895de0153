package core

import (
	"context"
	"errors"
	"time"

	"github.com/kherrera/gitattrib/core/identity"
	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/internal/outwriter"
	"github.com/kherrera/gitattrib/schema"
)

// ExecutorFunc defines the function signature for executing different
// attribution modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetOwnershipResults runs the line-ownership analysis and returns the
// result without printing. Used by both the CLI and the MCP server.
func GetOwnershipResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.OwnershipResult, error) {
	client := contract.NewLocalGitClient()
	return cachedOwnership(ctx, cfg, client, mgr)
}

// GetCommitStatsResults runs the commit-stats analysis and returns the
// aggregated per-author totals plus the daily activity timeline.
func GetCommitStatsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.CommitStatsResult, error) {
	client := contract.NewLocalGitClient()
	commits, warnings, err := cachedCollectCommits(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	return aggregateCommitStats(commits, warnings), nil
}

// GetContributorResults resolves commit authors into canonical
// contributors and returns the aggregated report.
func GetContributorResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.ContributorReport, error) {
	client := contract.NewLocalGitClient()
	return resolveContributors(ctx, cfg, client, mgr)
}

// GetTimelineResults buckets repository activity by the configured period.
func GetTimelineResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.RepositoryTimeline, []schema.PeriodBucket, error) {
	client := contract.NewLocalGitClient()
	commits, _, err := cachedCollectCommits(ctx, cfg, client, mgr)
	if err != nil {
		return nil, nil, err
	}
	metrics := identity.BuildDailyMetrics(commits, identity.ResolveOptions{IncludeBots: cfg.IncludeBots})
	buckets := identity.BucketMetrics(metrics, identity.BucketOptions{Period: cfg.Period, FillGaps: cfg.FillGaps})
	timeline := identity.BuildRepositoryTimeline(metrics)
	return timeline, buckets, nil
}

// GetInsightsResults derives secondary activity signals from the history.
func GetInsightsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.Insights, error) {
	report, err := GetContributorResults(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return identity.ExtractInsights(report), nil
}

// ExecuteOwnership runs the line-ownership analysis and prints results.
// It serves as the main entry point for the 'ownership' command.
func ExecuteOwnership(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetOwnershipResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		contract.LogWarn("ownership", errors.New(w))
	}
	return outwriter.NewOutWriter().WriteOwnership(result, cfg, time.Since(start))
}

// ExecuteCommitStats runs the commit-stats analysis and prints per-author
// totals plus the daily activity timeline.
func ExecuteCommitStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetCommitStatsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		contract.LogWarn("stats", errors.New(w))
	}
	return outwriter.NewOutWriter().WriteCommitStats(result, cfg, time.Since(start))
}

// ExecuteContributors resolves commit authors into canonical contributors
// and prints the aggregated report.
func ExecuteContributors(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetContributorResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteContributors(report, cfg, time.Since(start))
}

// ExecuteTimeline buckets repository activity by the configured period.
func ExecuteTimeline(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	timeline, buckets, err := GetTimelineResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTimeline(timeline, buckets, cfg, time.Since(start))
}

// ExecuteInsights derives secondary activity signals from the history.
func ExecuteInsights(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	insights, err := GetInsightsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteInsights(insights, cfg, time.Since(start))
}

// resolveContributors is the shared collect-then-resolve pipeline.
func resolveContributors(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.ContributorReport, error) {
	commits, warnings, err := cachedCollectCommits(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	report := identity.Resolve(commits, identity.ResolveOptions{IncludeBots: cfg.IncludeBots})
	report.Warnings = append(report.Warnings, warnings...)
	for _, w := range report.Warnings {
		contract.LogWarn("contributors", errors.New(w))
	}
	return report, nil
}
