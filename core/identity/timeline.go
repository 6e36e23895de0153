package identity

import (
	"sort"
	"time"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

const dayFormat = "2006-01-02"

// BuildDailyMetrics rolls commits up into one row per (contributor, day).
// Bot filtering mirrors Resolve so the timeline and the contributor
// report always describe the same commit set.
func BuildDailyMetrics(commits []schema.CommitRecord, opts ResolveOptions) []schema.DailyMetric {
	type dayKey struct {
		day string
		key string
	}
	rows := make(map[dayKey]*schema.DailyMetric)

	for i := range commits {
		c := &commits[i]
		if !opts.IncludeBots && IsBot(c) {
			continue
		}
		k := dayKey{day: c.AuthorDate.UTC().Format(dayFormat), key: CanonicalKey(c)}
		row, ok := rows[k]
		if !ok {
			row = &schema.DailyMetric{Date: k.day, UserID: k.key, UserName: c.AuthorName}
			rows[k] = row
		}
		row.Commits++
		row.Additions += c.Additions
		row.Deletions += c.Deletions
		row.NetLines += c.Additions - c.Deletions
	}

	metrics := make([]schema.DailyMetric, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, *row)
	}
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Date != metrics[j].Date {
			return metrics[i].Date < metrics[j].Date
		}
		return metrics[i].UserID < metrics[j].UserID
	})
	return metrics
}

// BuildRepositoryTimeline assembles the per-user and repo-wide rollup.
// Per-user totals and repo totals come from the same daily rows, which
// keeps the sum invariant by construction.
func BuildRepositoryTimeline(metrics []schema.DailyMetric) *schema.RepositoryTimeline {
	timeline := &schema.RepositoryTimeline{}
	users := make(map[string]*schema.UserTimelineData)
	var order []string

	for _, m := range metrics {
		user, ok := users[m.UserID]
		if !ok {
			user = &schema.UserTimelineData{UserID: m.UserID, UserName: m.UserName}
			users[m.UserID] = user
			order = append(order, m.UserID)
		}
		user.Daily = append(user.Daily, m)
		user.TotalCommits += m.Commits
		user.TotalAdditions += m.Additions
		user.TotalDeletions += m.Deletions
		user.TotalNetLines += m.NetLines

		timeline.TotalCommits += m.Commits
		timeline.TotalAdditions += m.Additions
		timeline.TotalDeletions += m.Deletions
		timeline.TotalNetLines += m.NetLines

		if day, err := time.Parse(dayFormat, m.Date); err == nil {
			if timeline.RepoFirstCommit.IsZero() || day.Before(timeline.RepoFirstCommit) {
				timeline.RepoFirstCommit = day
			}
			if day.After(timeline.RepoLastCommit) {
				timeline.RepoLastCommit = day
			}
		}
	}

	for _, id := range order {
		timeline.Users = append(timeline.Users, *users[id])
	}
	sort.Slice(timeline.Users, func(i, j int) bool {
		if timeline.Users[i].TotalCommits != timeline.Users[j].TotalCommits {
			return timeline.Users[i].TotalCommits > timeline.Users[j].TotalCommits
		}
		return timeline.Users[i].UserID < timeline.Users[j].UserID
	})
	return timeline
}

// BucketOptions controls period bucketing.
type BucketOptions struct {
	Period schema.Period
	// FillGaps emits zero buckets for periods with no activity between
	// the first and last observed bucket.
	FillGaps bool
}

// BucketMetrics rolls daily rows up into period buckets. Weeks anchor
// on Monday; month, quarter and year use calendar boundaries. The top
// contributor of a bucket is the user with the most commits in it,
// ties broken by user ID.
func BucketMetrics(metrics []schema.DailyMetric, opts BucketOptions) []schema.PeriodBucket {
	period := string(opts.Period)
	buckets := make(map[string]*schema.PeriodBucket)
	perUser := make(map[string]map[string]int) // bucket start -> user -> commits
	userNames := make(map[string]string)

	for _, m := range metrics {
		day, err := time.Parse(dayFormat, m.Date)
		if err != nil {
			continue
		}
		start := contract.StartOfPeriod(day, period)
		startStr := start.Format(dayFormat)

		b, ok := buckets[startStr]
		if !ok {
			b = &schema.PeriodBucket{Label: contract.PeriodLabel(start, period), Start: startStr}
			buckets[startStr] = b
			perUser[startStr] = make(map[string]int)
		}
		b.Commits += m.Commits
		b.Additions += m.Additions
		b.Deletions += m.Deletions
		b.NetLines += m.NetLines
		perUser[startStr][m.UserID] += m.Commits
		userNames[m.UserID] = m.UserName
	}

	starts := make([]string, 0, len(buckets))
	for s := range buckets {
		starts = append(starts, s)
	}
	sort.Strings(starts)

	for _, s := range starts {
		var topID string
		var topCommits int
		ids := make([]string, 0, len(perUser[s]))
		for id := range perUser[s] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if perUser[s][id] > topCommits {
				topID, topCommits = id, perUser[s][id]
			}
		}
		if name := userNames[topID]; name != "" {
			buckets[s].TopContributor = name
		} else {
			buckets[s].TopContributor = topID
		}
	}

	result := make([]schema.PeriodBucket, 0, len(starts))
	for _, s := range starts {
		result = append(result, *buckets[s])
	}

	if opts.FillGaps && len(result) > 1 {
		result = fillGaps(result, period)
	}
	return result
}

// fillGaps inserts zero buckets between the first and last observed
// period so charts render a continuous axis.
func fillGaps(buckets []schema.PeriodBucket, period string) []schema.PeriodBucket {
	first, errFirst := time.Parse(dayFormat, buckets[0].Start)
	last, errLast := time.Parse(dayFormat, buckets[len(buckets)-1].Start)
	if errFirst != nil || errLast != nil {
		return buckets
	}

	existing := make(map[string]schema.PeriodBucket, len(buckets))
	for _, b := range buckets {
		existing[b.Start] = b
	}

	var filled []schema.PeriodBucket
	for cur := first; !cur.After(last); cur = contract.NextPeriod(cur, period) {
		startStr := cur.Format(dayFormat)
		if b, ok := existing[startStr]; ok {
			filled = append(filled, b)
		} else {
			filled = append(filled, schema.PeriodBucket{
				Label: contract.PeriodLabel(cur, period),
				Start: startStr,
			})
		}
	}
	return filled
}
