package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// collectCommits runs a single repository-wide numstat log and parses it
// into commit records. An empty repository and a repository whose history
// is filtered away entirely are distinct failures.
func collectCommits(ctx context.Context, cfg *contract.Config, client contract.GitClient) ([]schema.CommitRecord, []string, error) {
	out, err := client.GetNumstatLog(ctx, cfg.RepoPath, contract.LogFilter{
		Since:         cfg.Since,
		Until:         cfg.Until,
		Branch:        cfg.Branch,
		IncludeMerges: cfg.IncludeMerges,
	})
	if err != nil {
		return nil, nil, err
	}

	commits, warnings := parseNumstatLog(out)
	if len(commits) == 0 {
		// Probe rev-list to tell "no commits at all" apart from
		// "every commit was filtered out".
		total, countErr := client.CountCommits(ctx, cfg.RepoPath)
		if countErr != nil {
			return nil, nil, countErr
		}
		if total == 0 {
			return nil, nil, contract.ErrEmptyRepository
		}
		if !cfg.IncludeMerges && cfg.Since.IsZero() && cfg.Until.IsZero() && cfg.Branch == "" {
			return nil, nil, contract.ErrNoNonMergeCommits
		}
		return []schema.CommitRecord{}, warnings, nil
	}
	return commits, warnings, nil
}

// parseNumstatLog converts raw `git log --numstat` output into commit
// records. The output alternates tab-separated commit headers with
// add/del/path stat lines; binary stats ("-") count as zero churn.
func parseNumstatLog(out []byte) ([]schema.CommitRecord, []string) {
	var commits []schema.CommitRecord
	var warnings []string
	var current *schema.CommitRecord

	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		if header, ok := parseCommitHeader(line); ok {
			if current != nil {
				commits = append(commits, *current)
			}
			current = header
			continue
		}

		if current == nil {
			continue // Stat line before any header, ignore
		}
		touch, ok := parseStatLine(line)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unparseable stat line in commit %s: %q", current.SHA, line))
			continue
		}
		current.Additions += touch.Additions
		current.Deletions += touch.Deletions
		current.Files = append(current.Files, touch)
	}
	if current != nil {
		commits = append(commits, *current)
	}
	return commits, warnings
}

// parseCommitHeader parses a sha/parents/author/email/date/subject header.
func parseCommitHeader(line string) (*schema.CommitRecord, bool) {
	parts := strings.SplitN(line, "\t", 6)
	if len(parts) != 6 || len(parts[0]) != 40 {
		return nil, false
	}
	date, err := time.Parse(time.RFC3339, parts[4])
	if err != nil {
		return nil, false
	}
	// Author dates carry the committer's local offset; records hold the
	// UTC instant so a cache round trip compares equal.
	date = date.UTC()
	var parents []string
	if parts[1] != "" {
		parents = strings.Fields(parts[1])
	}
	return &schema.CommitRecord{
		SHA:         parts[0],
		ParentSHAs:  parents,
		AuthorName:  parts[2],
		AuthorEmail: parts[3],
		AuthorDate:  date,
		Message:     parts[5],
	}, true
}

// parseStatLine parses an "additions<TAB>deletions<TAB>path" line.
func parseStatLine(line string) (schema.FileStat, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return schema.FileStat{}, false
	}
	add, okAdd := parseChurnValue(parts[0])
	del, okDel := parseChurnValue(parts[1])
	if !okAdd || !okDel {
		return schema.FileStat{}, false
	}
	return schema.FileStat{Path: cleanRenamePath(parts[2]), Additions: add, Deletions: del}, true
}

// parseChurnValue converts a churn string to int, handling "-" as 0.
func parseChurnValue(s string) (int, bool) {
	if s == "-" {
		return 0, true
	}
	val, err := strconv.Atoi(s)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// cleanRenamePath resolves git's rename notations to the new path.
// Both "old => new" and "prefix/{old => new}/suffix" forms appear.
func cleanRenamePath(path string) string {
	if !strings.Contains(path, " => ") {
		return path
	}
	if open := strings.Index(path, "{"); open >= 0 {
		if close_ := strings.Index(path, "}"); close_ > open {
			inner := path[open+1 : close_]
			newPart := inner
			if idx := strings.Index(inner, " => "); idx >= 0 {
				newPart = inner[idx+4:]
			}
			cleaned := path[:open] + newPart + path[close_+1:]
			return strings.ReplaceAll(cleaned, "//", "/")
		}
	}
	if idx := strings.Index(path, " => "); idx >= 0 {
		return path[idx+4:]
	}
	return path
}

// aggregateCommitStats reduces commit records to per-author totals and a
// daily activity timeline.
func aggregateCommitStats(commits []schema.CommitRecord, warnings []string) *schema.CommitStatsResult {
	authorMap := make(map[schema.AuthorKey]*schema.AuthorStat)
	dailyMap := make(map[string]map[schema.AuthorKey]int)

	for _, c := range commits {
		key := schema.AuthorKey{Name: c.AuthorName, Email: schema.NormalizeEmail(c.AuthorEmail)}
		stat, ok := authorMap[key]
		if !ok {
			stat = &schema.AuthorStat{Name: key.Name, Email: key.Email}
			authorMap[key] = stat
		}
		stat.Commits++
		stat.Additions += c.Additions
		stat.Deletions += c.Deletions

		day := c.AuthorDate.UTC().Format("2006-01-02")
		if dailyMap[day] == nil {
			dailyMap[day] = make(map[schema.AuthorKey]int)
		}
		dailyMap[day][key]++
	}

	result := &schema.CommitStatsResult{Warnings: warnings}
	for _, stat := range authorMap {
		result.Authors = append(result.Authors, *stat)
	}
	sort.Slice(result.Authors, func(i, j int) bool {
		if result.Authors[i].Commits != result.Authors[j].Commits {
			return result.Authors[i].Commits > result.Authors[j].Commits
		}
		if result.Authors[i].Name != result.Authors[j].Name {
			return result.Authors[i].Name < result.Authors[j].Name
		}
		return result.Authors[i].Email < result.Authors[j].Email
	})

	for day, authors := range dailyMap {
		for key, count := range authors {
			result.Timeline = append(result.Timeline, schema.TimelineEntry{
				Date:    day,
				Author:  key.Name,
				Commits: count,
			})
		}
	}
	sort.Slice(result.Timeline, func(i, j int) bool {
		if result.Timeline[i].Date != result.Timeline[j].Date {
			return result.Timeline[i].Date < result.Timeline[j].Date
		}
		return result.Timeline[i].Author < result.Timeline[j].Author
	})
	return result
}
