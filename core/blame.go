// Package core has core logic for attribution, aggregation and reporting.
package core

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// blameWorkerResult carries one worker's local aggregation back to the
// merge step. Workers never share maps, so no locking is needed until merge.
type blameWorkerResult struct {
	counts   map[schema.AuthorKey]int
	skipped  []string
	warnings []string
}

// computeOwnership blames every tracked file with a worker pool and
// merges per-worker tallies into a single attribution result.
func computeOwnership(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.OwnershipResult, error) {
	files, err := client.ListTrackedFiles(ctx, cfg.RepoPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &schema.OwnershipResult{Authors: []schema.AuthorAttribution{}}, nil
	}

	workers := min(cfg.Workers, len(files))

	// Workers pull the next index from a shared counter instead of a
	// channel. Fast files do not stall behind slow ones and the order
	// files finish in never changes the merged totals.
	var next atomic.Int64
	resultCh := make(chan blameWorkerResult, workers)
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			local := blameWorkerResult{counts: make(map[schema.AuthorKey]int)}
			for {
				idx := next.Add(1) - 1
				if int(idx) >= len(files) {
					break
				}
				path := files[idx]

				out, err := client.BlameFile(ctx, cfg.RepoPath, path, cfg.Blame)
				if err != nil {
					local.skipped = append(local.skipped, path)
					local.warnings = append(local.warnings, fmt.Sprintf("blame failed for %s: %v", path, err))
					continue
				}
				parseBlamePorcelain(out, local.counts)
			}
			resultCh <- local
		})
	}

	wg.Wait()
	close(resultCh)

	merged := make(map[schema.AuthorKey]int)
	result := &schema.OwnershipResult{}
	for r := range resultCh {
		for key, lines := range r.counts {
			merged[key] += lines
		}
		result.FilesSkipped += len(r.skipped)
		result.Warnings = append(result.Warnings, r.warnings...)
	}
	result.FilesProcessed = len(files) - result.FilesSkipped

	if cfg.UseMailmap {
		merged = canonicalizeOwnership(ctx, cfg, client, merged)
	}

	result.Authors = sortedAttributions(merged)
	for _, a := range result.Authors {
		result.TotalLines += a.Lines
	}
	sort.Strings(result.Warnings)
	return result, nil
}

// parseBlamePorcelain aggregates git blame --line-porcelain output into
// per-author line counts. Header lines carry the attribution for the
// next tab-prefixed content line; the content line is what gets counted,
// so empty files contribute nothing.
func parseBlamePorcelain(out []byte, counts map[schema.AuthorKey]int) {
	var currentName, currentEmail string

	for line := range bytes.Lines(out) {
		switch {
		case bytes.HasPrefix(line, []byte("\t")):
			// Content line. Attribute it to the most recent header pair.
			counts[schema.AuthorKey{Name: currentName, Email: currentEmail}]++
		case bytes.HasPrefix(line, []byte("author ")):
			currentName = string(bytes.TrimRight(line[len("author "):], "\r\n"))
		case bytes.HasPrefix(line, []byte("author-mail ")):
			email := string(bytes.TrimRight(line[len("author-mail "):], "\r\n"))
			email = strings.TrimSuffix(strings.TrimPrefix(email, "<"), ">")
			currentEmail = schema.NormalizeEmail(email)
		}
	}
}

// sortedAttributions flattens the merged counts into a deterministic
// slice ordered by lines descending, then name, then email.
func sortedAttributions(merged map[schema.AuthorKey]int) []schema.AuthorAttribution {
	authors := make([]schema.AuthorAttribution, 0, len(merged))
	for key, lines := range merged {
		authors = append(authors, schema.AuthorAttribution{Name: key.Name, Email: key.Email, Lines: lines})
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].Lines != authors[j].Lines {
			return authors[i].Lines > authors[j].Lines
		}
		if authors[i].Name != authors[j].Name {
			return authors[i].Name < authors[j].Name
		}
		return authors[i].Email < authors[j].Email
	})
	return authors
}
