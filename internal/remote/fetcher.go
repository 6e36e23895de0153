// Package remote fetches commit history from GitHub with rate-limit
// awareness and incremental progress reporting.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// Fetch tuning constants.
const (
	// PageSize is the GitHub maximum page size for commit listing.
	PageSize = 100

	// HydrationCap bounds how many commits get per-commit line stats.
	// Commits past the cap are still counted, with zero churn.
	HydrationCap = 500

	// HydrationBatch is the number of detail calls in flight at once.
	HydrationBatch = 10

	// hydrationDelay spaces hydration batches to be a polite API citizen.
	hydrationDelay = 50 * time.Millisecond

	// DefaultRateLimitFloor is the remaining-quota threshold below which
	// a fetch fails fast instead of burning the last requests.
	DefaultRateLimitFloor = 50

	// listProgressShare is how much of the progress bar the listing
	// phase owns; hydration owns the rest.
	listProgressShare = 0.8

	// requestsPerSecond paces outbound API calls.
	requestsPerSecond = 10
)

// ProgressFunc receives human-readable progress. Percent is in [0, 100]
// and never decreases within one fetch.
type ProgressFunc func(message string, percent float64)

// Options configures one fetch run.
type Options struct {
	Owner         string
	Repo          string
	Token         string
	MaxCommits    int
	IncludeMerges bool
	Since         time.Time
	Until         time.Time

	// StartPage is the "load more" offset token; zero means first page.
	StartPage int

	// RateLimitFloor overrides DefaultRateLimitFloor when positive.
	RateLimitFloor int

	Progress ProgressFunc
}

// Result is the outcome of one fetch run.
type Result struct {
	Commits  []schema.CommitRecord
	Warnings []string

	// HasMore/NextPage implement "load more": pass NextPage as the next
	// run's StartPage.
	HasMore  bool
	NextPage int
}

// Fetcher lists and hydrates commits for one repository.
type Fetcher struct {
	client  *github.Client
	limiter *rate.Limiter
	logger  *zerolog.Logger
	floor   int
}

// NewFetcher creates a fetcher. The http.Client is injected so tests
// can point it at a local server; nil means http.DefaultClient.
func NewFetcher(httpClient *http.Client, token string, logger *zerolog.Logger) *Fetcher {
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
		floor:   DefaultRateLimitFloor,
	}
}

// WithRateLimit replaces the default request pacing.
func (f *Fetcher) WithRateLimit(limit rate.Limit) *Fetcher {
	f.limiter = rate.NewLimiter(limit, 1)
	return f
}

// WithBaseURL redirects API calls, used by tests against httptest servers.
func (f *Fetcher) WithBaseURL(baseURL string) *Fetcher {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if u, err := f.client.BaseURL.Parse(baseURL); err == nil {
		f.client.BaseURL = u
	}
	return f
}

// progressEmitter serializes progress callbacks and enforces the
// non-decreasing percent invariant. Only the emit goroutine calls the
// user callback.
type progressEmitter struct {
	mu      sync.Mutex
	fn      ProgressFunc
	highest float64
}

func (p *progressEmitter) emit(message string, percent float64) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if percent < p.highest {
		percent = p.highest
	}
	p.highest = percent
	p.fn(message, percent)
}

// Fetch lists commits page by page, then hydrates line stats for the
// first HydrationCap commits.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) (*Result, error) {
	floor := f.floor
	if opts.RateLimitFloor > 0 {
		floor = opts.RateLimitFloor
	}
	progress := &progressEmitter{fn: opts.Progress}

	result, err := f.listCommits(ctx, opts, floor, progress)
	if err != nil {
		return nil, err
	}

	if err := f.hydrateCommits(ctx, opts, result, floor, progress); err != nil {
		return nil, err
	}

	progress.emit("done", 100)
	f.logger.Info().
		Str("repo", opts.Owner+"/"+opts.Repo).
		Int("commits", len(result.Commits)).
		Bool("has_more", result.HasMore).
		Msg("fetch complete")
	return result, nil
}

// listCommits pages through the commit list until a short page, the
// commit budget, or the end of history.
func (f *Fetcher) listCommits(ctx context.Context, opts Options, floor int, progress *progressEmitter) (*Result, error) {
	result := &Result{}
	maxCommits := opts.MaxCommits
	if maxCommits <= 0 {
		maxCommits = contract.DefaultMaxCommits
	}

	listOpts := &github.CommitsListOptions{
		Since:       opts.Since,
		Until:       opts.Until,
		ListOptions: github.ListOptions{PerPage: PageSize, Page: max(opts.StartPage, 1)},
	}

	sawAny := false
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		commits, resp, err := f.client.Repositories.ListCommits(ctx, opts.Owner, opts.Repo, listOpts)
		if err != nil {
			return nil, classifyAPIError(err)
		}
		if err := checkQuota(resp, floor); err != nil {
			return nil, err
		}
		sawAny = sawAny || len(commits) > 0

		for _, rc := range commits {
			record, warn := convertCommit(rc)
			if warn != "" {
				result.Warnings = append(result.Warnings, warn)
				continue
			}
			// Merge filtering happens client side; the list API has no
			// parent-count filter.
			if !opts.IncludeMerges && record.IsMerge() {
				continue
			}
			result.Commits = append(result.Commits, *record)
		}

		pct := listProgressShare * 100 * float64(len(result.Commits)) / float64(maxCommits)
		progress.emit(fmt.Sprintf("listed %d commits", len(result.Commits)), min(pct, listProgressShare*100))

		// A short page means the end of history.
		if len(commits) < PageSize {
			break
		}
		// The commit budget only stops the listing at a page boundary, so
		// NextPage never skips the unconsumed tail of a page. The result
		// may therefore run up to a page past MaxCommits.
		if len(result.Commits) >= maxCommits {
			result.HasMore = true
			result.NextPage = listOpts.Page + 1
			break
		}
		listOpts.Page++
	}

	if len(result.Commits) == 0 && opts.StartPage <= 1 {
		if !sawAny {
			return nil, contract.ErrEmptyRepository
		}
		if !opts.IncludeMerges {
			return nil, contract.ErrNoNonMergeCommits
		}
	}
	return result, nil
}

// hydrateCommits fills Additions/Deletions/Files for the first
// HydrationCap commits, HydrationBatch at a time.
func (f *Fetcher) hydrateCommits(ctx context.Context, opts Options, result *Result, floor int, progress *progressEmitter) error {
	n := min(len(result.Commits), HydrationCap)
	if n == 0 {
		return nil
	}

	var mu sync.Mutex
	var hydrated int
	var warnings []string

	for start := 0; start < n; start += HydrationBatch {
		end := min(start+HydrationBatch, n)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(HydrationBatch)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := f.limiter.Wait(gctx); err != nil {
					return err
				}
				detail, resp, err := f.client.Repositories.GetCommit(gctx, opts.Owner, opts.Repo, result.Commits[i].SHA, nil)
				if err != nil {
					mu.Lock()
					warnings = append(warnings, fmt.Sprintf("hydration failed for %s: %v", shortSHA(result.Commits[i].SHA), err))
					mu.Unlock()
					return nil // Per-commit failure degrades, never aborts
				}
				if err := checkQuota(resp, floor); err != nil {
					return err
				}

				mu.Lock()
				if stats := detail.GetStats(); stats != nil {
					result.Commits[i].Additions = stats.GetAdditions()
					result.Commits[i].Deletions = stats.GetDeletions()
				}
				for _, file := range detail.Files {
					result.Commits[i].Files = append(result.Commits[i].Files, schema.FileStat{
						Path:      file.GetFilename(),
						Additions: file.GetAdditions(),
						Deletions: file.GetDeletions(),
					})
				}
				hydrated++
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return classifyAPIError(err)
		}

		mu.Lock()
		done := hydrated
		mu.Unlock()
		pct := listProgressShare*100 + (1-listProgressShare)*100*float64(done)/float64(n)
		progress.emit(fmt.Sprintf("hydrated %d/%d commits", done, n), pct)

		if end < n {
			time.Sleep(hydrationDelay)
		}
	}

	sort.Strings(warnings)
	result.Warnings = append(result.Warnings, warnings...)
	return nil
}

// convertCommit validates and converts one API commit to the schema
// record. A non-empty warning means the record was skipped.
func convertCommit(rc *github.RepositoryCommit) (*schema.CommitRecord, string) {
	sha := rc.GetSHA()
	if sha == "" {
		return nil, "skipping commit with empty sha"
	}
	inner := rc.GetCommit()
	if inner == nil || inner.GetAuthor() == nil {
		return nil, fmt.Sprintf("skipping commit %s with missing author", shortSHA(sha))
	}
	date := inner.GetAuthor().GetDate().Time
	if date.IsZero() {
		return nil, fmt.Sprintf("skipping commit %s with invalid date", shortSHA(sha))
	}

	record := &schema.CommitRecord{
		SHA:         sha,
		AuthorName:  inner.GetAuthor().GetName(),
		AuthorEmail: schema.NormalizeEmail(inner.GetAuthor().GetEmail()),
		AuthorDate:  date.UTC(),
		Message:     inner.GetMessage(),
	}
	for _, parent := range rc.Parents {
		record.ParentSHAs = append(record.ParentSHAs, parent.GetSHA())
	}
	if author := rc.GetAuthor(); author != nil {
		record.PlatformAuthorID = author.GetID()
		record.PlatformLogin = author.GetLogin()
		record.AvatarURL = author.GetAvatarURL()
	}
	return record, ""
}

// checkQuota fails fast when the remaining quota drops below the floor.
func checkQuota(resp *github.Response, floor int) error {
	if resp == nil {
		return nil
	}
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < floor {
		return fmt.Errorf("%d of %d requests remaining until %s: %w",
			resp.Rate.Remaining, resp.Rate.Limit, resp.Rate.Reset.Format(time.RFC3339), contract.ErrRateLimitLow)
	}
	return nil
}

// classifyAPIError maps transport and API failures onto the sentinel taxonomy.
func classifyAPIError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%v: %w", err, contract.ErrRateLimitExceeded)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%v: %w", err, contract.ErrRateLimitExceeded)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%v: %w", err, contract.ErrNetworkTimeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%v: %w", err, contract.ErrNetworkTimeout)
	}
	return err
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
