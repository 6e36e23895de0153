// Package identity resolves commit authors into canonical contributors
// and aggregates their activity.
package identity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kherrera/gitattrib/schema"
)

// noreplyDomain marks GitHub's placeholder addresses. They are unique
// per account but useless for cross-platform identity, so the resolver
// falls through to the name key instead.
const noreplyDomain = "users.noreply.github.com"

// botPatterns match author names and logins of automation accounts.
// A bare "bot" only matches as a suffix so human names like "Abbot"
// are left alone.
var botPatterns = []string{"[bot]", "dependabot", "github-actions", "renovate"}

// ResolveOptions controls identity resolution.
type ResolveOptions struct {
	// IncludeBots keeps automation accounts in the report.
	IncludeBots bool
}

// accumulator carries running totals for one canonical contributor.
type accumulator struct {
	stats  schema.ContributorStats
	emails map[string]bool
	dates  []time.Time
	merges int
}

// CanonicalKey derives the stable dedup key for a commit author.
// Platform identity wins over email, email over collapsed name.
func CanonicalKey(c *schema.CommitRecord) string {
	if c.PlatformAuthorID > 0 {
		return fmt.Sprintf("platform:%d", c.PlatformAuthorID)
	}
	email := schema.NormalizeEmail(c.AuthorEmail)
	if email != "" && !strings.HasSuffix(email, noreplyDomain) {
		return "email:" + email
	}
	name := schema.NormalizeName(c.AuthorName)
	if name != "" {
		return "name:" + strings.ToLower(name)
	}
	return "name:unknown"
}

// IsBot reports whether a commit author looks like an automation account.
func IsBot(c *schema.CommitRecord) bool {
	name := strings.ToLower(c.AuthorName)
	login := strings.ToLower(c.PlatformLogin)
	for _, pat := range botPatterns {
		if strings.Contains(name, pat) || strings.Contains(login, pat) {
			return true
		}
	}
	return strings.HasSuffix(name, "bot") || strings.HasSuffix(login, "bot")
}

// Resolve deduplicates commit authors into contributors and aggregates
// per-contributor activity in a single pass. Bot filtering happens
// before dedup so a bot email never pollutes a human identity.
func Resolve(commits []schema.CommitRecord, opts ResolveOptions) *schema.ContributorReport {
	report := &schema.ContributorReport{}
	accs := make(map[string]*accumulator)

	for i := range commits {
		c := &commits[i]

		if !opts.IncludeBots && IsBot(c) {
			report.BotsFiltered++
			continue
		}

		key := CanonicalKey(c)
		acc, ok := accs[key]
		if !ok {
			acc = &accumulator{
				stats: schema.ContributorStats{
					CanonicalKey: key,
					DisplayName:  c.AuthorName,
				},
				emails: make(map[string]bool),
			}
			accs[key] = acc
		}

		// Every observed email lands in the audit set even when the
		// canonical key came from elsewhere.
		if email := schema.NormalizeEmail(c.AuthorEmail); email != "" {
			acc.emails[email] = true
		}
		if c.PlatformAuthorID > 0 && acc.stats.PlatformID == 0 {
			acc.stats.PlatformID = c.PlatformAuthorID
		}
		if c.AvatarURL != "" && acc.stats.AvatarURL == "" {
			acc.stats.AvatarURL = c.AvatarURL
		}
		// A platform login upgrades the display name once.
		if c.PlatformLogin != "" && acc.stats.PlatformLogin == "" {
			acc.stats.PlatformLogin = c.PlatformLogin
			acc.stats.DisplayName = c.PlatformLogin
		}

		acc.stats.Commits++
		acc.stats.Additions += c.Additions
		acc.stats.Deletions += c.Deletions
		if !c.AuthorDate.IsZero() {
			acc.dates = append(acc.dates, c.AuthorDate)
			report.CommitTimes = append(report.CommitTimes, c.AuthorDate)
		}
		if c.IsMerge() {
			acc.merges++
			report.MergeSummaries = append(report.MergeSummaries, schema.MergeSummary{
				SHA:          c.SHA,
				CanonicalKey: key,
				Date:         c.AuthorDate,
				Subject:      c.FirstLine(),
			})
		}
		if msg := c.FirstLine(); msg != "" {
			report.Messages = append(report.Messages, msg)
		}
		for _, f := range c.Files {
			// Generated or vendored churn distorts touch data.
			if f.Additions+f.Deletions > schema.MaxFileTouchLines {
				continue
			}
			report.FileTouches = append(report.FileTouches, schema.FileTouch{
				CanonicalKey: key,
				Path:         f.Path,
				Date:         c.AuthorDate,
				Additions:    f.Additions,
				Deletions:    f.Deletions,
			})
		}
	}

	report.Contributors = reduce(accs)
	return report
}

// reduce finalizes each accumulator and applies the deterministic sort:
// commit count descending, then canonical key ascending.
func reduce(accs map[string]*accumulator) []schema.ContributorStats {
	contributors := make([]schema.ContributorStats, 0, len(accs))
	for _, acc := range accs {
		s := acc.stats

		s.Emails = make([]string, 0, len(acc.emails))
		for email := range acc.emails {
			s.Emails = append(s.Emails, email)
		}
		sort.Strings(s.Emails)

		if len(acc.dates) > 0 {
			sort.Slice(acc.dates, func(i, j int) bool { return acc.dates[i].Before(acc.dates[j]) })
			s.FirstCommitDate = acc.dates[0]
			s.LastCommitDate = acc.dates[len(acc.dates)-1]
			// Whole days between first and last commit, so a single
			// commit (or same-day activity) yields zero.
			s.ActiveDays = int(s.LastCommitDate.Sub(s.FirstCommitDate).Hours() / 24)
		}
		s.NetLines = s.Additions - s.Deletions
		s.IsMergeCommitter = acc.merges > 0

		contributors = append(contributors, s)
	}

	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].Commits != contributors[j].Commits {
			return contributors[i].Commits > contributors[j].Commits
		}
		return contributors[i].CanonicalKey < contributors[j].CanonicalKey
	})
	return contributors
}
