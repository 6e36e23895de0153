package identity

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kherrera/gitattrib/schema"
)

func commitAt(day int, name, email string) schema.CommitRecord {
	return schema.CommitRecord{
		SHA:         "sha",
		AuthorName:  name,
		AuthorEmail: email,
		AuthorDate:  time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC),
		Message:     "change something",
		Additions:   10,
		Deletions:   4,
	}
}

func TestCanonicalKeyPriority(t *testing.T) {
	tests := []struct {
		name     string
		commit   schema.CommitRecord
		expected string
	}{
		{
			name:     "platform id wins",
			commit:   schema.CommitRecord{PlatformAuthorID: 42, AuthorEmail: "a@x.com", AuthorName: "A"},
			expected: "platform:42",
		},
		{
			name:     "email next",
			commit:   schema.CommitRecord{AuthorEmail: "A@X.com", AuthorName: "A"},
			expected: "email:a@x.com",
		},
		{
			name:     "noreply email falls through to name",
			commit:   schema.CommitRecord{AuthorEmail: "12345+alice@users.noreply.github.com", AuthorName: "Alice  B"},
			expected: "name:alice b",
		},
		{
			name:     "name only, whitespace collapsed",
			commit:   schema.CommitRecord{AuthorName: "  Bob   Smith "},
			expected: "name:bob smith",
		},
		{
			name:     "nothing usable",
			commit:   schema.CommitRecord{},
			expected: "name:unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalKey(&tt.commit))
		})
	}
}

func TestIsBot(t *testing.T) {
	assert.True(t, IsBot(&schema.CommitRecord{AuthorName: "dependabot[bot]"}))
	assert.True(t, IsBot(&schema.CommitRecord{AuthorName: "GitHub-Actions"}))
	assert.True(t, IsBot(&schema.CommitRecord{PlatformLogin: "renovate-bot"}))
	assert.True(t, IsBot(&schema.CommitRecord{AuthorName: "ci-robot"}))
	// "Abbot" contains "bot" but is not a suffix of the name.
	assert.False(t, IsBot(&schema.CommitRecord{AuthorName: "Abbot Kinney"}))
	assert.False(t, IsBot(&schema.CommitRecord{AuthorName: "Alice"}))
}

func TestResolveDedupByEmail(t *testing.T) {
	commits := []schema.CommitRecord{
		commitAt(1, "Alice", "alice@example.com"),
		commitAt(2, "Alice Smith", "ALICE@example.com"),
		commitAt(3, "Bob", "bob@example.com"),
	}

	report := Resolve(commits, ResolveOptions{})
	require.Len(t, report.Contributors, 2)

	alice := report.Contributors[0]
	assert.Equal(t, "email:alice@example.com", alice.CanonicalKey)
	assert.Equal(t, 2, alice.Commits)
	assert.Equal(t, []string{"alice@example.com"}, alice.Emails)
	assert.Equal(t, 20, alice.Additions)
	assert.Equal(t, 12, alice.NetLines)
	assert.Equal(t, 1, alice.ActiveDays)
}

func TestResolveActiveDays(t *testing.T) {
	t.Run("single commit yields zero", func(t *testing.T) {
		report := Resolve([]schema.CommitRecord{commitAt(1, "Alice", "alice@example.com")}, ResolveOptions{})
		require.Len(t, report.Contributors, 1)
		assert.Zero(t, report.Contributors[0].ActiveDays)
	})

	t.Run("same day commits yield zero", func(t *testing.T) {
		commits := []schema.CommitRecord{
			commitAt(1, "Alice", "alice@example.com"),
			commitAt(1, "Alice", "alice@example.com"),
		}
		report := Resolve(commits, ResolveOptions{})
		require.Len(t, report.Contributors, 1)
		assert.Zero(t, report.Contributors[0].ActiveDays)
	})

	t.Run("span of three days", func(t *testing.T) {
		commits := []schema.CommitRecord{
			commitAt(1, "Alice", "alice@example.com"),
			commitAt(4, "Alice", "alice@example.com"),
		}
		report := Resolve(commits, ResolveOptions{})
		require.Len(t, report.Contributors, 1)
		assert.Equal(t, 3, report.Contributors[0].ActiveDays)
	})
}

func TestResolveBotFiltering(t *testing.T) {
	commits := []schema.CommitRecord{
		commitAt(1, "Alice", "alice@example.com"),
		commitAt(2, "dependabot[bot]", "support@dependabot.com"),
	}

	t.Run("default filters bots", func(t *testing.T) {
		report := Resolve(commits, ResolveOptions{})
		assert.Len(t, report.Contributors, 1)
		assert.Equal(t, 1, report.BotsFiltered)
	})

	t.Run("include-bots keeps them", func(t *testing.T) {
		report := Resolve(commits, ResolveOptions{IncludeBots: true})
		assert.Len(t, report.Contributors, 2)
		assert.Zero(t, report.BotsFiltered)
	})
}

func TestResolvePlatformLoginUpgradesDisplayName(t *testing.T) {
	commits := []schema.CommitRecord{
		{AuthorName: "A. Hacker", AuthorEmail: "a@x.com", PlatformAuthorID: 7, AuthorDate: time.Now()},
		{AuthorName: "A. Hacker", AuthorEmail: "a@x.com", PlatformAuthorID: 7, PlatformLogin: "ahacker", AvatarURL: "https://avatars.example/7", AuthorDate: time.Now()},
	}

	report := Resolve(commits, ResolveOptions{})
	require.Len(t, report.Contributors, 1)
	c := report.Contributors[0]
	assert.Equal(t, "platform:7", c.CanonicalKey)
	assert.Equal(t, "ahacker", c.DisplayName)
	assert.Equal(t, int64(7), c.PlatformID)
}

func TestResolveMergeTracking(t *testing.T) {
	merge := commitAt(5, "Alice", "alice@example.com")
	merge.ParentSHAs = []string{"p1", "p2"}
	merge.Message = "Merge pull request #9\n\ndetails"

	report := Resolve([]schema.CommitRecord{merge}, ResolveOptions{})
	require.Len(t, report.MergeSummaries, 1)
	assert.Equal(t, "Merge pull request #9", report.MergeSummaries[0].Subject)
	assert.True(t, report.Contributors[0].IsMergeCommitter)
}

func TestResolveFileTouchCap(t *testing.T) {
	c := commitAt(1, "Alice", "alice@example.com")
	c.Files = []schema.FileStat{
		{Path: "normal.go", Additions: 10, Deletions: 2},
		{Path: "generated.pb.go", Additions: schema.MaxFileTouchLines + 1},
	}

	report := Resolve([]schema.CommitRecord{c}, ResolveOptions{})
	require.Len(t, report.FileTouches, 1)
	assert.Equal(t, "normal.go", report.FileTouches[0].Path)
}

// TestResolveSortDeterministic verifies commits desc then key asc, and
// that input order never changes the result.
func TestResolveSortDeterministic(t *testing.T) {
	commits := []schema.CommitRecord{
		commitAt(1, "Zed", "z@x.com"),
		commitAt(2, "Ann", "a@x.com"),
		commitAt(3, "Mid", "m@x.com"),
		commitAt(4, "Mid", "m@x.com"),
	}

	baseline := Resolve(commits, ResolveOptions{})
	require.Len(t, baseline.Contributors, 3)
	assert.Equal(t, "email:m@x.com", baseline.Contributors[0].CanonicalKey)
	assert.Equal(t, "email:a@x.com", baseline.Contributors[1].CanonicalKey)
	assert.Equal(t, "email:z@x.com", baseline.Contributors[2].CanonicalKey)

	rng := rand.New(rand.NewSource(1))
	for range 5 {
		shuffled := make([]schema.CommitRecord, len(commits))
		copy(shuffled, commits)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Resolve(shuffled, ResolveOptions{})
		assert.Equal(t, keysOf(baseline.Contributors), keysOf(got.Contributors))
	}
}

func keysOf(cs []schema.ContributorStats) []string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		keys[i] = c.CanonicalKey
	}
	return keys
}

// TestResolveIdempotent checks resolving already-deduplicated data
// yields the same contributor set.
func TestResolveIdempotent(t *testing.T) {
	commits := []schema.CommitRecord{
		commitAt(1, "Alice", "alice@example.com"),
		commitAt(2, "Alice", "alice@example.com"),
	}
	first := Resolve(commits, ResolveOptions{})
	second := Resolve(commits, ResolveOptions{})
	assert.Equal(t, first.Contributors, second.Contributors)
}
