package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural months (mixed case)",
			input:    "3 MoNtHs AgO",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:     "valid singular week (capitalized)",
			input:    "1 Week Ago",
			expected: fixedNow.Add(time.Duration(-1) * 7 * 24 * time.Hour),
		},
		{
			name:     "valid 10 days (upper case)",
			input:    "10 DAYS AGO",
			expected: fixedNow.Add(time.Duration(-10) * 24 * time.Hour),
		},
		{
			name:        "invalid missing ago",
			input:       "2 years",
			expectError: true,
		},
		{
			name:        "invalid bad unit (decades)",
			input:       "4 decades ago",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one year ago",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tResult, err := ParseRelativeTime(tt.input, fixedNow)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected.Round(time.Second), tResult.Round(time.Second), "Parsed time mismatch")
			}
		})
	}
}

// TestStartOfWeek verifies the Monday-anchored week convention,
// including the Sunday wrap into the previous week.
func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "wednesday maps to preceding monday",
			input:    time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC),
			expected: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monday maps to itself at midnight",
			input:    time.Date(2026, time.March, 9, 23, 59, 59, 0, time.UTC),
			expected: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "sunday belongs to previous monday",
			input:    time.Date(2026, time.March, 15, 1, 0, 0, 0, time.UTC),
			expected: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StartOfWeek(tt.input))
		})
	}
}

// TestStartOfPeriodAndLabel covers the month, quarter, and year buckets.
func TestStartOfPeriodAndLabel(t *testing.T) {
	when := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period        string
		expectedStart time.Time
		expectedLabel string
	}{
		{"week", time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC), "2026-08-17"},
		{"month", time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), "2026-08"},
		{"quarter", time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), "2026-Q3"},
		{"year", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "2026"},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			start := StartOfPeriod(when, tt.period)
			assert.Equal(t, tt.expectedStart, start)
			assert.Equal(t, tt.expectedLabel, PeriodLabel(start, tt.period))
		})
	}
}

// TestNextPeriod checks that advancing a bucket lands on the next bucket start.
func TestNextPeriod(t *testing.T) {
	start := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.December, 8, 0, 0, 0, 0, time.UTC), NextPeriod(start, "week"))
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), NextPeriod(start, "month"))
	assert.Equal(t, time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC), NextPeriod(start, "quarter"))
	assert.Equal(t, time.Date(2027, time.December, 1, 0, 0, 0, 0, time.UTC), NextPeriod(start, "year"))
}
