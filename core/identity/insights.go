package identity

import (
	"sort"
	"time"

	"github.com/kherrera/gitattrib/schema"
)

// maxSoloFiles bounds the listed solo files; the count is still exact.
const maxSoloFiles = 100

// ExtractInsights derives secondary signals from a contributor report.
func ExtractInsights(report *schema.ContributorReport) *schema.Insights {
	insights := &schema.Insights{}
	extractTimeSignals(insights, report.CommitTimes)
	extractSoloFiles(insights, report.FileTouches)
	return insights
}

// extractTimeSignals fills the weekday, hour and weekend fields.
func extractTimeSignals(insights *schema.Insights, times []time.Time) {
	if len(times) == 0 {
		return
	}

	var weekdayCounts [7]int
	var hourCounts [24]int
	for _, ts := range times {
		wd := ts.Weekday()
		weekdayCounts[wd]++
		hourCounts[ts.Hour()]++
		if wd == time.Saturday || wd == time.Sunday {
			insights.WeekendCommits++
		} else {
			insights.WeekdayCommits++
		}
	}

	busiestDay := time.Sunday
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if weekdayCounts[wd] > weekdayCounts[busiestDay] {
			busiestDay = wd
		}
	}
	insights.BusiestWeekday = busiestDay.String()

	for hour, count := range hourCounts {
		if count > hourCounts[insights.BusiestHour] {
			insights.BusiestHour = hour
		}
	}
}

// extractSoloFiles finds files only ever touched by one contributor.
func extractSoloFiles(insights *schema.Insights, touches []schema.FileTouch) {
	owners := make(map[string]map[string]bool)
	for _, t := range touches {
		if owners[t.Path] == nil {
			owners[t.Path] = make(map[string]bool)
		}
		owners[t.Path][t.CanonicalKey] = true
	}
	insights.TotalFiles = len(owners)

	var solo []string
	for path, authors := range owners {
		if len(authors) == 1 {
			solo = append(solo, path)
		}
	}
	sort.Strings(solo)
	insights.SoloFileCount = len(solo)
	if len(solo) > maxSoloFiles {
		solo = solo[:maxSoloFiles]
	}
	insights.SoloFiles = solo
}
