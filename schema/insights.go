package schema

// Insights holds secondary signals derived from timeline and file-touch
// data. All fields are best-effort; zero values mean "no signal".
type Insights struct {
	BusiestWeekday string   `json:"busiestWeekday,omitempty"` // e.g. "Tuesday"
	BusiestHour    int      `json:"busiestHour"`              // 0-23, local to commit timestamps
	WeekdayCommits int      `json:"weekdayCommits"`
	WeekendCommits int      `json:"weekendCommits"`
	SoloFiles      []string `json:"soloFiles,omitempty"` // files touched by exactly one contributor
	SoloFileCount  int      `json:"soloFileCount"`
	TotalFiles     int      `json:"totalFiles"`
}
