package schema

import "time"

// CacheStatus summarizes the state of a result cache store.
type CacheStatus struct {
	Backend    DatabaseBackend `json:"backend"`
	Connected  bool            `json:"connected"`
	Entries    int             `json:"entries"`
	SizeBytes  int64           `json:"sizeBytes"`
	OldestItem time.Time       `json:"oldestItem,omitempty"`
	NewestItem time.Time       `json:"newestItem,omitempty"`
}
