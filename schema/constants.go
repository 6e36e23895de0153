package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Period represents a timeline bucketing granularity.
	Period string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// ErrorCode tags a failure class in abort payloads and stream events.
	ErrorCode string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All timeline periods supported.
const (
	WeekPeriod    Period = "week" // default, Monday-anchored
	MonthPeriod   Period = "month"
	QuarterPeriod Period = "quarter"
	YearPeriod    Period = "year"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Error codes surfaced to callers and remote observers. Aborts always
// carry one of these; per-item failures become warnings instead.
const (
	CodeNotARepository    ErrorCode = "not_a_repository"
	CodeProcessTimeout    ErrorCode = "process_timeout"
	CodeProcessFailure    ErrorCode = "process_failure"
	CodeRateLimitLow      ErrorCode = "rate_limit_low"
	CodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"
	CodeEmptyRepository   ErrorCode = "empty_repository"
	CodeNoNonMergeCommits ErrorCode = "no_non_merge_commits"
	CodeInvalidCommitData ErrorCode = "invalid_commit_data"
	CodeNetworkTimeout    ErrorCode = "network_timeout"
	CodeInternal          ErrorCode = "internal"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidPeriods lists all valid timeline periods.
var ValidPeriods = map[Period]struct{}{
	WeekPeriod:    {},
	MonthPeriod:   {},
	QuarterPeriod: {},
	YearPeriod:    {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
