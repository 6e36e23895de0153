package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kherrera/gitattrib/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 50
	MaxResultLimit     = 1000
	DefaultMaxCommits  = 5000
)

// DefaultWorkers is the default blame worker pool size. Bounded below
// by 2 so small machines still overlap subprocess I/O, and above by 8
// so a large host does not fork-bomb git.
var DefaultWorkers = min(max(2, runtime.GOMAXPROCS(0)), 8)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for an analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string

	// History filters, passed through to git.
	Since         time.Time
	Until         time.Time
	Branch        string
	IncludeMerges bool

	// Blame engine.
	Workers    int
	Blame      BlameFlags
	UseMailmap bool

	// Identity resolution.
	IncludeBots bool

	// Timeline.
	Period   schema.Period
	FillGaps bool

	// Remote fetch.
	RemoteRepo string // "owner/name"
	Token      string
	MaxCommits int
	StartPage  int

	// Progress server.
	ServeAddr string

	// Output.
	Output      schema.OutputMode
	OutputFile  string
	ResultLimit int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	// Result cache.
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// Clone returns a copy of the config safe for per-request mutation.
// All fields are value types, so a shallow copy is a full copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ConfigRawInput holds the raw inputs from all sources (flags, env,
// config file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// Set manually from positional args, so no tag.
	RepoPathStr string

	Since          string `mapstructure:"since"`
	Until          string `mapstructure:"until"`
	Branch         string `mapstructure:"branch"`
	IncludeMerges  bool   `mapstructure:"include-merges"`
	Workers        int    `mapstructure:"workers"`
	NoWhitespace   bool   `mapstructure:"no-ignore-whitespace"`
	NoMoves        bool   `mapstructure:"no-detect-moves"`
	NoCopies       bool   `mapstructure:"no-detect-copies"`
	NoMailmap      bool   `mapstructure:"no-mailmap"`
	IncludeBots    bool   `mapstructure:"include-bots"`
	Period         string `mapstructure:"period"`
	FillGaps       bool   `mapstructure:"fill-gaps"`
	Repo           string `mapstructure:"repo"`
	Token          string `mapstructure:"token"`
	MaxCommits     int    `mapstructure:"max-commits"`
	StartPage      int    `mapstructure:"start-page"`
	Addr           string `mapstructure:"addr"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and populates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return resolveRepoPath(ctx, cfg, client, input)
}

// validateSimpleInputs processes and validates all non-path fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Branch = strings.TrimSpace(input.Branch)
	cfg.IncludeMerges = input.IncludeMerges
	cfg.IncludeBots = input.IncludeBots
	cfg.FillGaps = input.FillGaps
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.RemoteRepo = strings.TrimSpace(input.Repo)
	cfg.Token = input.Token
	cfg.StartPage = input.StartPage
	cfg.ServeAddr = input.Addr

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.MaxCommits < 0 {
		return fmt.Errorf("max-commits cannot be negative (received %d)", input.MaxCommits)
	}
	cfg.MaxCommits = input.MaxCommits
	if cfg.MaxCommits == 0 {
		cfg.MaxCommits = DefaultMaxCommits
	}

	cfg.Blame = BlameFlags{
		IgnoreWhitespace: !input.NoWhitespace,
		DetectMoves:      !input.NoMoves,
		DetectCopies:     !input.NoCopies,
	}
	cfg.UseMailmap = !input.NoMailmap

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.Period = schema.Period(strings.ToLower(input.Period))
	if _, ok := schema.ValidPeriods[cfg.Period]; !ok {
		return fmt.Errorf("invalid period '%s'. must be week, month, quarter, year", input.Period)
	}

	if cfg.RemoteRepo != "" {
		parts := strings.Split(cfg.RemoteRepo, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("invalid repo '%s', expected owner/name", cfg.RemoteRepo)
		}
	}

	return nil
}

// processTimeRange handles date parsing and time range validation.
// Both absolute ISO-8601 and relative "N [units] ago" forms are accepted.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()

	parse := func(s string) (time.Time, error) {
		if t, err := time.Parse(DateTimeFormat, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}
		return ParseRelativeTime(s, now)
	}

	if input.Since != "" {
		t, err := parse(input.Since)
		if err != nil {
			return fmt.Errorf("invalid since date '%s'. Expected ISO8601 or 'N [units] ago': %w", input.Since, err)
		}
		cfg.Since = t
	}
	if input.Until != "" {
		t, err := parse(input.Until)
		if err != nil {
			return fmt.Errorf("invalid until date '%s'. Expected ISO8601 or 'N [units] ago': %w", input.Until, err)
		}
		cfg.Until = t
	}

	if !cfg.Since.IsZero() && !cfg.Until.IsZero() && cfg.Since.After(cfg.Until) {
		return fmt.Errorf("since (%s) cannot be after until (%s)", cfg.Since.Format(DateTimeFormat), cfg.Until.Format(DateTimeFormat))
	}
	return nil
}

// ValidateDatabaseConnectionString checks that the connection string
// carries the minimum shape the backend driver needs.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the cache backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// resolveRepoPath resolves and verifies the local repository path.
// Remote-only commands (fetch, serve) skip verification.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if cfg.RemoteRepo != "" {
		return nil
	}

	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = filepath.Clean(absPath)

	if _, err := os.Stat(cfg.RepoPath); err != nil {
		return fmt.Errorf("%q: %w", cfg.RepoPath, ErrNotARepository)
	}
	return client.VerifyRepository(ctx, cfg.RepoPath)
}
