package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kherrera/gitattrib/schema"
)

// journalTable is the name of the table for the remote fetch journal.
// The table is created by migrations, not inline, so recording a run
// before `gitattrib migrate` has run returns an error.
const journalTable = "fetch_runs"

// FetchRun is one completed remote fetch, keyed by "owner/name".
// NextPage is only meaningful when HasMore is true.
type FetchRun struct {
	Repo       string
	Commits    int
	NextPage   int
	HasMore    bool
	FinishedAt time.Time
}

// JournalStore records remote fetch runs so a later invocation can
// resume pagination where the last one stopped.
type JournalStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

// NewJournalStore opens a journal store against the same database that
// backs the result cache. NoneBackend yields a no-op store.
func NewJournalStore(backend schema.DatabaseBackend, connStr string) (*JournalStore, error) {
	switch backend {
	case schema.NoneBackend:
		return &JournalStore{db: nil, backend: backend}, nil

	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open fetch journal at %q: %w", dbPath, err)
		}
		db.SetMaxOpenConns(1)
		return &JournalStore{db: db, backend: backend}, nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL fetch journal: %w", err)
		}
		return &JournalStore{db: db, backend: backend}, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL fetch journal: %w", err)
		}
		return &JournalStore{db: db, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported journal backend: %s", backend)
	}
}

// Record upserts the run keyed by its repo.
func (js *JournalStore) Record(run FetchRun) error {
	if js.db == nil {
		return nil
	}

	hasMore := 0
	if run.HasMore {
		hasMore = 1
	}

	quoted := quoteTableName(journalTable, js.backend)
	var query string
	switch js.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (repo, commits, next_page, has_more, finished_at) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE commits = new.commits, next_page = new.next_page, has_more = new.has_more, finished_at = new.finished_at`, quoted)

	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (repo, commits, next_page, has_more, finished_at) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (repo) DO UPDATE SET commits = EXCLUDED.commits, next_page = EXCLUDED.next_page, has_more = EXCLUDED.has_more, finished_at = EXCLUDED.finished_at`, quoted)

	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (repo, commits, next_page, has_more, finished_at) VALUES (?, ?, ?, ?, ?)`, quoted)
	}

	_, err := js.db.Exec(query, run.Repo, run.Commits, run.NextPage, hasMore, run.FinishedAt.Unix())
	return err
}

// LastRun returns the most recent recorded run for repo, if any.
func (js *JournalStore) LastRun(repo string) (FetchRun, bool, error) {
	if js.db == nil {
		return FetchRun{}, false, nil
	}

	quoted := quoteTableName(journalTable, js.backend)
	placeholder := "?"
	if js.backend == schema.PostgreSQLBackend {
		placeholder = "$1"
	}
	query := fmt.Sprintf(`SELECT commits, next_page, has_more, finished_at FROM %s WHERE repo = %s`, quoted, placeholder)

	var run FetchRun
	var hasMore int
	var finishedAt int64
	row := js.db.QueryRow(query, repo)
	if err := row.Scan(&run.Commits, &run.NextPage, &hasMore, &finishedAt); err != nil {
		if err == sql.ErrNoRows {
			return FetchRun{}, false, nil
		}
		return FetchRun{}, false, err
	}

	run.Repo = repo
	run.HasMore = hasMore != 0
	run.FinishedAt = time.Unix(finishedAt, 0).UTC()
	return run, true, nil
}

// Close closes the underlying DB connection.
func (js *JournalStore) Close() error {
	if js.db != nil {
		return js.db.Close()
	}
	return nil
}
