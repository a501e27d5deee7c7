package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/wordcrawler/internal/crawler"
	"github.com/nao1215/wordcrawler/internal/report"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the name of the database file inside the database directory.
const FileName = "wordcrawler.db"

// CrawlDB provides SQLite-based storage for crawl runs.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the path of the database file.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		seeds TEXT NOT NULL,
		implementation TEXT NOT NULL DEFAULT '',
		max_depth INTEGER NOT NULL DEFAULT 0,
		parallelism INTEGER NOT NULL DEFAULT 0,
		urls_visited INTEGER NOT NULL DEFAULT 0,
		word_counts TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON crawl_runs(started_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one stored crawl.
type Run struct {
	// ID identifies the run.
	ID uuid.UUID

	// StartedAt and FinishedAt bound the crawl.
	StartedAt  time.Time
	FinishedAt time.Time

	// Seeds are the starting URLs.
	Seeds []string

	// Implementation is the crawler that produced the run
	// ("parallel" or "sequential").
	Implementation string

	// MaxDepth and Parallelism are the limits the crawl ran with.
	MaxDepth    int
	Parallelism int

	// URLsVisited and WordCounts are the crawl result.
	URLsVisited int
	WordCounts  []crawler.WordCount
}

// NewRun creates a Run with a fresh random ID.
func NewRun(seeds []string, startedAt time.Time) *Run {
	return &Run{
		ID:        uuid.New(),
		StartedAt: startedAt,
		Seeds:     seeds,
	}
}

// SetResult copies result into the run.
func (r *Run) SetResult(result *crawler.Result) {
	if result == nil {
		return
	}
	r.URLsVisited = result.URLsVisited
	r.WordCounts = result.WordCounts
}

// Result returns the stored crawl result.
func (r *Run) Result() *crawler.Result {
	return &crawler.Result{
		WordCounts:  r.WordCounts,
		URLsVisited: r.URLsVisited,
	}
}

// Duration returns how long the crawl took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SaveRun inserts run, replacing a stored run with the same ID.
// A zero ID is replaced with a fresh one.
func (cdb *CrawlDB) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	seedsJSON, err := json.Marshal(run.Seeds)
	if err != nil {
		return fmt.Errorf("failed to serialize seeds: %w", err)
	}
	countsJSON, err := report.MarshalWordCounts(run.WordCounts)
	if err != nil {
		return fmt.Errorf("failed to serialize word counts: %w", err)
	}

	query := `
	INSERT INTO crawl_runs (id, started_at, finished_at, seeds, implementation, max_depth, parallelism, urls_visited, word_counts)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		started_at = excluded.started_at,
		finished_at = excluded.finished_at,
		seeds = excluded.seeds,
		implementation = excluded.implementation,
		max_depth = excluded.max_depth,
		parallelism = excluded.parallelism,
		urls_visited = excluded.urls_visited,
		word_counts = excluded.word_counts
	`

	_, err = cdb.db.ExecContext(ctx, query,
		run.ID.String(),
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		string(seedsJSON),
		run.Implementation,
		run.MaxDepth,
		run.Parallelism,
		run.URLsVisited,
		string(countsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save crawl run: %w", err)
	}

	return nil
}

// GetRun retrieves the run with the given ID.
// ErrRunNotFound is returned when there is none.
func (cdb *CrawlDB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
	SELECT id, started_at, finished_at, seeds, implementation, max_depth, parallelism, urls_visited, word_counts
	FROM crawl_runs
	WHERE id = ?
	`

	var (
		run        Run
		rawID      string
		startedAt  string
		finishedAt string
		seedsJSON  string
		countsJSON string
	)
	err := cdb.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID,
		&startedAt,
		&finishedAt,
		&seedsJSON,
		&run.Implementation,
		&run.MaxDepth,
		&run.Parallelism,
		&run.URLsVisited,
		&countsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl run: %w", err)
	}

	if run.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("failed to parse run id: %w", err)
	}
	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)

	if err := json.Unmarshal([]byte(seedsJSON), &run.Seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seeds: %w", err)
	}
	if run.WordCounts, err = report.UnmarshalWordCounts([]byte(countsJSON)); err != nil {
		return nil, fmt.Errorf("failed to parse word counts: %w", err)
	}

	return &run, nil
}

// RunSummary contains summary information about a stored run.
// This is used for listing history without loading the word counts.
type RunSummary struct {
	ID          uuid.UUID
	StartedAt   time.Time
	FinishedAt  time.Time
	Seeds       []string
	URLsVisited int
}

// ListRuns returns the most recent runs, newest first.
// A non-positive limit returns every run.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, started_at, finished_at, seeds, urls_visited
	FROM crawl_runs
	ORDER BY started_at DESC, id
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawl runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var (
			summary    RunSummary
			rawID      string
			startedAt  string
			finishedAt string
			seedsJSON  string
		)
		if err := rows.Scan(&rawID, &startedAt, &finishedAt, &seedsJSON, &summary.URLsVisited); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}

		if summary.ID, err = uuid.Parse(rawID); err != nil {
			continue // Skip rows written by something else
		}
		summary.StartedAt = parseTimestamp(startedAt)
		summary.FinishedAt = parseTimestamp(finishedAt)
		if err := json.Unmarshal([]byte(seedsJSON), &summary.Seeds); err != nil {
			summary.Seeds = nil
		}

		results = append(results, summary)
	}

	return results, rows.Err()
}

// DeleteRun removes the run with the given ID.
// ErrRunNotFound is returned when there is none.
func (cdb *CrawlDB) DeleteRun(ctx context.Context, id uuid.UUID) error {
	result, err := cdb.db.ExecContext(ctx, "DELETE FROM crawl_runs WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete crawl run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete crawl run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// formatTimestamp stores times in UTC with a fixed width so that text
// ordering matches time ordering.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02T15:04:05.000000000Z", // formatTimestamp
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
