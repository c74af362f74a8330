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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/cluescrape/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "cluescrape.db"

var (
	// ErrDatabaseNotFound is returned by Open when the file is missing and
	// creation was not requested.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrRunNotFound is returned when no stored run matches the query.
	ErrRunNotFound = errors.New("run not found")
)

// HistoryDB stores finished crawl runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
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

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one finished crawl each, with the corpus as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		letters TEXT NOT NULL,
		clue_count INTEGER NOT NULL,
		answer_count INTEGER NOT NULL,
		corpus_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata contains summary information about a stored run.
// It is used for listing history without decoding the corpus.
type RunMetadata struct {
	// ID is the unique identifier of the run.
	ID int64

	// BaseURL is the letter index the run crawled.
	BaseURL string

	// Timestamp is when the run was stored (UTC).
	Timestamp time.Time

	// Letters are the crawled letters in order.
	Letters []string

	// Clues is the number of clue results in the corpus.
	Clues int

	// Answers is the number of answer records in the corpus.
	Answers int
}

// SaveRun stores a finished corpus and returns the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, baseURL string, corpus *model.Corpus) (int64, error) {
	if corpus == nil {
		corpus = model.NewCorpus()
	}

	corpusJSON, err := json.Marshal(corpus)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize corpus: %w", err)
	}
	lettersJSON, err := json.Marshal(corpus.Letters())
	if err != nil {
		return 0, fmt.Errorf("failed to serialize letters: %w", err)
	}

	stats := corpus.Stats()

	query := `
	INSERT INTO runs (base_url, letters, clue_count, answer_count, corpus_json)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		baseURL,
		string(lettersJSON),
		stats.Clues,
		stats.Answers,
		string(corpusJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// ListRuns returns metadata for every stored run, newest first.
func (hdb *HistoryDB) ListRuns(ctx context.Context) ([]RunMetadata, error) {
	query := `
	SELECT id, base_url, timestamp, letters, clue_count, answer_count
	FROM runs
	ORDER BY id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunMetadata, 0)
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var lettersJSON string

		if err := rows.Scan(&meta.ID, &meta.BaseURL, &timestamp, &lettersJSON, &meta.Clues, &meta.Answers); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		if err := json.Unmarshal([]byte(lettersJSON), &meta.Letters); err != nil {
			meta.Letters = nil
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun retrieves the corpus of a stored run.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*model.Corpus, error) {
	query := `
	SELECT corpus_json FROM runs
	WHERE id = ?
	`

	var corpusJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&corpusJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return decodeCorpus(corpusJSON)
}

// GetLatestRun retrieves the ID and corpus of the most recent run.
func (hdb *HistoryDB) GetLatestRun(ctx context.Context) (int64, *model.Corpus, error) {
	query := `
	SELECT id, corpus_json FROM runs
	ORDER BY id DESC
	LIMIT 1
	`

	var id int64
	var corpusJSON string
	err := hdb.db.QueryRowContext(ctx, query).Scan(&id, &corpusJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrRunNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	corpus, err := decodeCorpus(corpusJSON)
	if err != nil {
		return 0, nil, err
	}
	return id, corpus, nil
}

// DeleteRun removes a stored run.
func (hdb *HistoryDB) DeleteRun(ctx context.Context, id int64) error {
	result, err := hdb.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return nil
}

func decodeCorpus(data string) (*model.Corpus, error) {
	corpus := model.NewCorpus()
	if err := json.Unmarshal([]byte(data), corpus); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	return corpus, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
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
