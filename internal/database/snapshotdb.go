package database

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/casewatch/internal/model"
)

var (
	// ErrNotFound is returned when a history entry does not exist.
	ErrNotFound = errors.New("history entry not found")

	// ErrNotDatabase is returned when the file at the database path exists
	// but is not an SQLite database.
	ErrNotDatabase = errors.New("file is not a casewatch snapshot database")
)

// sqliteHeader starts every non-empty SQLite database file.
var sqliteHeader = []byte("SQLite format 3\x00")

// SnapshotDB provides SQLite-based storage for status snapshots.
type SnapshotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the SQLite database file.
	path string

	// now returns the time recorded with each Store.
	now func() time.Time
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file and its parent directory
	// if they don't exist. Read-only commands set it to false.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// BusyTimeout is how long a connection waits for a lock held by another
	// process. Zero disables waiting.
	BusyTimeout time.Duration
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		BusyTimeout:       5 * time.Second,
	}
}

// HistoryRecord is one stored run.
type HistoryRecord struct {
	ID      int64              `json:"id"`
	SavedAt time.Time          `json:"saved_at"`
	Changed bool               `json:"changed"`
	Record  model.StatusRecord `json:"record"`
}

// Open opens or creates a SnapshotDB at path.
// If CreateIfNotExists is false and the file doesn't exist, an error is returned.
func Open(path string, opts Options) (*SnapshotDB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", path, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if err := checkHeader(path); err != nil {
		return nil, err
	}

	// mode=rw keeps read-only commands from creating an empty file.
	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}
	if opts.BusyTimeout > 0 {
		dsn += fmt.Sprintf("&_pragma=busy_timeout(%d)", opts.BusyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{
		db:   db,
		path: path,
		now:  time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// checkHeader rejects an existing non-empty file that is not SQLite.
// A missing or empty file is accepted; SQLite initialises it.
func checkHeader(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is the configured database file
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read database file: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	n, err := io.ReadFull(f, header)
	switch {
	case n == 0:
		return nil
	case err != nil && !errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("failed to read database file: %w", err)
	case !bytes.Equal(header[:n], sqliteHeader):
		return fmt.Errorf("%w: %s", ErrNotDatabase, path)
	}
	return nil
}

// Close closes the database connection.
func (sdb *SnapshotDB) Close() error {
	return sdb.db.Close()
}

// Path returns the database file path.
func (sdb *SnapshotDB) Path() string {
	return sdb.path
}

func (sdb *SnapshotDB) createTables() error {
	schema := `
	-- The latest merged record; never more than one row
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		record_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	-- Every stored record, newest last
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		saved_at TEXT NOT NULL,
		source TEXT NOT NULL,
		infected INTEGER NOT NULL,
		released INTEGER NOT NULL,
		dead INTEGER NOT NULL,
		changed INTEGER NOT NULL DEFAULT 0,
		record_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_saved_at ON history(saved_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Load returns the stored snapshot, or an absent one if nothing has been
// stored yet.
func (sdb *SnapshotDB) Load(ctx context.Context) (model.Snapshot, error) {
	query := `SELECT record_json, saved_at FROM snapshot WHERE id = 1`

	var recordJSON, savedAt string
	err := sdb.db.QueryRowContext(ctx, query).Scan(&recordJSON, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AbsentSnapshot(), nil
	}
	if err != nil {
		return model.AbsentSnapshot(), fmt.Errorf("failed to load snapshot: %w", err)
	}

	var record model.StatusRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return model.AbsentSnapshot(), fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return model.PresentSnapshot(record, parseTimestamp(savedAt)), nil
}

// Store overwrites the snapshot with record and appends it to the history,
// in a single transaction.
func (sdb *SnapshotDB) Store(ctx context.Context, record *model.StatusRecord, changed bool) error {
	if record == nil {
		return errors.New("failed to store snapshot: record is nil")
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}
	savedAt := sdb.now().UTC().Format(time.RFC3339Nano)

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	upsert := `
	INSERT INTO snapshot (id, record_json, saved_at)
	VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		record_json = excluded.record_json,
		saved_at = excluded.saved_at
	`
	if _, err := tx.ExecContext(ctx, upsert, string(recordJSON), savedAt); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	insert := `
	INSERT INTO history (saved_at, source, infected, released, dead, changed, record_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insert,
		savedAt,
		record.Source,
		record.Infected,
		record.Released,
		record.Dead,
		changed,
		string(recordJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// History returns up to limit stored runs, newest first.
// A limit of zero or less returns every run.
func (sdb *SnapshotDB) History(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	query := `
	SELECT id, saved_at, changed, record_json
	FROM history
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := sdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	results := make([]HistoryRecord, 0)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *entry)
	}

	return results, rows.Err()
}

// HistoryEntry returns a single stored run by ID.
func (sdb *SnapshotDB) HistoryEntry(ctx context.Context, id int64) (*HistoryRecord, error) {
	query := `
	SELECT id, saved_at, changed, record_json
	FROM history
	WHERE id = ?
	`

	entry, err := scanHistory(sdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHistory(row scanner) (*HistoryRecord, error) {
	var entry HistoryRecord
	var savedAt, recordJSON string

	if err := row.Scan(&entry.ID, &savedAt, &entry.Changed, &recordJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}

	if err := json.Unmarshal([]byte(recordJSON), &entry.Record); err != nil {
		return nil, fmt.Errorf("failed to parse history record %d: %w", entry.ID, err)
	}
	entry.SavedAt = parseTimestamp(savedAt)

	return &entry, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp tries each known format and returns the zero time if none
// matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
