package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/query"
)

// FileName is the name of the history database inside its directory.
const FileName = "qmtools.db"

// FetchDB stores fetch sessions and their records.
type FetchDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures FetchDB behavior.
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

// Open opens or creates a FetchDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// wrapping model.ErrNotFound is returned.
func Open(dbDir string, opts Options) (*FetchDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: database not found at %s", model.ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
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

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	fdb := &FetchDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := fdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return fdb, nil
}

// Path returns the database file path.
func (fdb *FetchDB) Path() string {
	return fdb.dbPath
}

// Close closes the database connection.
func (fdb *FetchDB) Close() error {
	return fdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (fdb *FetchDB) createTables() error {
	schema := `
	-- One row per fetch session
	CREATE TABLE IF NOT EXISTS fetch_sessions (
		id TEXT PRIMARY KEY,
		modality TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		duplicates INTEGER NOT NULL DEFAULT 0,
		missing_checksum INTEGER NOT NULL DEFAULT 0,
		query_url TEXT,
		criteria TEXT,
		query_digest TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_modality ON fetch_sessions(modality);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON fetch_sessions(started_at);
	CREATE INDEX IF NOT EXISTS idx_sessions_digest ON fetch_sessions(query_digest);

	-- Records of a session in fetch order
	CREATE TABLE IF NOT EXISTS fetched_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		checksum TEXT,
		record_json TEXT NOT NULL,
		UNIQUE(session_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_records_checksum ON fetched_records(checksum);
	`

	_, err := fdb.db.ExecContext(context.Background(), schema)
	return err
}

// Session is the stored summary of one fetch session.
type Session struct {
	ID              string         `json:"id"`
	Modality        model.Modality `json:"modality"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	RecordCount     int            `json:"record_count"`
	Pages           int            `json:"pages"`
	Duplicates      int            `json:"duplicates"`
	MissingChecksum int            `json:"missing_checksum"`
	QueryURL        string         `json:"query_url"`
	Criteria        query.Criteria `json:"criteria,omitempty"`
	QueryDigest     string         `json:"query_digest"`
}

// QueryDigest identifies a query by modality and criteria, independent of
// paging, so sessions repeating the same query share a digest.
func QueryDigest(modality model.Modality, where string) string {
	sum := sha3.Sum256([]byte(modality.String() + "\n" + where))
	return hex.EncodeToString(sum[:])
}

// SaveSession stores s and its records in one transaction.
// An empty s.ID is replaced by a new UUID. The stored ID is returned.
func (fdb *FetchDB) SaveSession(ctx context.Context, s *Session, records []model.Record) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.RecordCount = len(records)

	criteriaJSON, err := json.Marshal(s.Criteria)
	if err != nil {
		return "", fmt.Errorf("failed to serialize criteria: %w", err)
	}

	tx, err := fdb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO fetch_sessions (id, modality, started_at, finished_at, record_count, pages,
		duplicates, missing_checksum, query_url, criteria, query_digest)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Modality.String(), formatTimestamp(s.StartedAt), formatTimestamp(s.FinishedAt),
		s.RecordCount, s.Pages, s.Duplicates, s.MissingChecksum,
		s.QueryURL, string(criteriaJSON), s.QueryDigest,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO fetched_records (session_id, position, checksum, record_json)
	VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		recJSON, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("failed to serialize record %d: %w", i, err)
		}
		var checksum sql.NullString
		if sum, ok := rec.Checksum(model.DefaultChecksumField); ok {
			checksum = sql.NullString{String: sum, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, s.ID, i, checksum, string(recJSON)); err != nil {
			return "", fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}
	return s.ID, nil
}

const sessionColumns = `id, modality, started_at, finished_at, record_count, pages,
	duplicates, missing_checksum, query_url, criteria, query_digest`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		s                  Session
		modality           string
		started, finished  string
		queryURL, criteria sql.NullString
		digest             sql.NullString
	)
	err := row.Scan(&s.ID, &modality, &started, &finished, &s.RecordCount, &s.Pages,
		&s.Duplicates, &s.MissingChecksum, &queryURL, &criteria, &digest)
	if err != nil {
		return nil, err
	}
	s.Modality = model.Modality(modality)
	s.StartedAt = parseTimestamp(started)
	s.FinishedAt = parseTimestamp(finished)
	s.QueryURL = queryURL.String
	s.QueryDigest = digest.String
	if criteria.Valid && criteria.String != "" && criteria.String != "null" {
		if err := json.Unmarshal([]byte(criteria.String), &s.Criteria); err != nil {
			return nil, fmt.Errorf("failed to parse criteria of session %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

// GetSession returns the session with id, or nil if none exists.
func (fdb *FetchDB) GetSession(ctx context.Context, id string) (*Session, error) {
	row := fdb.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM fetch_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return s, nil
}

// ListSessions returns stored sessions, most recent first.
// An empty modality lists sessions of every modality. A positive limit caps
// the number of sessions returned.
func (fdb *FetchDB) ListSessions(ctx context.Context, modality model.Modality, limit int) ([]Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM fetch_sessions`
	var args []any
	if modality != "" {
		q += ` WHERE modality = ?`
		args = append(args, modality.String())
	}
	q += ` ORDER BY started_at DESC, id`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := fdb.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// GetSessionRecords returns the records of session id in fetch order.
func (fdb *FetchDB) GetSessionRecords(ctx context.Context, id string) ([]model.Record, error) {
	rows, err := fdb.db.QueryContext(ctx,
		`SELECT record_json FROM fetched_records WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query records of session %s: %w", id, err)
	}
	defer rows.Close()

	records := make([]model.Record, 0)
	for rows.Next() {
		var recJSON string
		if err := rows.Scan(&recJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var rec model.Record
		if err := json.Unmarshal([]byte(recJSON), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountChecksum returns how many stored sessions of modality contain a
// record with checksum.
func (fdb *FetchDB) CountChecksum(ctx context.Context, modality model.Modality, checksum string) (int, error) {
	var n int
	err := fdb.db.QueryRowContext(ctx, `
	SELECT COUNT(DISTINCT r.session_id)
	FROM fetched_records r JOIN fetch_sessions s ON s.id = r.session_id
	WHERE s.modality = ? AND r.checksum = ?`, modality.String(), checksum).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count checksum: %w", err)
	}
	return n, nil
}

// DeleteSession removes a session and its records.
// Deleting an unknown id is not an error.
func (fdb *FetchDB) DeleteSession(ctx context.Context, id string) error {
	tx, err := fdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fetched_records WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete records of session %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM fetch_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return tx.Commit()
}

// storedTimeFormat has a fixed width so stored timestamps sort as text.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimeFormat)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05", // ISO 8601 without timezone
	"2006-01-02 15:04:05.999",
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
