package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/tidyspace/internal/models"
)

// SQLiteStore keeps records in a SQLite database. Truncation runs after every insert.
type SQLiteStore struct {
	db        *sql.DB
	dbPath    string
	retention int
}

// OpenSQLite opens or creates the database at dbPath and applies migrations.
func OpenSQLite(dbPath string, retention int) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: dbPath, retention: retention}
	if err := s.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return s, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

func (s *SQLiteStore) Append(rec models.ActionRecord) error {
	if rec.ID == "" {
		rec.ID = NewID()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
INSERT INTO action_records
    (id, run_id, timestamp, action, source, destination, category, reason, dry_run, success, partial, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RunID, rec.Timestamp.UTC().Format(time.RFC3339Nano), string(rec.Action),
		rec.Source, rec.Destination, rec.Category, rec.Reason,
		rec.DryRun, rec.Success, rec.Partial, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	if s.retention > 0 {
		_, err = tx.Exec(`
DELETE FROM action_records
WHERE seq NOT IN (SELECT seq FROM action_records ORDER BY seq DESC LIMIT ?)`, s.retention)
		if err != nil {
			return fmt.Errorf("truncate history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Records() ([]models.ActionRecord, error) {
	return s.query(`
SELECT id, run_id, timestamp, action, source, destination, category, reason, dry_run, success, partial, error
FROM action_records ORDER BY seq ASC`)
}

func (s *SQLiteStore) Recent(n int) ([]models.ActionRecord, error) {
	if n <= 0 {
		return s.Records()
	}
	return s.query(`
SELECT id, run_id, timestamp, action, source, destination, category, reason, dry_run, success, partial, error
FROM (SELECT * FROM action_records ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC`, n)
}

func (s *SQLiteStore) Handled(path string) (bool, error) {
	var count int
	err := s.db.QueryRow(`
SELECT COUNT(*) FROM action_records
WHERE destination = ? AND success = 1 AND dry_run = 0 AND action != 'keep'`, path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query handled: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) query(q string, args ...any) ([]models.ActionRecord, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []models.ActionRecord
	for rows.Next() {
		var (
			rec       models.ActionRecord
			runID     sql.NullString
			timestamp string
			action    string
			dest      sql.NullString
			reason    sql.NullString
			errMsg    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &runID, &timestamp, &action, &rec.Source, &dest,
			&rec.Category, &reason, &rec.DryRun, &rec.Success, &rec.Partial, &errMsg); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
		}
		rec.Timestamp = ts.UTC()
		rec.RunID = runID.String
		rec.Action = models.Disposition(action)
		rec.Reason = reason.String
		if dest.Valid {
			rec.Destination = &dest.String
		}
		if errMsg.Valid {
			rec.Error = &errMsg.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
