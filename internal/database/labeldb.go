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

	"github.com/nao1215/labelkit/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "labelkit.db"

// ErrNotFound is returned when a database file is required but missing.
var ErrNotFound = errors.New("database not found")

// LabelDB provides SQLite-based storage for labels and hazard codes.
type LabelDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures LabelDB behavior.
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

// Open opens or creates a LabelDB in dbDir.
// With CreateIfNotExists unset, a missing file yields ErrNotFound.
func Open(dbDir string, opts Options) (*LabelDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create the file, mode=rwc allows it.
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

	ldb := &LabelDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ldb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ldb, nil
}

// Close closes the database connection.
func (ldb *LabelDB) Close() error {
	return ldb.db.Close()
}

// Path returns the database file path.
func (ldb *LabelDB) Path() string {
	return ldb.dbPath
}

func (ldb *LabelDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS labels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reagent TEXT NOT NULL UNIQUE,
		markup TEXT,
		label TEXT,
		plain_text TEXT,
		digest TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS hazards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reagent TEXT NOT NULL,
		code TEXT NOT NULL,
		phrase TEXT NOT NULL DEFAULT '',
		UNIQUE(reagent, code, phrase)
	);

	CREATE INDEX IF NOT EXISTS idx_hazards_reagent ON hazards(reagent);
	CREATE INDEX IF NOT EXISTS idx_hazards_code ON hazards(code);

	-- One row per processing run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		total INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := ldb.db.ExecContext(context.Background(), schema)
	return err
}

// LabelRecord is a stored label.
type LabelRecord struct {
	ID        int64     `json:"id"`
	Reagent   string    `json:"reagent"`
	Markup    string    `json:"markup"`
	Label     string    `json:"label"`
	PlainText string    `json:"plain_text"`
	Digest    string    `json:"digest"`
	Timestamp time.Time `json:"timestamp"`
}

// HazardRecord is one stored hazard code of a reagent.
type HazardRecord struct {
	Reagent string `json:"reagent"`
	Code    string `json:"code"`
	Phrase  string `json:"phrase"`
}

// SaveLabel inserts or replaces the label of a reagent.
func (ldb *LabelDB) SaveLabel(ctx context.Context, record *LabelRecord) error {
	if _, err := ldb.db.ExecContext(ctx, upsertLabelQuery,
		record.Reagent,
		record.Markup,
		record.Label,
		record.PlainText,
		record.Digest,
	); err != nil {
		return fmt.Errorf("failed to save label: %w", err)
	}
	return nil
}

const upsertLabelQuery = `
	INSERT INTO labels (reagent, markup, label, plain_text, digest)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(reagent) DO UPDATE SET
		markup = excluded.markup,
		label = excluded.label,
		plain_text = excluded.plain_text,
		digest = excluded.digest,
		timestamp = CURRENT_TIMESTAMP
	`

// GetLabel returns the stored label of a reagent, or nil if none is stored.
func (ldb *LabelDB) GetLabel(ctx context.Context, reagent string) (*LabelRecord, error) {
	query := `
	SELECT id, reagent, markup, label, plain_text, digest, timestamp
	FROM labels
	WHERE reagent = ?
	`

	var record LabelRecord
	var timestamp string

	err := ldb.db.QueryRowContext(ctx, query, reagent).Scan(
		&record.ID,
		&record.Reagent,
		&record.Markup,
		&record.Label,
		&record.PlainText,
		&record.Digest,
		&timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}

	record.Timestamp = parseTimestamp(timestamp)
	return &record, nil
}

// GetDigest returns the stored digest of a reagent's label and whether
// a label is stored.
func (ldb *LabelDB) GetDigest(ctx context.Context, reagent string) (string, bool, error) {
	var digest string
	err := ldb.db.QueryRowContext(ctx,
		"SELECT digest FROM labels WHERE reagent = ?", reagent,
	).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get digest: %w", err)
	}
	return digest, true, nil
}

// DeleteLabel removes a reagent's label and hazard codes.
// Deleting an unknown reagent is not an error.
func (ldb *LabelDB) DeleteLabel(ctx context.Context, reagent string) error {
	tx, err := ldb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM labels WHERE reagent = ?", reagent); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM hazards WHERE reagent = ?", reagent); err != nil {
		return fmt.Errorf("failed to delete hazards: %w", err)
	}

	return tx.Commit()
}

// ListReagents returns the names of all reagents with a stored label,
// sorted by name.
func (ldb *LabelDB) ListReagents(ctx context.Context) ([]string, error) {
	return ldb.queryStrings(ctx, "SELECT reagent FROM labels ORDER BY reagent")
}

// SaveHazards replaces the hazard codes of a reagent.
func (ldb *LabelDB) SaveHazards(ctx context.Context, reagent string, hazards []HazardRecord) error {
	tx, err := ldb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceHazards(ctx, tx, reagent, hazards); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceHazards(ctx context.Context, tx *sql.Tx, reagent string, hazards []HazardRecord) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM hazards WHERE reagent = ?", reagent); err != nil {
		return fmt.Errorf("failed to clear hazards: %w", err)
	}

	for _, h := range hazards {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO hazards (reagent, code, phrase) VALUES (?, ?, ?)",
			reagent, h.Code, h.Phrase,
		); err != nil {
			return fmt.Errorf("failed to insert hazard: %w", err)
		}
	}
	return nil
}

// GetHazards returns the stored hazard codes of a reagent ordered by
// code and phrase.
func (ldb *LabelDB) GetHazards(ctx context.Context, reagent string) ([]HazardRecord, error) {
	query := `
	SELECT reagent, code, phrase FROM hazards
	WHERE reagent = ?
	ORDER BY code, phrase
	`

	rows, err := ldb.db.QueryContext(ctx, query, reagent)
	if err != nil {
		return nil, fmt.Errorf("failed to get hazards: %w", err)
	}
	defer rows.Close()

	var results []HazardRecord
	for rows.Next() {
		var h HazardRecord
		if err := rows.Scan(&h.Reagent, &h.Code, &h.Phrase); err != nil {
			return nil, fmt.Errorf("failed to scan hazard: %w", err)
		}
		results = append(results, h)
	}

	return results, rows.Err()
}

// HazardCodes returns the distinct codes of a reagent, sorted.
func (ldb *LabelDB) HazardCodes(ctx context.Context, reagent string) ([]string, error) {
	return ldb.queryStrings(ctx,
		"SELECT DISTINCT code FROM hazards WHERE reagent = ? ORDER BY code", reagent)
}

// FindByCode returns the reagents carrying a code, sorted.
func (ldb *LabelDB) FindByCode(ctx context.Context, code string) ([]string, error) {
	return ldb.queryStrings(ctx,
		"SELECT DISTINCT reagent FROM hazards WHERE code = ? ORDER BY reagent", code)
}

// SaveReport stores the label and hazard codes of a processed reagent
// in one transaction.
func (ldb *LabelDB) SaveReport(ctx context.Context, report *model.LabelReport) error {
	tx, err := ldb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertLabelQuery,
		report.Reagent,
		report.Markup,
		report.Label,
		report.PlainText,
		report.Digest,
	); err != nil {
		return fmt.Errorf("failed to save label: %w", err)
	}

	hazards := make([]HazardRecord, 0, len(report.Matches))
	for _, m := range report.Matches {
		hazards = append(hazards, HazardRecord{Reagent: report.Reagent, Code: m.Code, Phrase: m.Phrase})
	}
	if err := replaceHazards(ctx, tx, report.Reagent, hazards); err != nil {
		return err
	}

	return tx.Commit()
}

// RunRecord is the metadata of a stored processing run.
type RunRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Total     int       `json:"total"`
	Failed    int       `json:"failed"`
}

// SaveSummary stores a run summary and returns its ID.
func (ldb *LabelDB) SaveSummary(ctx context.Context, summary *model.Summary) (int64, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	result, err := ldb.db.ExecContext(ctx,
		"INSERT INTO runs (total, failed, summary_json) VALUES (?, ?, ?)",
		summary.Total, summary.Failed, string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save summary: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestSummary returns the most recent run summary, or nil if none.
func (ldb *LabelDB) GetLatestSummary(ctx context.Context) (*model.Summary, error) {
	var summaryJSON string
	err := ldb.db.QueryRowContext(ctx,
		"SELECT summary_json FROM runs ORDER BY id DESC LIMIT 1",
	).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &summary, nil
}

// ListRuns returns run metadata, newest first.
func (ldb *LabelDB) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := ldb.db.QueryContext(ctx,
		"SELECT id, timestamp, total, failed FROM runs ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var run RunRecord
		var timestamp string
		if err := rows.Scan(&run.ID, &timestamp, &run.Total, &run.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Timestamp = parseTimestamp(timestamp)
		results = append(results, run)
	}

	return results, rows.Err()
}

func (ldb *LabelDB) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := ldb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, s)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns zero time if none fits.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
