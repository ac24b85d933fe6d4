package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/fightrecords/records"
)

// Custom errors for record store operations
var (
	ErrRunNotFound     = errors.New("run not found")
	ErrBoutNotFound    = errors.New("bout not found")
	ErrFighterNotFound = errors.New("fighter not found")
	ErrInvalidRecord   = errors.New("record kind does not match its payload")
)

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// RecordStore persists crawl runs and the records they emit using SQLite.
type RecordStore struct {
	db *sql.DB
}

// Run is one crawl invocation.
type Run struct {
	RunID      uuid.UUID  `json:"run_id"`
	Mode       string     `json:"mode"`
	StartURL   string     `json:"start_url"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Pages      int        `json:"pages"`
	Bouts      int        `json:"bouts"`
	Fighters   int        `json:"fighters"`
	Errors     int        `json:"errors"`
	LastError  *string    `json:"last_error,omitempty"`
}

// RunStats are the counters recorded when a run finishes.
type RunStats struct {
	Pages    int
	Bouts    int
	Fighters int
	Errors   int
}

// BoutEntry is a stored bout tagged with the run that produced it.
type BoutEntry struct {
	RunID uuid.UUID `json:"run_id"`
	records.Bout
	WrittenAt time.Time `json:"written_at"`
}

// FighterEntry is a stored fighter tagged with the run that produced it.
type FighterEntry struct {
	RunID uuid.UUID `json:"run_id"`
	records.Fighter
	WrittenAt time.Time `json:"written_at"`
}

// BoutFilter represents filtering options for listing bouts.
type BoutFilter struct {
	RunID   *uuid.UUID
	EventID *string
	Limit   int
	Offset  int
}

// FighterFilter represents filtering options for listing fighters.
type FighterFilter struct {
	RunID  *uuid.UUID
	Limit  int
	Offset int
}

// NewRecordStore creates a new record store with the given database path.
func NewRecordStore(dbPath string) (*RecordStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &RecordStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs, bouts and fighters tables if they don't
// exist. Records are keyed by run, so a fighter seen twice in one run is
// overwritten in place.
func (s *RecordStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		start_url TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		pages INTEGER DEFAULT 0,
		bouts INTEGER DEFAULT 0,
		fighters INTEGER DEFAULT 0,
		errors INTEGER DEFAULT 0,
		last_error TEXT
	);

	CREATE TABLE IF NOT EXISTS bouts (
		run_id TEXT NOT NULL,
		bout_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		bout_ordinal INTEGER NOT NULL,
		data TEXT NOT NULL,
		written_at TEXT NOT NULL,
		PRIMARY KEY (run_id, bout_id)
	);

	CREATE INDEX IF NOT EXISTS idx_bouts_event ON bouts(event_id, bout_ordinal);

	CREATE TABLE IF NOT EXISTS fighters (
		run_id TEXT NOT NULL,
		fighter_id TEXT NOT NULL,
		data TEXT NOT NULL,
		written_at TEXT NOT NULL,
		PRIMARY KEY (run_id, fighter_id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

// CreateRun records the start of a crawl.
func (s *RecordStore) CreateRun(mode, startURL string) (*Run, error) {
	run := &Run{
		RunID:     uuid.New(),
		Mode:      mode,
		StartURL:  startURL,
		Status:    StatusRunning,
		StartedAt: time.Now().Truncate(0),
	}

	query := `
		INSERT INTO runs (run_id, mode, start_url, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.Mode,
		run.StartURL,
		run.Status,
		formatTime(&run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// FinishRun records the outcome of a crawl. A nil runErr marks the run
// completed; anything else marks it aborted.
func (s *RecordStore) FinishRun(runID uuid.UUID, stats RunStats, runErr error) error {
	now := time.Now()
	status := StatusCompleted
	var lastError any
	if runErr != nil {
		status = StatusAborted
		lastError = runErr.Error()
	}

	query := `
		UPDATE runs
		SET status = ?, finished_at = ?, pages = ?, bouts = ?,
		    fighters = ?, errors = ?, last_error = ?
		WHERE run_id = ?
	`

	result, err := s.db.Exec(query,
		status, formatTime(&now),
		stats.Pages, stats.Bouts, stats.Fighters, stats.Errors,
		lastError, runID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

const runColumns = `
	run_id, mode, start_url, status, started_at, finished_at,
	pages, bouts, fighters, errors, last_error
`

// GetRun retrieves a run by ID.
func (s *RecordStore) GetRun(runID uuid.UUID) (*Run, error) {
	row := s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID.String())

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// ListRuns lists runs, newest first. A positive limit caps the result.
func (s *RecordStore) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// Write stores one record under runID. It satisfies the crawl sink
// interface.
func (s *RecordStore) Write(ctx context.Context, runID uuid.UUID, rec records.Record) error {
	now := time.Now()

	switch {
	case rec.Kind == records.KindBout && rec.Bout != nil:
		data, err := json.Marshal(rec.Bout)
		if err != nil {
			return fmt.Errorf("failed to marshal bout: %w", err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO bouts (run_id, bout_id, event_id, bout_ordinal, data, written_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			runID.String(),
			rec.Bout.BoutID,
			rec.Bout.EventID,
			rec.Bout.BoutOrdinal,
			string(data),
			formatTime(&now),
		)
		if err != nil {
			return fmt.Errorf("failed to insert bout: %w", err)
		}

	case rec.Kind == records.KindFighter && rec.Fighter != nil:
		data, err := json.Marshal(rec.Fighter)
		if err != nil {
			return fmt.Errorf("failed to marshal fighter: %w", err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO fighters (run_id, fighter_id, data, written_at)
			VALUES (?, ?, ?, ?)
		`,
			runID.String(),
			rec.Fighter.FighterID,
			string(data),
			formatTime(&now),
		)
		if err != nil {
			return fmt.Errorf("failed to insert fighter: %w", err)
		}

	default:
		return ErrInvalidRecord
	}

	return nil
}

// GetBout retrieves the most recently written copy of a bout.
func (s *RecordStore) GetBout(boutID string) (*BoutEntry, error) {
	query := `
		SELECT run_id, data, written_at FROM bouts
		WHERE bout_id = ?
		ORDER BY written_at DESC, rowid DESC
		LIMIT 1
	`

	var entry BoutEntry
	err := scanEntry(s.db.QueryRow(query, boutID), &entry.RunID, &entry.Bout, &entry.WrittenAt)
	if err == sql.ErrNoRows {
		return nil, ErrBoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bout: %w", err)
	}

	return &entry, nil
}

// ListBouts lists bouts with optional filtering, ordered by event and
// then by position on the card.
func (s *RecordStore) ListBouts(filter BoutFilter) ([]BoutEntry, error) {
	query := "SELECT run_id, data, written_at FROM bouts"

	var whereClauses []string
	var args []any

	if filter.RunID != nil {
		whereClauses = append(whereClauses, "run_id = ?")
		args = append(args, filter.RunID.String())
	}
	if filter.EventID != nil {
		whereClauses = append(whereClauses, "event_id = ?")
		args = append(args, *filter.EventID)
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY event_id, bout_ordinal, written_at"
	query += limitClause(filter.Limit, filter.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bouts: %w", err)
	}
	defer rows.Close()

	var bouts []BoutEntry
	for rows.Next() {
		var entry BoutEntry
		if err := scanEntry(rows, &entry.RunID, &entry.Bout, &entry.WrittenAt); err != nil {
			return nil, fmt.Errorf("failed to scan bout: %w", err)
		}
		bouts = append(bouts, entry)
	}

	return bouts, rows.Err()
}

// GetFighter retrieves the most recently written copy of a fighter.
func (s *RecordStore) GetFighter(fighterID string) (*FighterEntry, error) {
	query := `
		SELECT run_id, data, written_at FROM fighters
		WHERE fighter_id = ?
		ORDER BY written_at DESC, rowid DESC
		LIMIT 1
	`

	var entry FighterEntry
	err := scanEntry(s.db.QueryRow(query, fighterID), &entry.RunID, &entry.Fighter, &entry.WrittenAt)
	if err == sql.ErrNoRows {
		return nil, ErrFighterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fighter: %w", err)
	}

	return &entry, nil
}

// ListFighters lists fighters with optional filtering, ordered by ID.
func (s *RecordStore) ListFighters(filter FighterFilter) ([]FighterEntry, error) {
	query := "SELECT run_id, data, written_at FROM fighters"

	var args []any
	if filter.RunID != nil {
		query += " WHERE run_id = ?"
		args = append(args, filter.RunID.String())
	}

	query += " ORDER BY fighter_id, written_at"
	query += limitClause(filter.Limit, filter.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fighters: %w", err)
	}
	defer rows.Close()

	var fighters []FighterEntry
	for rows.Next() {
		var entry FighterEntry
		if err := scanEntry(rows, &entry.RunID, &entry.Fighter, &entry.WrittenAt); err != nil {
			return nil, fmt.Errorf("failed to scan fighter: %w", err)
		}
		fighters = append(fighters, entry)
	}

	return fighters, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var runIDStr, mode, startURL, status, startedAtStr string
	var finishedAtStr, lastError sql.NullString
	var run Run

	err := row.Scan(
		&runIDStr, &mode, &startURL, &status, &startedAtStr, &finishedAtStr,
		&run.Pages, &run.Bouts, &run.Fighters, &run.Errors, &lastError,
	)
	if err != nil {
		return nil, err
	}

	run.RunID, err = uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run ID: %w", err)
	}
	run.Mode = mode
	run.StartURL = startURL
	run.Status = status
	run.StartedAt = parseTime(startedAtStr)

	if finishedAtStr.Valid {
		t := parseTime(finishedAtStr.String)
		run.FinishedAt = &t
	}
	if lastError.Valid {
		run.LastError = &lastError.String
	}

	return &run, nil
}

// scanEntry reads a (run_id, data, written_at) row, decoding data into
// payload.
func scanEntry(row scanner, runID *uuid.UUID, payload any, writtenAt *time.Time) error {
	var runIDStr, data, writtenAtStr string
	if err := row.Scan(&runIDStr, &data, &writtenAtStr); err != nil {
		return err
	}

	id, err := uuid.Parse(runIDStr)
	if err != nil {
		return fmt.Errorf("failed to parse run ID: %w", err)
	}
	if err := json.Unmarshal([]byte(data), payload); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}

	*runID = id
	*writtenAt = parseTime(writtenAtStr)
	return nil
}

func limitClause(limit, offset int) string {
	var clause string
	if limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		if limit <= 0 {
			// SQLite requires a LIMIT before OFFSET
			clause += " LIMIT -1"
		}
		clause += fmt.Sprintf(" OFFSET %d", offset)
	}
	return clause
}

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Helper functions for time formatting
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
