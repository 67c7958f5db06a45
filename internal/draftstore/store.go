package draftstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"trafficctl/internal/config"
	"trafficctl/internal/draft"
)

// ErrNoDraft indicates no draft is currently in progress.
var ErrNoDraft = errors.New("no draft in progress")

// ErrLocked indicates another process holds the draft database.
var ErrLocked = errors.New("draft database is locked by another process")

// Store persists the current draft across command invocations, backed by
// SQLite under the state directory.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Open initializes or connects to the draft database and acquires the
// exclusive draft lock.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "draft.lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire draft lock: %w", err)
	}
	if !held {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "draft.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: lock, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the draft lock and closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		firstErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SaveCurrent upserts the snapshot as the single current draft.
func (s *Store) SaveCurrent(ctx context.Context, snap draft.Snapshot) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin draft tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM drafts WHERE is_current = 1 AND id != ?", snap.ID); err != nil {
		return fmt.Errorf("clear current draft: %w", err)
	}

	var committedLat, committedLng any
	if snap.Committed != nil {
		committedLat = snap.Committed.Lat
		committedLng = snap.Committed.Lng
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO drafts (
            id, intent, source_job_id, read_only, job_number, notes,
            survey_hours, survey_types, location_state,
            candidate_lat, candidate_lng, committed_lat, committed_lng,
            is_current, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            intent = excluded.intent,
            source_job_id = excluded.source_job_id,
            read_only = excluded.read_only,
            job_number = excluded.job_number,
            notes = excluded.notes,
            survey_hours = excluded.survey_hours,
            survey_types = excluded.survey_types,
            location_state = excluded.location_state,
            candidate_lat = excluded.candidate_lat,
            candidate_lng = excluded.candidate_lng,
            committed_lat = excluded.committed_lat,
            committed_lng = excluded.committed_lng,
            is_current = 1,
            updated_at = excluded.updated_at`,
		snap.ID,
		string(snap.Intent),
		snap.SourceJobID,
		boolToInt(snap.ReadOnly),
		snap.JobNumber,
		snap.Notes,
		snap.SurveyHours,
		strings.Join(snap.SurveyTypes, ","),
		string(snap.LocationState),
		snap.Candidate.Lat,
		snap.Candidate.Lng,
		committedLat,
		committedLng,
		now,
		now,
	); err != nil {
		return fmt.Errorf("upsert draft: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM staged_files WHERE draft_id = ?", snap.ID); err != nil {
		return fmt.Errorf("clear staged files: %w", err)
	}
	for position, path := range snap.Files {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO staged_files (draft_id, position, path) VALUES (?, ?, ?)",
			snap.ID, position, path,
		); err != nil {
			return fmt.Errorf("insert staged file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit draft: %w", err)
	}
	return nil
}

// LoadCurrent returns the current draft snapshot, or ErrNoDraft.
func (s *Store) LoadCurrent(ctx context.Context) (draft.Snapshot, error) {
	ctx = ensureContext(ctx)

	var (
		snap          draft.Snapshot
		intent        string
		readOnly      int
		surveyTypes   string
		locationState string
		committedLat  sql.NullFloat64
		committedLng  sql.NullFloat64
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, intent, source_job_id, read_only, job_number, notes,
                survey_hours, survey_types, location_state,
                candidate_lat, candidate_lng, committed_lat, committed_lng
         FROM drafts WHERE is_current = 1`)
	err := row.Scan(
		&snap.ID, &intent, &snap.SourceJobID, &readOnly,
		&snap.JobNumber, &snap.Notes, &snap.SurveyHours, &surveyTypes,
		&locationState, &snap.Candidate.Lat, &snap.Candidate.Lng,
		&committedLat, &committedLng,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return draft.Snapshot{}, ErrNoDraft
	}
	if err != nil {
		return draft.Snapshot{}, fmt.Errorf("load draft: %w", err)
	}

	snap.Intent = draft.Intent(intent)
	snap.ReadOnly = readOnly != 0
	snap.LocationState = draft.LocationState(locationState)
	if surveyTypes != "" {
		snap.SurveyTypes = strings.Split(surveyTypes, ",")
	}
	if committedLat.Valid && committedLng.Valid {
		snap.Committed = &draft.Coordinate{Lat: committedLat.Float64, Lng: committedLng.Float64}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM staged_files WHERE draft_id = ? ORDER BY position", snap.ID)
	if err != nil {
		return draft.Snapshot{}, fmt.Errorf("load staged files: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return draft.Snapshot{}, fmt.Errorf("scan staged file: %w", err)
		}
		snap.Files = append(snap.Files, path)
	}
	if err := rows.Err(); err != nil {
		return draft.Snapshot{}, fmt.Errorf("iterate staged files: %w", err)
	}
	return snap, nil
}

// ClearCurrent removes the current draft and its staged files.
func (s *Store) ClearCurrent(ctx context.Context) error {
	ctx = ensureContext(ctx)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE is_current = 1"); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
