// Package localstore is the SQLite fallback store for intake captures and analysis results.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/types"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS student_profiles (
	student_id TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	student_id  TEXT PRIMARY KEY,
	payload     TEXT NOT NULL,
	analyzed_at TEXT NOT NULL
);`

// Store is a single-file SQLite store keyed by student ID
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("localstore: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("localstore: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("localstore: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Name identifies this store in logs and metrics
func (s *Store) Name() string {
	return "sqlite"
}

// SaveIntake stores the flat intake capture of a student, replacing any previous one
func (s *Store) SaveIntake(ctx context.Context, studentID string, intake *profile.FlatIntakeProfile) error {
	if intake == nil {
		return errors.New("localstore: intake is nil")
	}
	payload, err := json.Marshal(intake)
	if err != nil {
		return fmt.Errorf("localstore: marshal intake: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO student_profiles (student_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(student_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		studentID, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("localstore: save intake %s: %w", studentID, err)
	}
	return nil
}

// FetchIntake returns the stored intake capture, or nil when absent
func (s *Store) FetchIntake(ctx context.Context, studentID string) (*profile.FlatIntakeProfile, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM student_profiles WHERE student_id = ?`, studentID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("localstore: fetch intake %s: %w", studentID, err)
	}

	var intake profile.FlatIntakeProfile
	if err := json.Unmarshal([]byte(payload), &intake); err != nil {
		return nil, fmt.Errorf("localstore: decode intake %s: %w", studentID, err)
	}
	return &intake, nil
}

// IntakeUpdatedAt returns when the intake was last saved, or the zero time when absent
func (s *Store) IntakeUpdatedAt(ctx context.Context, studentID string) (time.Time, error) {
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM student_profiles WHERE student_id = ?`, studentID,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("localstore: fetch intake stamp %s: %w", studentID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("localstore: parse intake stamp %s: %w", studentID, err)
	}
	return t, nil
}

// FetchProfile returns the stored intake as a normalizer source, or nil when absent
func (s *Store) FetchProfile(ctx context.Context, studentID string) (profile.Source, error) {
	intake, err := s.FetchIntake(ctx, studentID)
	if err != nil || intake == nil {
		return nil, err
	}
	return profile.FromFlatIntake(intake), nil
}

// SaveResult stores an analysis result, replacing any previous one
func (s *Store) SaveResult(ctx context.Context, studentID string, result *types.AnalysisResult) error {
	if result == nil {
		return errors.New("localstore: result is nil")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("localstore: marshal result: %w", err)
	}

	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (student_id, payload, analyzed_at) VALUES (?, ?, ?)
		 ON CONFLICT(student_id) DO UPDATE SET payload = excluded.payload, analyzed_at = excluded.analyzed_at`,
		studentID, string(payload), analyzedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("localstore: save result %s: %w", studentID, err)
	}
	return nil
}

// FetchResult returns the stored analysis result, or nil when absent
func (s *Store) FetchResult(ctx context.Context, studentID string) (*types.AnalysisResult, error) {
	var payload, analyzedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, analyzed_at FROM analyses WHERE student_id = ?`, studentID,
	).Scan(&payload, &analyzedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("localstore: fetch result %s: %w", studentID, err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("localstore: decode result %s: %w", studentID, err)
	}
	if result.AnalyzedAt.IsZero() {
		if t, err := time.Parse(time.RFC3339Nano, analyzedAt); err == nil {
			result.AnalyzedAt = t
		}
	}
	return &result, nil
}

// DeleteResult removes the stored analysis of a student
func (s *Store) DeleteResult(ctx context.Context, studentID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE student_id = ?`, studentID); err != nil {
		return fmt.Errorf("localstore: delete result %s: %w", studentID, err)
	}
	return nil
}
