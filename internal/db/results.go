package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-advisor/internal/types"
)

// -----------------------------------------------------------------------------
// Analysis Result Methods
// -----------------------------------------------------------------------------

// SaveResult replaces the stored recommendations, skill gaps and advisory report of a user.
// A bare profile row is created when the user has none.
func (db *DB) SaveResult(ctx context.Context, userID string, result *types.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}

	analyzedAt := result.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	var reportText []byte
	if result.AdvisoryReport != nil {
		var err error
		reportText, err = json.Marshal(result.AdvisoryReport)
		if err != nil {
			return fmt.Errorf("failed to marshal advisory report: %w", err)
		}
	}

	return db.inTx(ctx, func(tx pgx.Tx) error {
		profileID, err := ensureProfile(ctx, tx, userID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM career_recs WHERE profile_id = $1`, profileID); err != nil {
			return fmt.Errorf("failed to clear career recommendations: %w", err)
		}
		for _, rec := range result.Recommendations {
			_, err := tx.Exec(ctx,
				`INSERT INTO career_recs (profile_id, title, match_score, salary_range, growth, description, skill_gaps)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				profileID, rec.Title, rec.MatchScore, nullIfEmpty(rec.SalaryRange),
				nullIfEmpty(string(rec.Growth)), nullIfEmpty(rec.Description), nonNil(rec.SkillGaps),
			)
			if err != nil {
				return fmt.Errorf("failed to insert career recommendation %q: %w", rec.Title, err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM skill_gaps WHERE profile_id = $1`, profileID); err != nil {
			return fmt.Errorf("failed to clear skill gaps: %w", err)
		}
		for _, gap := range result.SkillGaps {
			_, err := tx.Exec(ctx,
				`INSERT INTO skill_gaps (profile_id, missing_skill, importance) VALUES ($1, $2, $3)`,
				profileID, gap, GapImportanceHigh,
			)
			if err != nil {
				return fmt.Errorf("failed to insert skill gap %q: %w", gap, err)
			}
		}

		if reportText == nil {
			if _, err := tx.Exec(ctx, `DELETE FROM advisory_reports WHERE profile_id = $1`, profileID); err != nil {
				return fmt.Errorf("failed to clear advisory report: %w", err)
			}
		} else {
			_, err := tx.Exec(ctx,
				`INSERT INTO advisory_reports (profile_id, report_text, report_type, created_at)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (profile_id) DO UPDATE SET
				     report_text = $2, report_type = $3, created_at = $4`,
				profileID, string(reportText), ReportTypeCareerRoadmap, analyzedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert advisory report: %w", err)
			}
		}

		_, err = tx.Exec(ctx, `UPDATE profiles SET updated_at = $2 WHERE id = $1`, profileID, analyzedAt)
		if err != nil {
			return fmt.Errorf("failed to touch profile: %w", err)
		}
		return nil
	})
}

// FetchResult loads the stored analysis of a user. Returns nil, nil when none exists.
// AnalyzedAt is the stamp saved with the advisory report, or the newest row timestamp
// when no report is stored.
func (db *DB) FetchResult(ctx context.Context, userID string) (*types.AnalysisResult, error) {
	row, err := db.GetProfileByUserID(ctx, userID)
	if err != nil || row == nil {
		return nil, err
	}

	result := &types.AnalysisResult{StudentID: userID}

	recs, recsAt, err := db.listRecommendations(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	result.Recommendations = recs

	gaps, gapsAt, err := db.listSkillGaps(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	result.SkillGaps = gaps

	report, reportAt, err := db.getAdvisoryReport(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	result.AdvisoryReport = report

	if len(recs) == 0 && len(gaps) == 0 && report == nil {
		return nil, nil
	}

	result.AnalyzedAt = reportAt
	if report == nil {
		result.AnalyzedAt = latest(recsAt, gapsAt)
	}
	if result.Recommendations == nil {
		result.Recommendations = []types.CareerRecommendation{}
	}
	if result.SkillGaps == nil {
		result.SkillGaps = []string{}
	}
	return result, nil
}

func ensureProfile(ctx context.Context, q querier, userID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = profiles.user_id
		 RETURNING id`,
		userID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return id, nil
}

func (db *DB) listRecommendations(ctx context.Context, profileID uuid.UUID) ([]types.CareerRecommendation, time.Time, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, match_score, salary_range, growth, description, skill_gaps, created_at
		 FROM career_recs WHERE profile_id = $1 ORDER BY match_score DESC, created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to list career recommendations: %w", err)
	}
	defer rows.Close()

	var newest time.Time
	var out []types.CareerRecommendation
	for rows.Next() {
		var rec types.CareerRecommendation
		var salary, growth, description *string
		var createdAt time.Time
		if err := rows.Scan(&rec.Title, &rec.MatchScore, &salary, &growth, &description, &rec.SkillGaps, &createdAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan career recommendation: %w", err)
		}
		rec.SalaryRange = derefString(salary)
		rec.Growth = types.Growth(derefString(growth))
		rec.Description = derefString(description)
		if rec.SkillGaps == nil {
			rec.SkillGaps = []string{}
		}
		out = append(out, rec)
		newest = latest(newest, createdAt)
	}
	return out, newest, rows.Err()
}

func (db *DB) listSkillGaps(ctx context.Context, profileID uuid.UUID) ([]string, time.Time, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT missing_skill, created_at
		 FROM skill_gaps WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to list skill gaps: %w", err)
	}
	defer rows.Close()

	var newest time.Time
	var out []string
	for rows.Next() {
		var gap string
		var createdAt time.Time
		if err := rows.Scan(&gap, &createdAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan skill gap: %w", err)
		}
		out = append(out, gap)
		newest = latest(newest, createdAt)
	}
	return out, newest, rows.Err()
}

func (db *DB) getAdvisoryReport(ctx context.Context, profileID uuid.UUID) (*types.AdvisoryReport, time.Time, error) {
	var text string
	var createdAt time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT report_text, created_at FROM advisory_reports WHERE profile_id = $1`,
		profileID,
	).Scan(&text, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to get advisory report: %w", err)
	}

	var report types.AdvisoryReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode advisory report: %w", err)
	}
	return &report, createdAt, nil
}

func latest(times ...time.Time) time.Time {
	var out time.Time
	for _, t := range times {
		if t.After(out) {
			out = t
		}
	}
	return out
}
