package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-advisor/internal/profile"
)

// -----------------------------------------------------------------------------
// Profile Methods
// -----------------------------------------------------------------------------

// GetProfileByUserID retrieves the profile row of a user
func (db *DB) GetProfileByUserID(ctx context.Context, userID string) (*ProfileRow, error) {
	var row ProfileRow
	var name, email, mobile, city *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, name, email, mobile, city, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&row.ID, &row.UserID, &name, &email, &mobile, &city, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	row.Name = derefString(name)
	row.Email = derefString(email)
	row.Mobile = derefString(mobile)
	row.City = derefString(city)
	return &row, nil
}

// IntakeUpdatedAt returns when the user's intake was last saved, or the zero time when
// no intake has been saved
func (db *DB) IntakeUpdatedAt(ctx context.Context, userID string) (time.Time, error) {
	var at *time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT intake_at FROM profiles WHERE user_id = $1`, userID,
	).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get intake stamp: %w", err)
	}
	if at == nil {
		return time.Time{}, nil
	}
	return *at, nil
}

// FetchFullProfile loads a profile and all of its child records.
// Returns nil, nil when the user has no profile.
func (db *DB) FetchFullProfile(ctx context.Context, userID string) (*profile.RelationalProfile, error) {
	row, err := db.GetProfileByUserID(ctx, userID)
	if err != nil || row == nil {
		return nil, err
	}

	rp := &profile.RelationalProfile{
		ProfileID: row.ID.String(),
		UserID:    row.UserID,
		Name:      row.Name,
		Email:     row.Email,
		Mobile:    row.Mobile,
		City:      row.City,
	}

	if rp.Educations, err = db.listEducations(ctx, row.ID); err != nil {
		return nil, err
	}
	if rp.Skills, err = db.listSkills(ctx, row.ID); err != nil {
		return nil, err
	}
	if rp.Experiences, err = db.listExperiences(ctx, row.ID); err != nil {
		return nil, err
	}
	if rp.Certifications, err = db.listCertifications(ctx, row.ID); err != nil {
		return nil, err
	}
	if rp.JobPrefs, err = db.getJobPrefs(ctx, row.ID); err != nil {
		return nil, err
	}

	return rp, nil
}

// FetchProfile returns the stored profile as a normalizer source, or nil when absent
func (db *DB) FetchProfile(ctx context.Context, studentID string) (profile.Source, error) {
	rp, err := db.FetchFullProfile(ctx, studentID)
	if err != nil || rp == nil {
		return nil, err
	}
	return profile.FromRelational(rp), nil
}

func (db *DB) listEducations(ctx context.Context, profileID uuid.UUID) ([]profile.EducationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT degree, institution, start_year, end_year
		 FROM educations WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list educations: %w", err)
	}
	defer rows.Close()

	var out []profile.EducationRecord
	for rows.Next() {
		var rec profile.EducationRecord
		var institution *string
		if err := rows.Scan(&rec.Degree, &institution, &rec.StartYear, &rec.EndYear); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		rec.Institution = derefString(institution)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (db *DB) listSkills(ctx context.Context, profileID uuid.UUID) ([]profile.SkillLink, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.name, ps.level
		 FROM profile_skills ps JOIN skills s ON s.id = ps.skill_id
		 WHERE ps.profile_id = $1 ORDER BY ps.created_at, ps.id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var out []profile.SkillLink
	for rows.Next() {
		var id uuid.UUID
		var link profile.SkillLink
		if err := rows.Scan(&id, &link.Name, &link.Level); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		link.SkillID = id.String()
		out = append(out, link)
	}
	return out, rows.Err()
}

func (db *DB) listExperiences(ctx context.Context, profileID uuid.UUID) ([]profile.ExperienceRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, company, description
		 FROM experiences WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var out []profile.ExperienceRecord
	for rows.Next() {
		var title, company, description *string
		if err := rows.Scan(&title, &company, &description); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		out = append(out, profile.ExperienceRecord{
			Title:       derefString(title),
			Company:     derefString(company),
			Description: derefString(description),
		})
	}
	return out, rows.Err()
}

func (db *DB) listCertifications(ctx context.Context, profileID uuid.UUID) ([]profile.CertificationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, verified, credential_id
		 FROM certifications WHERE profile_id = $1 ORDER BY created_at, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	var out []profile.CertificationRecord
	for rows.Next() {
		var rec profile.CertificationRecord
		var credential *string
		if err := rows.Scan(&rec.Name, &rec.Verified, &credential); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		rec.CredentialID = derefString(credential)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (db *DB) getJobPrefs(ctx context.Context, profileID uuid.UUID) (*profile.JobPreferenceRecord, error) {
	var prefs profile.JobPreferenceRecord
	var salary, style *string
	err := db.pool.QueryRow(ctx,
		`SELECT desired_roles, preferred_cities, salary_expectation, work_style
		 FROM job_prefs WHERE profile_id = $1`,
		profileID,
	).Scan(&prefs.DesiredRoles, &prefs.PreferredCities, &salary, &style)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job preferences: %w", err)
	}
	prefs.SalaryExpectation = derefString(salary)
	prefs.WorkStyle = derefString(style)
	return &prefs, nil
}

// UpsertProfile creates or updates the profile row of a user and returns its ID
func (db *DB) UpsertProfile(ctx context.Context, userID string, identity ProfileIdentity) (uuid.UUID, error) {
	return upsertProfile(ctx, db.pool, userID, identity)
}

func upsertProfile(ctx context.Context, q querier, userID string, identity ProfileIdentity) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx,
		`INSERT INTO profiles (user_id, name, email, mobile, city)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		     name = $2, email = $3, mobile = $4, city = $5, updated_at = NOW()
		 RETURNING id`,
		userID, nullIfEmpty(identity.Name), nullIfEmpty(identity.Email),
		nullIfEmpty(identity.Mobile), nullIfEmpty(identity.City),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return id, nil
}
