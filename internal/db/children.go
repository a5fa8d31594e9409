package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-advisor/internal/profile"
)

// -----------------------------------------------------------------------------
// Child Record Methods
// -----------------------------------------------------------------------------

// ReplaceEducations replaces every education row of a profile
func (db *DB) ReplaceEducations(ctx context.Context, profileID uuid.UUID, recs []profile.EducationRecord) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		return replaceEducations(ctx, tx, profileID, recs)
	})
}

// ReplaceSkills replaces every skill link of a profile, creating skills as needed
func (db *DB) ReplaceSkills(ctx context.Context, profileID uuid.UUID, links []profile.SkillLink) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		return replaceSkills(ctx, tx, profileID, links)
	})
}

// ReplaceExperiences replaces every experience row of a profile
func (db *DB) ReplaceExperiences(ctx context.Context, profileID uuid.UUID, recs []profile.ExperienceRecord) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		return replaceExperiences(ctx, tx, profileID, recs)
	})
}

// ReplaceCertifications replaces every certification row of a profile
func (db *DB) ReplaceCertifications(ctx context.Context, profileID uuid.UUID, recs []profile.CertificationRecord) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		return replaceCertifications(ctx, tx, profileID, recs)
	})
}

// UpsertJobPrefs writes the job preference row of a profile. A nil record deletes it.
func (db *DB) UpsertJobPrefs(ctx context.Context, profileID uuid.UUID, prefs *profile.JobPreferenceRecord) error {
	return upsertJobPrefs(ctx, db.pool, profileID, prefs)
}

// SaveIntake stores a flat intake capture as relational rows in a single transaction
func (db *DB) SaveIntake(ctx context.Context, userID string, intake *profile.FlatIntakeProfile) error {
	rp := profile.ToRelational("", intake)
	identity := ProfileIdentity{Name: rp.Name, Email: rp.Email, Mobile: rp.Mobile, City: rp.City}
	intakeAt := time.Now().UTC()

	return db.inTx(ctx, func(tx pgx.Tx) error {
		profileID, err := upsertProfile(ctx, tx, userID, identity)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE profiles SET intake_at = $2 WHERE id = $1`, profileID, intakeAt); err != nil {
			return fmt.Errorf("failed to stamp intake: %w", err)
		}
		if err := replaceEducations(ctx, tx, profileID, rp.Educations); err != nil {
			return err
		}
		if err := replaceSkills(ctx, tx, profileID, rp.Skills); err != nil {
			return err
		}
		if err := replaceExperiences(ctx, tx, profileID, rp.Experiences); err != nil {
			return err
		}
		if err := replaceCertifications(ctx, tx, profileID, rp.Certifications); err != nil {
			return err
		}
		return upsertJobPrefs(ctx, tx, profileID, rp.JobPrefs)
	})
}

func replaceEducations(ctx context.Context, q querier, profileID uuid.UUID, recs []profile.EducationRecord) error {
	if _, err := q.Exec(ctx, `DELETE FROM educations WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear educations: %w", err)
	}
	for _, rec := range recs {
		_, err := q.Exec(ctx,
			`INSERT INTO educations (profile_id, degree, institution, start_year, end_year)
			 VALUES ($1, $2, $3, $4, $5)`,
			profileID, rec.Degree, nullIfEmpty(rec.Institution), rec.StartYear, rec.EndYear,
		)
		if err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}
	return nil
}

func replaceSkills(ctx context.Context, q querier, profileID uuid.UUID, links []profile.SkillLink) error {
	if _, err := q.Exec(ctx, `DELETE FROM profile_skills WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear profile skills: %w", err)
	}
	for _, link := range links {
		name := strings.TrimSpace(link.Name)
		if name == "" {
			continue
		}

		var skillID uuid.UUID
		err := q.QueryRow(ctx,
			`INSERT INTO skills (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = skills.name
			 RETURNING id`,
			name,
		).Scan(&skillID)
		if err != nil {
			return fmt.Errorf("failed to find or create skill %q: %w", name, err)
		}

		level := link.Level
		if level == 0 {
			level = profile.DefaultIntakeSkillLevel
		}
		_, err = q.Exec(ctx,
			`INSERT INTO profile_skills (profile_id, skill_id, level)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (profile_id, skill_id) DO UPDATE SET level = $3`,
			profileID, skillID, level,
		)
		if err != nil {
			return fmt.Errorf("failed to link skill %q: %w", name, err)
		}
	}
	return nil
}

func replaceExperiences(ctx context.Context, q querier, profileID uuid.UUID, recs []profile.ExperienceRecord) error {
	if _, err := q.Exec(ctx, `DELETE FROM experiences WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear experiences: %w", err)
	}
	for _, rec := range recs {
		_, err := q.Exec(ctx,
			`INSERT INTO experiences (profile_id, title, company, description)
			 VALUES ($1, $2, $3, $4)`,
			profileID, nullIfEmpty(rec.Title), nullIfEmpty(rec.Company), nullIfEmpty(rec.Description),
		)
		if err != nil {
			return fmt.Errorf("failed to insert experience: %w", err)
		}
	}
	return nil
}

func replaceCertifications(ctx context.Context, q querier, profileID uuid.UUID, recs []profile.CertificationRecord) error {
	if _, err := q.Exec(ctx, `DELETE FROM certifications WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear certifications: %w", err)
	}
	for _, rec := range recs {
		_, err := q.Exec(ctx,
			`INSERT INTO certifications (profile_id, name, credential_id, verified)
			 VALUES ($1, $2, $3, $4)`,
			profileID, rec.Name, nullIfEmpty(rec.CredentialID), rec.Verified,
		)
		if err != nil {
			return fmt.Errorf("failed to insert certification: %w", err)
		}
	}
	return nil
}

func upsertJobPrefs(ctx context.Context, q querier, profileID uuid.UUID, prefs *profile.JobPreferenceRecord) error {
	if prefs == nil {
		if _, err := q.Exec(ctx, `DELETE FROM job_prefs WHERE profile_id = $1`, profileID); err != nil {
			return fmt.Errorf("failed to clear job preferences: %w", err)
		}
		return nil
	}

	_, err := q.Exec(ctx,
		`INSERT INTO job_prefs (profile_id, desired_roles, preferred_cities, salary_expectation, work_style)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (profile_id) DO UPDATE SET
		     desired_roles = $2, preferred_cities = $3, salary_expectation = $4, work_style = $5`,
		profileID, nonNil(prefs.DesiredRoles), nonNil(prefs.PreferredCities),
		nullIfEmpty(prefs.SalaryExpectation), nullIfEmpty(prefs.WorkStyle),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job preferences: %w", err)
	}
	return nil
}

// nonNil keeps NOT NULL array columns from receiving NULL
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
