package profile

import (
	"strconv"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
)

// RelationalProfile is a profile as persisted across normalized tables:
// one profile row plus child rows for education, skills, experience, certifications
// and job preferences.
type RelationalProfile struct {
	ProfileID string `json:"profile_id"`
	UserID    string `json:"user_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	City      string `json:"city,omitempty"`

	Educations     []EducationRecord     `json:"educations,omitempty"`
	Skills         []SkillLink           `json:"skills,omitempty"`
	Experiences    []ExperienceRecord    `json:"experiences,omitempty"`
	Certifications []CertificationRecord `json:"certifications,omitempty"`
	JobPrefs       *JobPreferenceRecord  `json:"job_prefs,omitempty"`
}

// EducationRecord is one row of the educations table.
// Institution doubles as the specialization in intake-written rows.
type EducationRecord struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	StartYear   *int   `json:"start_year,omitempty"`
	EndYear     *int   `json:"end_year,omitempty"`
}

// SkillLink joins a profile to a skill with a proficiency level
type SkillLink struct {
	SkillID string `json:"skill_id,omitempty"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
}

// ExperienceRecord is one row of the experiences table
type ExperienceRecord struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
}

// CertificationRecord is one row of the certifications table
type CertificationRecord struct {
	Name         string `json:"name"`
	Verified     bool   `json:"verified"`
	CredentialID string `json:"credential_id,omitempty"`
}

// JobPreferenceRecord is the job_prefs row of a profile
type JobPreferenceRecord struct {
	DesiredRoles      []string `json:"desired_roles,omitempty"`
	PreferredCities   []string `json:"preferred_cities,omitempty"`
	SalaryExpectation string   `json:"salary_expectation,omitempty"`
	WorkStyle         string   `json:"work_style,omitempty"`
}

// experienceSeparator joins the descriptions of multiple experience rows
const experienceSeparator = "; "

// canonical implements Source
func (r *RelationalProfile) canonical(studentID string) types.CanonicalProfile {
	if r == nil {
		return types.CanonicalProfile{StudentID: studentID}
	}
	if studentID == "" {
		studentID = r.ProfileID
	}
	p := types.CanonicalProfile{
		StudentID: studentID,
		Identity: types.Identity{
			FullName: strings.TrimSpace(r.Name),
			Email:    strings.TrimSpace(r.Email),
			Phone:    strings.TrimSpace(r.Mobile),
			Location: strings.TrimSpace(r.City),
		},
	}

	for _, edu := range r.Educations {
		level := ClassifyDegree(edu.Degree)
		switch {
		case level.Postgraduate() && p.Postgraduate == nil:
			p.Postgraduate = educationFromRecord(edu)
		case level == DegreeBachelor && p.Undergraduate == nil:
			p.Undergraduate = educationFromRecord(edu)
		}
	}

	for _, s := range r.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		if DetectSkillCategory(name) == SkillCategoryTechnical {
			p.TechnicalSkills = append(p.TechnicalSkills, name)
		} else {
			p.SoftSkills = append(p.SoftSkills, name)
		}
	}

	var narratives []string
	for _, exp := range r.Experiences {
		if d := strings.TrimSpace(exp.Description); d != "" {
			narratives = append(narratives, d)
		}
	}
	p.Experience = strings.Join(narratives, experienceSeparator)
	p.ExperienceRecords = len(narratives)

	for _, c := range r.Certifications {
		if name := strings.TrimSpace(c.Name); name != "" {
			p.Certifications = append(p.Certifications, name)
		}
	}

	if prefs := r.JobPrefs; prefs != nil {
		if len(prefs.DesiredRoles) > 0 {
			p.Preferences.PreferredIndustry = strings.TrimSpace(prefs.DesiredRoles[0])
		}
		p.Preferences.JobLocations = trimAll(prefs.PreferredCities)
		p.Preferences.SalaryExpectation = strings.TrimSpace(prefs.SalaryExpectation)
		p.Preferences.WorkStyle = types.ParseWorkStyle(prefs.WorkStyle)
	}

	return p
}

func educationFromRecord(r EducationRecord) *types.Education {
	edu := &types.Education{
		Degree:         strings.TrimSpace(r.Degree),
		Specialization: strings.TrimSpace(r.Institution),
	}
	if r.EndYear != nil {
		edu.CompletionYear = strconv.Itoa(*r.EndYear)
	}
	return edu
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
