// Package types provides type definitions for structured data used throughout the career advisor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// WorkStyle is the candidate's preferred working arrangement
type WorkStyle string

// WorkStyle values accepted from intake forms
const (
	WorkStyleOnSite   WorkStyle = "on-site"
	WorkStyleHybrid   WorkStyle = "hybrid"
	WorkStyleRemote   WorkStyle = "remote"
	WorkStyleFlexible WorkStyle = "flexible"
)

// ParseWorkStyle maps free-text work style values onto the known set.
// Unknown or empty values yield "".
func ParseWorkStyle(s string) WorkStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on-site", "onsite", "on site", "office":
		return WorkStyleOnSite
	case "hybrid":
		return WorkStyleHybrid
	case "remote":
		return WorkStyleRemote
	case "flexible", "any":
		return WorkStyleFlexible
	default:
		return ""
	}
}

// Identity holds the free-text contact details of a candidate
type Identity struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Education is a single degree entry
type Education struct {
	Degree         string `json:"degree"`
	Specialization string `json:"specialization,omitempty"`
	CompletionYear string `json:"completion_year,omitempty"`
}

// Preferences captures the candidate's job preferences
type Preferences struct {
	PreferredIndustry string    `json:"preferred_industry,omitempty"`
	JobLocations      []string  `json:"job_locations,omitempty"`
	SalaryExpectation string    `json:"salary_expectation,omitempty"`
	WorkStyle         WorkStyle `json:"work_style,omitempty"`
}

// CanonicalProfile is the single normalized representation of a candidate used for scoring.
// Every field is optional; the scoring engine tolerates a zero value.
type CanonicalProfile struct {
	StudentID     string     `json:"student_id,omitempty"`
	Identity      Identity   `json:"identity"`
	Undergraduate *Education `json:"undergraduate,omitempty"`
	Postgraduate  *Education `json:"postgraduate,omitempty"`

	TechnicalSkills []string `json:"technical_skills,omitempty"`
	SoftSkills      []string `json:"soft_skills,omitempty"`

	// Experience is the combined narrative of all internships and work entries.
	Experience string `json:"experience,omitempty"`
	// ExperienceRecords counts the entries that contributed to Experience.
	ExperienceRecords int `json:"experience_records,omitempty"`

	Projects       string      `json:"projects,omitempty"`
	CareerGoals    string      `json:"career_goals,omitempty"`
	Certifications []string    `json:"certifications,omitempty"`
	Preferences    Preferences `json:"preferences"`
}

// Skills returns technical skills followed by soft skills
func (p *CanonicalProfile) Skills() []string {
	all := make([]string, 0, len(p.TechnicalSkills)+len(p.SoftSkills))
	all = append(all, p.TechnicalSkills...)
	all = append(all, p.SoftSkills...)
	return all
}

// HasExperience reports whether any experience narrative is present
func (p *CanonicalProfile) HasExperience() bool {
	return strings.TrimSpace(p.Experience) != ""
}

// PostgraduateDegree returns the postgraduate degree string or "" when absent
func (p *CanonicalProfile) PostgraduateDegree() string {
	if p.Postgraduate == nil {
		return ""
	}
	return p.Postgraduate.Degree
}
