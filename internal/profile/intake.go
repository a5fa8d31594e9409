package profile

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-advisor/internal/types"
)

// FlatIntakeProfile is the intake form capture: one flat record whose list fields
// are comma-separated strings.
type FlatIntakeProfile struct {
	FullName string `json:"full_name,omitempty" validate:"max=200"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"max=40"`
	Location string `json:"location,omitempty" validate:"max=200"`

	UGDegree         string `json:"ug_degree,omitempty"`
	UGSpecialization string `json:"ug_specialization,omitempty"`
	UGYear           string `json:"ug_year,omitempty" validate:"omitempty,numeric,len=4"`
	PGDegree         string `json:"pg_degree,omitempty"`
	PGSpecialization string `json:"pg_specialization,omitempty"`
	PGYear           string `json:"pg_year,omitempty" validate:"omitempty,numeric,len=4"`

	TechnicalSkills string `json:"technical_skills,omitempty"`
	SoftSkills      string `json:"soft_skills,omitempty"`
	Internships     string `json:"internships,omitempty"`
	Projects        string `json:"projects,omitempty"`
	Certifications  string `json:"certifications,omitempty"`

	PreferredIndustry string `json:"preferred_industry,omitempty"`
	CareerGoals       string `json:"career_goals,omitempty"`
	JobLocations      string `json:"job_locations,omitempty"`
	SalaryExpectation string `json:"salary_expectation,omitempty"`
	WorkStyle         string `json:"work_style,omitempty" validate:"omitempty,workstyle"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func intakeValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("workstyle", func(fl validator.FieldLevel) bool {
			return types.ParseWorkStyle(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate checks the intake capture for malformed values. Missing values are allowed.
func (f *FlatIntakeProfile) Validate() error {
	err := intakeValidator().Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
		})
	}
	return verr
}

// canonical implements Source
func (f *FlatIntakeProfile) canonical(studentID string) types.CanonicalProfile {
	if f == nil {
		return types.CanonicalProfile{StudentID: studentID}
	}
	p := types.CanonicalProfile{
		StudentID: studentID,
		Identity: types.Identity{
			FullName: strings.TrimSpace(f.FullName),
			Email:    strings.TrimSpace(f.Email),
			Phone:    strings.TrimSpace(f.Phone),
			Location: strings.TrimSpace(f.Location),
		},
		TechnicalSkills: SplitList(f.TechnicalSkills),
		SoftSkills:      SplitList(f.SoftSkills),
		Projects:        strings.TrimSpace(f.Projects),
		CareerGoals:     strings.TrimSpace(f.CareerGoals),
		Certifications:  SplitList(f.Certifications),
		Preferences: types.Preferences{
			PreferredIndustry: strings.TrimSpace(f.PreferredIndustry),
			JobLocations:      SplitList(f.JobLocations),
			SalaryExpectation: strings.TrimSpace(f.SalaryExpectation),
			WorkStyle:         types.ParseWorkStyle(f.WorkStyle),
		},
	}

	if degree := strings.TrimSpace(f.UGDegree); degree != "" {
		p.Undergraduate = &types.Education{
			Degree:         degree,
			Specialization: strings.TrimSpace(f.UGSpecialization),
			CompletionYear: strings.TrimSpace(f.UGYear),
		}
	}
	if degree := strings.TrimSpace(f.PGDegree); degree != "" {
		p.Postgraduate = &types.Education{
			Degree:         degree,
			Specialization: strings.TrimSpace(f.PGSpecialization),
			CompletionYear: strings.TrimSpace(f.PGYear),
		}
	}

	if exp := strings.TrimSpace(f.Internships); exp != "" {
		p.Experience = exp
		p.ExperienceRecords = 1
	}

	return p
}
