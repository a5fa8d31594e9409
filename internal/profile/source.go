package profile

import (
	"strconv"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
)

// Source is a profile representation that can be normalized.
// It is implemented only by *FlatIntakeProfile and *RelationalProfile.
type Source interface {
	canonical(studentID string) types.CanonicalProfile
}

// FromFlatIntake wraps a flat intake capture as a Source
func FromFlatIntake(f *FlatIntakeProfile) Source {
	if f == nil {
		return nil
	}
	return f
}

// FromRelational wraps a relational profile as a Source
func FromRelational(r *RelationalProfile) Source {
	if r == nil {
		return nil
	}
	return r
}

// Normalize converts any supported representation into a CanonicalProfile.
// It never fails: missing fields yield empty values and a nil source yields an empty profile.
func Normalize(studentID string, src Source) types.CanonicalProfile {
	if src == nil {
		return types.CanonicalProfile{StudentID: studentID}
	}
	return src.canonical(studentID)
}

// ToRelational converts a flat intake capture into the rows written by the intake flow.
// Internships become a single "Internship Experience" row, certifications are stored
// unverified and skills carry the default intake level.
func ToRelational(profileID string, f *FlatIntakeProfile) *RelationalProfile {
	if f == nil {
		return &RelationalProfile{ProfileID: profileID}
	}
	r := &RelationalProfile{
		ProfileID: profileID,
		Name:      strings.TrimSpace(f.FullName),
		Email:     strings.TrimSpace(f.Email),
		Mobile:    strings.TrimSpace(f.Phone),
		City:      strings.TrimSpace(f.Location),
	}

	if d := strings.TrimSpace(f.UGDegree); d != "" {
		r.Educations = append(r.Educations, EducationRecord{
			Degree:      d,
			Institution: strings.TrimSpace(f.UGSpecialization),
			EndYear:     parseYear(f.UGYear),
		})
	}
	if d := strings.TrimSpace(f.PGDegree); d != "" {
		r.Educations = append(r.Educations, EducationRecord{
			Degree:      d,
			Institution: strings.TrimSpace(f.PGSpecialization),
			EndYear:     parseYear(f.PGYear),
		})
	}

	for _, name := range append(SplitList(f.TechnicalSkills), SplitList(f.SoftSkills)...) {
		r.Skills = append(r.Skills, SkillLink{Name: name, Level: DefaultIntakeSkillLevel})
	}

	if exp := strings.TrimSpace(f.Internships); exp != "" {
		r.Experiences = append(r.Experiences, ExperienceRecord{
			Title:       IntakeExperienceTitle,
			Description: exp,
		})
	}

	for _, name := range SplitList(f.Certifications) {
		r.Certifications = append(r.Certifications, CertificationRecord{Name: name})
	}

	industry := strings.TrimSpace(f.PreferredIndustry)
	cities := SplitList(f.JobLocations)
	salary := strings.TrimSpace(f.SalaryExpectation)
	style := types.ParseWorkStyle(f.WorkStyle)
	if industry != "" || len(cities) > 0 || salary != "" || style != "" {
		r.JobPrefs = &JobPreferenceRecord{
			PreferredCities:   cities,
			SalaryExpectation: salary,
			WorkStyle:         string(style),
		}
		if industry != "" {
			r.JobPrefs.DesiredRoles = []string{industry}
		}
	}

	return r
}

// Intake defaults
const (
	DefaultIntakeSkillLevel = 50
	IntakeExperienceTitle   = "Internship Experience"
)

func parseYear(s string) *int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &y
}
