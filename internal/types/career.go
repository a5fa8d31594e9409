package types

import "time"

// Growth is the growth outlook label of a role
type Growth string

// Growth labels
const (
	GrowthLow      Growth = "Low"
	GrowthMedium   Growth = "Medium"
	GrowthHigh     Growth = "High"
	GrowthVeryHigh Growth = "Very High"
)

// Valid reports whether g is one of the known growth labels
func (g Growth) Valid() bool {
	switch g {
	case GrowthLow, GrowthMedium, GrowthHigh, GrowthVeryHigh:
		return true
	default:
		return false
	}
}

// RoleDefinition is one entry of the static role catalog
type RoleDefinition struct {
	Title          string   `json:"title"`
	BaseScore      int      `json:"base_score"`
	RequiredSkills []string `json:"required_skills"`
	SalaryRange    string   `json:"salary_range"`
	Growth         Growth   `json:"growth"`
}

// CareerRecommendation is the compatibility of a profile with a single role
type CareerRecommendation struct {
	Title       string   `json:"title"`
	MatchScore  int      `json:"match_score"`
	SalaryRange string   `json:"salary_range"`
	Growth      Growth   `json:"growth"`
	SkillGaps   []string `json:"skill_gaps"`
	Description string   `json:"description"`
}

// AnalysisResult bundles everything produced by one analysis run
type AnalysisResult struct {
	StudentID       string                 `json:"student_id,omitempty"`
	Recommendations []CareerRecommendation `json:"career_recs"`
	SkillGaps       []string               `json:"skill_gaps"`
	AdvisoryReport  *AdvisoryReport        `json:"advisory_report"`
	AnalyzedAt      time.Time              `json:"analyzed_at"`
}

// IsStale reports whether the result is older than maxAge at the given instant.
// A zero AnalyzedAt is always stale.
func (r *AnalysisResult) IsStale(now time.Time, maxAge time.Duration) bool {
	if r.AnalyzedAt.IsZero() {
		return true
	}
	return now.Sub(r.AnalyzedAt) >= maxAge
}
