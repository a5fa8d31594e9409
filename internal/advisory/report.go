// Package advisory builds the templated career advisory report from a gap analysis.
package advisory

import (
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/types"
)

// Career fit baselines and education bonuses
const (
	BaseFitScore        = 65
	ExperiencedFitScore = 78
	mastersFitBonus     = 10
	doctoralFitBonus    = 15
)

// Learning priority titles used when fewer than two gaps are known
const (
	fallbackFirstPriority  = "Advanced Clinical Research Methods"
	fallbackSecondPriority = "Regulatory Documentation Skills"
)

// BuildReport derives the advisory report from a profile and its global skill gaps.
// The output depends only on its inputs.
func BuildReport(p *types.CanonicalProfile, skillGaps []string) *types.AdvisoryReport {
	if p == nil {
		p = &types.CanonicalProfile{}
	}

	return &types.AdvisoryReport{
		CareerFit: types.CareerFit{
			Score:       FitScore(p),
			NextActions: nextActions(skillGaps),
		},
		LearningPriorities: learningPriorities(skillGaps),
		PathStrategy:       pathStrategy(),
	}
}

// FitScore computes the overall career fit score, capped at the catalog maximum
func FitScore(p *types.CanonicalProfile) int {
	score := BaseFitScore
	if p.HasExperience() {
		score = ExperiencedFitScore
	}

	switch profile.ClassifyDegree(p.PostgraduateDegree()) {
	case profile.DegreeDoctoral:
		score += doctoralFitBonus
	case profile.DegreeMasters:
		score += mastersFitBonus
	}

	if score > catalog.MaxScore {
		score = catalog.MaxScore
	}
	return score
}

func nextActions(skillGaps []string) []string {
	first := "Apply for entry-level positions in healthcare"
	if len(skillGaps) > 0 {
		first = "Complete skill development in identified gap areas"
	}
	return []string{
		first,
		"Build professional network in pharmaceutical industry",
		"Consider specialized certifications in chosen field",
		"Update LinkedIn profile with new skills and certifications",
	}
}

func learningPriorities(skillGaps []string) []types.ActionItem {
	return []types.ActionItem{
		{
			Title:      gapOr(skillGaps, 0, fallbackFirstPriority),
			Priority:   types.PriorityHigh,
			Timeframe:  "2-3 months",
			NextAction: "Enroll in comprehensive training program or online certification",
		},
		{
			Title:      "Industry Networking & Professional Development",
			Priority:   types.PriorityMedium,
			Timeframe:  "3-6 months",
			NextAction: "Join professional associations like ACRP, DIA, or ISPE",
		},
		{
			Title:      gapOr(skillGaps, 1, fallbackSecondPriority),
			Priority:   types.PriorityHigh,
			Timeframe:  "1-2 months",
			NextAction: "Complete FDA/ICH guidelines certification course",
		},
	}
}

func pathStrategy() []types.ActionItem {
	return []types.ActionItem{
		{
			Title:      "Entry-Level Position Targeting",
			Priority:   types.PriorityHigh,
			Timeframe:  "1-3 months",
			NextAction: "Apply for 5-10 relevant positions weekly on LinkedIn and company websites",
		},
		{
			Title:      "Professional Certification Achievement",
			Priority:   types.PriorityMedium,
			Timeframe:  "6-12 months",
			NextAction: "Research and enroll in industry-recognized certification programs (ACRP, SOCRA)",
		},
		{
			Title:      "Senior Role Preparation",
			Priority:   types.PriorityMedium,
			Timeframe:  "12-24 months",
			NextAction: "Gain 2+ years experience and develop leadership skills for management roles",
		},
	}
}

func gapOr(gaps []string, i int, fallback string) string {
	if i < len(gaps) && gaps[i] != "" {
		return gaps[i]
	}
	return fallback
}
