package ranking

import (
	"sort"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/types"
)

// Result list sizes used by the student and batch flows
const (
	StudentTopN = 6
	BatchTopN   = 12
)

// Options controls list size and experience scoring.
// TopN <= 0 returns every role.
type Options struct {
	TopN             int
	ExperiencePolicy ExperiencePolicy
}

// DefaultOptions are the options of the student-facing flow
func DefaultOptions() Options {
	return Options{TopN: StudentTopN, ExperiencePolicy: ExperienceFlat}
}

// BatchOptions are the options of the batch flow
func BatchOptions() Options {
	return Options{TopN: BatchTopN, ExperiencePolicy: ExperiencePerRecord}
}

// ScoreProfile ranks every catalog role against the profile and returns the top
// recommendations together with the global critical-skill gaps.
// It is deterministic and performs no I/O.
func ScoreProfile(cat *catalog.Catalog, p *types.CanonicalProfile, opts Options) ([]types.CareerRecommendation, []string) {
	if p == nil {
		p = &types.CanonicalProfile{}
	}

	h := newHaystack(p)
	bonus := postgraduateBonus(p) + experienceBonus(p, opts.ExperiencePolicy)
	industry := p.Preferences.PreferredIndustry

	roles := cat.Roles()
	recs := make([]types.CareerRecommendation, 0, len(roles))
	for _, role := range roles {
		score, gaps := scoreRole(role, h, bonus, industry)
		recs = append(recs, types.CareerRecommendation{
			Title:       role.Title,
			MatchScore:  score,
			SalaryRange: role.SalaryRange,
			Growth:      role.Growth,
			SkillGaps:   gaps,
			Description: describe(role),
		})
	}

	// Stable keeps catalog order among equal scores
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})

	if opts.TopN > 0 && len(recs) > opts.TopN {
		recs = recs[:opts.TopN]
	}

	return recs, globalGaps(cat, h)
}

// GlobalGaps returns up to the catalog's limit of critical skills missing from the profile,
// in critical-list order
func GlobalGaps(cat *catalog.Catalog, p *types.CanonicalProfile) []string {
	if p == nil {
		p = &types.CanonicalProfile{}
	}
	return globalGaps(cat, newHaystack(p))
}

func globalGaps(cat *catalog.Catalog, h haystack) []string {
	limit := cat.MaxGlobalGaps()
	gaps := make([]string, 0, limit)
	for _, skill := range cat.CriticalSkills() {
		if len(gaps) >= limit {
			break
		}
		if !h.has(skill) {
			gaps = append(gaps, skill)
		}
	}
	return gaps
}
