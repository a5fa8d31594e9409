// Package ranking scores canonical profiles against the career role catalog.
package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/types"
)

// Score adjustments applied per role
const (
	matchedSkillBonus  = 5
	missingSkillMalus  = 10
	industryAlignBonus = 15
)

// haystack is the lower-cased skill text a profile is matched against
type haystack string

func newHaystack(p *types.CanonicalProfile) haystack {
	skills := p.Skills()
	lowered := make([]string, 0, len(skills))
	for _, s := range skills {
		lowered = append(lowered, strings.ToLower(s))
	}
	return haystack(strings.Join(lowered, ", "))
}

// has reports whether skill occurs in the haystack, case-insensitively
func (h haystack) has(skill string) bool {
	needle := strings.ToLower(strings.TrimSpace(skill))
	if needle == "" {
		return false
	}
	return strings.Contains(string(h), needle)
}

// scoreRole computes the clamped match score and per-role gaps for a single role
func scoreRole(role types.RoleDefinition, h haystack, bonus int, industry string) (int, []string) {
	score := role.BaseScore
	gaps := make([]string, 0, len(role.RequiredSkills))

	for _, skill := range role.RequiredSkills {
		if h.has(skill) {
			score += matchedSkillBonus
		} else {
			score -= missingSkillMalus
			gaps = append(gaps, skill)
		}
	}

	score += bonus
	if industryAligned(role.Title, industry) {
		score += industryAlignBonus
	}

	return clamp(score), gaps
}

// industryAligned reports whether the role title and preferred industry contain one another
func industryAligned(title, industry string) bool {
	pref := strings.ToLower(strings.TrimSpace(industry))
	if pref == "" {
		return false
	}
	t := strings.ToLower(title)
	return strings.Contains(t, pref) || strings.Contains(pref, t)
}

func clamp(score int) int {
	if score < catalog.MinScore {
		return catalog.MinScore
	}
	if score > catalog.MaxScore {
		return catalog.MaxScore
	}
	return score
}

// describe renders the display description of a recommendation
func describe(role types.RoleDefinition) string {
	return fmt.Sprintf("%s position in the healthcare/pharmaceutical sector with %s growth potential",
		role.Title, strings.ToLower(string(role.Growth)))
}
