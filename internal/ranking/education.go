package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/types"
)

// Postgraduate bonuses; a doctoral degree replaces the master's bonus
const (
	mastersBonus  = 8
	doctoralBonus = 12
)

// ExperiencePolicy selects how experience contributes to a role score
type ExperiencePolicy int

const (
	// ExperienceFlat adds a fixed bonus when any experience narrative exists
	ExperienceFlat ExperiencePolicy = iota
	// ExperiencePerRecord adds a bonus per experience record, capped
	ExperiencePerRecord
)

// Experience bonus values
const (
	flatExperienceBonus      = 10
	perRecordExperienceBonus = 3
	maxExperienceBonus       = 15
)

func (p ExperiencePolicy) String() string {
	switch p {
	case ExperiencePerRecord:
		return "per_record"
	default:
		return "flat"
	}
}

// ParseExperiencePolicy maps "flat" or "per_record" onto a policy. Empty input is flat.
func ParseExperiencePolicy(s string) (ExperiencePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return ExperienceFlat, nil
	case "per_record", "per-record", "perrecord":
		return ExperiencePerRecord, nil
	default:
		return ExperienceFlat, fmt.Errorf("unknown experience policy %q", s)
	}
}

// postgraduateBonus returns the education bonus for the profile's postgraduate degree
func postgraduateBonus(p *types.CanonicalProfile) int {
	switch profile.ClassifyDegree(p.PostgraduateDegree()) {
	case profile.DegreeDoctoral:
		return doctoralBonus
	case profile.DegreeMasters:
		return mastersBonus
	default:
		return 0
	}
}

// experienceBonus returns the experience bonus under the given policy
func experienceBonus(p *types.CanonicalProfile, policy ExperiencePolicy) int {
	if !p.HasExperience() {
		return 0
	}
	if policy != ExperiencePerRecord {
		return flatExperienceBonus
	}

	records := p.ExperienceRecords
	if records < 1 {
		records = 1
	}
	bonus := records * perRecordExperienceBonus
	if bonus > maxExperienceBonus {
		bonus = maxExperienceBonus
	}
	return bonus
}
