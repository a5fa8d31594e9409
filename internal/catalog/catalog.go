package catalog

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
)

// Score bounds shared by the catalog and the scoring engine
const (
	MinScore = 30
	MaxScore = 95
)

// DefaultMaxGlobalGaps is the number of critical skills reported as global gaps
const DefaultMaxGlobalGaps = 4

// Fallback display values for roles that omit them
const (
	FallbackSalaryRange = "$60,000 - $100,000"
	FallbackGrowth      = types.GrowthMedium
)

// Catalog is the fixed table of career roles plus the ordered critical-skill list.
// A Catalog is immutable after construction; accessors return copies.
type Catalog struct {
	roles          []types.RoleDefinition
	criticalSkills []string
	maxGlobalGaps  int
}

// File is the on-disk representation of a catalog
type File struct {
	Roles          []types.RoleDefinition `json:"roles"`
	CriticalSkills []string               `json:"critical_skills"`
	MaxGlobalGaps  int                    `json:"max_global_gaps,omitempty"`
}

// New validates the given definitions and returns an immutable Catalog.
// Missing salary ranges and growth labels are filled with fallback values.
func New(roles []types.RoleDefinition, criticalSkills []string, maxGlobalGaps int) (*Catalog, error) {
	if maxGlobalGaps == 0 {
		maxGlobalGaps = DefaultMaxGlobalGaps
	}

	c := &Catalog{
		roles:          make([]types.RoleDefinition, len(roles)),
		criticalSkills: append([]string(nil), criticalSkills...),
		maxGlobalGaps:  maxGlobalGaps,
	}
	for i, role := range roles {
		role.RequiredSkills = append([]string(nil), role.RequiredSkills...)
		if strings.TrimSpace(role.SalaryRange) == "" {
			role.SalaryRange = FallbackSalaryRange
		}
		if role.Growth == "" {
			role.Growth = FallbackGrowth
		}
		c.roles[i] = role
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromFile builds a Catalog from its file representation
func FromFile(f *File) (*Catalog, error) {
	if f == nil {
		return nil, &ConfigurationError{Message: "catalog is nil"}
	}
	return New(f.Roles, f.CriticalSkills, f.MaxGlobalGaps)
}

func (c *Catalog) validate() error {
	if len(c.roles) == 0 {
		return &ConfigurationError{Field: "roles", Message: "catalog must define at least one role"}
	}

	seen := make(map[string]bool, len(c.roles))
	for i, role := range c.roles {
		field := fmt.Sprintf("roles[%d]", i)
		title := strings.TrimSpace(role.Title)
		if title == "" {
			return &ConfigurationError{Field: field + ".title", Message: "title is required"}
		}
		key := strings.ToLower(title)
		if seen[key] {
			return &ConfigurationError{Field: field + ".title", Message: fmt.Sprintf("duplicate role %q", role.Title)}
		}
		seen[key] = true

		if role.BaseScore < MinScore || role.BaseScore > MaxScore {
			return &ConfigurationError{
				Field:   field + ".base_score",
				Message: fmt.Sprintf("base score %d outside [%d, %d]", role.BaseScore, MinScore, MaxScore),
			}
		}
		if len(role.RequiredSkills) == 0 {
			return &ConfigurationError{Field: field + ".required_skills", Message: "at least one required skill is needed"}
		}
		for j, skill := range role.RequiredSkills {
			if strings.TrimSpace(skill) == "" {
				return &ConfigurationError{Field: fmt.Sprintf("%s.required_skills[%d]", field, j), Message: "skill name is empty"}
			}
		}
		if !role.Growth.Valid() {
			return &ConfigurationError{Field: field + ".growth", Message: fmt.Sprintf("unknown growth label %q", role.Growth)}
		}
	}

	if len(c.criticalSkills) == 0 {
		return &ConfigurationError{Field: "critical_skills", Message: "critical skill list is empty"}
	}
	for i, skill := range c.criticalSkills {
		if strings.TrimSpace(skill) == "" {
			return &ConfigurationError{Field: fmt.Sprintf("critical_skills[%d]", i), Message: "skill name is empty"}
		}
	}
	if c.maxGlobalGaps < 0 {
		return &ConfigurationError{Field: "max_global_gaps", Message: "must be non-negative"}
	}

	return nil
}

// Roles returns a copy of the role definitions in catalog order
func (c *Catalog) Roles() []types.RoleDefinition {
	out := make([]types.RoleDefinition, len(c.roles))
	for i, role := range c.roles {
		role.RequiredSkills = append([]string(nil), role.RequiredSkills...)
		out[i] = role
	}
	return out
}

// Len returns the number of roles
func (c *Catalog) Len() int {
	return len(c.roles)
}

// CriticalSkills returns a copy of the ordered critical-skill list
func (c *Catalog) CriticalSkills() []string {
	return append([]string(nil), c.criticalSkills...)
}

// MaxGlobalGaps returns the cap on reported global gaps
func (c *Catalog) MaxGlobalGaps() int {
	return c.maxGlobalGaps
}

// File returns the serializable form of the catalog
func (c *Catalog) File() *File {
	return &File{
		Roles:          c.Roles(),
		CriticalSkills: c.CriticalSkills(),
		MaxGlobalGaps:  c.maxGlobalGaps,
	}
}
