package profile

import "strings"

// SkillCategory constants for classifying skills
const (
	SkillCategoryTechnical = "technical"
	SkillCategorySoft      = "soft"
)

var technicalKeywords = []string{
	"clinical",
	"gcp",
	"medical",
	"pharmacovigilance",
	"regulatory",
	"data",
	"statistical",
	"laboratory",
	"technology",
	"software",
	"research",
	"analysis",
	"development",
	"quality",
	"technical",
}

// DetectSkillCategory classifies a skill name as technical or soft.
// Names matching none of the technical keywords are soft.
func DetectSkillCategory(skillName string) string {
	normalized := strings.ToLower(skillName)
	for _, kw := range technicalKeywords {
		if strings.Contains(normalized, kw) {
			return SkillCategoryTechnical
		}
	}
	return SkillCategorySoft
}

// SplitList splits a comma-separated field, trimming entries and dropping empty ones
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
