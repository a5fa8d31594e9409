package catalog

import (
	"sync"

	"github.com/jonathan/career-advisor/internal/types"
)

// defaultRoles is the built-in healthcare/pharmacy role table
var defaultRoles = []types.RoleDefinition{
	{Title: "Clinical Research Associate", BaseScore: 75, RequiredSkills: []string{"GCP Training", "Clinical Research", "Medical Writing"}, SalaryRange: "$65,000 - $85,000", Growth: types.GrowthMedium},
	{Title: "Pharmacovigilance Specialist", BaseScore: 80, RequiredSkills: []string{"Pharmacovigilance", "Drug Safety", "Regulatory Affairs"}, SalaryRange: "$70,000 - $95,000", Growth: types.GrowthMedium},
	{Title: "Medical Science Liaison", BaseScore: 85, RequiredSkills: []string{"Medical Writing", "Clinical Research", "Patient Communication"}, SalaryRange: "$120,000 - $160,000", Growth: types.GrowthHigh},
	{Title: "Regulatory Affairs Manager", BaseScore: 78, RequiredSkills: []string{"Regulatory Affairs", "Drug Development", "Quality Assurance"}, SalaryRange: "$95,000 - $130,000", Growth: types.GrowthHigh},
	{Title: "Clinical Data Manager", BaseScore: 82, RequiredSkills: []string{"Clinical Data Management", "Statistical Analysis", "Healthcare Technology"}, SalaryRange: "$75,000 - $105,000", Growth: types.GrowthMedium},
	{Title: "Medical Writer", BaseScore: 88, RequiredSkills: []string{"Medical Writing", "Scientific Communication", "Regulatory Documents"}, SalaryRange: "$80,000 - $120,000", Growth: types.GrowthMedium},
	{Title: "Quality Assurance Specialist", BaseScore: 70, RequiredSkills: []string{"Quality Assurance", "GCP Training", "Laboratory Techniques"}, SalaryRange: "$60,000 - $80,000", Growth: types.GrowthMedium},
	{Title: "Project Manager - Healthcare", BaseScore: 76, RequiredSkills: []string{"Project Management", "Team Leadership", "Healthcare Technology"}, SalaryRange: "$85,000 - $115,000", Growth: types.GrowthMedium},
	{Title: "Clinical Trial Manager", BaseScore: 84, RequiredSkills: []string{"Clinical Research", "Project Management", "GCP Training"}, SalaryRange: "$90,000 - $125,000", Growth: types.GrowthHigh},
	{Title: "Drug Safety Associate", BaseScore: 79, RequiredSkills: []string{"Pharmacovigilance", "Drug Safety", "Medical Writing"}, SalaryRange: "$65,000 - $90,000", Growth: types.GrowthMedium},
	{Title: "Biostatistician", BaseScore: 86, RequiredSkills: []string{"Statistical Analysis", "Clinical Data Management", "Healthcare Technology"}, SalaryRange: "$85,000 - $125,000", Growth: types.GrowthHigh},
	{Title: "Medical Affairs Specialist", BaseScore: 81, RequiredSkills: []string{"Medical Writing", "Clinical Research", "Regulatory Affairs"}, SalaryRange: "$90,000 - $120,000", Growth: types.GrowthMedium},
}

// defaultCriticalSkills is ordered by importance; global gaps preserve this order
var defaultCriticalSkills = []string{
	"GCP Training",
	"Clinical Research",
	"Pharmacovigilance",
	"Medical Writing",
	"Regulatory Affairs",
	"Statistical Analysis",
	"Project Management",
	"Healthcare Technology",
	"Quality Assurance",
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(defaultRoles, defaultCriticalSkills, DefaultMaxGlobalGaps)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the built-in catalog. The same instance is shared process-wide.
func Default() *Catalog {
	return defaultCatalog()
}
