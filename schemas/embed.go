// Package schemas embeds the JSON Schema documents describing the career advisor's data files.
package schemas

import "embed"

// Schema file names
const (
	RoleCatalog    = "role_catalog.schema.json"
	IntakeProfile  = "intake_profile.schema.json"
	AnalysisResult = "analysis_result.schema.json"
)

// FS holds every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS
