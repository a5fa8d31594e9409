package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/schemas"
	embedded "github.com/jonathan/career-advisor/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	embedded.RoleCatalog,
	embedded.IntakeProfile,
	embedded.AnalysisResult,
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, name := range schemaFiles {
		t.Run(name, func(t *testing.T) {
			data, err := embedded.FS.ReadFile(name)
			require.NoError(t, err)

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj))
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])
			assert.Contains(t, schemaObj, "properties")
		})
	}
}

func TestRoleCatalogSchema_AcceptsDefaultCatalog(t *testing.T) {
	data, err := json.Marshal(catalog.Default().File())
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateEmbedded(embedded.RoleCatalog, data))
}

func TestAnalysisResultSchema_RejectsOutOfRangeScore(t *testing.T) {
	doc := `{
		"career_recs": [{"title": "Medical Writer", "match_score": 120, "salary_range": "", "growth": "Medium", "skill_gaps": [], "description": ""}],
		"skill_gaps": [],
		"advisory_report": {"career_fit": {"score": 65, "next_actions": []}, "learning_priorities": [], "path_strategy": []}
	}`
	err := schemas.ValidateEmbedded(embedded.AnalysisResult, []byte(doc))
	var verr *schemas.ValidationError
	require.ErrorAs(t, err, &verr)
}
