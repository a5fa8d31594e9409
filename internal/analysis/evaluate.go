// Package analysis runs career analyses for students and persists their results.
package analysis

import (
	"github.com/jonathan/career-advisor/internal/advisory"
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/ranking"
	"github.com/jonathan/career-advisor/internal/types"
)

// Evaluate scores a canonical profile and builds its advisory report.
// It performs no I/O and leaves AnalyzedAt unset.
func Evaluate(cat *catalog.Catalog, p *types.CanonicalProfile, opts ranking.Options) *types.AnalysisResult {
	if p == nil {
		p = &types.CanonicalProfile{}
	}
	recs, gaps := ranking.ScoreProfile(cat, p, opts)
	return &types.AnalysisResult{
		StudentID:       p.StudentID,
		Recommendations: recs,
		SkillGaps:       gaps,
		AdvisoryReport:  advisory.BuildReport(p, gaps),
	}
}
