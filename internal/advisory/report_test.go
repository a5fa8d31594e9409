package advisory

import (
	"testing"

	"github.com/jonathan/career-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitScore(t *testing.T) {
	tests := []struct {
		name    string
		profile types.CanonicalProfile
		want    int
	}{
		{name: "no experience no postgraduate", want: 65},
		{name: "experience only", profile: types.CanonicalProfile{Experience: "CRO internship"}, want: 78},
		{name: "blank experience", profile: types.CanonicalProfile{Experience: "   "}, want: 65},
		{
			name:    "experience and masters",
			profile: types.CanonicalProfile{Experience: "x", Postgraduate: &types.Education{Degree: "M.Pharm"}},
			want:    88,
		},
		{
			name:    "experience and doctorate",
			profile: types.CanonicalProfile{Experience: "x", Postgraduate: &types.Education{Degree: "Pharm.D"}},
			want:    93,
		},
		{
			name:    "doctorate without experience",
			profile: types.CanonicalProfile{Postgraduate: &types.Education{Degree: "PhD"}},
			want:    80,
		},
		{
			name:    "unrecognized postgraduate degree",
			profile: types.CanonicalProfile{Postgraduate: &types.Education{Degree: "Diploma"}},
			want:    65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FitScore(&tt.profile))
		})
	}
}

func TestBuildReport_WithGaps(t *testing.T) {
	report := BuildReport(&types.CanonicalProfile{}, []string{"GCP Training", "Clinical Research"})
	require.NotNil(t, report)

	assert.Equal(t, 65, report.CareerFit.Score)
	require.Len(t, report.CareerFit.NextActions, 4)
	assert.Equal(t, "Complete skill development in identified gap areas", report.CareerFit.NextActions[0])
	assert.Equal(t, "Update LinkedIn profile with new skills and certifications", report.CareerFit.NextActions[3])

	require.Len(t, report.LearningPriorities, 3)
	assert.Equal(t, "GCP Training", report.LearningPriorities[0].Title)
	assert.Equal(t, types.PriorityHigh, report.LearningPriorities[0].Priority)
	assert.Equal(t, "2-3 months", report.LearningPriorities[0].Timeframe)
	assert.Equal(t, "Industry Networking & Professional Development", report.LearningPriorities[1].Title)
	assert.Equal(t, types.PriorityMedium, report.LearningPriorities[1].Priority)
	assert.Equal(t, "Clinical Research", report.LearningPriorities[2].Title)
	assert.Equal(t, "1-2 months", report.LearningPriorities[2].Timeframe)

	require.Len(t, report.PathStrategy, 3)
	assert.Equal(t, "Entry-Level Position Targeting", report.PathStrategy[0].Title)
	assert.Equal(t, "12-24 months", report.PathStrategy[2].Timeframe)
}

func TestBuildReport_NoGaps(t *testing.T) {
	report := BuildReport(nil, nil)

	assert.Equal(t, "Apply for entry-level positions in healthcare", report.CareerFit.NextActions[0])
	assert.Equal(t, fallbackFirstPriority, report.LearningPriorities[0].Title)
	assert.Equal(t, fallbackSecondPriority, report.LearningPriorities[2].Title)
}

func TestBuildReport_SingleGap(t *testing.T) {
	report := BuildReport(&types.CanonicalProfile{}, []string{"Medical Writing"})
	assert.Equal(t, "Medical Writing", report.LearningPriorities[0].Title)
	assert.Equal(t, fallbackSecondPriority, report.LearningPriorities[2].Title)
}

func TestBuildReport_Deterministic(t *testing.T) {
	p := &types.CanonicalProfile{Experience: "x", Postgraduate: &types.Education{Degree: "MSc"}}
	gaps := []string{"A", "B", "C"}
	assert.Equal(t, BuildReport(p, gaps), BuildReport(p, gaps))
}
