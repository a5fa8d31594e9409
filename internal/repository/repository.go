// Package repository combines a primary and a fallback store behind one read-through interface.
package repository

import (
	"context"
	"time"

	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/types"
)

// ProfileRepository reads and writes candidate profiles.
// FetchProfile returns nil, nil when the student is unknown.
type ProfileRepository interface {
	FetchProfile(ctx context.Context, studentID string) (profile.Source, error)
	SaveIntake(ctx context.Context, studentID string, intake *profile.FlatIntakeProfile) error
}

// ResultStore persists analysis results.
// FetchResult returns nil, nil when nothing is stored.
type ResultStore interface {
	FetchResult(ctx context.Context, studentID string) (*types.AnalysisResult, error)
	SaveResult(ctx context.Context, studentID string, result *types.AnalysisResult) error
}

// Tier is a store usable as either tier of a TwoTier repository.
// IntakeUpdatedAt returns the zero time when no intake is stored.
type Tier interface {
	ProfileRepository
	ResultStore
	IntakeUpdatedAt(ctx context.Context, studentID string) (time.Time, error)
	Name() string
}
