package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoTiers is returned when neither tier is configured
var ErrNoTiers = errors.New("repository: no storage tier configured")

// TwoTier reads both tiers and serves the newest copy, so either tier may be missing,
// failing or behind. Writes go to every configured tier; a write fails only when all tiers fail.
// Either tier may be nil.
type TwoTier struct {
	primary  Tier
	fallback Tier
	logger   *zap.Logger
}

// NewTwoTier builds a TwoTier repository
func NewTwoTier(primary, fallback Tier, logger *zap.Logger) *TwoTier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwoTier{primary: primary, fallback: fallback, logger: logger}
}

func (r *TwoTier) tiers() []Tier {
	var out []Tier
	for _, t := range []Tier{r.primary, r.fallback} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// FetchProfile implements ProfileRepository. Both tiers are read and the intake with the
// newer stamp wins, so a write that only reached the fallback is not shadowed by an older
// primary copy. Ties go to the primary.
func (r *TwoTier) FetchProfile(ctx context.Context, studentID string) (profile.Source, error) {
	tiers := r.tiers()
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}

	var (
		best   profile.Source
		bestAt time.Time
		errs   []error
	)
	for _, t := range tiers {
		src, err := t.FetchProfile(ctx, studentID)
		if err != nil {
			r.logger.Warn("profile read failed",
				zap.String("tier", t.Name()), zap.String("student_id", studentID), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			continue
		}
		if src == nil {
			continue
		}
		at, err := t.IntakeUpdatedAt(ctx, studentID)
		if err != nil {
			r.logger.Warn("intake stamp read failed",
				zap.String("tier", t.Name()), zap.String("student_id", studentID), zap.Error(err))
		}
		if best == nil || at.After(bestAt) {
			best, bestAt = src, at
		}
	}

	if best == nil && len(errs) == len(tiers) {
		return nil, errors.Join(errs...)
	}
	return best, nil
}

// SaveIntake implements ProfileRepository
func (r *TwoTier) SaveIntake(ctx context.Context, studentID string, intake *profile.FlatIntakeProfile) error {
	return r.writeAll(ctx, "intake", studentID, func(ctx context.Context, t Tier) error {
		return t.SaveIntake(ctx, studentID, intake)
	})
}

// FetchResult implements ResultStore. Both tiers are read and the result with the newer
// AnalyzedAt wins; ties go to the primary. The fallback copy is refreshed only when the
// primary holds a strictly newer result.
func (r *TwoTier) FetchResult(ctx context.Context, studentID string) (*types.AnalysisResult, error) {
	tiers := r.tiers()
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}

	var (
		best, primaryResult, fallbackResult *types.AnalysisResult
		fallbackOK                          bool
		errs                                []error
	)
	for _, t := range tiers {
		result, err := t.FetchResult(ctx, studentID)
		if err != nil {
			r.logger.Warn("result read failed",
				zap.String("tier", t.Name()), zap.String("student_id", studentID), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
			continue
		}
		if t == r.primary {
			primaryResult = result
		} else {
			fallbackResult, fallbackOK = result, true
		}
		if result != nil && (best == nil || result.AnalyzedAt.After(best.AnalyzedAt)) {
			best = result
		}
	}

	if best == nil {
		if len(errs) == len(tiers) {
			return nil, errors.Join(errs...)
		}
		return nil, nil
	}

	if best == primaryResult && fallbackOK &&
		(fallbackResult == nil || primaryResult.AnalyzedAt.After(fallbackResult.AnalyzedAt)) {
		if err := r.fallback.SaveResult(ctx, studentID, primaryResult); err != nil {
			r.logger.Warn("fallback refresh failed",
				zap.String("tier", r.fallback.Name()), zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return best, nil
}

// SaveResult implements ResultStore
func (r *TwoTier) SaveResult(ctx context.Context, studentID string, result *types.AnalysisResult) error {
	return r.writeAll(ctx, "result", studentID, func(ctx context.Context, t Tier) error {
		return t.SaveResult(ctx, studentID, result)
	})
}

// writeAll writes to every tier concurrently and fails only when every tier fails
func (r *TwoTier) writeAll(ctx context.Context, kind, studentID string, write func(context.Context, Tier) error) error {
	tiers := r.tiers()
	if len(tiers) == 0 {
		return ErrNoTiers
	}

	errs := make([]error, len(tiers))
	var g errgroup.Group
	for i, t := range tiers {
		g.Go(func() error {
			if err := write(ctx, t); err != nil {
				r.logger.Warn("write failed",
					zap.String("kind", kind), zap.String("tier", t.Name()),
					zap.String("student_id", studentID), zap.Error(err))
				errs[i] = fmt.Errorf("%s: %w", t.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(tiers) {
		return fmt.Errorf("save %s for %s: %w", kind, studentID, errors.Join(errs...))
	}
	return nil
}
