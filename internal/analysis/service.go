package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/ranking"
	"github.com/jonathan/career-advisor/internal/repository"
	"github.com/jonathan/career-advisor/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrProfileNotFound is returned when no tier holds a profile for the student
var ErrProfileNotFound = errors.New("profile not found")

// DefaultStaleAfter is the age after which stored analyses are ignored
const DefaultStaleAfter = 24 * time.Hour

// DefaultBatchConcurrency bounds concurrent analyses in AnalyzeBatch
const DefaultBatchConcurrency = 4

// Cache is the results cache consulted before the result store
type Cache interface {
	Get(ctx context.Context, studentID string) (*types.AnalysisResult, bool)
	Set(ctx context.Context, studentID string, result *types.AnalysisResult)
	Invalidate(ctx context.Context, studentID string)
}

// Config wires a Service
type Config struct {
	Catalog          *catalog.Catalog
	Profiles         repository.ProfileRepository
	Results          repository.ResultStore
	Cache            Cache // optional
	Logger           *zap.Logger
	StaleAfter       time.Duration
	BatchConcurrency int
	Now              func() time.Time
}

// Service runs analyses against stored profiles
type Service struct {
	catalog          *catalog.Catalog
	profiles         repository.ProfileRepository
	results          repository.ResultStore
	cache            Cache
	logger           *zap.Logger
	staleAfter       time.Duration
	batchConcurrency int
	now              func() time.Time
}

// NewService validates the wiring and returns a Service
func NewService(cfg Config) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("analysis: catalog is required")
	}
	if cfg.Profiles == nil {
		return nil, errors.New("analysis: profile repository is required")
	}
	if cfg.Results == nil {
		return nil, errors.New("analysis: result store is required")
	}

	s := &Service{
		catalog:          cfg.Catalog,
		profiles:         cfg.Profiles,
		results:          cfg.Results,
		cache:            cfg.Cache,
		logger:           cfg.Logger,
		staleAfter:       cfg.StaleAfter,
		batchConcurrency: cfg.BatchConcurrency,
		now:              cfg.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.staleAfter <= 0 {
		s.staleAfter = DefaultStaleAfter
	}
	if s.batchConcurrency <= 0 {
		s.batchConcurrency = DefaultBatchConcurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Catalog returns the role catalog used for scoring
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Analyze fetches, normalizes and scores a student's profile, then stores the result.
// Persistence failures are logged and do not fail the analysis.
func (s *Service) Analyze(ctx context.Context, studentID string, opts ranking.Options) (*types.AnalysisResult, error) {
	src, err := s.profiles.FetchProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", studentID, err)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, studentID)
	}

	p := profile.Normalize(studentID, src)
	result := Evaluate(s.catalog, &p, opts)
	result.StudentID = studentID
	result.AnalyzedAt = s.now().UTC()

	if err := s.results.SaveResult(ctx, studentID, result); err != nil {
		s.logger.Warn("failed to persist analysis",
			zap.String("student_id", studentID), zap.Error(err))
	}
	if s.cache != nil {
		s.cache.Set(ctx, studentID, result)
	}

	s.logger.Info("analysis complete",
		zap.String("student_id", studentID),
		zap.Int("recommendations", len(result.Recommendations)),
		zap.Int("skill_gaps", len(result.SkillGaps)),
		zap.Stringer("experience_policy", opts.ExperiencePolicy))

	return result, nil
}

// Cached returns the latest stored analysis, or nil when none exists or it is stale
func (s *Service) Cached(ctx context.Context, studentID string) (*types.AnalysisResult, error) {
	now := s.now()

	if s.cache != nil {
		if result, ok := s.cache.Get(ctx, studentID); ok {
			if !result.IsStale(now, s.staleAfter) {
				return result, nil
			}
			s.cache.Invalidate(ctx, studentID)
		}
	}

	result, err := s.results.FetchResult(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stored analysis %s: %w", studentID, err)
	}
	if result == nil || result.IsStale(now, s.staleAfter) {
		return nil, nil
	}

	if s.cache != nil {
		s.cache.Set(ctx, studentID, result)
	}
	return result, nil
}

// SubmitIntake validates and stores an intake capture, dropping any cached analysis
func (s *Service) SubmitIntake(ctx context.Context, studentID string, intake *profile.FlatIntakeProfile) error {
	if intake == nil {
		return &profile.ValidationError{Fields: []profile.FieldError{{Field: "body", Rule: "required"}}}
	}
	if err := intake.Validate(); err != nil {
		return err
	}

	if err := s.profiles.SaveIntake(ctx, studentID, intake); err != nil {
		return fmt.Errorf("failed to save intake %s: %w", studentID, err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, studentID)
	}

	s.logger.Info("intake saved", zap.String("student_id", studentID))
	return nil
}

// BatchItem is the outcome of one student in a batch
type BatchItem struct {
	StudentID string                `json:"student_id"`
	Result    *types.AnalysisResult `json:"result,omitempty"`
	Error     string                `json:"error,omitempty"`
	NotFound  bool                  `json:"not_found,omitempty"`
}

// AnalyzeBatch analyzes many students with the batch options and bounded concurrency.
// Per-student failures are reported in the items; only cancellation fails the batch.
func (s *Service) AnalyzeBatch(ctx context.Context, studentIDs []string) ([]BatchItem, error) {
	items := make([]BatchItem, len(studentIDs))
	opts := ranking.BatchOptions()

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, id := range studentIDs {
		g.Go(func() error {
			items[i].StudentID = id
			if err := ctx.Err(); err != nil {
				items[i].Error = err.Error()
				return nil
			}
			result, err := s.Analyze(ctx, id, opts)
			if err != nil {
				items[i].Error = err.Error()
				items[i].NotFound = errors.Is(err, ErrProfileNotFound)
				return nil
			}
			items[i].Result = result
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}
