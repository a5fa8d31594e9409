package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/career-advisor/internal/cache"
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/ranking"
	"github.com/jonathan/career-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu        sync.Mutex
	intakes   map[string]*profile.FlatIntakeProfile
	results   map[string]*types.AnalysisResult
	fetchErr  error
	saveErr   error
	fetches   atomic.Int32
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	delay     time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		intakes: make(map[string]*profile.FlatIntakeProfile),
		results: make(map[string]*types.AnalysisResult),
	}
}

func (m *memStore) FetchProfile(_ context.Context, id string) (profile.Source, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxFlight.Load()
		if n <= cur || m.maxFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if in, ok := m.intakes[id]; ok {
		return profile.FromFlatIntake(in), nil
	}
	return nil, nil
}

func (m *memStore) SaveIntake(_ context.Context, id string, in *profile.FlatIntakeProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intakes[id] = in
	return nil
}

func (m *memStore) FetchResult(_ context.Context, id string) (*types.AnalysisResult, error) {
	m.fetches.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[id], nil
}

func (m *memStore) SaveResult(_ context.Context, id string, r *types.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.results[id] = r
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func mslIntake() *profile.FlatIntakeProfile {
	return &profile.FlatIntakeProfile{
		FullName:          "Asha Rao",
		PGDegree:          "M.Pharm",
		TechnicalSkills:   "Clinical Research, Medical Writing",
		SoftSkills:        "Scientific Communication",
		Internships:       "6 months at a CRO",
		PreferredIndustry: "Medical Science Liaison",
	}
}

func newTestService(t *testing.T, store *memStore, c *clock, withCache bool) *Service {
	t.Helper()
	cfg := Config{
		Catalog:  catalog.Default(),
		Profiles: store,
		Results:  store,
		Now:      c.now,
	}
	if withCache {
		cfg.Cache = cache.New(time.Hour, nil, cache.WithClock(c.now))
	}
	svc, err := NewService(cfg)
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresDependencies(t *testing.T) {
	store := newMemStore()
	_, err := NewService(Config{Profiles: store, Results: store})
	assert.Error(t, err)
	_, err = NewService(Config{Catalog: catalog.Default(), Results: store})
	assert.Error(t, err)
	_, err = NewService(Config{Catalog: catalog.Default(), Profiles: store})
	assert.Error(t, err)

	svc, err := NewService(Config{Catalog: catalog.Default(), Profiles: store, Results: store})
	require.NoError(t, err)
	assert.Equal(t, DefaultStaleAfter, svc.staleAfter)
	assert.Equal(t, DefaultBatchConcurrency, svc.batchConcurrency)
}

func TestEvaluate_MatchesScoringAndReport(t *testing.T) {
	cat := catalog.Default()
	p := profile.Normalize("s1", profile.FromFlatIntake(mslIntake()))

	result := Evaluate(cat, &p, ranking.DefaultOptions())
	recs, gaps := ranking.ScoreProfile(cat, &p, ranking.DefaultOptions())

	assert.Equal(t, "s1", result.StudentID)
	assert.Equal(t, recs, result.Recommendations)
	assert.Equal(t, gaps, result.SkillGaps)
	require.NotNil(t, result.AdvisoryReport)
	assert.True(t, result.AnalyzedAt.IsZero())
}

func TestEvaluate_NilProfile(t *testing.T) {
	result := Evaluate(catalog.Default(), nil, ranking.DefaultOptions())
	require.NotNil(t, result)
	assert.Len(t, result.Recommendations, ranking.StudentTopN)
	assert.NotNil(t, result.AdvisoryReport)
}

func TestAnalyze_PersistsAndCaches(t *testing.T) {
	store := newMemStore()
	store.intakes["s1"] = mslIntake()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(t, store, c, true)

	result, err := svc.Analyze(context.Background(), "s1", ranking.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "s1", result.StudentID)
	assert.Equal(t, c.t, result.AnalyzedAt)
	assert.Len(t, result.Recommendations, ranking.StudentTopN)
	assert.Equal(t, "Medical Science Liaison", result.Recommendations[0].Title)
	assert.Same(t, result, store.results["s1"])

	cached, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, result, cached)
	assert.Zero(t, store.fetches.Load(), "cache hit must not reach the store")
}

func TestAnalyze_NotFound(t *testing.T) {
	svc := newTestService(t, newMemStore(), &clock{t: time.Now()}, false)

	_, err := svc.Analyze(context.Background(), "ghost", ranking.DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProfileNotFound))
}

func TestAnalyze_FetchError(t *testing.T) {
	store := newMemStore()
	store.fetchErr = errors.New("connection refused")
	svc := newTestService(t, store, &clock{t: time.Now()}, false)

	_, err := svc.Analyze(context.Background(), "s1", ranking.DefaultOptions())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrProfileNotFound))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAnalyze_PersistFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	store.intakes["s1"] = mslIntake()
	store.saveErr = errors.New("disk full")
	svc := newTestService(t, store, &clock{t: time.Now()}, false)

	result, err := svc.Analyze(context.Background(), "s1", ranking.DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Recommendations)
	assert.Empty(t, store.results)
}

func TestAnalyze_OptionsApplied(t *testing.T) {
	store := newMemStore()
	store.intakes["s1"] = mslIntake()
	svc := newTestService(t, store, &clock{t: time.Now()}, false)

	result, err := svc.Analyze(context.Background(), "s1", ranking.Options{TopN: 3})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 3)
}

func TestCached_FallsBackToStore(t *testing.T) {
	store := newMemStore()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store.results["s1"] = &types.AnalysisResult{StudentID: "s1", AnalyzedAt: c.t.Add(-time.Hour)}
	svc := newTestService(t, store, c, true)

	result, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int32(1), store.fetches.Load())

	_, err = svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.fetches.Load(), "second read served from cache")
}

func TestCached_StaleAndMissing(t *testing.T) {
	store := newMemStore()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store.results["old"] = &types.AnalysisResult{StudentID: "old", AnalyzedAt: c.t.Add(-25 * time.Hour)}
	svc := newTestService(t, store, c, false)

	result, err := svc.Cached(context.Background(), "old")
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = svc.Cached(context.Background(), "none")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCached_ExpiresCachedEntry(t *testing.T) {
	store := newMemStore()
	store.intakes["s1"] = mslIntake()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(t, store, c, true)

	_, err := svc.Analyze(context.Background(), "s1", ranking.DefaultOptions())
	require.NoError(t, err)

	c.t = c.t.Add(DefaultStaleAfter)
	result, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSubmitIntake_ValidatesAndInvalidates(t *testing.T) {
	store := newMemStore()
	store.intakes["s1"] = mslIntake()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(t, store, c, true)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, "s1", ranking.DefaultOptions())
	require.NoError(t, err)

	err = svc.SubmitIntake(ctx, "s1", &profile.FlatIntakeProfile{Email: "not-an-email"})
	var verr *profile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email", verr.Fields[0].Field)

	err = svc.SubmitIntake(ctx, "s1", nil)
	require.ErrorAs(t, err, &verr)

	updated := mslIntake()
	updated.TechnicalSkills = "Pharmacovigilance"
	require.NoError(t, svc.SubmitIntake(ctx, "s1", updated))
	assert.Same(t, updated, store.intakes["s1"])

	// the stored result is still fresh, so Cached reads it back from the store
	_, err = svc.Cached(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.fetches.Load())
}

func TestAnalyzeBatch_ReportsPerStudent(t *testing.T) {
	store := newMemStore()
	store.intakes["a"] = mslIntake()
	store.intakes["b"] = &profile.FlatIntakeProfile{TechnicalSkills: "Data Analysis"}
	svc := newTestService(t, store, &clock{t: time.Now()}, false)

	items, err := svc.AnalyzeBatch(context.Background(), []string{"a", "missing", "b"})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "a", items[0].StudentID)
	require.NotNil(t, items[0].Result)
	assert.Len(t, items[0].Result.Recommendations, ranking.BatchTopN)

	assert.Equal(t, "missing", items[1].StudentID)
	assert.Nil(t, items[1].Result)
	assert.True(t, items[1].NotFound)
	assert.NotEmpty(t, items[1].Error)

	assert.Equal(t, "b", items[2].StudentID)
	require.NotNil(t, items[2].Result)
}

func TestAnalyzeBatch_BoundedConcurrency(t *testing.T) {
	store := newMemStore()
	store.delay = 5 * time.Millisecond
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = fmt.Sprintf("s%d", i)
		store.intakes[ids[i]] = mslIntake()
	}
	svc, err := NewService(Config{
		Catalog:          catalog.Default(),
		Profiles:         store,
		Results:          store,
		BatchConcurrency: 3,
	})
	require.NoError(t, err)

	items, err := svc.AnalyzeBatch(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, items, 20)
	assert.LessOrEqual(t, store.maxFlight.Load(), int32(3))
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	store := newMemStore()
	store.intakes["a"] = mslIntake()
	svc := newTestService(t, store, &clock{t: time.Now()}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := svc.AnalyzeBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Result)
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	svc := newTestService(t, newMemStore(), &clock{t: time.Now()}, false)
	items, err := svc.AnalyzeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
