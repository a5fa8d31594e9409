package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/career-advisor/internal/analysis"
	"github.com/jonathan/career-advisor/internal/cache"
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/localstore"
	"github.com/jonathan/career-advisor/internal/ranking"
	"github.com/jonathan/career-advisor/internal/server/ratelimit"
	"github.com/jonathan/career-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, rl *ratelimit.Config) *Server {
	t.Helper()

	store, err := localstore.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	results := cache.New(time.Hour, nil)
	svc, err := analysis.NewService(analysis.Config{
		Catalog:  catalog.Default(),
		Profiles: store,
		Results:  store,
		Cache:    results,
	})
	require.NoError(t, err)

	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	s, err := New(Config{
		Service:   svc,
		Defaults:  ranking.DefaultOptions(),
		RateLimit: rl,
		Cache:     results,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

const mslIntakeJSON = `{
	"full_name": "Asha Rao",
	"email": "asha@example.com",
	"pg_degree": "M.Pharm",
	"technical_skills": "Clinical Research, Medical Writing",
	"soft_skills": "Scientific Communication",
	"internships": "6 months at a CRO",
	"preferred_industry": "Medical Science Liaison",
	"work_style": "Hybrid"
}`

func TestNew_RequiresService(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 12, resp.Roles)
}

func TestRolesEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/roles", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var file catalog.File
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))
	assert.Len(t, file.Roles, 12)
	assert.Equal(t, "GCP Training", file.CriticalSkills[0])
}

func TestStudentFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/students/s1/analysis", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPut, "/students/s1/intake", mslIntakeJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved IntakeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, IntakeResponse{StudentID: "s1", Status: "saved"}, saved)

	w = do(t, s, http.MethodPost, "/students/s1/analysis", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "s1", result.StudentID)
	assert.Len(t, result.Recommendations, ranking.StudentTopN)
	assert.Equal(t, "Medical Science Liaison", result.Recommendations[0].Title)
	require.NotNil(t, result.AdvisoryReport)
	assert.Equal(t, 88, result.AdvisoryReport.CareerFit.Score)

	w = do(t, s, http.MethodGet, "/students/s1/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cached types.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cached))
	assert.Equal(t, result.Recommendations, cached.Recommendations)
	assert.True(t, result.AnalyzedAt.Equal(cached.AnalyzedAt))
}

func TestAnalyze_QueryOptions(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/students/s1/intake", mslIntakeJSON).Code)

	w := do(t, s, http.MethodPost, "/students/s1/analysis?top_n=3&policy=per_record", "")
	require.Equal(t, http.StatusOK, w.Code)
	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Recommendations, 3)

	w = do(t, s, http.MethodPost, "/students/s1/analysis?top_n=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Recommendations, 12)

	tests := []struct {
		name  string
		query string
	}{
		{"negative top_n", "top_n=-1"},
		{"non-numeric top_n", "top_n=abc"},
		{"unknown policy", "policy=bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/students/s1/analysis?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAnalyze_UnknownStudent(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/students/ghost/analysis", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "profile not found")
}

func TestSubmitIntake_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPut, "/students/s1/intake", `{"email": "nope", "ug_year": "20x1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, 2)

	w = do(t, s, http.MethodPut, "/students/s1/intake", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitIntake_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, nil)
	s.maxBody = 16

	w := do(t, s, http.MethodPut, "/students/s1/intake", mslIntakeJSON)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBatchEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/students/a/intake", mslIntakeJSON).Code)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/students/b/intake", `{"technical_skills": "Statistical Analysis"}`).Code)

	w := do(t, s, http.MethodPost, "/batch/analyses", `{"student_ids": ["a", "missing", "b"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Analyzed)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 3)
	assert.Len(t, resp.Results[0].Result.Recommendations, ranking.BatchTopN)
	assert.True(t, resp.Results[1].NotFound)
}

func TestBatchEndpoint_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	tooMany := make([]string, MaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = "s"
	}
	body, err := json.Marshal(BatchRequest{StudentIDs: tooMany})
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"missing ids", `{}`},
		{"empty ids", `{"student_ids": []}`},
		{"blank id", `{"student_ids": ["a", ""]}`},
		{"too many", string(body)},
		{"bad json", `[`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/batch/analyses", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &ratelimit.Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	w := do(t, s, http.MethodGet, "/roles", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, s, http.MethodGet, "/roles", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// probes are never limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/students/s1/intake", nil)
	req.Header.Set("Origin", "https://advisor.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	do(t, s, http.MethodGet, "/roles", "")
	do(t, s, http.MethodPost, "/students/ghost/analysis", "")

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `career_http_requests_total{method="GET",route="GET /roles",status="200"} 1`)
	assert.Contains(t, body, `career_analyses_total{flow="student",outcome="error"} 1`)
	assert.True(t, strings.Contains(body, "career_cache_hits_total"))
}
