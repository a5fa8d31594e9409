package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-advisor/internal/analysis"
	"github.com/jonathan/career-advisor/internal/profile"
	"github.com/jonathan/career-advisor/internal/ranking"
)

// MaxBatchSize bounds the number of students in one batch request
const MaxBatchSize = 100

// IntakeResponse is returned after an intake capture is stored
type IntakeResponse struct {
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
}

// BatchRequest is the body of POST /batch/analyses
type BatchRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,max=100,dive,required,max=128"`
}

// BatchResponse reports per-student outcomes of a batch
type BatchResponse struct {
	Results  []analysis.BatchItem `json:"results"`
	Analyzed int                  `json:"analyzed"`
	Failed   int                  `json:"failed"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Roles  int    `json:"roles"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{Status: "ok", Roles: s.service.Catalog().Len()})
}

// handleRoles returns the role catalog
func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.service.Catalog().File())
}

// handleSubmitIntake stores a flat intake capture for a student
func (s *Server) handleSubmitIntake(w http.ResponseWriter, r *http.Request) {
	studentID, err := studentIDFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var intake profile.FlatIntakeProfile
	if err := s.decodeBody(w, r, &intake); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.service.SubmitIntake(r.Context(), studentID, &intake); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, IntakeResponse{StudentID: studentID, Status: "saved"})
}

// handleAnalyze runs an analysis for a stored profile
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	studentID, err := studentIDFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := s.analysisOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.Analyze(r.Context(), studentID, opts)
	s.metrics.observeAnalysis("student", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetAnalysis returns the latest non-stale analysis of a student
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	studentID, err := studentIDFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.Cached(r.Context(), studentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result == nil {
		s.writeError(w, r, &ErrAnalysisNotFound{StudentID: studentID})
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleBatch analyzes many students with the batch options
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, requestValidationError(err))
		return
	}

	items, err := s.service.AnalyzeBatch(r.Context(), req.StudentIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := BatchResponse{Results: items}
	for _, item := range items {
		if item.Result != nil {
			resp.Analyzed++
			s.metrics.observeAnalysis("batch", nil)
		} else {
			resp.Failed++
			s.metrics.observeAnalysis("batch", errors.New(item.Error))
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// analysisOptions reads top_n and policy query parameters over the server defaults
func (s *Server) analysisOptions(r *http.Request) (ranking.Options, error) {
	opts := s.defaults
	q := r.URL.Query()

	if raw := q.Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, &ErrValidation{Field: "top_n", Message: "must be a non-negative integer"}
		}
		opts.TopN = n
	}

	if raw := q.Get("policy"); raw != "" {
		policy, err := ranking.ParseExperiencePolicy(raw)
		if err != nil {
			return opts, &ErrValidation{Field: "policy", Message: err.Error()}
		}
		opts.ExperiencePolicy = policy
	}

	return opts, nil
}

// decodeBody decodes a bounded JSON request body
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func studentIDFrom(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", &ErrValidation{Field: "id", Message: "student ID is required"}
	}
	if len(id) > 128 {
		return "", &ErrValidation{Field: "id", Message: "student ID is too long"}
	}
	return id, nil
}

// requestValidationError converts validator errors into ErrValidation
func requestValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: fe.Namespace(), Message: "failed " + fe.Tag() + " rule"}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

