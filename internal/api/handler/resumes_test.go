package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/careerai/careerai/internal/ai"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

// --- mock ResumeStore ---

type mockResumeStore struct {
	resumes   map[uuid.UUID]*models.Resume
	createErr error
}

func newMockResumeStore() *mockResumeStore {
	return &mockResumeStore{resumes: make(map[uuid.UUID]*models.Resume)}
}

func (m *mockResumeStore) CreateResume(_ context.Context, r *models.Resume) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.resumes[r.ID] = r
	return nil
}

func (m *mockResumeStore) GetResume(_ context.Context, id, userID uuid.UUID) (*models.Resume, error) {
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return nil, store.ErrNotFound
	}
	return r, nil
}

// --- mock Analyzer ---

type mockAnalyzer struct {
	triggerFn func(params ai.AnalyzeParams) (*models.AnalysisRun, error)
	runs      map[uuid.UUID]*models.AnalysisRun
	statusErr error
}

func (m *mockAnalyzer) TriggerAnalysis(_ context.Context, params ai.AnalyzeParams) (*models.AnalysisRun, error) {
	return m.triggerFn(params)
}

func (m *mockAnalyzer) GetRun(_ context.Context, runID, userID uuid.UUID) (*models.AnalysisRun, error) {
	r, ok := m.runs[runID]
	if !ok || r.UserID != userID {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (m *mockAnalyzer) RunStatus(_ context.Context, runID, userID uuid.UUID) (string, error) {
	if m.statusErr != nil {
		return "", m.statusErr
	}
	r, err := m.GetRun(context.Background(), runID, userID)
	if err != nil {
		return "", err
	}
	return r.Status, nil
}

func TestCreateResume(t *testing.T) {
	st := newMockResumeStore()
	h := NewCreateResumeHandler(st)
	userID := uuid.New()
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, newReq(t, http.MethodPost, "/api/resumes",
		map[string]any{"content": "  Go engineer, 6 years.  "}, userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got models.Resume
	parseData(t, rec, &got)
	if got.Title != "Resume" || got.Content != "Go engineer, 6 years." || got.UserID != userID {
		t.Errorf("unexpected resume %+v", got)
	}
	if _, ok := st.resumes[got.ID]; !ok {
		t.Error("resume was not stored")
	}
}

func TestCreateResume_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing content", map[string]any{"title": "CV"}},
		{"blank content", map[string]any{"content": "   "}},
		{"too long", map[string]any{"content": strings.Repeat("a", maxResumeChars+1)}},
		{"invalid json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCreateResumeHandler(newMockResumeStore())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newReq(t, http.MethodPost, "/api/resumes", tt.body, uuid.New()))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateResume_StoreError(t *testing.T) {
	st := newMockResumeStore()
	st.createErr = errors.New("disk full")
	h := NewCreateResumeHandler(st)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, newReq(t, http.MethodPost, "/api/resumes", map[string]any{"content": "cv"}, uuid.New()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Error("internal error leaked")
	}
}

func TestGetResume(t *testing.T) {
	st := newMockResumeStore()
	userID := uuid.New()
	r := &models.Resume{ID: uuid.New(), UserID: userID, Title: "CV", Content: "cv"}
	st.resumes[r.ID] = r
	h := NewGetResumeHandler(st)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newReq(t, http.MethodGet, "/api/resumes/x", nil, userID, "resumeID", r.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, newReq(t, http.MethodGet, "/api/resumes/x", nil, uuid.New(), "resumeID", r.ID.String()))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAnalyzeResume_Accepted(t *testing.T) {
	userID, resumeID, jobID := uuid.New(), uuid.New(), uuid.New()
	var captured ai.AnalyzeParams
	svc := &mockAnalyzer{triggerFn: func(p ai.AnalyzeParams) (*models.AnalysisRun, error) {
		captured = p
		return &models.AnalysisRun{ID: uuid.New(), UserID: p.UserID, ResumeID: p.ResumeID, Status: models.RunStatusPending}, nil
	}}
	h := NewAnalyzeResumeHandler(svc)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, newReq(t, http.MethodPost, "/api/resumes/x/analyze",
		map[string]any{"job_id": jobID.String()}, userID, "resumeID", resumeID.String()))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != userID || captured.ResumeID != resumeID || captured.JobID == nil || *captured.JobID != jobID {
		t.Errorf("unexpected params %+v", captured)
	}
	var run models.AnalysisRun
	parseData(t, rec, &run)
	if run.Status != models.RunStatusPending {
		t.Errorf("expected pending, got %s", run.Status)
	}
}

func TestAnalyzeResume_EmptyBody(t *testing.T) {
	var captured ai.AnalyzeParams
	svc := &mockAnalyzer{triggerFn: func(p ai.AnalyzeParams) (*models.AnalysisRun, error) {
		captured = p
		return &models.AnalysisRun{ID: uuid.New(), Status: models.RunStatusPending}, nil
	}}
	h := NewAnalyzeResumeHandler(svc)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, newReq(t, http.MethodPost, "/api/resumes/x/analyze", nil, uuid.New(), "resumeID", uuid.NewString()))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if captured.JobID != nil {
		t.Error("expected no job")
	}
}

func TestAnalyzeResume_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		err      error
		wantCode int
	}{
		{"bad job id", map[string]any{"job_id": "nope"}, nil, http.StatusBadRequest},
		{"resume missing", nil, fmt.Errorf("loading resume: %w", store.ErrNotFound), http.StatusNotFound},
		{"job missing", map[string]any{"job_id": uuid.NewString()}, fmt.Errorf("loading job: %w", store.ErrNotFound), http.StatusNotFound},
		{"store down", nil, errors.New("creating analysis run: boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAnalyzer{triggerFn: func(ai.AnalyzeParams) (*models.AnalysisRun, error) {
				return nil, tt.err
			}}
			h := NewAnalyzeResumeHandler(svc)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newReq(t, http.MethodPost, "/api/resumes/x/analyze", tt.body, uuid.New(), "resumeID", uuid.NewString()))
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestGetAnalysis(t *testing.T) {
	userID := uuid.New()
	run := &models.AnalysisRun{ID: uuid.New(), UserID: userID, Status: models.RunStatusCompleted,
		Result: &models.AnalysisResult{Total: 72}}
	svc := &mockAnalyzer{runs: map[uuid.UUID]*models.AnalysisRun{run.ID: run}}
	h := NewGetAnalysisHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newReq(t, http.MethodGet, "/api/analyses/x", nil, userID, "runID", run.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.AnalysisRun
	parseData(t, rec, &got)
	if got.Result == nil || got.Result.Total != 72 {
		t.Errorf("unexpected run %+v", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, newReq(t, http.MethodGet, "/api/analyses/x", nil, uuid.New(), "runID", run.ID.String()))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user, got %d", rec.Code)
	}
}

func TestAnalysisStatus(t *testing.T) {
	userID := uuid.New()
	run := &models.AnalysisRun{ID: uuid.New(), UserID: userID, Status: models.RunStatusRunning}
	svc := &mockAnalyzer{runs: map[uuid.UUID]*models.AnalysisRun{run.ID: run}}
	h := NewAnalysisStatusHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newReq(t, http.MethodGet, "/api/analyses/x/status", nil, userID, "runID", run.ID.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		Status string `json:"status"`
	}
	parseData(t, rec, &got)
	if got.Status != models.RunStatusRunning {
		t.Errorf("expected running, got %s", got.Status)
	}

	svc.statusErr = errors.New("redis and db down")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, newReq(t, http.MethodGet, "/api/analyses/x/status", nil, userID, "runID", run.ID.String()))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
