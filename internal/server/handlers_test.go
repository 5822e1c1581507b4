package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
)

// testServer builds a server sufficient for exercising request validation;
// handlers must reject bad input before touching any dependency.
func testServer() *Server {
	return &Server{
		logger:   zap.NewNop(),
		validate: validator.New(),
	}
}

func doRequest(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateExperience_RejectsMissingFields(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleCreateExperience, http.MethodPost, "/api/v1/experiences",
		`{"company_name": "Acme"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestCreateExperience_RejectsMalformedJSON(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleCreateExperience, http.MethodPost, "/api/v1/experiences", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProject_RejectsInvalidLink(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleCreateProject, http.MethodPost, "/api/v1/projects",
		`{"name": "tool", "link": "not a url"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBulletPoint_RejectsBadSourceType(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleCreateBulletPoint, http.MethodPost, "/api/v1/bullet-points",
		`{"source_id": "7b7e8e6e-1c2d-4f3a-9a8b-123456789abc", "source_type": "hobby", "content": "Did a meaningful thing"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBulletPoint_RejectsShortContent(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleCreateBulletPoint, http.MethodPost, "/api/v1/bullet-points",
		`{"source_id": "7b7e8e6e-1c2d-4f3a-9a8b-123456789abc", "source_type": "experience", "content": "short"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBulletPoints_RequiresSourceFilter(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleListBulletPoints, http.MethodGet, "/api/v1/bullet-points", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "source_type")
}

func TestCreateSkills_RejectsEmptyBatch(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleCreateSkills, http.MethodPost, "/api/v1/skills", `{"skills": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEducation_RejectsOutOfRangeGPA(t *testing.T) {
	s := testServer()
	rec := doRequest(t, s.handleCreateEducation, http.MethodPost, "/api/v1/education",
		`{"institution": "State University", "degree": "BSc", "start_date": "2018-09-01T00:00:00Z", "gpa": 7.5}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_RequiresExactlyOneSource(t *testing.T) {
	s := testServer()

	neither := doRequest(t, s.handleCreateJob, http.MethodPost, "/api/v1/jobs",
		`{"job_title": "Engineer"}`)
	assert.Equal(t, http.StatusBadRequest, neither.Code)
	assert.Contains(t, neither.Body.String(), "exactly one")

	both := doRequest(t, s.handleCreateJob, http.MethodPost, "/api/v1/jobs",
		`{"job_title": "Engineer", "raw_description": "text", "source_url": "https://example.com/job"}`)
	assert.Equal(t, http.StatusBadRequest, both.Code)
}

func TestPathIDHandlers_RejectNonUUID(t *testing.T) {
	s := testServer()
	handlers := map[string]http.HandlerFunc{
		"get experience":  s.handleGetExperience,
		"get skill":       s.handleGetSkill,
		"delete skill":    s.handleDeleteSkill,
		"get job":         s.handleGetJob,
		"job match set":   s.handleJobMatchSet,
		"tailor status":   s.handleTailorStatus,
		"resume preview":  s.handleResumePreview,
		"resume download": s.handleResumeDownload,
	}

	for name, handler := range handlers {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/x/not-a-uuid", nil)
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s should reject a non-UUID id", name)
	}
}

func TestRoutes_RegisterMatchSetSkillAndGenerateEndpoints(t *testing.T) {
	s := testServer()
	mux := s.routes()

	// a non-UUID id is rejected before any dependency is touched, so a 400
	// (rather than 404) proves the route is registered
	targets := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/jobs/not-a-uuid/match-set"},
		{http.MethodGet, "/api/v1/skills/not-a-uuid"},
		{http.MethodGet, "/api/v1/generate/preview/not-a-uuid"},
		{http.MethodGet, "/api/v1/generate/download/not-a-uuid"},
	}
	for _, target := range targets {
		req := httptest.NewRequest(target.method, target.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", target.method, target.path)
	}
}

func TestExperiencePatch_DistinguishesOmittedIsCurrent(t *testing.T) {
	var omitted db.ExperiencePatch
	require.NoError(t, json.Unmarshal([]byte(`{"company_name": "Acme"}`), &omitted))
	assert.Nil(t, omitted.IsCurrent)

	var explicit db.ExperiencePatch
	require.NoError(t, json.Unmarshal([]byte(`{"is_current": false}`), &explicit))
	require.NotNil(t, explicit.IsCurrent)
	assert.False(t, *explicit.IsCurrent)
}

func TestWithCORS_ShortCircuitsPreflight(t *testing.T) {
	s := testServer()
	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the next handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
