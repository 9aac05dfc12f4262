package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/syllabus-auditor/internal/domains"
	"github.com/jonathan/syllabus-auditor/internal/kv"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

// stubOracle serves canned content for handler tests.
type stubOracle struct {
	skills    []types.Skill
	analysis  *types.AnalysisResult
	resources []types.Resource
	quiz      []types.QuizQuestion
	compass   *types.CareerCompass
	err       error
}

func (s *stubOracle) IndustrySkills(context.Context, string, string) ([]types.Skill, error) {
	return s.skills, s.err
}

func (s *stubOracle) GradeSyllabus(context.Context, string, string, []types.Skill, types.SyllabusContent) (*types.AnalysisResult, error) {
	return s.analysis, s.err
}

func (s *stubOracle) LearningResources(context.Context, []string) ([]types.Resource, error) {
	return s.resources, s.err
}

func (s *stubOracle) SkillQuiz(context.Context, string) ([]types.QuizQuestion, error) {
	return s.quiz, s.err
}

func (s *stubOracle) CareerCompass(context.Context, string, string) (*types.CareerCompass, error) {
	return s.compass, s.err
}

func newTestServer(t *testing.T) (*Server, *stubOracle, kv.Store) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "1")

	store := kv.NewMemoryStore()
	o := &stubOracle{
		skills: []types.Skill{{ID: "s1", Name: "SQL", Importance: types.ImportanceHigh}},
		analysis: &types.AnalysisResult{
			Score:         72,
			MissingSkills: []string{"SQL Windowing", "dbt", "A/B Testing"},
			Breakdown:     types.Breakdown{Relevance: 60, Depth: 50, Modernity: 40},
		},
		resources: []types.Resource{{Title: "dbt Fundamentals", URL: "http://127.0.0.1:1/x", Level: types.LevelBeginner, Type: "course"}},
		quiz: []types.QuizQuestion{
			{Question: "q1", Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Question: "q2", Options: []string{"a", "b"}, CorrectAnswer: 1},
			{Question: "q3", Options: []string{"a", "b"}, CorrectAnswer: 0},
		},
		compass: &types.CareerCompass{Roadmap: []types.RoadmapStage{{Title: "Foundations"}}},
	}

	srv, err := New(Config{Port: 0}, store, o)
	require.NoError(t, err)
	return srv, o, store
}

// doJSON performs a request with an optional token and JSON body.
func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server, email, name string) (token, userID string) {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: email, Name: name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginIssuesToken(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, userID := login(t, srv, "sam@uni.edu", "Sam")
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)

	// Same email yields the same id.
	_, again := login(t, srv, "SAM@uni.edu", "Sam")
	assert.Equal(t, userID, again)
}

func TestLoginValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "not-an-email", Name: "Sam"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	srv, _, _ := newTestServer(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/skills?domain=x&role=y"},
		{http.MethodPost, "/grade"},
		{http.MethodGet, "/sessions"},
		{http.MethodGet, "/stats"},
	} {
		rec := doJSON(t, srv, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}

	rec := doJSON(t, srv, http.MethodGet, "/sessions", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSkills(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	path := "/skills?domain=" + url.QueryEscape(domains.Data) + "&role=" + url.QueryEscape("Data Analyst")
	rec := doJSON(t, srv, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var skills []types.Skill
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skills))
	require.Len(t, skills, 1)
	assert.Equal(t, "SQL", skills[0].Name)
}

func TestSkillsRejectsUnknownPair(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodGet, "/skills?domain=Astrology&role=Seer", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradeWithText(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodPost, "/grade", token, types.GradeRequest{
		Domain:     domains.Data,
		Role:       "Data Analyst",
		Text:       "Week 1: spreadsheets. Week 2: pivot tables. Week 3: basic SQL queries.",
		SkillNames: []string{"SQL", "dbt"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Analysis        *types.AnalysisResult `json:"analysis"`
		ValidatedSkills []string              `json:"validatedSkills"`
		EffectiveScore  int                   `json:"effectiveScore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 72, resp.Analysis.Score)
	assert.Empty(t, resp.ValidatedSkills)
	assert.Equal(t, 72, resp.EffectiveScore)
}

func TestGradeRejectsShortText(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodPost, "/grade", token, types.GradeRequest{
		Domain: domains.Data, Role: "Data Analyst", Text: "too short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradeRejectsNonPDFPayload(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodPost, "/grade", token, types.GradeRequest{
		Domain: domains.Data, Role: "Data Analyst",
		File: &types.FilePayload{Data: "aGk=", MimeType: "text/plain", Name: "notes.txt"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradeCollaboratorFailure(t *testing.T) {
	srv, o, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	o.err = fmt.Errorf("model offline")
	rec := doJSON(t, srv, http.MethodPost, "/grade", token, types.GradeRequest{
		Domain: domains.Data, Role: "Data Analyst",
		Text:       "Week 1: spreadsheets. Week 2: pivot tables. Week 3: basic SQL queries.",
		SkillNames: []string{"SQL"},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQuiz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodGet, "/quiz/dbt", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var questions []types.QuizQuestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	assert.Len(t, questions, 3)
}

func TestCompass(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodPost, "/compass", token, types.CompassRequest{
		Stream: "Data & Artificial Intelligence", Domain: domains.Data, Role: "Data Engineer",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/compass", token, types.CompassRequest{
		Stream: "Astral Projection", Domain: domains.Data, Role: "Data Engineer",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func sampleSession() types.SavedSession {
	return types.SavedSession{
		Name:   "Audit",
		Domain: domains.Data,
		Role:   "Data Analyst",
		Analysis: &types.AnalysisResult{
			Score:         72,
			MissingSkills: []string{"SQL Windowing", "dbt", "A/B Testing"},
		},
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, userID := login(t, srv, "sam@uni.edu", "Sam")

	// Create.
	rec := doJSON(t, srv, http.MethodPost, "/sessions", token, sampleSession())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created types.SavedSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, userID, created.UserID)

	// List.
	rec = doJSON(t, srv, http.MethodGet, "/sessions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []types.SavedSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	// Update keeps the repository length stable.
	created.Name = "Renamed"
	rec = doJSON(t, srv, http.MethodPost, "/sessions", token, created)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodGet, "/sessions", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Renamed", listed[0].Name)

	// Get and delete.
	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodDelete, "/sessions/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionOwnershipIsolation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	samToken, _ := login(t, srv, "sam@uni.edu", "Sam")
	rec := doJSON(t, srv, http.MethodPost, "/sessions", samToken, sampleSession())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.SavedSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Another user can neither see nor delete Sam's session.
	kimToken, _ := login(t, srv, "kim@uni.edu", "Kim")
	rec = doJSON(t, srv, http.MethodGet, "/sessions", kimToken, nil)
	var listed []types.SavedSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+created.ID, kimToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, srv, http.MethodDelete, "/sessions/"+created.ID, kimToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateSkillFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodPost, "/sessions", token, sampleSession())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.SavedSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// A failed quiz mutates nothing.
	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+created.ID+"/validate", token,
		types.ValidateSkillRequest{Skill: "dbt", Score: 66})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Verified        bool     `json:"verified"`
		ValidatedSkills []string `json:"validatedSkills"`
		EffectiveScore  int      `json:"effectiveScore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Verified)
	assert.Equal(t, 72, resp.EffectiveScore)

	// A perfect quiz patches the saved session and lowers the score.
	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+created.ID+"/validate", token,
		types.ValidateSkillRequest{Skill: "dbt", Score: 100})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Verified)
	assert.Equal(t, []string{"dbt"}, resp.ValidatedSkills)
	assert.Equal(t, 48, resp.EffectiveScore)

	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+created.ID, token, nil)
	var stored types.SavedSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, []string{"dbt"}, stored.ValidatedSkills)

	// A later grade for the same user arrives pre-validated via the ledger.
	rec = doJSON(t, srv, http.MethodPost, "/grade", token, types.GradeRequest{
		Domain: domains.Data, Role: "Data Analyst",
		Text:       "Week 1: spreadsheets. Week 2: pivot tables. Week 3: basic SQL queries.",
		SkillNames: []string{"SQL", "dbt"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var graded struct {
		ValidatedSkills []string `json:"validatedSkills"`
		EffectiveScore  int      `json:"effectiveScore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &graded))
	assert.Equal(t, []string{"dbt"}, graded.ValidatedSkills)
	assert.Equal(t, 48, graded.EffectiveScore)
}

func TestValidateSkillRejectsUnknownSkill(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodPost, "/sessions", token, sampleSession())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.SavedSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+created.ID+"/validate", token,
		types.ValidateSkillRequest{Skill: "Knitting", Score: 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token, _ := login(t, srv, "sam@uni.edu", "Sam")

	rec := doJSON(t, srv, http.MethodPost, "/sessions", token, sampleSession())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		Count        int `json:"count"`
		AverageScore int `json:"averageScore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 72, stats.AverageScore)
}
