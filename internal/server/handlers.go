package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/syllabus-auditor/internal/domains"
	"github.com/jonathan/syllabus-auditor/internal/ingestion"
	"github.com/jonathan/syllabus-auditor/internal/scoring"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

// maxUploadBytes caps multipart syllabus uploads.
const maxUploadBytes = 20 << 20

// minSyllabusTextLen mirrors the workflow's pasted-text minimum.
const minSyllabusTextLen = 50

// handleSkills returns the industry skill list for ?domain=&role=.
func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	role := r.URL.Query().Get("role")
	if !domains.ValidDomain(domain) || !domains.ValidRole(domain, role) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown domain/role pair %q / %q", domain, role))
		return
	}

	skills, err := s.oracle.IndustrySkills(r.Context(), domain, role)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, skills)
}

// handleGrade audits a syllabus. The body is either JSON (text and/or a
// base64 file payload) or a multipart form with a PDF under "file".
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGradeRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if !domains.ValidDomain(req.Domain) || !domains.ValidRole(req.Domain, req.Role) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown domain/role pair %q / %q", req.Domain, req.Role))
		return
	}
	if req.File == nil && len(req.Text) < minSyllabusTextLen {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("syllabus text must be at least %d characters", minSyllabusTextLen))
		return
	}

	skills := make([]types.Skill, 0, len(req.SkillNames))
	for _, name := range req.SkillNames {
		skills = append(skills, types.Skill{Name: name})
	}
	if len(skills) == 0 {
		fetched, err := s.oracle.IndustrySkills(r.Context(), req.Domain, req.Role)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		skills = fetched
	}

	content := types.SyllabusContent{Text: req.Text, File: req.File}
	analysis, err := s.oracle.GradeSyllabus(r.Context(), req.Domain, req.Role, skills, content)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// Skills the caller has already verified elsewhere arrive pre-validated.
	validated := s.ledger.Intersect(callerID(r), analysis.MissingSkills)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analysis":        analysis,
		"validatedSkills": validated,
		"effectiveScore":  scoring.EffectiveScore(analysis.Score, len(analysis.MissingSkills), len(validated)),
	})
}

// decodeGradeRequest reads either encoding of a grade request.
func decodeGradeRequest(r *http.Request) (*types.GradeRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, &ErrValidation{Field: "body", Message: "invalid multipart form"}
		}
		req := &types.GradeRequest{
			Domain: r.FormValue("domain"),
			Role:   r.FormValue("role"),
			Text:   r.FormValue("text"),
		}
		if names := r.FormValue("skillNames"); names != "" {
			if err := json.Unmarshal([]byte(names), &req.SkillNames); err != nil {
				return nil, &ErrValidation{Field: "skillNames", Message: "must be a JSON string array"}
			}
		}
		file, header, err := r.FormFile("file")
		if err == nil {
			defer func() { _ = file.Close() }()
			data, err := io.ReadAll(file)
			if err != nil {
				return nil, &ErrValidation{Field: "file", Message: "unreadable upload"}
			}
			payload, err := ingestion.LoadSyllabusFile(header.Filename, header.Header.Get("Content-Type"), data)
			if err != nil {
				return nil, err
			}
			req.File = payload
		}
		return req, nil
	}

	var req types.GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if req.File != nil && req.File.MimeType != ingestion.MimePDF {
		return nil, &ingestion.UnsupportedFileError{Name: req.File.Name, MimeType: req.File.MimeType}
	}
	return &req, nil
}

// handleResources suggests learning resources for missing skills, with
// best-effort title enrichment.
func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	var req types.ResourcesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	found, err := s.oracle.LearningResources(r.Context(), req.MissingSkills)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.enricher.Enrich(r.Context(), found))
}

// handleQuiz returns the 3-question verification quiz for one skill.
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	skill := r.PathValue("skill")
	if skill == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill is required")
		return
	}

	questions, err := s.oracle.SkillQuiz(r.Context(), skill)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, questions)
}

// handleCompass generates a career roadmap for a stream/domain/role triple.
func (s *Server) handleCompass(w http.ResponseWriter, r *http.Request) {
	var req types.CompassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if !domains.ValidStream(req.Stream) || !domains.ValidDomain(req.Domain) || !domains.ValidRole(req.Domain, req.Role) {
		s.errorResponse(w, http.StatusBadRequest, "unknown stream/domain/role selection")
		return
	}

	domainLabel := fmt.Sprintf("%s (%s)", req.Stream, req.Domain)
	compass, err := s.oracle.CareerCompass(r.Context(), domainLabel, req.Role)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, compass)
}

// handleListSessions returns the caller's saved sessions, most recent first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.sessions.ListForUser(callerID(r)))
}

// handleSaveSession upserts a saved session owned by the caller. A missing
// id mints a new one; validated skills are clamped to the analysis's
// missing-skill set.
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var saved types.SavedSession
	if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if saved.Analysis == nil {
		s.errorResponse(w, http.StatusBadRequest, "analysis is required")
		return
	}

	saved.UserID = callerID(r)
	created := saved.ID == ""
	if created {
		saved.ID = uuid.NewString()
	} else if existing := s.sessions.Get(saved.ID); existing != nil && existing.UserID != saved.UserID {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "session", ID: saved.ID}).Error())
		return
	}

	now := time.Now()
	if saved.Timestamp == 0 {
		saved.Timestamp = now.UnixMilli()
	}
	if saved.Date == "" {
		saved.Date = now.Format("2006-01-02")
	}
	if saved.Name == "" {
		saved.Name = fmt.Sprintf("%s Analysis - %s", saved.Role, saved.Date)
	}
	saved.ValidatedSkills = intersect(saved.ValidatedSkills, saved.Analysis.MissingSkills)

	if err := s.sessions.Save(saved); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, saved)
}

// handleGetSession returns one of the caller's sessions by id.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	saved := s.sessions.Get(r.PathValue("id"))
	if saved == nil || saved.UserID != callerID(r) {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "session", ID: r.PathValue("id")}).Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

// handleDeleteSession removes one of the caller's sessions.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	saved := s.sessions.Get(id)
	if saved == nil || saved.UserID != callerID(r) {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "session", ID: id}).Error())
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleValidateSkill records a quiz result against a saved session. A
// perfect score merges the skill into the global ledger and patches the
// session in place; anything less changes nothing.
func (s *Server) handleValidateSkill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	saved := s.sessions.Get(id)
	if saved == nil || saved.UserID != callerID(r) {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "session", ID: id}).Error())
		return
	}

	var req types.ValidateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if saved.Analysis == nil || !contains(saved.Analysis.MissingSkills, req.Skill) {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("%q is not a missing skill of this session", req.Skill))
		return
	}

	verified := req.Score >= 100
	if verified && !contains(saved.ValidatedSkills, req.Skill) {
		if _, err := s.ledger.Merge(saved.UserID, req.Skill); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		saved.ValidatedSkills = append(saved.ValidatedSkills, req.Skill)
		if err := s.sessions.UpdateValidatedSkills(saved.ID, saved.ValidatedSkills); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"verified":        verified,
		"validatedSkills": saved.ValidatedSkills,
		"effectiveScore":  scoring.EffectiveScore(saved.Analysis.Score, len(saved.Analysis.MissingSkills), len(saved.ValidatedSkills)),
	})
}

// handleStats returns the caller's audit count and average effective score.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.sessions.StatsForUser(callerID(r)))
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// intersect keeps the members of a that appear in b, preserving a's order.
func intersect(a, b []string) []string {
	kept := make([]string, 0, len(a))
	for _, n := range a {
		if contains(b, n) {
			kept = append(kept, n)
		}
	}
	return kept
}
