package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
)

// ---------------------------------------------------------------------
// Skill handlers
// ---------------------------------------------------------------------

type createSkillsRequest struct {
	Skills []skillEntry `json:"skills" validate:"required,min=1,dive"`
}

type skillEntry struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
}

func (s *Server) handleCreateSkills(w http.ResponseWriter, r *http.Request) {
	var req createSkillsRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := make([]db.Skill, 0, len(req.Skills))
	for _, entry := range req.Skills {
		rows = append(rows, db.Skill{Name: entry.Name, Category: entry.Category})
	}

	created, err := s.db.BatchCreateSkills(r.Context(), rows)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	for i := range created {
		s.embedSkill(r, &created[i])
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.db.ListSkills(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if skills == nil {
		skills = []db.Skill{}
	}
	s.jsonResponse(w, http.StatusOK, skills)
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	skill, err := s.db.GetSkill(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if skill == nil {
		s.errorResponse(w, http.StatusNotFound, "Skill not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, skill)
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.db.DeleteSkill(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Skill not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// embedSkill stores the skill's embedding, logging failures for resync
func (s *Server) embedSkill(r *http.Request, skill *db.Skill) {
	vector, err := s.embedder.Embed(r.Context(), skill.Name)
	if err != nil {
		s.logger.Warn("failed to embed skill",
			zap.String("skill_id", skill.ID.String()), zap.Error(err))
		return
	}
	if err := s.db.UpsertSkillEmbedding(r.Context(), skill.ID, vector); err != nil {
		s.logger.Warn("failed to store skill embedding",
			zap.String("skill_id", skill.ID.String()), zap.Error(err))
	}
}

// ---------------------------------------------------------------------
// Education handlers
// ---------------------------------------------------------------------

type createEducationRequest struct {
	Institution  string     `json:"institution" validate:"required"`
	Degree       string     `json:"degree" validate:"required"`
	FieldOfStudy string     `json:"field_of_study"`
	Location     string     `json:"location"`
	StartDate    time.Time  `json:"start_date" validate:"required"`
	EndDate      *time.Time `json:"end_date"`
	GPA          *float64   `json:"gpa" validate:"omitempty,gte=0,lte=4"`
}

func (s *Server) handleCreateEducation(w http.ResponseWriter, r *http.Request) {
	var req createEducationRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	edu, err := s.db.CreateEducation(r.Context(), &db.Education{
		Institution:  req.Institution,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		GPA:          req.GPA,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, edu)
}

func (s *Server) handleListEducation(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.ListEducation(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if entries == nil {
		entries = []db.Education{}
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.db.DeleteEducation(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Education entry not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
