package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/types"
)

// ---------------------------------------------------------------------
// Experience handlers
// ---------------------------------------------------------------------

type createExperienceRequest struct {
	CompanyName string     `json:"company_name" validate:"required"`
	RoleTitle   string     `json:"role_title" validate:"required"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	IsCurrent   bool       `json:"is_current"`
}

func (s *Server) handleCreateExperience(w http.ResponseWriter, r *http.Request) {
	var req createExperienceRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	exp, err := s.db.CreateExperience(r.Context(), &db.Experience{
		CompanyName: req.CompanyName,
		RoleTitle:   req.RoleTitle,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsCurrent:   req.IsCurrent,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, exp)
}

func (s *Server) handleListExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := s.db.ListExperiences(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if experiences == nil {
		experiences = []db.Experience{}
	}
	s.jsonResponse(w, http.StatusOK, experiences)
}

func (s *Server) handleGetExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	exp, err := s.db.GetExperience(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if exp == nil {
		s.errorResponse(w, http.StatusNotFound, "Experience not found")
		return
	}

	bullets, err := s.db.ListBulletPoints(r.Context(), types.SourceExperience, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"experience":    exp,
		"bullet_points": bullets,
	})
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch db.ExperiencePatch
	if err := s.decodeAndValidate(r, &patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.db.UpdateExperience(r.Context(), id, &patch)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Experience not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.db.DeleteExperience(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Experience not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Project handlers
// ---------------------------------------------------------------------

type createProjectRequest struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link" validate:"omitempty,url"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	proj, err := s.db.CreateProject(r.Context(), &db.Project{
		Name:         req.Name,
		Description:  req.Description,
		Technologies: req.Technologies,
		Link:         req.Link,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, proj)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.ListProjects(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if projects == nil {
		projects = []db.Project{}
	}
	s.jsonResponse(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	proj, err := s.db.GetProject(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if proj == nil {
		s.errorResponse(w, http.StatusNotFound, "Project not found")
		return
	}

	bullets, err := s.db.ListBulletPoints(r.Context(), types.SourceProject, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"project":       proj,
		"bullet_points": bullets,
	})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch db.Project
	if err := s.decodeAndValidate(r, &patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.db.UpdateProject(r.Context(), id, &patch)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Project not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.db.DeleteProject(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Project not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Bullet point handlers
// ---------------------------------------------------------------------

type createBulletRequest struct {
	SourceID   string `json:"source_id" validate:"required,uuid"`
	SourceType string `json:"source_type" validate:"required,oneof=experience project"`
	Content    string `json:"content" validate:"required,min=10"`
}

func (s *Server) handleCreateBulletPoint(w http.ResponseWriter, r *http.Request) {
	var req createBulletRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	sourceID := mustParseUUID(req.SourceID)

	bullet, err := s.db.CreateBulletPoint(r.Context(), types.SourceType(req.SourceType), sourceID, req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.embedBullet(r, bullet)
	s.jsonResponse(w, http.StatusCreated, bullet)
}

func (s *Server) handleListBulletPoints(w http.ResponseWriter, r *http.Request) {
	sourceType := types.SourceType(r.URL.Query().Get("source_type"))
	sourceID := r.URL.Query().Get("source_id")
	if sourceType != types.SourceExperience && sourceType != types.SourceProject {
		s.errorResponse(w, http.StatusBadRequest, "source_type must be 'experience' or 'project'")
		return
	}
	id, err := parseUUIDParam(sourceID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "source_id must be a valid UUID")
		return
	}

	bullets, err := s.db.ListBulletPoints(r.Context(), sourceType, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if bullets == nil {
		bullets = []db.BulletPoint{}
	}
	s.jsonResponse(w, http.StatusOK, bullets)
}

type updateBulletRequest struct {
	Content string `json:"content" validate:"required,min=10"`
}

func (s *Server) handleUpdateBulletPoint(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateBulletRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	bullet, err := s.db.UpdateBulletPointContent(r.Context(), id, req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if bullet == nil {
		s.errorResponse(w, http.StatusNotFound, "Bullet point not found")
		return
	}

	// content changed, so the stored vector is stale
	s.embedBullet(r, bullet)
	s.jsonResponse(w, http.StatusOK, bullet)
}

func (s *Server) handleDeleteBulletPoint(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.db.DeleteBulletPoint(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Bullet point not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// embedBullet stores the bullet's embedding. Embedding failures are logged
// and left for the resync command; they never fail the write.
func (s *Server) embedBullet(r *http.Request, bullet *db.BulletPoint) {
	vector, err := s.embedder.Embed(r.Context(), bullet.Content)
	if err != nil {
		s.logger.Warn("failed to embed bullet point",
			zap.String("bullet_id", bullet.ID.String()), zap.Error(err))
		return
	}
	if err := s.db.UpsertBulletEmbedding(r.Context(), bullet.ID, bullet.SourceID, bullet.SourceType, vector); err != nil {
		s.logger.Warn("failed to store bullet embedding",
			zap.String("bullet_id", bullet.ID.String()), zap.Error(err))
	}
}
