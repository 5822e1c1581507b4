package server

import (
	"net/http"

	"go.uber.org/zap"
)

// handleResync embeds every bullet and skill that is missing a stored
// vector. Used after bulk imports or an embedding-model change.
func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	bullets, err := s.db.ListUnembeddedBullets(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	skills, err := s.db.ListUnembeddedSkills(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	embeddedBullets := 0
	for _, bullet := range bullets {
		vector, err := s.embedder.Embed(r.Context(), bullet.Content)
		if err != nil {
			s.logger.Warn("resync: failed to embed bullet",
				zap.String("bullet_id", bullet.ID.String()), zap.Error(err))
			continue
		}
		if err := s.db.UpsertBulletEmbedding(r.Context(), bullet.ID, bullet.SourceID, bullet.SourceType, vector); err != nil {
			s.logger.Warn("resync: failed to store bullet embedding",
				zap.String("bullet_id", bullet.ID.String()), zap.Error(err))
			continue
		}
		embeddedBullets++
	}

	embeddedSkills := 0
	for _, skill := range skills {
		vector, err := s.embedder.Embed(r.Context(), skill.Name)
		if err != nil {
			s.logger.Warn("resync: failed to embed skill",
				zap.String("skill_id", skill.ID.String()), zap.Error(err))
			continue
		}
		if err := s.db.UpsertSkillEmbedding(r.Context(), skill.ID, vector); err != nil {
			s.logger.Warn("resync: failed to store skill embedding",
				zap.String("skill_id", skill.ID.String()), zap.Error(err))
			continue
		}
		embeddedSkills++
	}

	s.jsonResponse(w, http.StatusOK, map[string]int{
		"bullets_pending":  len(bullets),
		"bullets_embedded": embeddedBullets,
		"skills_pending":   len(skills),
		"skills_embedded":  embeddedSkills,
	})
}
