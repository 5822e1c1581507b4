package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/types"
)

// ---------------------------------------------------------------------
// Tailoring handlers
// ---------------------------------------------------------------------

// handleTailorJob starts a background tailoring run for the job and returns
// 202 with the pending record; progress is polled via the status endpoint
func (s *Server) handleTailorJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.pipeline.Enqueue(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusAccepted, tailorStatusView(rec))
}

func (s *Server) handleTailorStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.db.GetTailoredResumeByJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, "No tailoring run for this job")
		return
	}
	s.jsonResponse(w, http.StatusOK, tailorStatusView(rec))
}

func (s *Server) handleTailorResult(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.completedRecord(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Result)
}

// handleResumePreview streams the compiled PDF for inline viewing
func (s *Server) handleResumePreview(w http.ResponseWriter, r *http.Request) {
	s.servePDF(w, r, "inline")
}

// handleResumeDownload streams the compiled PDF as a file attachment
func (s *Server) handleResumeDownload(w http.ResponseWriter, r *http.Request) {
	s.servePDF(w, r, "attachment")
}

// servePDF compiles the stored result to PDF on demand
func (s *Server) servePDF(w http.ResponseWriter, r *http.Request, disposition string) {
	rec, ok := s.completedRecord(w, r)
	if !ok {
		return
	}

	var resume types.TailoredResume
	if err := json.Unmarshal(rec.Result, &resume); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Stored result is corrupt: "+err.Error())
		return
	}

	pdf, err := s.renderer.RenderPDF(r.Context(), &resume)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "PDF rendering failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, "resume-"+rec.JobID.String()+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// completedRecord loads the job's tailoring record and writes the
// appropriate error unless the run has completed
func (s *Server) completedRecord(w http.ResponseWriter, r *http.Request) (*db.TailoredResumeRecord, bool) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	rec, err := s.db.GetTailoredResumeByJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, "No tailoring run for this job")
		return nil, false
	}
	switch rec.Status {
	case db.TailorStatusCompleted:
		return rec, true
	case db.TailorStatusFailed:
		s.errorResponse(w, http.StatusConflict, "Tailoring failed: "+rec.ErrorMessage)
		return nil, false
	default:
		s.errorResponse(w, http.StatusConflict, "Tailoring is still "+rec.Status)
		return nil, false
	}
}

// tailorStatusView shapes the record for polling clients, omitting the
// (possibly large) result payload
func tailorStatusView(rec *db.TailoredResumeRecord) map[string]any {
	view := map[string]any{
		"job_id":          rec.JobID,
		"status":          rec.Status,
		"completed_steps": rec.CompletedSteps,
		"total_steps":     rec.TotalSteps,
	}
	if rec.CurrentStep != "" {
		view["current_step"] = rec.CurrentStep
	}
	if rec.ErrorMessage != "" {
		view["error_message"] = rec.ErrorMessage
	}
	if rec.StartedAt != nil {
		view["started_at"] = rec.StartedAt
	}
	if rec.CompletedAt != nil {
		view["completed_at"] = rec.CompletedAt
	}
	return view
}
