package server

import (
	"net/http"

	"github.com/jmartell/cherrypick/internal/db"
)

// ---------------------------------------------------------------------
// Job handlers
// ---------------------------------------------------------------------

// createJobRequest accepts either the raw description text or a URL to
// ingest it from; exactly one must be provided.
type createJobRequest struct {
	JobTitle       string `json:"job_title" validate:"required"`
	CompanyName    string `json:"company_name"`
	RawDescription string `json:"raw_description"`
	SourceURL      string `json:"source_url" validate:"omitempty,url"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if (req.RawDescription == "") == (req.SourceURL == "") {
		s.errorResponse(w, http.StatusBadRequest, "Provide exactly one of raw_description or source_url")
		return
	}

	description := req.RawDescription
	if req.SourceURL != "" {
		text, err := s.fetcher.FetchJobDescription(r.Context(), req.SourceURL)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting: "+err.Error())
			return
		}
		description = text
	}

	job, err := s.db.CreateJob(r.Context(), &db.Job{
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		RawDescription: description,
		SourceURL:      req.SourceURL,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50)
	offset := parseQueryInt(r, "offset", 0)

	jobs, err := s.db.ListJobs(r.Context(), limit, offset)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jobs == nil {
		jobs = []db.Job{}
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.db.DeleteJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAnalyzeJob extracts responsibilities and hard skills from the job's
// raw description and stores them
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	parsed, err := s.analyzer.Analyze(r.Context(), job.RawDescription)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Analysis failed: "+err.Error())
		return
	}
	if err := s.db.SaveJobAnalysis(r.Context(), id, parsed.TopResponsibilities, parsed.HardSkills); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	job, err = s.db.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleJobMatchSet generates and returns the match set for an analyzed job
func (s *Server) handleJobMatchSet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if !job.IsAnalyzed {
		s.errorResponse(w, http.StatusConflict, "Job has not been analyzed")
		return
	}

	set, err := s.matcher.Match(r.Context(), job)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Match generation failed: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, set)
}
