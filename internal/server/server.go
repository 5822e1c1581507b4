// Package server provides the HTTP REST API for cherrypick.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/analysis"
	"github.com/jmartell/cherrypick/internal/config"
	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/embedding"
	"github.com/jmartell/cherrypick/internal/ingestion"
	"github.com/jmartell/cherrypick/internal/llm"
	"github.com/jmartell/cherrypick/internal/matching"
	"github.com/jmartell/cherrypick/internal/picker"
	"github.com/jmartell/cherrypick/internal/rendering"
	"github.com/jmartell/cherrypick/internal/server/ratelimit"
	"github.com/jmartell/cherrypick/internal/tailoring"
)

// Server is the HTTP API server and its wired dependencies
type Server struct {
	httpServer *http.Server
	db         *db.DB
	logger     *zap.Logger
	validate   *validator.Validate
	limiter    *ratelimit.Limiter

	embedder embedding.Embedder
	llm      llm.Client
	fetcher  *ingestion.Fetcher
	analyzer *analysis.Analyzer
	matcher  *matching.Matchmaker
	pipeline *tailoring.Pipeline
	renderer *rendering.Renderer
}

// New wires the full service from configuration
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	embedder, err := embedding.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbedModel)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, &llm.Config{
		Provider: llm.Provider(cfg.Provider),
		Model:    cfg.PickerModel,
		BaseURL:  cfg.OllamaBaseURL,
		APIKey:   cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	matcher := matching.NewMatchmaker(database, embedder, logger)
	s := &Server{
		db:       database,
		logger:   logger,
		validate: validator.New(),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		embedder: embedder,
		llm:      client,
		fetcher:  ingestion.NewFetcher(logger, true),
		analyzer: analysis.NewAnalyzer(client, logger),
		matcher:  matcher,
		pipeline: tailoring.NewPipeline(database, matcher, picker.NewPicker(client, logger), logger, cfg.TailorTimeout),
		renderer: rendering.NewRenderer(cfg.TypstBin, logger),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// content bank
	mux.HandleFunc("POST /api/v1/experiences", s.handleCreateExperience)
	mux.HandleFunc("GET /api/v1/experiences", s.handleListExperiences)
	mux.HandleFunc("GET /api/v1/experiences/{id}", s.handleGetExperience)
	mux.HandleFunc("PATCH /api/v1/experiences/{id}", s.handleUpdateExperience)
	mux.HandleFunc("DELETE /api/v1/experiences/{id}", s.handleDeleteExperience)

	mux.HandleFunc("POST /api/v1/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/v1/projects", s.handleListProjects)
	mux.HandleFunc("GET /api/v1/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PATCH /api/v1/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("POST /api/v1/bullet-points", s.handleCreateBulletPoint)
	mux.HandleFunc("GET /api/v1/bullet-points", s.handleListBulletPoints)
	mux.HandleFunc("PUT /api/v1/bullet-points/{id}", s.handleUpdateBulletPoint)
	mux.HandleFunc("DELETE /api/v1/bullet-points/{id}", s.handleDeleteBulletPoint)

	mux.HandleFunc("POST /api/v1/skills", s.handleCreateSkills)
	mux.HandleFunc("GET /api/v1/skills", s.handleListSkills)
	mux.HandleFunc("GET /api/v1/skills/{id}", s.handleGetSkill)
	mux.HandleFunc("DELETE /api/v1/skills/{id}", s.handleDeleteSkill)

	mux.HandleFunc("POST /api/v1/education", s.handleCreateEducation)
	mux.HandleFunc("GET /api/v1/education", s.handleListEducation)
	mux.HandleFunc("DELETE /api/v1/education/{id}", s.handleDeleteEducation)

	// jobs
	mux.HandleFunc("POST /api/v1/jobs", s.handleCreateJob)
	mux.HandleFunc("GET /api/v1/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("DELETE /api/v1/jobs/{id}", s.handleDeleteJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/analyze", s.handleAnalyzeJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/match-set", s.handleJobMatchSet)

	// tailoring
	mux.HandleFunc("POST /api/v1/jobs/{id}/tailor", s.handleTailorJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}/tailor/status", s.handleTailorStatus)
	mux.HandleFunc("GET /api/v1/jobs/{id}/tailor/result", s.handleTailorResult)

	// generated PDFs
	mux.HandleFunc("GET /api/v1/generate/preview/{id}", s.handleResumePreview)
	mux.HandleFunc("GET /api/v1/generate/download/{id}", s.handleResumeDownload)

	// admin
	mux.HandleFunc("POST /api/v1/admin/resync-embeddings", s.handleResync)

	return mux
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.limiter.Stop()
	if err := s.llm.Close(); err != nil {
		s.logger.Warn("failed to close LLM client", zap.Error(err))
	}
	s.db.Close()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientID(r)) {
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by IP for rate limiting
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
