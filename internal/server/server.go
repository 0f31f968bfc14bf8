package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/formcoach/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(Identity)

	s.router.Get("/api/v1/health", s.handleHealth)
	s.router.Get("/api/v1/me", s.handleMe)

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/profile", s.handleGetProfile)
	s.router.Get("/api/v1/profile/extended", s.handleGetExtendedProfile)
	s.router.Get("/api/v1/plan", s.handleGetPlan)
	s.router.Get("/api/v1/plan/history", s.handlePlanHistory)
	s.router.Get("/api/v1/sessions", s.handleListSessions)
	s.router.Get("/api/v1/progress", s.handleProgress)
	s.router.Get("/api/v1/stats", s.handleStats)

	// Compute endpoints
	s.router.Post("/api/v1/posture/score", s.handlePostureScore)
	s.router.Post("/api/v1/advice", s.handleAdvice)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Put("/api/v1/profile", s.handlePutProfile)
		r.Put("/api/v1/profile/extended", s.handlePutExtendedProfile)
		r.Post("/api/v1/plan/generate", s.handleGeneratePlan)
		r.Post("/api/v1/plan/optimize", s.handleOptimizePlan)
		r.Post("/api/v1/plan/rollback", s.handleRollbackPlan)
		r.Post("/api/v1/sessions", s.handleSaveSession)
		r.Post("/api/v1/sessions/evaluation", s.handleSaveEvaluation)
	})
}
