package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/plan"
	"github.com/claude/formcoach/internal/storage"
)

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	profile, err := s.db.GetProfile(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "create a profile before generating a plan"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	ext, err := s.db.GetExtendedProfile(r.Context(), userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	generated := plan.Build(*profile, ext)
	if err := s.db.SavePlan(r.Context(), userID, generated); err != nil {
		s.log.Error("saving plan", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("plan generated", "user_id", userID, "version", generated.Version,
		"days", len(generated.Days), "empty", generated.IsEmpty())
	writeJSON(w, http.StatusOK, generated)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	current, err := s.db.GetCurrentPlan(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no plan generated yet"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, current)
}

type optimizeRequest struct {
	Feedback   string `json:"feedback"`
	Difficulty int    `json:"difficulty"`
	RPE        int    `json:"rpe"`
}

func (s *Server) handleOptimizePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var req optimizeRequest
	if r.Body != nil {
		// Body is optional; optimization can run on history alone.
		json.NewDecoder(r.Body).Decode(&req)
	}

	current, err := s.db.GetCurrentPlan(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no plan to optimize"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.RecentSessions(r.Context(), userID, 2)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	optimized := plan.Optimize(current, plan.OptimizeInput{
		Sessions:   sessions,
		Feedback:   req.Feedback,
		Difficulty: req.Difficulty,
		RPE:        req.RPE,
	})
	now := time.Now()
	optimized.Version = plan.NewVersion(now)
	optimized.CreatedAt = now

	if err := s.db.SavePlan(r.Context(), userID, optimized); err != nil {
		s.log.Error("saving optimized plan", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("plan optimized", "user_id", userID, "version", optimized.Version,
		"adjustment", optimized.OptimizationParams.IntensityAdjustment)
	writeJSON(w, http.StatusOK, optimized)
}

func (s *Server) handlePlanHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	history, err := s.db.GetPlanHistory(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if history == nil {
		history = []models.PlanHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

type rollbackRequest struct {
	Version string `json:"version"`
}

func (s *Server) handleRollbackPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var req rollbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Version == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "version is required"})
		return
	}

	restored, err := s.db.GetPlanVersion(r.Context(), userID, req.Version)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan version not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// The restored plan becomes the newest version.
	now := time.Now()
	restored.Version = plan.NewVersion(now)
	restored.CreatedAt = now

	if err := s.db.SavePlan(r.Context(), userID, restored); err != nil {
		s.log.Error("saving rolled-back plan", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("plan rolled back", "user_id", userID, "from_version", req.Version, "new_version", restored.Version)
	writeJSON(w, http.StatusOK, restored)
}
