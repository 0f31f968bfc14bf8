package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/formcoach/internal/insights"
	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/posture"
	"github.com/claude/formcoach/internal/session"
)

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var record models.SessionRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	record.UserID = userID
	record = session.Bound(record)

	id, err := s.db.InsertSession(r.Context(), record)
	if err != nil {
		s.log.Error("saving session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("session saved", "user_id", userID, "session_id", id,
		"score", record.PostureScore, "completed", record.ExercisesCompleted)
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleSaveEvaluation(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var record models.SessionRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	record.UserID = userID
	record.Evaluation = true
	record = session.Bound(record)

	id, err := s.db.InsertSession(r.Context(), record)
	if err != nil {
		s.log.Error("saving evaluation", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	level := session.LevelForScore(record.PostureScore)

	// An evaluation recalibrates the stored fitness level.
	if profile, perr := s.db.GetProfile(r.Context(), userID); perr == nil {
		profile.FitnessLevel = level
		if uerr := s.db.UpsertProfile(r.Context(), *profile); uerr != nil {
			s.log.Error("updating fitness level", "error", uerr)
		}
	}

	s.log.Info("evaluation saved", "user_id", userID, "session_id", id, "level", level)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "level": level})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	sessions, err := s.db.QuerySessions(r.Context(), userID, start, end, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.SessionRecord{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

type postureScoreRequest struct {
	Landmarks json.RawMessage `json:"landmarks"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
}

func (s *Server) handlePostureScore(w http.ResponseWriter, r *http.Request) {
	var req postureScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	landmarks, err := posture.DecodeLandmarks(req.Landmarks)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Width <= 0 {
		req.Width = 640
	}
	if req.Height <= 0 {
		req.Height = 480
	}

	score, tags := posture.Score(landmarks, req.Width, req.Height)
	issues := posture.Analyze(landmarks, req.Width, req.Height)
	if issues == nil {
		issues = []posture.Issue{}
	}
	if tags == nil {
		tags = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"score":  score,
		"tags":   tags,
		"issues": issues,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	now := time.Now()
	sessions, err := s.db.QuerySessions(r.Context(), userID, time.Time{}, now.Add(time.Hour), 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, insights.ComputeIndicators(sessions, now))
}

type adviceRequest struct {
	Session *models.SessionRecord `json:"session"`
	Goals   string                `json:"goals"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var req adviceRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	record := req.Session
	if record == nil {
		recent, err := s.db.RecentSessions(r.Context(), userID, 1)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if len(recent) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no session to advise on"})
			return
		}
		record = &recent[0]
	}

	goals := req.Goals
	if goals == "" {
		if profile, perr := s.db.GetProfile(r.Context(), userID); perr == nil {
			goals = profile.Goals
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"advice": insights.Advise(*record, goals),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := s.resolveUserID(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	stats, err := s.db.GetDataStats(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
