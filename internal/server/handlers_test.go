package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no transport identity is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = req.WithContext(WithUserInfo(req.Context(), UserInfo{Login: "local", DisplayName: "Local Dev User"}))
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleHealth verifies the liveness endpoint.
func TestHandleHealth(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

// TestHandlePostureScore verifies the scoring endpoint over a full
// aligned frame.
func TestHandlePostureScore(t *testing.T) {
	s := &Server{}

	// 33 aligned landmarks as a flat [x,y,z,v] array.
	var flat []float64
	coords := map[int][2]float64{
		0: {0.5, 0.2},
		11: {0.5, 0.3}, 12: {0.5, 0.3},
		13: {0.5, 0.45}, 14: {0.5, 0.45},
		23: {0.5, 0.38}, 24: {0.5, 0.38},
		25: {0.5, 0.6}, 26: {0.5, 0.6},
		27: {0.5, 0.8}, 28: {0.5, 0.8},
	}
	for i := 0; i < 33; i++ {
		x, y := 0.5, 0.5
		if c, ok := coords[i]; ok {
			x, y = c[0], c[1]
		}
		flat = append(flat, x, y, 0, 0.9)
	}
	payload, _ := json.Marshal(map[string]any{
		"landmarks": flat,
		"width":     640,
		"height":    480,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/score", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()
	s.handlePostureScore(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Score  int   `json:"score"`
		Issues []any `json:"issues"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Score != 100 {
		t.Errorf("score = %d, want 100", body.Score)
	}
	if len(body.Issues) != 0 {
		t.Errorf("issues = %v, want none", body.Issues)
	}
}

// TestHandlePostureScoreBadPayload verifies malformed landmark payloads
// are rejected with 400.
func TestHandlePostureScoreBadPayload(t *testing.T) {
	s := &Server{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/score",
		strings.NewReader(`{"landmarks": {"not":"an array"}}`))
	rec := httptest.NewRecorder()
	s.handlePostureScore(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
