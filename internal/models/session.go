package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PostureSample is one scored frame retained in a session record.
type PostureSample struct {
	Timestamp        time.Time `json:"timestamp"`
	Score            int       `json:"score"`
	LandmarksVisible int       `json:"landmarksVisible,omitempty"`
	ErrorTags        []string  `json:"errors,omitempty"`
}

// SkippedExercise records an exercise the user skipped mid-session.
type SkippedExercise struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Set   int    `json:"set,omitempty"`
}

// SessionRecord is the immutable outcome of a finished workout or
// evaluation session. PostureSamples is bounded (downsampled to at most
// 100 entries) before the record crosses the persistence boundary.
type SessionRecord struct {
	ID                 uuid.UUID         `json:"id,omitempty"`
	UserID             int               `json:"user_id,omitempty"`
	WorkoutDay         string            `json:"workoutDay,omitempty"`
	Exercises          []Exercise        `json:"exercises,omitempty"`
	SkippedExercises   []SkippedExercise `json:"skippedExercises,omitempty"`
	DurationSeconds    int               `json:"duration"`
	PostureScore       float64           `json:"postureScore"`
	ExercisesCompleted int               `json:"exercisesCompleted"`
	PostureSamples     []PostureSample   `json:"postureData,omitempty"`
	Evaluation         bool              `json:"evaluation,omitempty"`
	StopReason         string            `json:"stopReason,omitempty"`
	CompletedAt        time.Time         `json:"completedAt,omitempty"`
}

// SanitizeNumber coerces NaN and infinities to 0 so values are always
// JSON-serializable.
func SanitizeNumber(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Sanitize coerces the record's numeric fields into valid ranges before
// serialization: NaN scores become 0, negative durations and counts become
// 0, the aggregate score is clamped to [0,100].
func (r *SessionRecord) Sanitize() {
	r.PostureScore = SanitizeNumber(r.PostureScore)
	if r.PostureScore < 0 {
		r.PostureScore = 0
	}
	if r.PostureScore > 100 {
		r.PostureScore = 100
	}
	if r.DurationSeconds < 0 {
		r.DurationSeconds = 0
	}
	if r.ExercisesCompleted < 0 {
		r.ExercisesCompleted = 0
	}
	for i := range r.PostureSamples {
		if r.PostureSamples[i].Score < 0 {
			r.PostureSamples[i].Score = 0
		}
		if r.PostureSamples[i].Score > 100 {
			r.PostureSamples[i].Score = 100
		}
	}
}
