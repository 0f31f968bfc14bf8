package plan

import (
	"testing"
	"time"

	"github.com/claude/formcoach/internal/models"
)

var optimizeNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func testPlan() *models.WorkoutPlan {
	return &models.WorkoutPlan{
		Level: models.LevelIntermediate,
		Goals: "forme",
		WeeklyPlan: map[string][]models.Exercise{
			models.Monday: {
				{Name: "Squats", Sets: 3, Reps: 10, Rest: 60, Difficulty: 2},
				{Name: "Planche", Sets: 3, Duration: 30, Rest: 45, Difficulty: 2},
			},
		},
		Days:     []string{models.Monday},
		Duration: "4 weeks",
		Version:  "1.0.1750000000000",
	}
}

func session(score float64, completed, total int, completedAt time.Time) models.SessionRecord {
	exercises := make([]models.Exercise, total)
	for i := range exercises {
		exercises[i] = models.Exercise{Name: "Squats", Sets: 3, Reps: 10}
	}
	return models.SessionRecord{
		PostureScore:       score,
		Exercises:          exercises,
		ExercisesCompleted: completed,
		CompletedAt:        completedAt,
	}
}

// TestOptimize_NoHistory verifies that with no sessions and no feedback
// the adjustment is zero and exercises are untouched, while the
// bookkeeping fields are still set.
func TestOptimize_NoHistory(t *testing.T) {
	p := testPlan()
	got := optimize(p, OptimizeInput{}, optimizeNow)

	if got.OptimizationParams == nil || got.OptimizationParams.IntensityAdjustment != 0 {
		t.Fatalf("IntensityAdjustment = %+v, want 0", got.OptimizationParams)
	}
	squats := got.WeeklyPlan[models.Monday][0]
	if squats.Sets != 3 || squats.Reps != 10 || squats.Rest != 60 {
		t.Errorf("exercise changed with zero delta: %+v", squats)
	}
	if !got.Optimized {
		t.Error("Optimized = false, want true")
	}
	if got.OptimizationMetrics == nil || got.OptimizationMetrics.SessionsAnalyzed != 0 {
		t.Errorf("metrics = %+v, want 0 sessions analyzed", got.OptimizationMetrics)
	}
	if !got.LastOptimized.Equal(optimizeNow) {
		t.Errorf("LastOptimized = %v, want %v", got.LastOptimized, optimizeNow)
	}
}

// TestOptimize_StrongSessionsIncrease verifies two high-quality sessions
// raise intensity by 10%.
func TestOptimize_StrongSessionsIncrease(t *testing.T) {
	p := testPlan()
	in := OptimizeInput{Sessions: []models.SessionRecord{
		session(90, 4, 4, optimizeNow.Add(-24*time.Hour)),
		session(88, 4, 4, optimizeNow.Add(-72*time.Hour)),
	}}

	got := optimize(p, in, optimizeNow)

	if d := got.OptimizationParams.IntensityAdjustment; d != 0.1 {
		t.Fatalf("IntensityAdjustment = %v, want 0.1", d)
	}
	squats := got.WeeklyPlan[models.Monday][0]
	if squats.Reps != 11 {
		t.Errorf("Squats reps = %d, want 11", squats.Reps)
	}
	if squats.Rest != 59 {
		t.Errorf("Squats rest = %d, want 59", squats.Rest)
	}
	plank := got.WeeklyPlan[models.Monday][1]
	if plank.Duration != 31 {
		t.Errorf("Planche duration = %d, want 31", plank.Duration)
	}
}

// TestOptimize_ClampAtMaxDecrease verifies that poor sessions, hard
// feedback and a declining trend together never push the adjustment
// below -0.3.
func TestOptimize_ClampAtMaxDecrease(t *testing.T) {
	p := testPlan()
	in := OptimizeInput{
		Sessions: []models.SessionRecord{
			session(40, 1, 4, optimizeNow.Add(-24*time.Hour)),
			session(55, 2, 4, optimizeNow.Add(-72*time.Hour)),
		},
		Feedback: "beaucoup trop difficile",
		RPE:      9,
	}

	got := optimize(p, in, optimizeNow)

	if d := got.OptimizationParams.IntensityAdjustment; d != -0.3 {
		t.Fatalf("IntensityAdjustment = %v, want -0.3", d)
	}
	squats := got.WeeklyPlan[models.Monday][0]
	if squats.Reps != 7 {
		t.Errorf("Squats reps = %d, want 7", squats.Reps)
	}
	if squats.Sets != 3 { // round(3 * 0.85)
		t.Errorf("Squats sets = %d, want 3", squats.Sets)
	}
}

// TestOptimize_EasyFeedbackOverridesWeakDelta verifies that "too easy"
// feedback lifts a small adjustment to at least +0.15.
func TestOptimize_EasyFeedbackOverridesWeakDelta(t *testing.T) {
	p := testPlan()
	in := OptimizeInput{
		Sessions: []models.SessionRecord{session(76, 4, 4, optimizeNow.Add(-24*time.Hour))},
		Feedback: "c'était trop facile",
	}

	got := optimize(p, in, optimizeNow)

	if d := got.OptimizationParams.IntensityAdjustment; d != 0.15 {
		t.Errorf("IntensityAdjustment = %v, want 0.15", d)
	}
}

// TestOptimize_Floors verifies decreases never push reps below 5,
// sets below 1, or durations below 10 seconds.
func TestOptimize_Floors(t *testing.T) {
	p := &models.WorkoutPlan{
		WeeklyPlan: map[string][]models.Exercise{
			models.Monday: {
				{Name: "Pompes sur une main", Sets: 1, Reps: 5, Rest: 60},
				{Name: "Gainage latéral", Sets: 2, Duration: 10, Rest: 60},
			},
		},
		Days: []string{models.Monday},
	}
	in := OptimizeInput{
		Sessions: []models.SessionRecord{session(40, 1, 4, optimizeNow.Add(-24*time.Hour))},
		RPE:      10,
	}

	got := optimize(p, in, optimizeNow)

	first := got.WeeklyPlan[models.Monday][0]
	if first.Reps != 5 || first.Sets != 1 {
		t.Errorf("first exercise = %d sets x %d reps, want 1 x 5", first.Sets, first.Reps)
	}
	second := got.WeeklyPlan[models.Monday][1]
	if second.Duration != 10 {
		t.Errorf("second exercise duration = %d, want 10", second.Duration)
	}
}

// TestOptimize_DoesNotMutateInput verifies optimization works on a copy.
func TestOptimize_DoesNotMutateInput(t *testing.T) {
	p := testPlan()
	in := OptimizeInput{Sessions: []models.SessionRecord{
		session(90, 4, 4, optimizeNow.Add(-24*time.Hour)),
		session(88, 4, 4, optimizeNow.Add(-72*time.Hour)),
	}}

	optimize(p, in, optimizeNow)

	if p.Optimized {
		t.Error("input plan was marked optimized")
	}
	if p.WeeklyPlan[models.Monday][0].Reps != 10 {
		t.Errorf("input plan exercises changed: %+v", p.WeeklyPlan[models.Monday][0])
	}
}
