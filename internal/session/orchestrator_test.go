package session

import (
	"testing"
	"time"

	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/posture"
)

// fakeClock is a manually advanced clock for deterministic timing tests.
type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func fixedRNG(v float64) func() float64 { return func() float64 { return v } }

func sessionExercises() []models.Exercise {
	return []models.Exercise{
		{Name: "Squats", Sets: 2, Reps: 10, Rest: 60},
		{Name: "Planche", Sets: 1, Duration: 30, Rest: 45},
	}
}

// TestOrchestrator_SetProgression verifies the set/rest/exercise walk:
// finishing the last set of the last exercise completes the session.
func TestOrchestrator_SetProgression(t *testing.T) {
	clock := newFakeClock()
	o := New("monday", sessionExercises(), WithClock(clock))

	o.Start()
	if o.State() != StateExerciseActive {
		t.Fatalf("state = %s, want %s", o.State(), StateExerciseActive)
	}

	o.MarkSetDone() // squats set 1 of 2
	if o.State() != StateSetRest {
		t.Fatalf("state after set 1 = %s, want %s", o.State(), StateSetRest)
	}
	o.Advance()
	o.MarkSetDone() // squats set 2 of 2 -> next exercise
	ex, ok := o.CurrentExercise()
	if !ok || ex.Name != "Planche" {
		t.Fatalf("current exercise = %v %v, want Planche", ex, ok)
	}

	o.MarkSetDone() // planche single set -> done
	if o.State() != StateFinished {
		t.Fatalf("state = %s, want %s", o.State(), StateFinished)
	}

	record := o.Record()
	if record.ExercisesCompleted != 2 {
		t.Errorf("ExercisesCompleted = %d, want 2", record.ExercisesCompleted)
	}
	if record.StopReason != StopReasonCompleted {
		t.Errorf("StopReason = %q, want %q", record.StopReason, StopReasonCompleted)
	}
}

// TestOrchestrator_PauseExcludedFromElapsed verifies paused time does not
// count toward session duration.
func TestOrchestrator_PauseExcludedFromElapsed(t *testing.T) {
	clock := newFakeClock()
	o := New("monday", sessionExercises(), WithClock(clock))

	o.Start()
	clock.advance(30 * time.Second)
	o.Pause()
	clock.advance(5 * time.Minute)
	o.Resume()
	clock.advance(30 * time.Second)

	if got := o.Elapsed(); got != time.Minute {
		t.Errorf("Elapsed() = %v, want 1m", got)
	}
}

// TestOrchestrator_SampleRateLimit verifies observations closer together
// than the sampling interval are dropped.
func TestOrchestrator_SampleRateLimit(t *testing.T) {
	clock := newFakeClock()
	o := New("monday", sessionExercises(), WithClock(clock))

	o.Start()
	for i := 0; i < 10; i++ {
		o.Observe(80, nil)
		clock.advance(50 * time.Millisecond) // 4x faster than the limit
	}

	if len(o.samples) != 3 { // t=0, t=200ms, t=400ms
		t.Errorf("samples = %d, want 3", len(o.samples))
	}
}

// TestOrchestrator_AutoStopAfterGrace verifies a high-severity posture
// issue stops the session only after the grace period, and only once.
func TestOrchestrator_AutoStopAfterGrace(t *testing.T) {
	clock := newFakeClock()
	o := New("monday", sessionExercises(), WithClock(clock))

	high := []posture.Issue{{Type: "back_rounded", Severity: "high"}}

	o.Start()
	clock.advance(2 * time.Second)
	o.Observe(30, high)
	if o.State() == StateFinished {
		t.Fatal("session stopped during grace period")
	}

	clock.advance(9 * time.Second)
	o.Observe(30, high)
	if o.State() != StateFinished {
		t.Fatal("session not stopped after grace period")
	}

	record := o.Record()
	if record.StopReason != StopReasonPosture {
		t.Errorf("StopReason = %q, want %q", record.StopReason, StopReasonPosture)
	}
}

// TestOrchestrator_SkipBounds verifies skips advance the session and the
// record keeps at most ten skipped entries.
func TestOrchestrator_SkipBounds(t *testing.T) {
	exercises := make([]models.Exercise, 15)
	for i := range exercises {
		exercises[i] = models.Exercise{Name: "Squats", Sets: 1, Reps: 5}
	}
	clock := newFakeClock()
	o := New("monday", exercises, WithClock(clock), WithRNG(fixedRNG(0.5)))

	o.Start()
	for i := 0; i < 15; i++ {
		o.Skip()
	}
	if o.State() != StateFinished {
		t.Fatalf("state = %s, want %s", o.State(), StateFinished)
	}

	record := o.Record()
	if len(record.SkippedExercises) != 10 {
		t.Errorf("SkippedExercises = %d, want 10", len(record.SkippedExercises))
	}
}

// TestOrchestrator_ScoreFallback verifies the aggregate score falls back
// to a 75-95 value when no positive samples were collected.
func TestOrchestrator_ScoreFallback(t *testing.T) {
	clock := newFakeClock()
	o := New("monday", sessionExercises(), WithClock(clock), WithRNG(fixedRNG(0.5)))

	o.Start()
	o.Stop(StopReasonUser)

	record := o.Record()
	if record.PostureScore != 85 { // 75 + 0.5*20
		t.Errorf("PostureScore = %v, want 85", record.PostureScore)
	}
}

// TestOrchestrator_AggregateIgnoresZeroScores verifies zero-score frames
// (no usable landmarks) are excluded from the mean.
func TestOrchestrator_AggregateIgnoresZeroScores(t *testing.T) {
	clock := newFakeClock()
	o := New("monday", sessionExercises(), WithClock(clock))

	o.Start()
	for _, score := range []int{0, 80, 0, 90} {
		o.Observe(score, nil)
		clock.advance(time.Second)
	}

	record := o.Record()
	if record.PostureScore != 85 {
		t.Errorf("PostureScore = %v, want 85", record.PostureScore)
	}
}

// TestDownsample verifies long sample streams are reduced to the storage
// bound while always keeping the final sample.
func TestDownsample(t *testing.T) {
	base := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	samples := make([]models.PostureSample, 450)
	for i := range samples {
		samples[i] = models.PostureSample{Timestamp: base.Add(time.Duration(i) * time.Second), Score: i}
	}

	out := downsample(samples, 100)

	if len(out) > 100 {
		t.Errorf("len = %d, want <= 100", len(out))
	}
	if out[len(out)-1].Timestamp != samples[449].Timestamp {
		t.Error("final sample not retained")
	}

	// Stride exactly covering the input must not overflow the bound.
	exact := downsample(samples[:200], 100)
	if len(exact) != 100 {
		t.Errorf("exact-stride len = %d, want 100", len(exact))
	}
	if exact[len(exact)-1].Timestamp != samples[199].Timestamp {
		t.Error("exact-stride final sample not retained")
	}

	short := samples[:50]
	if got := downsample(short, 100); len(got) != 50 {
		t.Errorf("short stream len = %d, want 50", len(got))
	}
}
