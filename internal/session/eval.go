package session

import (
	"math/rand/v2"
	"time"

	"github.com/claude/formcoach/internal/models"
)

// EvalExercise is one movement of the fitness evaluation circuit.
type EvalExercise struct {
	Name            string `json:"name"`
	Reps            int    `json:"reps"`
	DurationSeconds int    `json:"duration"`
	MovementKey     string `json:"movement"`
}

// evalCircuit is the fixed three-movement assessment used to place a
// user on a fitness tier.
var evalCircuit = []EvalExercise{
	{Name: "Squats", Reps: 3, DurationSeconds: 15, MovementKey: "squat"},
	{Name: "Planche", Reps: 1, DurationSeconds: 20, MovementKey: "plank"},
	{Name: "Fentes", Reps: 3, DurationSeconds: 15, MovementKey: "lunge"},
}

const evalSampleSpacing = 500 * time.Millisecond

// Level thresholds for the evaluation average.
const (
	advancedThreshold     = 80
	intermediateThreshold = 60
)

// LevelForScore maps an evaluation average to a fitness level.
func LevelForScore(avg float64) string {
	switch {
	case avg >= advancedThreshold:
		return models.LevelAdvanced
	case avg >= intermediateThreshold:
		return models.LevelIntermediate
	default:
		return models.LevelBeginner
	}
}

// EvalResult is the outcome of a completed evaluation.
type EvalResult struct {
	Scores  []float64 `json:"scores"`
	Average float64   `json:"average"`
	Level   string    `json:"level"`
}

// Evaluator runs the fixed evaluation circuit, scoring each movement
// from posture observations. Like Orchestrator it is caller-driven and
// not safe for concurrent use.
type Evaluator struct {
	clock Clock
	rng   func() float64

	index         int
	started       bool
	finished      bool
	startedAt     time.Time
	pausedElapsed time.Duration
	paused        bool
	lastSampleAt  time.Time

	scores  [][]int
	skipped []bool
}

// NewEvaluator creates an evaluator over the standard circuit.
func NewEvaluator(opts ...EvalOption) *Evaluator {
	e := &Evaluator{
		clock:   SystemClock(),
		rng:     rand.Float64,
		scores:  make([][]int, len(evalCircuit)),
		skipped: make([]bool, len(evalCircuit)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvalOption configures an Evaluator.
type EvalOption func(*Evaluator)

// WithEvalClock replaces the wall clock.
func WithEvalClock(c Clock) EvalOption { return func(e *Evaluator) { e.clock = c } }

// WithEvalRNG replaces the fallback-score random source.
func WithEvalRNG(rng func() float64) EvalOption { return func(e *Evaluator) { e.rng = rng } }

// Circuit returns the evaluation's exercises in order.
func (e *Evaluator) Circuit() []EvalExercise {
	out := make([]EvalExercise, len(evalCircuit))
	copy(out, evalCircuit)
	return out
}

// Current returns the active evaluation exercise, or false when the
// circuit is complete.
func (e *Evaluator) Current() (EvalExercise, bool) {
	if !e.started || e.index >= len(evalCircuit) {
		return EvalExercise{}, false
	}
	return evalCircuit[e.index], true
}

// Start begins the evaluation.
func (e *Evaluator) Start() {
	if e.started {
		return
	}
	e.started = true
	e.startedAt = e.clock.Now()
}

// Pause freezes elapsed-time accounting.
func (e *Evaluator) Pause() {
	if !e.started || e.finished || e.paused {
		return
	}
	e.pausedElapsed = e.clock.Now().Sub(e.startedAt)
	e.paused = true
}

// Resume continues a paused evaluation.
func (e *Evaluator) Resume() {
	if !e.paused {
		return
	}
	e.startedAt = e.clock.Now().Add(-e.pausedElapsed)
	e.paused = false
}

// Elapsed returns effective running time, excluding pauses.
func (e *Evaluator) Elapsed() time.Duration {
	if !e.started {
		return 0
	}
	if e.paused {
		return e.pausedElapsed
	}
	return e.clock.Now().Sub(e.startedAt)
}

// Observe ingests a scored posture frame for the active movement, rate
// limited to one sample per 500ms.
func (e *Evaluator) Observe(score int) {
	if !e.started || e.finished || e.paused || e.index >= len(evalCircuit) {
		return
	}
	now := e.clock.Now()
	if !e.lastSampleAt.IsZero() && now.Sub(e.lastSampleAt) < evalSampleSpacing {
		return
	}
	e.lastSampleAt = now
	e.scores[e.index] = append(e.scores[e.index], score)
}

// Next completes the active movement and moves to the following one,
// finishing the evaluation after the last.
func (e *Evaluator) Next() {
	if !e.started || e.finished {
		return
	}
	e.index++
	if e.index >= len(evalCircuit) {
		e.finished = true
	}
}

// Skip marks the active movement as skipped (scored 0) and moves on.
func (e *Evaluator) Skip() {
	if !e.started || e.finished || e.index >= len(evalCircuit) {
		return
	}
	e.skipped[e.index] = true
	e.scores[e.index] = nil
	e.Next()
}

// Previous returns to the preceding movement, clearing its samples so it
// is measured fresh. At the first movement it restarts it.
func (e *Evaluator) Previous() {
	if !e.started || e.finished {
		return
	}
	if e.index > 0 {
		e.index--
	}
	e.scores[e.index] = nil
	e.skipped[e.index] = false
}

// Finished reports whether the circuit is complete.
func (e *Evaluator) Finished() bool { return e.finished }

// Result computes per-movement scores, the average, and the resulting
// fitness level. Skipped movements score 0; movements with no samples
// receive a plausible fallback score.
func (e *Evaluator) Result() EvalResult {
	scores := make([]float64, len(evalCircuit))
	for i := range evalCircuit {
		switch {
		case e.skipped[i]:
			scores[i] = 0
		case len(e.scores[i]) == 0:
			scores[i] = 70 + e.rng()*20
		default:
			sum := 0
			for _, s := range e.scores[i] {
				sum += s
			}
			scores[i] = float64(sum) / float64(len(e.scores[i]))
		}
	}

	avg := 0.0
	for _, s := range scores {
		avg += s
	}
	avg /= float64(len(scores))

	return EvalResult{Scores: scores, Average: avg, Level: LevelForScore(avg)}
}

// Record produces the persistable session record for a finished
// evaluation.
func (e *Evaluator) Record() models.SessionRecord {
	result := e.Result()
	completed := 0
	var skippedList []models.SkippedExercise
	for i, ex := range evalCircuit {
		if e.skipped[i] {
			skippedList = append(skippedList, models.SkippedExercise{Name: ex.Name, Index: i})
			continue
		}
		completed++
	}
	record := models.SessionRecord{
		WorkoutDay:         "evaluation",
		SkippedExercises:   skippedList,
		DurationSeconds:    int(e.Elapsed().Seconds()),
		PostureScore:       result.Average,
		ExercisesCompleted: completed,
		Evaluation:         true,
		CompletedAt:        e.clock.Now(),
	}
	record.Sanitize()
	return record
}
