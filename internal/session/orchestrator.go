// Package session drives the state machine of a live workout or
// evaluation session: exercise and set progression, pause accounting,
// posture observation with auto-stop, and production of the final
// bounded session record.
package session

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/posture"
)

// State is the orchestrator's lifecycle phase.
type State string

const (
	StateIdle           State = "idle"
	StateExerciseActive State = "exercise_active"
	StateSetRest        State = "set_rest"
	StateFinished       State = "finished"
)

// Stop reasons recorded on the session outcome.
const (
	StopReasonUser      = "user"
	StopReasonCompleted = "completed"
	StopReasonPosture   = "posture_auto_stop"
)

const (
	maxStoredSamples     = 100
	maxErrorsPerSample   = 5
	maxSkippedExercises  = 10
	defaultSampleSpacing = 200 * time.Millisecond
	defaultGracePeriod   = 10 * time.Second
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(c Clock) Option { return func(o *Orchestrator) { o.clock = c } }

// WithRNG replaces the fallback-score random source.
func WithRNG(rng func() float64) Option { return func(o *Orchestrator) { o.rng = rng } }

// WithSampleSpacing sets the minimum interval between accepted posture
// observations.
func WithSampleSpacing(d time.Duration) Option {
	return func(o *Orchestrator) { o.sampleSpacing = d }
}

// WithGracePeriod sets how long after the session start high-severity
// posture issues are tolerated before auto-stop.
func WithGracePeriod(d time.Duration) Option {
	return func(o *Orchestrator) { o.gracePeriod = d }
}

// WithLogger attaches a structured logger.
func WithLogger(log *slog.Logger) Option { return func(o *Orchestrator) { o.log = log } }

// Orchestrator runs one workout session over a fixed exercise list. It is
// caller-driven: the caller reports set completions, pauses and posture
// observations; the orchestrator tracks progression, enforces sampling
// bounds and decides auto-stop. Not safe for concurrent use.
type Orchestrator struct {
	exercises []models.Exercise
	day       string

	clock         Clock
	rng           func() float64
	sampleSpacing time.Duration
	gracePeriod   time.Duration
	log           *slog.Logger

	state         State
	exerciseIndex int
	setIndex      int

	startedAt     time.Time
	pausedElapsed time.Duration
	paused        bool

	lastSampleAt time.Time
	samples      []models.PostureSample
	skipped      []models.SkippedExercise

	autoStopFired bool
	stopReason    string
}

// New creates an orchestrator for the given day's exercises.
func New(day string, exercises []models.Exercise, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		exercises:     models.CloneExercises(exercises),
		day:           day,
		clock:         SystemClock(),
		rng:           rand.Float64,
		sampleSpacing: defaultSampleSpacing,
		gracePeriod:   defaultGracePeriod,
		log:           slog.New(slog.DiscardHandler),
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current lifecycle phase.
func (o *Orchestrator) State() State { return o.state }

// CurrentExercise returns the active exercise, or false once the session
// has moved past the last one.
func (o *Orchestrator) CurrentExercise() (models.Exercise, bool) {
	if o.exerciseIndex < 0 || o.exerciseIndex >= len(o.exercises) {
		return models.Exercise{}, false
	}
	return o.exercises[o.exerciseIndex], true
}

// CurrentSet returns the 1-based set number within the active exercise.
func (o *Orchestrator) CurrentSet() int { return o.setIndex + 1 }

// Start begins the session. Starting an already started session is a
// no-op.
func (o *Orchestrator) Start() {
	if o.state != StateIdle {
		return
	}
	if len(o.exercises) == 0 {
		o.finish(StopReasonCompleted)
		return
	}
	o.startedAt = o.clock.Now()
	o.state = StateExerciseActive
	o.log.Info("session started", "day", o.day, "exercises", len(o.exercises))
}

// Pause freezes elapsed-time accounting. Observations during a pause are
// dropped.
func (o *Orchestrator) Pause() {
	if o.paused || o.state == StateIdle || o.state == StateFinished {
		return
	}
	o.pausedElapsed = o.clock.Now().Sub(o.startedAt)
	o.paused = true
}

// Resume continues a paused session, preserving accumulated elapsed time.
func (o *Orchestrator) Resume() {
	if !o.paused {
		return
	}
	o.startedAt = o.clock.Now().Add(-o.pausedElapsed)
	o.paused = false
}

// Elapsed returns how long the session has effectively run, excluding
// paused time.
func (o *Orchestrator) Elapsed() time.Duration {
	if o.state == StateIdle {
		return 0
	}
	if o.paused {
		return o.pausedElapsed
	}
	return o.clock.Now().Sub(o.startedAt)
}

// MarkSetDone records completion of the current set and moves to the rest
// phase, or straight to the next exercise after the final set.
func (o *Orchestrator) MarkSetDone() {
	if o.state != StateExerciseActive {
		return
	}
	ex, ok := o.CurrentExercise()
	if !ok {
		return
	}
	sets := ex.Sets
	if sets < 1 {
		sets = 1
	}
	o.setIndex++
	if o.setIndex >= sets {
		o.nextExercise()
		return
	}
	o.state = StateSetRest
}

// Advance leaves the rest phase and begins the next set.
func (o *Orchestrator) Advance() {
	if o.state != StateSetRest {
		return
	}
	o.state = StateExerciseActive
}

// Skip abandons the current exercise and moves to the next. At most 10
// skips are retained on the record.
func (o *Orchestrator) Skip() {
	if o.state != StateExerciseActive && o.state != StateSetRest {
		return
	}
	if ex, ok := o.CurrentExercise(); ok && len(o.skipped) < maxSkippedExercises {
		o.skipped = append(o.skipped, models.SkippedExercise{
			Name:  ex.Name,
			Index: o.exerciseIndex,
			Set:   o.setIndex + 1,
		})
	}
	o.nextExercise()
}

// Previous returns to the preceding exercise, restarting at its first set.
func (o *Orchestrator) Previous() {
	if o.state == StateIdle || o.state == StateFinished {
		return
	}
	if o.exerciseIndex > 0 {
		o.exerciseIndex--
	}
	o.setIndex = 0
	o.state = StateExerciseActive
}

// Stop ends the session with the given reason.
func (o *Orchestrator) Stop(reason string) {
	if o.state == StateFinished || o.state == StateIdle {
		return
	}
	o.finish(reason)
}

// Observe ingests one scored posture frame. Frames arriving within the
// sampling interval of the previous one are dropped. A high-severity
// issue observed after the grace period triggers auto-stop, once.
func (o *Orchestrator) Observe(score int, issues []posture.Issue) {
	if o.paused || (o.state != StateExerciseActive && o.state != StateSetRest) {
		return
	}
	now := o.clock.Now()
	if !o.lastSampleAt.IsZero() && now.Sub(o.lastSampleAt) < o.sampleSpacing {
		return
	}
	o.lastSampleAt = now

	tags := make([]string, 0, len(issues))
	for _, issue := range issues {
		if len(tags) >= maxErrorsPerSample {
			break
		}
		tags = append(tags, issue.Type)
	}
	o.samples = append(o.samples, models.PostureSample{
		Timestamp: now,
		Score:     score,
		ErrorTags: tags,
	})

	if !o.autoStopFired && posture.HighSeverity(issues) && o.Elapsed() >= o.gracePeriod {
		o.autoStopFired = true
		o.log.Warn("high-severity posture issue, stopping session", "day", o.day, "score", score)
		o.finish(StopReasonPosture)
	}
}

func (o *Orchestrator) nextExercise() {
	o.setIndex = 0
	o.exerciseIndex++
	if o.exerciseIndex >= len(o.exercises) {
		o.finish(StopReasonCompleted)
		return
	}
	o.state = StateExerciseActive
}

func (o *Orchestrator) finish(reason string) {
	if o.paused {
		o.Resume()
	}
	o.state = StateFinished
	o.stopReason = reason
}

// Record assembles the final session record: the aggregate posture score
// (mean of positive samples, or a plausible fallback when no usable
// samples exist), completion count, bounded sample and skip lists.
// The completion count is index-based, so skipped exercises count as
// completed; the skip list carries the distinction.
func (o *Orchestrator) Record() models.SessionRecord {
	record := models.SessionRecord{
		WorkoutDay:         o.day,
		Exercises:          models.CloneExercises(o.exercises),
		SkippedExercises:   o.skipped,
		DurationSeconds:    int(o.Elapsed().Seconds()),
		PostureScore:       o.aggregateScore(),
		ExercisesCompleted: min(o.exerciseIndex, len(o.exercises)),
		PostureSamples:     downsample(o.samples, maxStoredSamples),
		StopReason:         o.stopReason,
		CompletedAt:        o.clock.Now(),
	}
	record.Sanitize()
	return record
}

func (o *Orchestrator) aggregateScore() float64 {
	sum, count := 0.0, 0
	for _, s := range o.samples {
		if s.Score > 0 {
			sum += float64(s.Score)
			count++
		}
	}
	if count == 0 {
		return 75 + o.rng()*20
	}
	return sum / float64(count)
}

// Bound enforces the record's storage limits on externally submitted
// records: samples downsampled to 100 with at most 5 error tags each, at
// most 10 skipped exercises, and numeric fields sanitized.
func Bound(record models.SessionRecord) models.SessionRecord {
	record.PostureSamples = downsample(record.PostureSamples, maxStoredSamples)
	for i := range record.PostureSamples {
		if tags := record.PostureSamples[i].ErrorTags; len(tags) > maxErrorsPerSample {
			record.PostureSamples[i].ErrorTags = tags[:maxErrorsPerSample]
		}
	}
	if len(record.SkippedExercises) > maxSkippedExercises {
		record.SkippedExercises = record.SkippedExercises[:maxSkippedExercises]
	}
	record.Sanitize()
	return record
}

// downsample reduces samples to at most limit entries by keeping every
// n-th one. The final sample is always retained, replacing the last kept
// entry when the stride already fills the limit.
func downsample(samples []models.PostureSample, limit int) []models.PostureSample {
	if len(samples) <= limit {
		return samples
	}
	interval := (len(samples) + limit - 1) / limit
	if interval < 1 {
		interval = 1
	}
	out := make([]models.PostureSample, 0, limit)
	for i := 0; i < len(samples); i += interval {
		out = append(out, samples[i])
	}
	last := samples[len(samples)-1]
	if out[len(out)-1].Timestamp != last.Timestamp {
		if len(out) < limit {
			out = append(out, last)
		} else {
			out[len(out)-1] = last
		}
	}
	return out
}
