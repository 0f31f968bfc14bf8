package plan

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/claude/formcoach/internal/models"
)

// maxIntensityDelta bounds a single optimization step so one bad (or
// great) week cannot swing the plan by more than 30%.
const maxIntensityDelta = 0.3

// OptimizeInput carries the recent history and subjective feedback an
// optimization run considers.
type OptimizeInput struct {
	Sessions   []models.SessionRecord
	Feedback   string // free text from the user
	Difficulty int    // perceived difficulty 1-5, 0 when absent
	RPE        int    // rating of perceived exertion 1-10, 0 when absent
}

// Optimize returns an adjusted copy of the plan based on the two most
// recent sessions and subjective feedback. The input plan is never
// modified. With no sessions and no feedback the returned copy is
// identical apart from the optimization bookkeeping fields.
func Optimize(p *models.WorkoutPlan, in OptimizeInput) *models.WorkoutPlan {
	return optimize(p, in, time.Now())
}

func optimize(p *models.WorkoutPlan, in OptimizeInput, now time.Time) *models.WorkoutPlan {
	sessions := recentSessions(in.Sessions, 2)
	delta, metrics := calculateDelta(sessions, in, now)

	out := p.Clone()
	for day, exercises := range out.WeeklyPlan {
		for i := range exercises {
			exercises[i] = adjustExercise(exercises[i], delta)
		}
		out.WeeklyPlan[day] = exercises
	}

	out.Optimized = true
	out.LastOptimized = now
	out.OptimizationParams = &models.OptimizationParams{
		IntensityAdjustment: delta,
		CalculatedAt:        now,
	}
	out.OptimizationMetrics = metrics
	return out
}

// recentSessions returns up to n sessions, newest first.
func recentSessions(sessions []models.SessionRecord, n int) []models.SessionRecord {
	sorted := make([]models.SessionRecord, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func calculateDelta(sessions []models.SessionRecord, in OptimizeInput, now time.Time) (float64, *models.OptimizationMetrics) {
	avgScore := 0.0
	avgCompletion := 1.0
	if len(sessions) > 0 {
		scoreSum := 0.0
		completionSum := 0.0
		for _, s := range sessions {
			scoreSum += s.PostureScore
			total := len(s.Exercises)
			if total < 1 {
				total = 1
			}
			completionSum += float64(s.ExercisesCompleted) / float64(total)
		}
		avgScore = scoreSum / float64(len(sessions))
		avgCompletion = completionSum / float64(len(sessions))
	}

	delta := 0.0
	switch {
	case avgScore >= 85 && avgCompletion >= 0.9:
		delta = 0.1
	case avgScore >= 75 && avgCompletion >= 0.8:
		delta = 0.05
	case avgScore < 60 || avgCompletion < 0.6:
		delta = -0.15
	case avgScore < 70 || avgCompletion < 0.7:
		delta = -0.05
	}

	// No history at all means no basis for adjusting.
	if len(sessions) == 0 {
		delta = 0
	}

	feedback := strings.ToLower(in.Feedback)
	tooEasy := containsAny(feedback, "facile", "easy") || (in.Difficulty > 0 && in.Difficulty <= 2) || (in.RPE > 0 && in.RPE <= 4)
	tooHard := containsAny(feedback, "difficile", "hard") || in.Difficulty >= 4 || in.RPE >= 8
	if tooEasy {
		delta = math.Max(delta, 0.15)
	}
	if tooHard {
		delta = math.Min(delta, -0.2)
	}

	if len(sessions) == 2 {
		trend := sessions[0].PostureScore - sessions[1].PostureScore
		if trend > 5 {
			delta += 0.05
		} else if trend < -5 {
			delta -= 0.1
		}
	}

	delta = math.Max(-maxIntensityDelta, math.Min(maxIntensityDelta, delta))

	return delta, &models.OptimizationMetrics{
		AvgPostureScore:   avgScore,
		AvgCompletionRate: avgCompletion,
		SessionsAnalyzed:  len(sessions),
		Timestamp:         now,
	}
}

// adjustExercise applies an intensity delta to one exercise. Increases
// raise reps and sets and trim rest; decreases do the inverse but never
// drop below sensible floors.
func adjustExercise(ex models.Exercise, delta float64) models.Exercise {
	if delta == 0 {
		return ex
	}

	if ex.Reps > 0 {
		ex.Reps = int(math.Round(float64(ex.Reps) * (1 + delta)))
		if delta < 0 && ex.Reps < 5 {
			ex.Reps = 5
		}
	}
	if ex.Sets > 0 {
		ex.Sets = int(math.Round(float64(ex.Sets) * (1 + 0.5*delta)))
		if ex.Sets < 1 {
			ex.Sets = 1
		}
	}
	if ex.Duration > 0 {
		ex.Duration = int(math.Round(float64(ex.Duration) * (1 + 0.3*delta)))
		if delta < 0 && ex.Duration < 10 {
			ex.Duration = 10
		}
	}
	rest := ex.Rest
	if rest == 0 {
		rest = 60
	}
	rest = int(math.Round(float64(rest) * (1 - 0.2*delta)))
	if delta > 0 && rest < 30 {
		rest = 30
	}
	ex.Rest = rest
	return ex
}
