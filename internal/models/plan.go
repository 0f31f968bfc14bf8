package models

import "time"

// WorkoutPlan is a generated weekly training plan. WeeklyPlan keys are
// exactly the canonical weekday keys the user selected as availability;
// Days preserves their selection order for display and scheduling.
// An empty WeeklyPlan is the explicit "no availability" outcome, with the
// reason in Notes.
type WorkoutPlan struct {
	Level       string                `json:"level,omitempty"`
	Goals       string                `json:"goals,omitempty"`
	Constraints string                `json:"constraints,omitempty"`
	WeeklyPlan  map[string][]Exercise `json:"weeklyPlan"`
	Days        []string              `json:"days,omitempty"`
	Duration    string                `json:"duration,omitempty"`
	Version     string                `json:"version,omitempty"`
	Seed        string                `json:"seed,omitempty"`
	CreatedAt   time.Time             `json:"createdAt,omitempty"`
	Metadata    map[string]any        `json:"metadata,omitempty"`
	Notes       string                `json:"notes,omitempty"`

	Optimized           bool                 `json:"optimized"`
	LastOptimized       time.Time            `json:"lastOptimized,omitempty"`
	OptimizationParams  *OptimizationParams  `json:"optimizationParams,omitempty"`
	OptimizationMetrics *OptimizationMetrics `json:"optimizationMetrics,omitempty"`
}

// IsEmpty reports whether the plan is the explicit no-availability sentinel.
func (p *WorkoutPlan) IsEmpty() bool {
	return p == nil || len(p.WeeklyPlan) == 0
}

// TotalExercises counts exercises across all scheduled days.
func (p *WorkoutPlan) TotalExercises() int {
	n := 0
	for _, list := range p.WeeklyPlan {
		n += len(list)
	}
	return n
}

// Clone deep-copies the plan so optimization never mutates a stored version.
func (p *WorkoutPlan) Clone() *WorkoutPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.WeeklyPlan = make(map[string][]Exercise, len(p.WeeklyPlan))
	for day, list := range p.WeeklyPlan {
		out.WeeklyPlan[day] = CloneExercises(list)
	}
	if p.Days != nil {
		out.Days = make([]string, len(p.Days))
		copy(out.Days, p.Days)
	}
	if p.Metadata != nil {
		out.Metadata = make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}
	if p.OptimizationParams != nil {
		params := *p.OptimizationParams
		out.OptimizationParams = &params
	}
	if p.OptimizationMetrics != nil {
		metrics := *p.OptimizationMetrics
		out.OptimizationMetrics = &metrics
	}
	return &out
}

// OptimizationParams is the derived intensity tuning applied to a plan.
// IntensityAdjustment is clamped to [-0.3, 0.3] by the optimizer.
type OptimizationParams struct {
	IntensityAdjustment float64   `json:"intensityAdjustment"`
	RestAdjustment      float64   `json:"restAdjustment"`
	VolumeAdjustment    float64   `json:"volumeAdjustment"`
	CalculatedAt        time.Time `json:"calculatedAt"`
}

// OptimizationMetrics is the observability snapshot recorded alongside an
// optimization pass.
type OptimizationMetrics struct {
	AvgPostureScore   float64   `json:"avgPostureScore"`
	AvgCompletionRate float64   `json:"avgCompletionRate"`
	SessionsAnalyzed  int       `json:"sessionsAnalyzed"`
	Timestamp         time.Time `json:"timestamp"`
}

// PlanHistoryEntry is a prior plan version retained for rollback.
type PlanHistoryEntry struct {
	ID        int         `json:"id"`
	UserID    int         `json:"user_id"`
	Version   string      `json:"version"`
	Plan      WorkoutPlan `json:"plan"`
	CreatedAt time.Time   `json:"created_at"`
}
