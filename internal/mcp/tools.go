package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/formcoach/internal/insights"
	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/plan"
	"github.com/claude/formcoach/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Retrieve the user's fitness profile (level, goals, availability, equipment) together with the extended onboarding profile when one exists."),
)

var toolGetWorkoutPlan = mcp.NewTool("get_workout_plan",
	mcp.WithDescription("Retrieve the user's current workout plan: exercises per weekday with sets, reps and rest times."),
)

var toolGeneratePlan = mcp.NewTool("generate_workout_plan",
	mcp.WithDescription("Generate a new workout plan from the stored profile and save it as the current plan. Requires an existing profile."),
)

var toolOptimizePlan = mcp.NewTool("optimize_workout_plan",
	mcp.WithDescription("Adjust the current plan's intensity based on recent session history and optional user feedback, and save the result as a new plan version."),
	mcp.WithString("feedback", mcp.Description("Free-text feedback on the plan (e.g. 'trop facile', 'too hard')")),
	mcp.WithNumber("difficulty", mcp.Description("Perceived difficulty from 1 (very easy) to 5 (very hard)")),
	mcp.WithNumber("rpe", mcp.Description("Rating of perceived exertion from 1 to 10")),
)

var toolGetPlanHistory = mcp.NewTool("get_plan_history",
	mcp.WithDescription("List stored plan versions, newest first. At most the ten most recent versions are retained."),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("Query completed workout sessions with posture scores and exercise counts."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to all.")),
)

var toolGetProgress = mcp.NewTool("get_progress_indicators",
	mcp.WithDescription("Compute adherence, consistency, progression and performance indicators from the full session history."),
)

var toolGetSessionAdvice = mcp.NewTool("get_session_advice",
	mcp.WithDescription("Generate post-session coaching advice for the most recent session, taking the user's goals into account."),
	mcp.WithString("goals", mcp.Description("Goals to tailor the advice to. Defaults to the goals stored on the profile.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog, optionally restricted to one fitness level tier."),
	mcp.WithString("level", mcp.Description("Fitness level tier"), mcp.Enum("beginner", "intermediate", "advanced")),
)

var toolGetDataStats = mcp.NewTool("get_data_stats",
	mcp.WithDescription("Summary statistics over stored data: session counts, posture sample counts, plan versions, and per-weekday session distribution."),
)

// --- Tool handlers ---

func (h *handlers) getProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	profile, err := h.ds.GetProfile(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("no profile found; the user has not completed onboarding"), nil
	}
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	ext, err := h.ds.GetExtendedProfile(ctx, uid)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.log.Error("mcp get_profile extended", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"profile":  profile,
		"extended": ext,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	current, err := h.ds.GetCurrentPlan(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("no plan generated yet"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(current)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	profile, err := h.ds.GetProfile(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("create a profile before generating a plan"), nil
	}
	if err != nil {
		h.log.Error("mcp generate_workout_plan profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	ext, err := h.ds.GetExtendedProfile(ctx, uid)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.log.Error("mcp generate_workout_plan extended", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	generated := plan.Build(*profile, ext)
	if err := h.ds.SavePlan(ctx, uid, generated); err != nil {
		h.log.Error("mcp generate_workout_plan save", "error", err)
		return mcp.NewToolResultError("saving plan failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(generated)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) optimizePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	current, err := h.ds.GetCurrentPlan(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("no plan to optimize"), nil
	}
	if err != nil {
		h.log.Error("mcp optimize_workout_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	sessions, err := h.ds.RecentSessions(ctx, uid, 2)
	if err != nil {
		h.log.Error("mcp optimize_workout_plan sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	optimized := plan.Optimize(current, plan.OptimizeInput{
		Sessions:   sessions,
		Feedback:   req.GetString("feedback", ""),
		Difficulty: req.GetInt("difficulty", 0),
		RPE:        req.GetInt("rpe", 0),
	})
	now := time.Now()
	optimized.Version = plan.NewVersion(now)
	optimized.CreatedAt = now

	if err := h.ds.SavePlan(ctx, uid, optimized); err != nil {
		h.log.Error("mcp optimize_workout_plan save", "error", err)
		return mcp.NewToolResultError("saving plan failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(optimized)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPlanHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	history, err := h.ds.GetPlanHistory(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_plan_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if history == nil {
		history = []models.PlanHistoryEntry{}
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	limit := req.GetInt("limit", 0)
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.QuerySessions(ctx, uid, start, end, limit)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if sessions == nil {
		sessions = []models.SessionRecord{}
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	now := time.Now()
	sessions, err := h.ds.QuerySessions(ctx, uid, time.Time{}, now.Add(time.Hour), 0)
	if err != nil {
		h.log.Error("mcp get_progress_indicators", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(insights.ComputeIndicators(sessions, now))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionAdvice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	recent, err := h.ds.RecentSessions(ctx, uid, 1)
	if err != nil {
		h.log.Error("mcp get_session_advice", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(recent) == 0 {
		return mcp.NewToolResultError("no session to advise on"), nil
	}

	goals := req.GetString("goals", "")
	if goals == "" {
		if profile, perr := h.ds.GetProfile(ctx, uid); perr == nil {
			goals = profile.Goals
		}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"advice": insights.Advise(recent[0], goals),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if level := req.GetString("level", ""); level != "" {
		result, err := mcp.NewToolResultJSON(plan.Tier(level))
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	catalog := map[string][]models.Exercise{}
	for _, name := range plan.TierNames() {
		catalog[name] = plan.Tier(name)
	}
	result, err := mcp.NewToolResultJSON(catalog)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDataStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_data_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
