package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FormCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FormCoach personal coaching server. Query the user's profile, workout plan, session history and progress indicators, and generate or optimize workout plans. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolGetWorkoutPlan, Handler: h.getWorkoutPlan},
		server.ServerTool{Tool: toolGeneratePlan, Handler: h.generatePlan},
		server.ServerTool{Tool: toolOptimizePlan, Handler: h.optimizePlan},
		server.ServerTool{Tool: toolGetPlanHistory, Handler: h.getPlanHistory},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolGetSessionAdvice, Handler: h.getSessionAdvice},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetDataStats, Handler: h.getDataStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCoachingContext, Handler: h.coachingContext},
		server.ServerResource{Resource: resCurrentPlan, Handler: h.currentPlan},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCoachingContext = mcp.NewResource(
	"formcoach://coaching-context",
	"Coaching Context",
	mcp.WithResourceDescription("System prompt for the virtual coach persona, built from the user's profile and recent sessions"),
	mcp.WithMIMEType("text/plain"),
)

var resCurrentPlan = mcp.NewResource(
	"formcoach://current_plan",
	"Current Workout Plan",
	mcp.WithResourceDescription("The user's most recent workout plan with per-day exercises"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"formcoach://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises grouped by fitness level tier"),
	mcp.WithMIMEType("application/json"),
)
