package mcp

import (
	"context"
	"time"

	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/storage"
)

// DataSource abstracts the data layer for MCP tools so handlers can be
// exercised without a live database.
type DataSource interface {
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	GetExtendedProfile(ctx context.Context, userID int) (*models.ExtendedProfile, error)
	GetCurrentPlan(ctx context.Context, userID int) (*models.WorkoutPlan, error)
	GetPlanHistory(ctx context.Context, userID int) ([]models.PlanHistoryEntry, error)
	SavePlan(ctx context.Context, userID int, plan *models.WorkoutPlan) error
	QuerySessions(ctx context.Context, userID int, start, end time.Time, limit int) ([]models.SessionRecord, error)
	RecentSessions(ctx context.Context, userID, n int) ([]models.SessionRecord, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
