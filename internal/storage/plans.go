package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/formcoach/internal/models"
)

// planHistoryLimit caps how many plan versions are retained per user; the
// oldest rows are evicted on save.
const planHistoryLimit = 10

// SavePlan stores a plan as the user's newest version and evicts history
// beyond the retention limit.
func (db *DB) SavePlan(ctx context.Context, userID int, plan *models.WorkoutPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO plans (user_id, version, plan, created_at)
		 VALUES ($1, $2, $3, $4)`,
		userID, plan.Version, data, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM plans
		 WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM plans WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		 )`,
		userID, planHistoryLimit)
	if err != nil {
		return fmt.Errorf("evicting plan history: %w", err)
	}

	return tx.Commit(ctx)
}

// GetCurrentPlan retrieves the user's most recent plan.
func (db *DB) GetCurrentPlan(ctx context.Context, userID int) (*models.WorkoutPlan, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT plan FROM plans
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		userID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying current plan: %w", err)
	}

	var plan models.WorkoutPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return &plan, nil
}

// GetPlanHistory retrieves the retained plan versions, newest first.
func (db *DB) GetPlanHistory(ctx context.Context, userID int) ([]models.PlanHistoryEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, version, plan, created_at
		 FROM plans
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying plan history: %w", err)
	}
	defer rows.Close()

	var result []models.PlanHistoryEntry
	for rows.Next() {
		var entry models.PlanHistoryEntry
		var data []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Version, &data, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan history entry: %w", err)
		}
		var plan models.WorkoutPlan
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("decoding plan history entry: %w", err)
		}
		entry.Plan = plan
		result = append(result, entry)
	}
	return result, rows.Err()
}

// UsersWithPlans lists the IDs of users that have at least one stored plan.
func (db *DB) UsersWithPlans(ctx context.Context) ([]int, error) {
	rows, err := db.Pool.Query(ctx, `SELECT DISTINCT user_id FROM plans ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying plan users: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning plan user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetPlanVersion retrieves one retained version by its version string.
func (db *DB) GetPlanVersion(ctx context.Context, userID int, version string) (*models.WorkoutPlan, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT plan FROM plans
		 WHERE user_id = $1 AND version = $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		userID, version).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan version: %w", err)
	}

	var plan models.WorkoutPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decoding plan version: %w", err)
	}
	return &plan, nil
}
