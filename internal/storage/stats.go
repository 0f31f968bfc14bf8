package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored data.
type DataStats struct {
	TotalSessions    int64      `json:"total_sessions"`
	TotalEvaluations int64      `json:"total_evaluations"`
	TotalSamples     int64      `json:"total_samples"`
	PlanVersions     int64      `json:"plan_versions"`
	EarliestSession  *time.Time `json:"earliest_session"`
	LatestSession    *time.Time `json:"latest_session"`
	SessionsByDay    []DayStat  `json:"sessions_by_day"`
	AvgPostureScore  *float64   `json:"avg_posture_score"`
}

// DayStat holds summary stats for one workout day key.
type DayStat struct {
	Day           string  `json:"day"`
	Count         int64   `json:"count"`
	TotalDuration float64 `json:"total_duration_sec"`
	AvgScore      float64 `json:"avg_score"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE evaluation),
			MIN(completed_at), MAX(completed_at),
			AVG(posture_score)
		 FROM sessions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.TotalEvaluations,
		&stats.EarliestSession, &stats.LatestSession, &stats.AvgPostureScore)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posture_samples WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSamples)
	if err != nil {
		return nil, fmt.Errorf("counting posture samples: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM plans WHERE user_id = $1`, userID,
	).Scan(&stats.PlanVersions)
	if err != nil {
		return nil, fmt.Errorf("counting plans: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT workout_day, COUNT(*), COALESCE(SUM(duration_sec), 0), COALESCE(AVG(posture_score), 0)
		 FROM sessions
		 WHERE user_id = $1
		 GROUP BY workout_day
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by day: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s DayStat
		if err := rows.Scan(&s.Day, &s.Count, &s.TotalDuration, &s.AvgScore); err != nil {
			return nil, fmt.Errorf("scanning day stat: %w", err)
		}
		stats.SessionsByDay = append(stats.SessionsByDay, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
