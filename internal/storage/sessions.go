package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/formcoach/internal/models"
)

// InsertSession stores a finished session and batch-inserts its posture
// samples. Returns the session ID.
func (db *DB) InsertSession(ctx context.Context, record models.SessionRecord) (uuid.UUID, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}

	exercises, err := json.Marshal(record.Exercises)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding exercises: %w", err)
	}
	skipped, err := json.Marshal(record.SkippedExercises)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding skipped exercises: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, workout_day, exercises, skipped_exercises,
		 duration_sec, posture_score, exercises_completed, evaluation, stop_reason, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT DO NOTHING`,
		record.ID, record.UserID, record.WorkoutDay, exercises, skipped,
		record.DurationSeconds, record.PostureScore, record.ExercisesCompleted,
		record.Evaluation, record.StopReason, record.CompletedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting session: %w", err)
	}

	if _, err := db.insertPostureSamples(ctx, record.ID, record.UserID, record.PostureSamples); err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// insertPostureSamples batch-inserts a session's posture samples. Returns
// count inserted.
func (db *DB) insertPostureSamples(ctx context.Context, sessionID uuid.UUID, userID int, samples []models.PostureSample) (int64, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	query := `INSERT INTO posture_samples (time, session_id, user_id, score, error_tags) VALUES `
	args := make([]any, 0, len(samples)*5)
	valueStrings := make([]string, 0, len(samples))

	for i, s := range samples {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, s.Timestamp, sessionID, userID, s.Score, s.ErrorTags)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting posture samples: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QuerySessions retrieves a user's sessions in a time range, newest
// first. A limit of 0 means no limit.
func (db *DB) QuerySessions(ctx context.Context, userID int, start, end time.Time, limit int) ([]models.SessionRecord, error) {
	query := `SELECT id, user_id, workout_day, exercises, skipped_exercises,
		 duration_sec, posture_score, exercises_completed, evaluation, stop_reason, completed_at
		 FROM sessions
		 WHERE user_id = $1 AND completed_at >= $2 AND completed_at < $3
		 ORDER BY completed_at DESC`
	args := []any{userID, start, end}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SessionRecord
	for rows.Next() {
		var r models.SessionRecord
		var exercises, skipped []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.WorkoutDay, &exercises, &skipped,
			&r.DurationSeconds, &r.PostureScore, &r.ExercisesCompleted,
			&r.Evaluation, &r.StopReason, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal(exercises, &r.Exercises); err != nil {
			return nil, fmt.Errorf("decoding session exercises: %w", err)
		}
		if err := json.Unmarshal(skipped, &r.SkippedExercises); err != nil {
			return nil, fmt.Errorf("decoding skipped exercises: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// RecentSessions retrieves the user's n most recent sessions.
func (db *DB) RecentSessions(ctx context.Context, userID, n int) ([]models.SessionRecord, error) {
	return db.QuerySessions(ctx, userID, time.Time{}, time.Now().Add(time.Hour), n)
}

// QueryPostureSamples retrieves the stored samples of one session in
// chronological order.
func (db *DB) QueryPostureSamples(ctx context.Context, sessionID uuid.UUID, userID int) ([]models.PostureSample, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT time, score, error_tags
		 FROM posture_samples
		 WHERE session_id = $1 AND user_id = $2
		 ORDER BY time ASC`,
		sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying posture samples: %w", err)
	}
	defer rows.Close()

	var result []models.PostureSample
	for rows.Next() {
		var s models.PostureSample
		if err := rows.Scan(&s.Timestamp, &s.Score, &s.ErrorTags); err != nil {
			return nil, fmt.Errorf("scanning posture sample: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
