package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/formcoach/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// GetProfile retrieves a user's basic profile.
func (db *DB) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	var p models.Profile
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, name, age, birthdate, weight, height, fitness_level, goals, constraints
		 FROM profiles
		 WHERE user_id = $1`,
		userID).Scan(&p.UserID, &p.Name, &p.Age, &p.Birthdate, &p.Weight, &p.Height,
		&p.FitnessLevel, &p.Goals, &p.Constraints)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile creates or replaces a user's basic profile.
func (db *DB) UpsertProfile(ctx context.Context, p models.Profile) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO profiles (user_id, name, age, birthdate, weight, height, fitness_level, goals, constraints, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name, age = EXCLUDED.age, birthdate = EXCLUDED.birthdate,
			weight = EXCLUDED.weight, height = EXCLUDED.height,
			fitness_level = EXCLUDED.fitness_level, goals = EXCLUDED.goals,
			constraints = EXCLUDED.constraints, updated_at = NOW()`,
		p.UserID, p.Name, p.Age, p.Birthdate, p.Weight, p.Height, p.FitnessLevel, p.Goals, p.Constraints)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// GetExtendedProfile retrieves the questionnaire attributes. Returns
// ErrNotFound when the user never filled it in.
func (db *DB) GetExtendedProfile(ctx context.Context, userID int) (*models.ExtendedProfile, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT data FROM extended_profiles WHERE user_id = $1`,
		userID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying extended profile: %w", err)
	}

	var ext models.ExtendedProfile
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("decoding extended profile: %w", err)
	}
	ext.UserID = userID
	return &ext, nil
}

// UpsertExtendedProfile creates or replaces the questionnaire attributes.
func (db *DB) UpsertExtendedProfile(ctx context.Context, ext models.ExtendedProfile) error {
	userID := ext.UserID
	ext.UserID = 0 // stored in its own column
	data, err := json.Marshal(ext)
	if err != nil {
		return fmt.Errorf("encoding extended profile: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO extended_profiles (user_id, data, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		userID, data)
	if err != nil {
		return fmt.Errorf("upserting extended profile: %w", err)
	}
	return nil
}
