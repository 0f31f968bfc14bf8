package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/session"
	"github.com/claude/formcoach/internal/storage"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Stats tracks import progress.
type Stats struct {
	UsersImported            int
	ProfilesImported         int
	ExtendedProfilesImported int
	PlansImported            int
	SessionsImported         int
	RowsSkipped              int
	RowsErrored              int
}

// Importer reads the legacy mobile app's SQLite database and inserts its
// users, profiles, plans, and sessions into Postgres.
type Importer struct {
	db     *storage.DB
	log    *slog.Logger
	dryRun bool
	stats  Stats

	// legacy user ID → Postgres user ID
	userIDs map[int]int
}

// New creates a new Importer. With dryRun set, the legacy database is read
// and validated but nothing is written to Postgres.
func New(db *storage.DB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, log: log, dryRun: dryRun, userIDs: map[int]int{}}
}

// Import processes the legacy SQLite database at the given path.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		return &imp.stats, fmt.Errorf("opening legacy database: %w", err)
	}
	defer legacy.Close()

	if err := legacy.PingContext(ctx); err != nil {
		return &imp.stats, fmt.Errorf("reading legacy database: %w", err)
	}

	// Users first: everything else is keyed by the remapped user ID.
	if err := imp.importUsers(ctx, legacy); err != nil {
		return &imp.stats, fmt.Errorf("importing users: %w", err)
	}
	if err := imp.importProfiles(ctx, legacy); err != nil {
		return &imp.stats, fmt.Errorf("importing profiles: %w", err)
	}
	if err := imp.importExtendedProfiles(ctx, legacy); err != nil {
		return &imp.stats, fmt.Errorf("importing extended profiles: %w", err)
	}
	if err := imp.importPlans(ctx, legacy); err != nil {
		return &imp.stats, fmt.Errorf("importing plans: %w", err)
	}
	if err := imp.importSessions(ctx, legacy); err != nil {
		return &imp.stats, fmt.Errorf("importing sessions: %w", err)
	}

	return &imp.stats, nil
}

func (imp *Importer) importUsers(ctx context.Context, legacy *sql.DB) error {
	rows, err := legacy.QueryContext(ctx, `SELECT id, email, name FROM users ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var legacyID int
		var email, name string
		if err := rows.Scan(&legacyID, &email, &name); err != nil {
			imp.log.Warn("bad user row", "error", err)
			imp.stats.RowsErrored++
			continue
		}
		if email == "" {
			imp.stats.RowsSkipped++
			continue
		}

		if imp.dryRun {
			imp.userIDs[legacyID] = legacyID
			imp.stats.UsersImported++
			continue
		}

		newID, err := imp.db.GetOrCreateUser(ctx, email, name)
		if err != nil {
			return fmt.Errorf("creating user %s: %w", email, err)
		}
		imp.userIDs[legacyID] = newID
		imp.stats.UsersImported++
	}
	return rows.Err()
}

func (imp *Importer) importProfiles(ctx context.Context, legacy *sql.DB) error {
	rows, err := legacy.QueryContext(ctx, `
		SELECT user_id, name, age, birthdate, weight, height, fitness_level, goals, constraints
		FROM profiles`)
	if err != nil {
		return fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var legacyID int
		var p models.Profile
		if err := rows.Scan(&legacyID, &p.Name, &p.Age, &p.Birthdate,
			&p.Weight, &p.Height, &p.FitnessLevel, &p.Goals, &p.Constraints); err != nil {
			imp.log.Warn("bad profile row", "error", err)
			imp.stats.RowsErrored++
			continue
		}

		userID, ok := imp.userIDs[legacyID]
		if !ok {
			imp.stats.RowsSkipped++
			continue
		}
		p.UserID = userID
		if p.Birthdate != "" {
			p.Age = models.CalculateAge(p.Birthdate, p.Age, time.Now())
		}

		imp.stats.ProfilesImported++
		if imp.dryRun {
			continue
		}
		if err := imp.db.UpsertProfile(ctx, p); err != nil {
			return fmt.Errorf("saving profile for user %d: %w", userID, err)
		}
	}
	return rows.Err()
}

func (imp *Importer) importExtendedProfiles(ctx context.Context, legacy *sql.DB) error {
	rows, err := legacy.QueryContext(ctx, `SELECT user_id, data FROM extended_profiles`)
	if err != nil {
		return fmt.Errorf("querying extended profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var legacyID int
		var data []byte
		if err := rows.Scan(&legacyID, &data); err != nil {
			imp.log.Warn("bad extended profile row", "error", err)
			imp.stats.RowsErrored++
			continue
		}

		var ext models.ExtendedProfile
		if err := json.Unmarshal(data, &ext); err != nil {
			imp.log.Warn("unparseable extended profile", "legacy_user", legacyID, "error", err)
			imp.stats.RowsErrored++
			continue
		}

		userID, ok := imp.userIDs[legacyID]
		if !ok {
			imp.stats.RowsSkipped++
			continue
		}
		ext.UserID = userID

		imp.stats.ExtendedProfilesImported++
		if imp.dryRun {
			continue
		}
		if err := imp.db.UpsertExtendedProfile(ctx, ext); err != nil {
			return fmt.Errorf("saving extended profile for user %d: %w", userID, err)
		}
	}
	return rows.Err()
}

// importPlans replays plan versions oldest first so the retention cap keeps
// the newest versions, matching what the legacy app showed.
func (imp *Importer) importPlans(ctx context.Context, legacy *sql.DB) error {
	rows, err := legacy.QueryContext(ctx, `
		SELECT user_id, plan, created_at FROM workout_plans ORDER BY created_at ASC`)
	if err != nil {
		return fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var legacyID int
		var data []byte
		var createdAt string
		if err := rows.Scan(&legacyID, &data, &createdAt); err != nil {
			imp.log.Warn("bad plan row", "error", err)
			imp.stats.RowsErrored++
			continue
		}

		var plan models.WorkoutPlan
		if err := json.Unmarshal(data, &plan); err != nil {
			imp.log.Warn("unparseable plan", "legacy_user", legacyID, "error", err)
			imp.stats.RowsErrored++
			continue
		}
		if plan.CreatedAt.IsZero() {
			if t, terr := parseLegacyTime(createdAt); terr == nil {
				plan.CreatedAt = t
			}
		}

		userID, ok := imp.userIDs[legacyID]
		if !ok {
			imp.stats.RowsSkipped++
			continue
		}

		imp.stats.PlansImported++
		if imp.dryRun {
			continue
		}
		if err := imp.db.SavePlan(ctx, userID, &plan); err != nil {
			return fmt.Errorf("saving plan %s for user %d: %w", plan.Version, userID, err)
		}
	}
	return rows.Err()
}

func (imp *Importer) importSessions(ctx context.Context, legacy *sql.DB) error {
	rows, err := legacy.QueryContext(ctx, `
		SELECT id, user_id, record FROM workout_sessions ORDER BY completed_at ASC`)
	if err != nil {
		return fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var legacySessionID string
		var legacyID int
		var data []byte
		if err := rows.Scan(&legacySessionID, &legacyID, &data); err != nil {
			imp.log.Warn("bad session row", "error", err)
			imp.stats.RowsErrored++
			continue
		}

		var record models.SessionRecord
		if err := json.Unmarshal(data, &record); err != nil {
			imp.log.Warn("unparseable session", "legacy_id", legacySessionID, "error", err)
			imp.stats.RowsErrored++
			continue
		}

		userID, ok := imp.userIDs[legacyID]
		if !ok {
			imp.stats.RowsSkipped++
			continue
		}
		record.UserID = userID

		// Keep the legacy session ID when it is a UUID so re-running the
		// import stays idempotent.
		if id, perr := uuid.Parse(legacySessionID); perr == nil {
			record.ID = id
		}
		record = session.Bound(record)

		imp.stats.SessionsImported++
		if imp.dryRun {
			continue
		}
		if _, err := imp.db.InsertSession(ctx, record); err != nil {
			return fmt.Errorf("saving session %s: %w", legacySessionID, err)
		}
	}
	return rows.Err()
}

func parseLegacyTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
