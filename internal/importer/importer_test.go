package importer

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
)

// newLegacyDB builds a throwaway SQLite database with the legacy app's schema
// and a small data set.
func newLegacyDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT, name TEXT)`,
		`CREATE TABLE profiles (user_id INTEGER, name TEXT, age INTEGER, birthdate TEXT,
			weight REAL, height REAL, fitness_level TEXT, goals TEXT, constraints TEXT)`,
		`CREATE TABLE extended_profiles (user_id INTEGER, data TEXT)`,
		`CREATE TABLE workout_plans (user_id INTEGER, plan TEXT, created_at TEXT)`,
		`CREATE TABLE workout_sessions (id TEXT, user_id INTEGER, record TEXT, completed_at TEXT)`,

		`INSERT INTO users VALUES (1, 'marie@example.com', 'Marie')`,
		`INSERT INTO users VALUES (2, '', 'Anonyme')`,
		`INSERT INTO profiles VALUES (1, 'Marie', 31, '', 62, 168, 'beginner', 'perdre du poids', '')`,
		`INSERT INTO extended_profiles VALUES (1, '{"weekly_availability":"Lundi, Jeudi"}')`,
		`INSERT INTO extended_profiles VALUES (1, 'not json')`,
		`INSERT INTO workout_plans VALUES (1, '{"version":"1.0.1","weeklyPlan":{"monday":[]}}', '2026-01-10 08:00:00')`,
		`INSERT INTO workout_plans VALUES (1, '{"version":"1.0.2","weeklyPlan":{"monday":[]}}', '2026-02-10T08:00:00Z')`,
		`INSERT INTO workout_sessions VALUES ('3d1f8a1e-5b2c-4e8f-9a3d-1c2b3a4d5e6f', 1,
			'{"workoutDay":"monday","postureScore":82,"exercisesCompleted":3,"duration":1500}', '2026-02-11T18:00:00Z')`,
		`INSERT INTO workout_sessions VALUES ('bad-id', 9, '{"postureScore":50}', '2026-02-12T18:00:00Z')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

// TestImportDryRun runs a full import pass against a legacy database without
// writing anything, and checks the per-table counters.
func TestImportDryRun(t *testing.T) {
	path := newLegacyDB(t)

	imp := New(nil, slog.Default(), true)
	stats, err := imp.Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if stats.UsersImported != 1 {
		t.Errorf("UsersImported = %d, want 1", stats.UsersImported)
	}
	if stats.ProfilesImported != 1 {
		t.Errorf("ProfilesImported = %d, want 1", stats.ProfilesImported)
	}
	if stats.ExtendedProfilesImported != 1 {
		t.Errorf("ExtendedProfilesImported = %d, want 1", stats.ExtendedProfilesImported)
	}
	if stats.PlansImported != 2 {
		t.Errorf("PlansImported = %d, want 2", stats.PlansImported)
	}
	if stats.SessionsImported != 1 {
		t.Errorf("SessionsImported = %d, want 1", stats.SessionsImported)
	}
	// user 2 has no email, session for unknown user 9 is skipped
	if stats.RowsSkipped != 2 {
		t.Errorf("RowsSkipped = %d, want 2", stats.RowsSkipped)
	}
	// the non-JSON extended profile
	if stats.RowsErrored != 1 {
		t.Errorf("RowsErrored = %d, want 1", stats.RowsErrored)
	}
}

// TestParseLegacyTime accepts both RFC3339 and the legacy SQLite timestamp
// format.
func TestParseLegacyTime(t *testing.T) {
	for _, s := range []string{"2026-02-10T08:00:00Z", "2026-01-10 08:00:00"} {
		if _, err := parseLegacyTime(s); err != nil {
			t.Errorf("parseLegacyTime(%q) error: %v", s, err)
		}
	}
	if _, err := parseLegacyTime("yesterday"); err == nil {
		t.Error("parseLegacyTime(invalid) expected error")
	}
}
