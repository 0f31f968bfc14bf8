// Package plan builds and optimizes weekly workout plans from user
// profiles and session history. Building and optimizing are synchronous
// pure computations over in-memory data.
package plan

import "github.com/claude/formcoach/internal/models"

// Equipment categories used by catalog entries.
const (
	equipNone    = "none"
	equipMat     = "mat"
	equipChair   = "chair"
	equipWeights = "weights"
	equipBands   = "bands"
)

// catalog holds the immutable exercise templates per tier. Entries are
// never handed out directly; Tier returns deep copies.
var catalog = map[string][]models.Exercise{
	models.LevelBeginner: {
		{Name: "Squats", Sets: 3, Reps: 10, Rest: 60, Muscles: []string{"Quadriceps", "Fessiers"}, Equipment: equipNone, Difficulty: 1},
		{Name: "Push-ups (genoux)", Sets: 2, Reps: 8, Rest: 60, Muscles: []string{"Pectoraux", "Triceps"}, Equipment: equipNone, Difficulty: 1},
		{Name: "Planche", Sets: 3, Duration: 20, Rest: 60, Muscles: []string{"Abdominaux", "Épaules"}, Equipment: equipMat, Difficulty: 2},
		{Name: "Fentes", Sets: 2, Reps: 8, Rest: 60, Muscles: []string{"Quadriceps", "Fessiers"}, Equipment: equipNone, Difficulty: 1},
		{Name: "Pompes inclinées", Sets: 2, Reps: 8, Rest: 60, Muscles: []string{"Pectoraux", "Triceps"}, Equipment: equipChair, Difficulty: 1},
		{Name: "Gainage latéral", Sets: 2, Duration: 15, Rest: 60, Muscles: []string{"Abdominaux"}, Equipment: equipMat, Difficulty: 1},
	},
	models.LevelIntermediate: {
		{Name: "Squats", Sets: 4, Reps: 12, Rest: 45, Muscles: []string{"Quadriceps", "Fessiers"}, Equipment: equipNone, Difficulty: 2},
		{Name: "Push-ups", Sets: 3, Reps: 12, Rest: 45, Muscles: []string{"Pectoraux", "Triceps"}, Equipment: equipNone, Difficulty: 2},
		{Name: "Planche", Sets: 3, Duration: 30, Rest: 45, Muscles: []string{"Abdominaux", "Épaules"}, Equipment: equipMat, Difficulty: 2},
		{Name: "Fentes", Sets: 3, Reps: 12, Rest: 45, Muscles: []string{"Quadriceps", "Fessiers"}, Equipment: equipNone, Difficulty: 2},
		{Name: "Burpees", Sets: 2, Reps: 8, Rest: 60, Muscles: []string{"Tout le corps"}, Equipment: equipNone, Difficulty: 3},
		{Name: "Mountain Climbers", Sets: 3, Duration: 30, Rest: 30, Muscles: []string{"Cardio"}, Equipment: equipMat, Difficulty: 2},
		{Name: "Pompes diamant", Sets: 3, Reps: 10, Rest: 45, Muscles: []string{"Triceps"}, Equipment: equipNone, Difficulty: 3},
	},
	models.LevelAdvanced: {
		{Name: "Squats", Sets: 4, Reps: 15, Rest: 30, Muscles: []string{"Quadriceps", "Fessiers"}, Equipment: equipNone, Difficulty: 3},
		{Name: "Push-ups", Sets: 4, Reps: 15, Rest: 30, Muscles: []string{"Pectoraux", "Triceps"}, Equipment: equipNone, Difficulty: 3},
		{Name: "Planche", Sets: 4, Duration: 45, Rest: 30, Muscles: []string{"Abdominaux", "Épaules"}, Equipment: equipMat, Difficulty: 3},
		{Name: "Fentes sautées", Sets: 3, Reps: 12, Rest: 45, Muscles: []string{"Quadriceps", "Fessiers"}, Equipment: equipNone, Difficulty: 4},
		{Name: "Burpees", Sets: 3, Reps: 12, Rest: 45, Muscles: []string{"Tout le corps"}, Equipment: equipNone, Difficulty: 4},
		{Name: "Pompes sur une main", Sets: 2, Reps: 5, Rest: 60, Muscles: []string{"Pectoraux", "Triceps"}, Equipment: equipNone, Difficulty: 5},
		{Name: "Planche dynamique", Sets: 3, Reps: 10, Rest: 30, Muscles: []string{"Abdominaux"}, Equipment: equipMat, Difficulty: 4},
	},
}

// Substitution and supplement exercises added by constraint and goal rules.
var (
	exerciseBridge = models.Exercise{Name: "Pont", Sets: 3, Reps: 10, Rest: 60, Muscles: []string{"Fessiers"}, Equipment: equipMat, Difficulty: 1}

	exerciseSeatedLegExt = models.Exercise{Name: "Extensions de jambes assis", Sets: 3, Reps: 12, Rest: 45, Muscles: []string{"Quadriceps"}, Equipment: equipChair, Difficulty: 1}

	exerciseBriskWalk = models.Exercise{Name: "Marche active", Sets: 1, Duration: 600, Rest: 0, Muscles: []string{"Cardio léger"}, Equipment: equipNone, Difficulty: 1}

	cardioSupplements = []models.Exercise{
		{Name: "Mountain Climbers", Sets: 3, Duration: 30, Rest: 30, Muscles: []string{"Cardio"}, Equipment: equipMat, Difficulty: 2},
		{Name: "Jumping Jacks", Sets: 3, Duration: 30, Rest: 30, Muscles: []string{"Cardio"}, Equipment: equipNone, Difficulty: 1},
	}

	stretchSupplements = []models.Exercise{
		{Name: "Étirements jambes", Sets: 1, Duration: 60, Rest: 0, Muscles: []string{"Flexibilité"}, Equipment: equipMat, Difficulty: 1},
		{Name: "Étirements dos", Sets: 1, Duration: 60, Rest: 0, Muscles: []string{"Flexibilité"}, Equipment: equipMat, Difficulty: 1},
	}
)

// Tier returns a deep copy of the catalog for a fitness level, falling
// back to the beginner tier for unknown levels.
func Tier(level string) []models.Exercise {
	entries, ok := catalog[level]
	if !ok {
		entries = catalog[models.LevelBeginner]
	}
	return models.CloneExercises(entries)
}

// TierNames lists the available catalog tiers.
func TierNames() []string {
	return []string{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced}
}
