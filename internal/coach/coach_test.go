package coach

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/formcoach/internal/models"
)

// TestBuildUserContext_DropsEmptySections verifies empty fields and
// sections never reach the prompt.
func TestBuildUserContext_DropsEmptySections(t *testing.T) {
	profile := models.Profile{Name: "Lina", FitnessLevel: models.LevelBeginner, Goals: "forme"}

	got := BuildUserContext(profile, nil)

	basic, ok := got["basicProfile"].(map[string]any)
	if !ok {
		t.Fatalf("missing basicProfile section: %v", got)
	}
	if basic["name"] != "Lina" {
		t.Errorf("name = %v, want Lina", basic["name"])
	}
	if _, present := basic["age"]; present {
		t.Error("zero age should be dropped")
	}
	if _, present := got["healthBackground"]; present {
		t.Error("empty healthBackground section should be dropped")
	}
}

// TestBuildUserContext_GroupsExtendedFields verifies extended profile
// fields land in their themed sections.
func TestBuildUserContext_GroupsExtendedFields(t *testing.T) {
	profile := models.Profile{Name: "Lina", Weight: 62, Height: 168}
	ext := &models.ExtendedProfile{
		InjuryHistory:  "entorse cheville 2024",
		DietType:       "végétarien",
		MainMotivation: "health",
	}

	got := BuildUserContext(profile, ext)

	health, _ := got["healthBackground"].(map[string]any)
	if health["injuryHistory"] != "entorse cheville 2024" {
		t.Errorf("healthBackground = %v", health)
	}
	lifestyle, _ := got["lifestyleHabits"].(map[string]any)
	if lifestyle["dietType"] != "végétarien" {
		t.Errorf("lifestyleHabits = %v", lifestyle)
	}
	metrics, _ := got["physicalMetrics"].(map[string]any)
	if _, present := metrics["bmi"]; !present {
		t.Errorf("physicalMetrics missing computed bmi: %v", metrics)
	}
}

// TestSystemMessage verifies the prompt carries the persona, the context
// and the recent sessions.
func TestSystemMessage(t *testing.T) {
	profile := models.Profile{Name: "Lina", Goals: "forme"}
	sessions := []models.SessionRecord{{
		PostureScore:       82,
		ExercisesCompleted: 4,
		DurationSeconds:    1800,
		CompletedAt:        time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC),
	}}

	got := SystemMessage(profile, nil, sessions)

	for _, want := range []string{"Tu es Alen", "Contexte utilisateur", "Séances récentes", "2026-06-10", "30min", "français"} {
		if !strings.Contains(got, want) {
			t.Errorf("SystemMessage missing %q", want)
		}
	}
}

// TestFallback_Categories verifies each topic routes to its dedicated
// answer.
func TestFallback_Categories(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Est-ce que je peux manger du fromage ?", "fromage"},
		{"Combien de protéines par jour ?", "protéines par kilo"},
		{"Que manger avant ma séance ?", "collation légère"},
		{"Des conseils nutrition ?", "alimentation équilibrée"},
		{"Comment améliorer ma technique de squat ?", "dos droit"},
		{"J'ai perdu ma motivation", "régularité"},
		{"J'ai une douleur au genou", "professionnel de santé"},
		{"Combien de temps de récupération ?", "48h"},
		{"C'est quoi mon programme cette semaine ?", "votre profil"},
		{"Bonjour !", "Posez-moi une question"},
	}
	for _, tt := range tests {
		got := Fallback(tt.message)
		if !strings.Contains(got, tt.want) {
			t.Errorf("Fallback(%q) = %q, want substring %q", tt.message, got, tt.want)
		}
	}
}
