// Package coach assembles the conversational coaching layer: the system
// prompt and user context handed to a language model, and the rule-based
// fallback answers used when no model is reachable.
package coach

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claude/formcoach/internal/models"
)

// maxContextSessions bounds how much recent history the prompt carries.
const maxContextSessions = 5

// BuildUserContext groups the profile data into the themed sections the
// coaching prompt expects, with empty values stripped.
func BuildUserContext(profile models.Profile, ext *models.ExtendedProfile) map[string]any {
	if ext == nil {
		ext = &models.ExtendedProfile{}
	}
	bmi := models.ComputedBMI(profile, ext)

	return models.SanitizeMap(map[string]any{
		"basicProfile": map[string]any{
			"name":         profile.Name,
			"age":          nonZero(profile.Age),
			"fitnessLevel": profile.FitnessLevel,
			"goals":        profile.Goals,
			"constraints":  profile.Constraints,
		},
		"physicalMetrics": map[string]any{
			"weight":           nonZeroF(profile.Weight),
			"height":           nonZeroF(profile.Height),
			"bmi":              nonZeroF(bmi),
			"restingHeartRate": nonZero(ext.RestingHeartRate),
		},
		"healthBackground": map[string]any{
			"injuryHistory":  ext.InjuryHistory,
			"medicalHistory": ext.MedicalHistory,
			"sleepQuality":   nonZero(ext.SleepQuality),
			"fatigueLevel":   nonZero(ext.FatigueLevel),
		},
		"lifestyleHabits": map[string]any{
			"dietType":                 ext.DietType,
			"weeklyAvailability":       ext.WeeklyAvailability,
			"preferredSessionDuration": nonZero(ext.PreferredSessionDuration),
			"trainingLocation":         ext.TrainingLocation,
			"availableEquipment":       ext.AvailableEquipment,
		},
		"motivationAndPsychology": map[string]any{
			"mainMotivation":          ext.MainMotivation,
			"measurableGoals":         ext.MeasurableGoals,
			"coachingStylePreference": ext.CoachingStylePreference,
			"socialPreference":        ext.SocialPreference,
		},
		"sportsHistory": map[string]any{
			"pastTrainingFrequency": ext.PastTrainingFrequency,
			"timeSinceLastTraining": ext.TimeSinceLastTraining,
			"techniqueLevel":        ext.TechniqueLevel,
		},
		"technicalPreferences": map[string]any{
			"planningPreference": ext.PlanningPreference,
			"alertSensitivity":   ext.AlertSensitivity,
			"cameraConsent":      ext.CameraConsent,
		},
	})
}

// SystemMessage builds the coaching persona prompt: identity, the user's
// context, their recent sessions, and answering instructions.
func SystemMessage(profile models.Profile, ext *models.ExtendedProfile, sessions []models.SessionRecord) string {
	var b strings.Builder
	b.WriteString("Tu es Alen, un coach sportif virtuel bienveillant et expert. ")
	b.WriteString("Tu accompagnes l'utilisateur dans son programme d'entraînement personnalisé, ")
	b.WriteString("sa nutrition et sa motivation.\n\n")

	userContext := BuildUserContext(profile, ext)
	if len(userContext) > 0 {
		b.WriteString("Contexte utilisateur:\n")
		if data, err := json.MarshalIndent(userContext, "", "  "); err == nil {
			b.Write(data)
			b.WriteString("\n\n")
		}
	}

	if len(sessions) > 0 {
		n := min(len(sessions), maxContextSessions)
		b.WriteString("Séances récentes:\n")
		for _, s := range sessions[:n] {
			fmt.Fprintf(&b, "- %s: score posture %.0f/100, %d exercices terminés, %s\n",
				s.CompletedAt.Format(time.DateOnly), s.PostureScore, s.ExercisesCompleted,
				formatDuration(s.DurationSeconds))
		}
		b.WriteString("\n")
	}

	b.WriteString("Instructions: réponds en français, de manière concise et encourageante. ")
	b.WriteString("Appuie-toi sur le contexte ci-dessus. Pour toute question médicale sérieuse, ")
	b.WriteString("recommande de consulter un professionnel de santé.")
	return b.String()
}

func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dmin", seconds/60)
}

func nonZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nonZeroF(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
