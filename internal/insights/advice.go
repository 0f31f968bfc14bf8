package insights

import (
	"strings"

	"github.com/claude/formcoach/internal/models"
)

// Session-length references for advice, in seconds.
const (
	shortSessionSec = 20 * 60
	longSessionSec  = 60 * 60
)

// Advise produces post-session coaching messages from the finished
// record and the user's goals. The first message always reacts to the
// posture score; further messages cover completion, duration and
// goal-specific habits.
func Advise(record models.SessionRecord, goals string) []string {
	var advice []string

	switch {
	case record.PostureScore >= 85:
		advice = append(advice, "Excellent travail! Votre posture était remarquable pendant cette séance.")
	case record.PostureScore >= 70:
		advice = append(advice, "Bonne séance! Continuez à soigner votre posture sur chaque répétition.")
	case record.PostureScore >= 50:
		advice = append(advice, "Séance correcte. Concentrez-vous sur l'alignement du dos et des genoux la prochaine fois.")
	default:
		advice = append(advice, "Attention à votre posture. Ralentissez le rythme et privilégiez la qualité du mouvement.")
	}

	if total := len(record.Exercises); total > 0 && float64(record.ExercisesCompleted) < float64(total)*0.8 {
		advice = append(advice, "Vous n'avez pas terminé tous les exercices. Réduisez l'intensité si besoin, la régularité prime sur le volume.")
	}

	if record.DurationSeconds > 0 && record.DurationSeconds < shortSessionSec {
		advice = append(advice, "Séance courte aujourd'hui. Même 20 minutes complètes font une vraie différence sur la durée.")
	} else if record.DurationSeconds > longSessionSec {
		advice = append(advice, "Longue séance! Pensez à bien vous hydrater et à prévoir une récupération suffisante.")
	}

	goalsLower := strings.ToLower(goals)
	if strings.Contains(goalsLower, "muscle") || strings.Contains(goalsLower, "masse") {
		advice = append(advice, "Pour la prise de masse, veillez à un apport suffisant en protéines dans les deux heures après l'effort.")
	}
	if strings.Contains(goalsLower, "maigrir") || strings.Contains(goalsLower, "perdre") {
		advice = append(advice, "Pour la perte de poids, associez vos séances à une alimentation équilibrée et un léger déficit calorique.")
	}

	return advice
}
