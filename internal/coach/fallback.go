package coach

import "strings"

// Fallback answers a user message with rule-based coaching content when
// no language model is available. It always returns a usable answer.
func Fallback(message string) string {
	lower := strings.ToLower(message)

	if answer, ok := nutritionAnswer(lower); ok {
		return answer
	}

	switch {
	case containsAny(lower, "technique", "posture", "exécution", "mouvement"):
		return "Pour une bonne technique: gardez le dos droit, les abdominaux engagés et contrôlez la descente. " +
			"Mieux vaut moins de répétitions bien exécutées que beaucoup de répétitions approximatives. " +
			"Activez la caméra pendant vos séances pour recevoir des corrections en temps réel."
	case containsAny(lower, "motivation", "envie", "découragé", "abandonner"):
		return "La motivation fluctue, c'est normal! Fixez-vous des objectifs courts et mesurables, " +
			"célébrez chaque séance terminée et rappelez-vous pourquoi vous avez commencé. " +
			"La régularité compte plus que l'intensité."
	case containsAny(lower, "douleur", "blessure", "mal au", "mal à", "mal de"):
		return "En cas de douleur pendant l'effort, arrêtez l'exercice immédiatement. " +
			"Une douleur vive ou persistante doit être évaluée par un professionnel de santé. " +
			"Je peux adapter votre plan pour éviter les mouvements concernés: mettez à jour vos contraintes dans votre profil."
	case containsAny(lower, "repos", "récupération", "courbature", "dormir", "sommeil"):
		return "La récupération fait partie de l'entraînement: visez 7 à 9 heures de sommeil, " +
			"hydratez-vous bien et laissez 48h aux groupes musculaires sollicités. " +
			"Les courbatures légères sont normales; si elles durent plus de 3 jours, levez le pied."
	case containsAny(lower, "plan", "programme", "séance", "exercice"):
		return "Votre plan est généré à partir de votre profil et s'ajuste à vos séances. " +
			"Consultez l'onglet Plan pour le détail de la semaine, et lancez l'optimisation après quelques séances " +
			"pour qu'il s'adapte à vos performances."
	}

	return "Je suis là pour vous aider sur l'entraînement, la nutrition, la technique et la motivation. " +
		"Posez-moi une question précise, par exemple sur un exercice de votre plan ou sur votre récupération."
}

// nutritionAnswer handles food questions, with specific answers for the
// most common sub-topics before the general one.
func nutritionAnswer(lower string) (string, bool) {
	if !containsAny(lower, "nutrition", "manger", "alimentation", "repas", "protéine", "glucide", "fromage", "calorie") {
		return "", false
	}
	switch {
	case strings.Contains(lower, "fromage"):
		return "Le fromage est une bonne source de protéines et de calcium, mais il est calorique: " +
			"privilégiez les portions modérées (30g) et les fromages frais si vous surveillez votre poids.", true
	case strings.Contains(lower, "protéine"):
		return "Visez environ 1,6 à 2g de protéines par kilo de poids de corps par jour si vous cherchez à développer " +
			"votre masse musculaire: œufs, poisson, volaille, légumineuses et produits laitiers sont vos alliés.", true
	case strings.Contains(lower, "glucide"):
		return "Les glucides sont votre carburant: privilégiez les sources complètes (riz complet, avoine, légumineuses) " +
			"et placez-les autour de vos séances pour soutenir l'effort et la récupération.", true
	case strings.Contains(lower, "manger avant"):
		return "Avant une séance, prenez un repas digeste 2 à 3 heures avant, ou une collation légère " +
			"(banane, yaourt) 30 à 60 minutes avant. Évitez les repas lourds juste avant l'effort.", true
	case strings.Contains(lower, "manger après"), strings.Contains(lower, "après la séance"), strings.Contains(lower, "après l'entraînement"):
		return "Après l'effort, combinez protéines et glucides dans les 2 heures pour optimiser la récupération: " +
			"par exemple du poulet avec du riz, ou un yaourt avec des fruits.", true
	}
	return "Une alimentation équilibrée soutient vos objectifs: des protéines à chaque repas, des légumes en quantité, " +
		"des glucides complets autour de l'entraînement et une bonne hydratation tout au long de la journée.", true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
