package plan

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/claude/formcoach/internal/models"
)

// EmptyPlanNote is the human-readable note carried by the explicit
// empty-plan outcome when no availability days were selected.
const EmptyPlanNote = "Veuillez sélectionner vos jours de disponibilité dans votre profil pour générer un plan d'entraînement."

const defaultNotes = "Plan généré automatiquement selon vos informations de profil et de profil détaillé."

const (
	defaultSessionMinutes = 30
	minExercisesPerDay    = 2
	maxExercisesPerDay    = 4
	minPlanExercises      = 3
)

var longLayoffRe = regexp.MustCompile(`mois|ans|année`)

// Build generates a weekly workout plan from a profile and optional
// extended profile. It never fails for missing optional fields: the only
// non-actionable outcome is the explicit empty plan (IsEmpty) returned
// when the user selected no availability days.
func Build(profile models.Profile, ext *models.ExtendedProfile) *models.WorkoutPlan {
	return build(profile, ext, time.Now())
}

func build(profile models.Profile, ext *models.ExtendedProfile, now time.Time) *models.WorkoutPlan {
	level := profile.FitnessLevel
	if _, ok := catalog[level]; !ok {
		level = models.LevelBeginner
	}
	goals := profile.Goals
	if goals == "" {
		goals = "general"
	}

	if ext == nil {
		ext = &models.ExtendedProfile{}
	}
	preferredMinutes := ext.PreferredSessionDuration
	if preferredMinutes <= 0 {
		preferredMinutes = defaultSessionMinutes
	}
	motivation := ext.MainMotivation
	if motivation == "" {
		motivation = "health"
	}
	location := ext.TrainingLocation
	if location == "" {
		location = "home"
	}

	goalsLower := strings.ToLower(goals)
	injuryLower := strings.ToLower(ext.InjuryHistory)
	constraintsLower := strings.ToLower(profile.Constraints)
	techniqueLower := strings.ToLower(ext.TechniqueLevel)

	isMuscleGain := containsAny(goalsLower, "muscle", "masse", "prise de masse") || motivation == "performance"
	isWeightLoss := containsAny(goalsLower, "maigrir", "perdre", "poids", "perte de poids", "weight", "loss") || motivation == "aesthetics"
	isEndurance := containsAny(goalsLower, "endurance", "cardio")
	isFlexibility := containsAny(goalsLower, "flexibilité", "souplesse", "flexibility")

	hasBackPain := containsAny(constraintsLower, "rein", "dos", "back") || containsAny(injuryLower, "dos", "rein")
	hasKneeIssues := containsAny(constraintsLower, "genou", "knee") || strings.Contains(injuryLower, "genou")
	hasShoulderIssues := containsAny(constraintsLower, "épaule", "shoulder") || strings.Contains(injuryLower, "épaule")

	bmi := models.ComputedBMI(profile, ext)

	var notes []string
	reduceIntensity := false

	// Filters that stuck are remembered so the duration-extend step never
	// reintroduces an exercise a constraint removed.
	var activeFilters []func(models.Exercise) bool

	selected := Tier(level)

	// Equipment filter.
	equipment := ParseEquipment(ext.AvailableEquipment)
	if equipment.Specified {
		filtered := filterExercises(selected, func(ex models.Exercise) bool {
			return equipment.Has(ex.Equipment)
		})
		if len(filtered) > 0 {
			selected = filtered
		} else {
			selected = filterExercises(selected, func(ex models.Exercise) bool {
				return ex.Equipment == equipNone || ex.Equipment == equipMat
			})
			if len(selected) == 0 {
				selected = Tier(models.LevelBeginner)
			}
		}
	} else {
		noEquipment := filterExercises(selected, func(ex models.Exercise) bool {
			return ex.Equipment == equipNone || ex.Equipment == equipMat
		})
		if len(noEquipment) >= 3 {
			selected = noEquipment
		}
	}

	// Constraint filters, each reverted when it would cut the candidate
	// list by more than 70%.
	if hasBackPain {
		keep := func(ex models.Exercise) bool {
			name := strings.ToLower(ex.Name)
			return !strings.Contains(name, "squat") && !strings.Contains(name, "fente") &&
				!muscleContains(ex, "dos")
		}
		var applied bool
		if selected, applied = guardedFilter(selected, 0.3, keep); applied {
			activeFilters = append(activeFilters, keep)
		}
		selected = append(selected, exerciseBridge.Clone())
	}

	if hasKneeIssues {
		keep := func(ex models.Exercise) bool {
			name := strings.ToLower(ex.Name)
			return !strings.Contains(name, "squat") && !strings.Contains(name, "fente") &&
				!strings.Contains(name, "burpee") && !muscleContains(ex, "genou")
		}
		var applied bool
		if selected, applied = guardedFilter(selected, 0.3, keep); applied {
			activeFilters = append(activeFilters, keep)
		}
		selected = append(selected, exerciseSeatedLegExt.Clone())
	}

	if hasShoulderIssues {
		keep := func(ex models.Exercise) bool {
			name := strings.ToLower(ex.Name)
			return !strings.Contains(name, "push-up") && !strings.Contains(name, "pompe") &&
				!muscleContains(ex, "épaule") && !muscleContains(ex, "pectoraux")
		}
		var applied bool
		if selected, applied = guardedFilter(selected, 0.3, keep); applied {
			activeFilters = append(activeFilters, keep)
		}
	}

	// Physiological gates.
	if bmi >= 30 {
		notes = append(notes, "Accent sur des mouvements à faible impact pour protéger les articulations en raison de votre IMC.")
		keep := func(ex models.Exercise) bool {
			name := strings.ToLower(ex.Name)
			return !strings.Contains(name, "jump") && !strings.Contains(name, "saut") &&
				!strings.Contains(name, "burpee")
		}
		selected = filterExercises(selected, keep)
		activeFilters = append(activeFilters, keep)
		selected = append(selected, exerciseBriskWalk.Clone())
	}

	if ext.RestingHeartRate > 85 {
		notes = append(notes, "Intensité modérée pour tenir compte de votre fréquence cardiaque au repos.")
		reduceIntensity = true
	}

	if ext.SleepQuality > 0 && ext.SleepQuality <= 2 {
		notes = append(notes, "Volume légèrement réduit afin de compenser une qualité de sommeil limitée.")
		reduceIntensity = true
	}

	if ext.FatigueLevel >= 4 {
		notes = append(notes, "Temps de repos allongé pour gérer votre niveau de fatigue élevé.")
		for i := range selected {
			rest := selected[i].Rest
			if rest == 0 {
				rest = 60
			}
			selected[i].Rest = min(rest+15, 120)
		}
	}

	if containsAny(techniqueLower, "début", "novice", "beginner") {
		notes = append(notes, "Exercices sélectionnés avec une technique accessible pour renforcer les bases.")
		keep := func(ex models.Exercise) bool {
			return ex.Difficulty <= 3
		}
		var applied bool
		if selected, applied = guardedFilter(selected, 0.5, keep); applied {
			activeFilters = append(activeFilters, keep)
		}
	}

	if ext.TimeSinceLastTraining != "" && longLayoffRe.MatchString(strings.ToLower(ext.TimeSinceLastTraining)) {
		notes = append(notes, "Progression douce car votre dernière pratique remonte à plusieurs mois.")
		reduceIntensity = true
	}

	// Goal adjustments.
	switch {
	case isMuscleGain:
		for i := range selected {
			if selected[i].Sets > 0 {
				selected[i].Sets++
			} else {
				selected[i].Sets = 4
			}
			if selected[i].Reps > 0 {
				selected[i].Reps += 2
			}
			rest := selected[i].Rest
			if rest == 0 {
				rest = 60
			}
			selected[i].Rest = max(rest-10, 30)
		}
	case isWeightLoss || isEndurance:
		selected = append(selected, models.CloneExercises(cardioSupplements)...)
		for i := range selected {
			rest := selected[i].Rest
			if rest == 0 {
				rest = 60
			}
			selected[i].Rest = max(rest-15, 20)
		}
	case isFlexibility:
		selected = append(selected, models.CloneExercises(stretchSupplements)...)
	}

	// Accumulated global intensity reduction.
	if reduceIntensity {
		for i := range selected {
			if selected[i].Sets > 0 {
				selected[i].Sets = max(selected[i].Sets-1, 1)
			}
			rest := selected[i].Rest
			if rest == 0 {
				rest = 60
			}
			selected[i].Rest = min(rest+10, 120)
		}
	}

	selected = ensureMinimum(selected, minPlanExercises, activeFilters)

	// Fit the session to the preferred duration.
	target := float64(preferredMinutes * 60)
	current := estimateDuration(selected)
	if current > target*1.2 {
		keep := max(2, int(math.Ceil(float64(len(selected))*0.8)))
		if keep < len(selected) {
			selected = selected[:keep]
		}
	} else if current < target*0.8 && len(selected) < 8 {
		extra := 0
		for _, ex := range Tier(level) {
			if extra >= 2 {
				break
			}
			if !containsName(selected, ex.Name) && passesFilters(ex, activeFilters) &&
				(!equipment.Specified || equipment.Has(ex.Equipment)) {
				selected = append(selected, ex)
				extra++
			}
		}
	}

	selected = ensureMinimum(selected, minPlanExercises, activeFilters)

	// Weekly session target from past frequency or planning preference.
	targetSessions := 0
	if n, ok := FirstInt(ext.PastTrainingFrequency); ok {
		targetSessions = n
	} else if n, ok := FirstInt(ext.PlanningPreference); ok {
		targetSessions = n
	} else if reduceIntensity {
		targetSessions = 3
	}

	days := models.ParseWeekdays(ext.WeeklyAvailability)
	seed := Seed(profile, ext)

	if len(days) == 0 {
		// Explicit business outcome, not an error: no availability, no plan.
		return &models.WorkoutPlan{
			WeeklyPlan: map[string][]models.Exercise{},
			Duration:   "4 weeks",
			CreatedAt:  now,
			Version:    NewVersion(now),
			Seed:       seed,
			Metadata: models.SanitizeMap(map[string]any{
				"equipment":         ext.AvailableEquipment,
				"preferredDuration": preferredMinutes,
				"motivation":        motivation,
				"location":          location,
				"error":             "Aucune disponibilité hebdomadaire spécifiée",
			}),
			Notes: EmptyPlanNote,
		}
	}

	if targetSessions > len(days) {
		targetSessions = len(days)
	}

	weekly := schedule(selected, days)

	metadata := models.SanitizeMap(map[string]any{
		"equipment":               ext.AvailableEquipment,
		"preferredDuration":       preferredMinutes,
		"motivation":              motivation,
		"location":                location,
		"weeklyAvailability":      ext.WeeklyAvailability,
		"measurableGoals":         ext.MeasurableGoals,
		"dietType":                ext.DietType,
		"sleepQuality":            zeroToNil(ext.SleepQuality),
		"fatigueLevel":            zeroToNil(ext.FatigueLevel),
		"pastTrainingFrequency":   ext.PastTrainingFrequency,
		"timeSinceLastTraining":   ext.TimeSinceLastTraining,
		"techniqueLevel":          ext.TechniqueLevel,
		"computedBmi":             zeroFloatToNil(bmi),
		"restingHeartRate":        zeroToNil(ext.RestingHeartRate),
		"coachingStylePreference": ext.CoachingStylePreference,
		"socialPreference":        ext.SocialPreference,
		"targetSessions":          zeroToNil(targetSessions),
		"generatedBy":             "rules_engine",
	})

	planNotes := defaultNotes
	if len(notes) > 0 {
		planNotes = strings.Join(notes, " ")
	}

	return &models.WorkoutPlan{
		Level:       level,
		Goals:       goals,
		Constraints: profile.Constraints,
		WeeklyPlan:  weekly,
		Days:        days,
		Duration:    "4 weeks",
		CreatedAt:   now,
		Version:     NewVersion(now),
		Seed:        seed,
		Metadata:    metadata,
		Notes:       planNotes,
	}
}

// schedule distributes exercises across the selected days, 2-4 per day,
// with the last day absorbing any remainder. Every scheduled day is
// guaranteed at least one exercise.
func schedule(exercises []models.Exercise, days []string) map[string][]models.Exercise {
	if len(exercises) == 0 {
		exercises = Tier(models.LevelBeginner)
	}

	perDay := int(math.Ceil(float64(len(exercises)) / float64(len(days))))
	perDay = max(minExercisesPerDay, min(maxExercisesPerDay, perDay))

	weekly := make(map[string][]models.Exercise, len(days))
	for i, day := range days {
		start := i * perDay
		end := min(start+perDay, len(exercises))

		var dayExercises []models.Exercise
		if start < len(exercises) {
			if i == len(days)-1 {
				end = len(exercises) // last day absorbs the remainder
			}
			dayExercises = models.CloneExercises(exercises[start:end])
		}
		if len(dayExercises) == 0 {
			dayExercises = []models.Exercise{exercises[0].Clone()}
		}
		weekly[day] = dayExercises
	}
	return weekly
}

// estimateDuration approximates total session seconds: per exercise,
// sets x (work + rest), where work is reps at ~3s each or the configured
// hold duration.
func estimateDuration(exercises []models.Exercise) float64 {
	total := 0.0
	for _, ex := range exercises {
		sets := ex.Sets
		if sets == 0 {
			sets = 1
		}
		work := float64(ex.Duration)
		if ex.Reps > 0 {
			work = float64(ex.Reps * 3)
		} else if work == 0 {
			work = 20
		}
		rest := float64(ex.Rest)
		if ex.Rest == 0 {
			rest = 60
		}
		total += float64(sets) * (work + rest)
	}
	return total
}

// ensureMinimum backfills from the beginner catalog (dedup by name,
// honoring active filters) until the list has at least n entries; a fully
// emptied list falls back to the complete beginner catalog.
func ensureMinimum(exercises []models.Exercise, n int, filters []func(models.Exercise) bool) []models.Exercise {
	if len(exercises) == 0 {
		return Tier(models.LevelBeginner)
	}
	if len(exercises) >= n {
		return exercises
	}
	for _, ex := range Tier(models.LevelBeginner) {
		if len(exercises) >= n {
			break
		}
		if !containsName(exercises, ex.Name) && passesFilters(ex, filters) {
			exercises = append(exercises, ex)
		}
	}
	for len(exercises) < n {
		exercises = append(exercises, exercises[0].Clone())
	}
	return exercises
}

// guardedFilter applies keep but reverts to the input when the result
// would retain less than minKeepRatio of it. The second return reports
// whether the filter actually took effect.
func guardedFilter(exercises []models.Exercise, minKeepRatio float64, keep func(models.Exercise) bool) ([]models.Exercise, bool) {
	filtered := filterExercises(exercises, keep)
	if float64(len(filtered)) < float64(len(exercises))*minKeepRatio {
		return exercises, false
	}
	return filtered, true
}

func passesFilters(ex models.Exercise, filters []func(models.Exercise) bool) bool {
	for _, keep := range filters {
		if !keep(ex) {
			return false
		}
	}
	return true
}

func filterExercises(exercises []models.Exercise, keep func(models.Exercise) bool) []models.Exercise {
	out := make([]models.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if keep(ex) {
			out = append(out, ex)
		}
	}
	return out
}

func muscleContains(ex models.Exercise, sub string) bool {
	for _, m := range ex.Muscles {
		if strings.Contains(strings.ToLower(m), sub) {
			return true
		}
	}
	return false
}

func containsName(exercises []models.Exercise, name string) bool {
	for _, ex := range exercises {
		if ex.Name == name {
			return true
		}
	}
	return false
}

// Seed derives the deterministic 16-character traceability seed from the
// profile attributes that drive generation.
func Seed(profile models.Profile, ext *models.ExtendedProfile) string {
	equipment := "none"
	motivation := "health"
	if ext != nil {
		if ext.AvailableEquipment != "" {
			equipment = ext.AvailableEquipment
		}
		if ext.MainMotivation != "" {
			motivation = ext.MainMotivation
		}
	}
	data, _ := json.Marshal(struct {
		Level      string `json:"level"`
		Goals      string `json:"goals"`
		Equipment  string `json:"equipment"`
		Motivation string `json:"motivation"`
	}{profile.FitnessLevel, profile.Goals, equipment, motivation})

	seed := base64.StdEncoding.EncodeToString(data)
	if len(seed) > 16 {
		seed = seed[:16]
	}
	return seed
}

// NewVersion derives a plan version string from a timestamp.
func NewVersion(now time.Time) string {
	return fmt.Sprintf("1.0.%d", now.UnixMilli())
}

func zeroToNil(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func zeroFloatToNil(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
