package models

import "time"

// Fitness levels select the base exercise catalog tier.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Profile is the basic user profile created at registration.
type Profile struct {
	UserID       int     `json:"user_id,omitempty"`
	Name         string  `json:"name"`
	Age          int     `json:"age,omitempty"`
	Birthdate    string  `json:"birthdate,omitempty"` // YYYY-MM-DD
	Weight       float64 `json:"weight,omitempty"`    // kg
	Height       float64 `json:"height,omitempty"`    // cm
	FitnessLevel string  `json:"fitness_level,omitempty"`
	Goals        string  `json:"goals,omitempty"`
	Constraints  string  `json:"constraints,omitempty"`
}

// ExtendedProfile holds the optional richer questionnaire attributes.
// Absent fields stay zero-valued; the plan builder must never treat a
// zero value as user-entered data.
type ExtendedProfile struct {
	UserID                   int     `json:"user_id,omitempty"`
	RestingHeartRate         int     `json:"resting_heart_rate,omitempty"`
	BloodPressure            string  `json:"blood_pressure,omitempty"`
	BMI                      float64 `json:"bmi,omitempty"`
	BodyComposition          string  `json:"body_composition,omitempty"`
	WaistCircumference       float64 `json:"waist_circumference,omitempty"`
	HipCircumference         float64 `json:"hip_circumference,omitempty"`
	ArmCircumference         float64 `json:"arm_circumference,omitempty"`
	ThighCircumference       float64 `json:"thigh_circumference,omitempty"`
	MedicalHistory           string  `json:"medical_history,omitempty"`
	InjuryHistory            string  `json:"injury_history,omitempty"`
	SleepQuality             int     `json:"sleep_quality,omitempty"` // 1-5
	FatigueLevel             int     `json:"fatigue_level,omitempty"` // 1-5
	WeeklyAvailability       string  `json:"weekly_availability,omitempty"`
	PreferredSessionDuration int     `json:"preferred_session_duration,omitempty"` // minutes
	TrainingLocation         string  `json:"training_location,omitempty"`
	AvailableEquipment       string  `json:"available_equipment,omitempty"`
	DailySittingHours        int     `json:"daily_sitting_hours,omitempty"`
	DietType                 string  `json:"diet_type,omitempty"`
	MainMotivation           string  `json:"main_motivation,omitempty"`
	CoachingStylePreference  string  `json:"coaching_style_preference,omitempty"`
	DemotivationFactors      string  `json:"demotivation_factors,omitempty"`
	EngagementScore          int     `json:"engagement_score,omitempty"`
	SocialPreference         string  `json:"social_preference,omitempty"`
	PastSports               string  `json:"past_sports,omitempty"`
	PastTrainingFrequency    string  `json:"past_training_frequency,omitempty"`
	TimeSinceLastTraining    string  `json:"time_since_last_training,omitempty"`
	TechniqueLevel           string  `json:"technique_level,omitempty"`
	MeasurableGoals          string  `json:"measurable_goals,omitempty"`
	AlertSensitivity         int     `json:"alert_sensitivity,omitempty"` // 0-10
	CameraConsent            bool    `json:"camera_consent,omitempty"`
	PlanningPreference       string  `json:"planning_preference,omitempty"`
}

// CalculateAge derives an age in full years from a YYYY-MM-DD birthdate.
// Falls back to the given age when the birthdate is missing or unparseable.
func CalculateAge(birthdate string, fallbackAge int, now time.Time) int {
	if birthdate == "" {
		return fallbackAge
	}
	born, err := time.Parse("2006-01-02", birthdate)
	if err != nil {
		return fallbackAge
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}

// ComputedBMI returns the extended profile's BMI if set, otherwise derives
// it from the basic profile's weight (kg) and height (cm). Returns 0 when
// neither source is available.
func ComputedBMI(p Profile, ext *ExtendedProfile) float64 {
	if ext != nil && ext.BMI > 0 {
		return ext.BMI
	}
	if p.Weight > 0 && p.Height > 0 {
		m := p.Height / 100
		return p.Weight / (m * m)
	}
	return 0
}
