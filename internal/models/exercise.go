package models

// Exercise is a single catalog entry or a per-plan copy of one.
// Rep-based exercises set Reps, timed exercises set Duration (seconds).
// Catalog entries are templates; plans always work on copies (Clone),
// never on the shared template itself.
type Exercise struct {
	Name       string   `json:"name"`
	Sets       int      `json:"sets,omitempty"`
	Reps       int      `json:"reps,omitempty"`
	Duration   int      `json:"duration,omitempty"`
	Rest       int      `json:"rest,omitempty"`
	Muscles    []string `json:"muscles,omitempty"`
	Equipment  string   `json:"equipment,omitempty"`
	Difficulty int      `json:"difficulty,omitempty"`
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := e
	if e.Muscles != nil {
		out.Muscles = make([]string, len(e.Muscles))
		copy(out.Muscles, e.Muscles)
	}
	return out
}

// CloneExercises deep-copies a list of exercises.
func CloneExercises(list []Exercise) []Exercise {
	out := make([]Exercise, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}
