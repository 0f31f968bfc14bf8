package models

import "strings"

// Canonical weekday keys used throughout plan schedules. Only these values
// may appear as WeeklyPlan keys; free-text day names are normalized at the
// boundary by ParseWeekdays.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// Weekdays lists the canonical keys in calendar order.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// dayNames maps localized day names to canonical keys. Users enter
// availability in French or English depending on their locale.
var dayNames = map[string]string{
	"lundi":     Monday,
	"mardi":     Tuesday,
	"mercredi":  Wednesday,
	"jeudi":     Thursday,
	"vendredi":  Friday,
	"samedi":    Saturday,
	"dimanche":  Sunday,
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
	"sunday":    Sunday,
}

// NormalizeWeekday maps a single day name (French or English, any casing)
// to its canonical key. Returns the trimmed input and false when unknown.
func NormalizeWeekday(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if day, ok := dayNames[key]; ok {
		return day, true
	}
	return strings.TrimSpace(s), false
}

// ParseWeekdays parses a comma-separated availability string
// ("Lundi, Mercredi" or "monday,friday") into deduplicated canonical
// weekday keys in order of first appearance. Unrecognized tokens are
// dropped. An empty or all-unknown input yields an empty slice.
func ParseWeekdays(availability string) []string {
	days := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(availability, ",") {
		day, ok := NormalizeWeekday(part)
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	return days
}
