// Package planner holds the pure parts of plan generation: profile normalization,
// prompt rendering, tolerant parsing of model output, schema coercion and fallback plans.
package planner

import (
	"strings"

	"alcyxob/fitness-planner/internal/domain"
)

// Input field names, as sent by the voice agent.
const (
	FieldUserID              = "user_id"
	FieldAge                 = "age"
	FieldHeight              = "height"
	FieldWeight              = "weight"
	FieldInjuries            = "injuries"
	FieldWorkoutDays         = "workout_days"
	FieldFitnessGoal         = "fitness_goal"
	FieldFitnessLevel        = "fitness_level"
	FieldDietaryRestrictions = "dietary_restrictions"
)

// RequiredFields lists the fields a request must carry, in reporting order.
var RequiredFields = []string{
	FieldUserID,
	FieldAge,
	FieldHeight,
	FieldWeight,
	FieldFitnessGoal,
	FieldFitnessLevel,
}

const (
	defaultDayCount  = 3
	minDayCount      = 1
	maxDayCount      = 7
	defaultNoneValue = "None"
	defaultDaysValue = "3"
)

// Normalize checks required fields and fills optional ones.
// It returns a *ValidationError naming every missing field.
func Normalize(fields map[string]string) (domain.Profile, error) {
	get := func(key string) string {
		return strings.TrimSpace(fields[key])
	}

	var missing []string
	for _, key := range RequiredFields {
		if get(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.Profile{}, &ValidationError{Missing: missing}
	}

	workoutDays := orDefault(get(FieldWorkoutDays), defaultDaysValue)

	return domain.Profile{
		UserID:              get(FieldUserID),
		Age:                 get(FieldAge),
		Height:              get(FieldHeight),
		Weight:              get(FieldWeight),
		Injuries:            orDefault(get(FieldInjuries), defaultNoneValue),
		WorkoutDays:         workoutDays,
		DayCount:            DayCount(workoutDays),
		FitnessGoal:         get(FieldFitnessGoal),
		FitnessLevel:        get(FieldFitnessLevel),
		DietaryRestrictions: orDefault(get(FieldDietaryRestrictions), defaultNoneValue),
	}, nil
}

// DayCount turns the requested number of workout days into a value in [1,7].
// Text without a leading integer yields 3.
func DayCount(raw string) int {
	n, ok := leadingInt(raw)
	if !ok {
		return defaultDayCount
	}
	return clamp(n, minDayCount, maxDayCount)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// leadingInt parses an optional sign and the digits that follow leading whitespace,
// ignoring anything after them ("4 days" -> 4).
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n < 1<<30 {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
