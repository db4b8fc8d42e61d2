package planner

import (
	"encoding/json"
	"fmt"
	"strconv"

	"alcyxob/fitness-planner/internal/domain"
)

// Numeric defaults used when the model gives a value that is not a usable integer.
const (
	DefaultSets          = 1
	DefaultReps          = 8
	DefaultDailyCalories = 2000
)

// CoerceWorkoutPlan reshapes any decoded JSON value into a WorkoutPlan.
// It never fails: missing or malformed structure becomes empty slices and
// numeric fields fall back to DefaultSets / DefaultReps.
func CoerceWorkoutPlan(raw any) domain.WorkoutPlan {
	obj := asObject(raw)

	schedule := asArray(obj["schedule"])
	plan := domain.WorkoutPlan{
		Schedule:  make([]string, 0, len(schedule)),
		Exercises: []domain.ExerciseDay{},
	}
	for _, day := range schedule {
		plan.Schedule = append(plan.Schedule, text(day))
	}

	for _, item := range asArray(obj["exercises"]) {
		entry := asObject(item)
		day := domain.ExerciseDay{
			Day:      text(entry["day"]),
			Routines: []domain.Routine{},
		}
		for _, r := range asArray(entry["routines"]) {
			day.Routines = append(day.Routines, coerceRoutine(asObject(r)))
		}
		plan.Exercises = append(plan.Exercises, day)
	}
	return plan
}

func coerceRoutine(r map[string]any) domain.Routine {
	return domain.Routine{
		Name:        text(r["name"]),
		Sets:        integer(r["sets"], DefaultSets),
		Reps:        integer(r["reps"], DefaultReps),
		Duration:    text(r["duration"]),
		Description: text(r["description"]),
	}
}

// CoerceDietPlan reshapes any decoded JSON value into a DietPlan.
// Like CoerceWorkoutPlan it is total.
func CoerceDietPlan(raw any) domain.DietPlan {
	obj := asObject(raw)

	plan := domain.DietPlan{
		DailyCalories: integer(obj["dailyCalories"], DefaultDailyCalories),
		Meals:         []domain.Meal{},
	}
	for _, item := range asArray(obj["meals"]) {
		m := asObject(item)
		meal := domain.Meal{
			Name:  text(m["name"]),
			Foods: []string{},
		}
		for _, food := range asArray(m["foods"]) {
			meal.Foods = append(meal.Foods, text(food))
		}
		plan.Meals = append(plan.Meals, meal)
	}
	return plan
}

// WorkoutFromText parses and coerces a model answer to the workout prompt.
// The result is rejected with a *CoercionError when the schedule does not have
// exactly dayCount days. Any error means the caller should use a fallback plan.
func WorkoutFromText(raw string, dayCount int) (domain.WorkoutPlan, error) {
	doc, err := ParseModelJSON(raw)
	if err != nil {
		return domain.WorkoutPlan{}, err
	}
	plan := CoerceWorkoutPlan(doc)
	if len(plan.Schedule) != dayCount {
		return domain.WorkoutPlan{}, &CoercionError{
			Plan:   "workout",
			Reason: fmt.Sprintf("schedule has %d days, want %d", len(plan.Schedule), dayCount),
		}
	}
	return plan, nil
}

// DietFromText parses and coerces a model answer to the diet prompt.
// A non-positive calorie target is rejected with a *CoercionError.
func DietFromText(raw string) (domain.DietPlan, error) {
	doc, err := ParseModelJSON(raw)
	if err != nil {
		return domain.DietPlan{}, err
	}
	plan := CoerceDietPlan(doc)
	if plan.DailyCalories <= 0 {
		return domain.DietPlan{}, &CoercionError{
			Plan:   "diet",
			Reason: fmt.Sprintf("dailyCalories %d is not positive", plan.DailyCalories),
		}
	}
	return plan, nil
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func asArray(v any) []any {
	if a, ok := v.([]any); ok {
		return a
	}
	return nil
}

// integer keeps JSON numbers (truncated), parses the leading integer of strings,
// and returns def for everything else. A parsed zero also yields def.
func integer(v any, def int) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, ok := leadingInt(t); ok && n != 0 {
			return n
		}
	}
	return def
}

// text passes strings through and renders other JSON values as JSON text.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
