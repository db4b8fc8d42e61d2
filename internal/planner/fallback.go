package planner

import "alcyxob/fitness-planner/internal/domain"

// WeekdayNames is the fixed day order used by fallback schedules.
var WeekdayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Fallback workout routines, repeated on every scheduled day.
var (
	FallbackCircuit = domain.Routine{Name: "Full Body Circuit", Sets: 3, Reps: 12}
	FallbackPlank   = domain.Routine{Name: "Core Plank", Sets: 3, Reps: 1, Duration: "45 seconds"}
)

// FallbackDailyCalories is the calorie target of the fallback diet.
const FallbackDailyCalories = 2000

// fallbackMeals is copied on every call so callers can't mutate the template.
var fallbackMeals = []domain.Meal{
	{Name: "Breakfast", Foods: []string{"Eggs", "Oats", "Fruit"}},
	{Name: "Lunch", Foods: []string{"Chicken", "Rice", "Salad"}},
	{Name: "Dinner", Foods: []string{"Fish", "Potato", "Veggies"}},
}

// FallbackWorkoutPlan returns the minimal plan used when the model answer is unusable:
// the first dayCount weekdays, each with the circuit and plank routines.
func FallbackWorkoutPlan(dayCount int) domain.WorkoutPlan {
	dayCount = clamp(dayCount, minDayCount, maxDayCount)

	plan := domain.WorkoutPlan{
		Schedule:  make([]string, 0, dayCount),
		Exercises: make([]domain.ExerciseDay, 0, dayCount),
	}
	for _, day := range WeekdayNames[:dayCount] {
		plan.Schedule = append(plan.Schedule, day)
		plan.Exercises = append(plan.Exercises, domain.ExerciseDay{
			Day:      day,
			Routines: []domain.Routine{FallbackCircuit, FallbackPlank},
		})
	}
	return plan
}

// FallbackDietPlan returns the fixed three-meal, 2000 kcal plan.
func FallbackDietPlan() domain.DietPlan {
	meals := make([]domain.Meal, len(fallbackMeals))
	for i, m := range fallbackMeals {
		meals[i] = domain.Meal{
			Name:  m.Name,
			Foods: append([]string(nil), m.Foods...),
		}
	}
	return domain.DietPlan{DailyCalories: FallbackDailyCalories, Meals: meals}
}
