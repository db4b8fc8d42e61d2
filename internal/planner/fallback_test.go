package planner

import (
	"testing"

	"alcyxob/fitness-planner/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFallbackWorkoutPlan(t *testing.T) {
	plan := FallbackWorkoutPlan(4)

	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday"}, plan.Schedule)
	assert.Len(t, plan.Exercises, 4)
	for i, day := range plan.Exercises {
		assert.Equal(t, plan.Schedule[i], day.Day)
		assert.Equal(t, []domain.Routine{
			{Name: "Full Body Circuit", Sets: 3, Reps: 12},
			{Name: "Core Plank", Sets: 3, Reps: 1, Duration: "45 seconds"},
		}, day.Routines)
	}
}

func TestFallbackWorkoutPlan_ClampsDayCount(t *testing.T) {
	assert.Len(t, FallbackWorkoutPlan(12).Schedule, 7)
	assert.Equal(t, []string{"Monday"}, FallbackWorkoutPlan(0).Schedule)
}

func TestFallbackDietPlan(t *testing.T) {
	plan := FallbackDietPlan()

	assert.Equal(t, 2000, plan.DailyCalories)
	assert.Equal(t, []domain.Meal{
		{Name: "Breakfast", Foods: []string{"Eggs", "Oats", "Fruit"}},
		{Name: "Lunch", Foods: []string{"Chicken", "Rice", "Salad"}},
		{Name: "Dinner", Foods: []string{"Fish", "Potato", "Veggies"}},
	}, plan.Meals)

	plan.Meals[0].Foods[0] = "Pancakes"
	assert.Equal(t, "Eggs", FallbackDietPlan().Meals[0].Foods[0])
}
