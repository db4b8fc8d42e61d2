package planner

import (
	"fmt"

	"alcyxob/fitness-planner/internal/domain"
)

// WorkoutPromptTemplate is rendered with fmt.Sprintf: age, height, weight, injuries,
// days available, goal, level, day count.
const WorkoutPromptTemplate = `You are a certified strength and conditioning coach. Create a weekly workout plan.
Age: %s
Height: %s
Weight: %s
Injuries: %s
Days available: %s
Goal: %s
Level: %s

Create a schedule with exactly %d distinct day names chosen from Monday..Sunday.
Vary exercises per day and align with the user's level and goal. Use realistic sets and reps (numbers only). Avoid repeating the same routine across all days.

Return JSON with this EXACT structure and keys only:
{
  "schedule": ["Day 1", "Day 2"],
  "exercises": [
    {"day": "Day 1", "routines": [{"name": "Exercise", "sets": 3, "reps": 10}]}
  ]
}`

// DietPromptTemplate is rendered with fmt.Sprintf: age, height, weight, goal, restrictions.
const DietPromptTemplate = `You are a certified nutritionist. Build a daily diet plan.
Age: %s
Height: %s
Weight: %s
Goal: %s
Diet restrictions: %s

Return JSON with this EXACT structure and keys only:
{
  "dailyCalories": 2000,
  "meals": [
    {"name": "Breakfast", "foods": ["Food 1", "Food 2"]}
  ]
}`

// BuildWorkoutPrompt renders the workout prompt. Profile values are interpolated as-is.
func BuildWorkoutPrompt(p domain.Profile, dayCount int) string {
	return fmt.Sprintf(
		WorkoutPromptTemplate,
		p.Age,
		p.Height,
		p.Weight,
		p.Injuries,
		p.WorkoutDays,
		p.FitnessGoal,
		p.FitnessLevel,
		dayCount,
	)
}

// BuildDietPrompt renders the diet prompt.
func BuildDietPrompt(p domain.Profile) string {
	return fmt.Sprintf(
		DietPromptTemplate,
		p.Age,
		p.Height,
		p.Weight,
		p.FitnessGoal,
		p.DietaryRestrictions,
	)
}
