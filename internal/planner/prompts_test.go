package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWorkoutPrompt(t *testing.T) {
	p, err := Normalize(validFields())
	require.NoError(t, err)

	prompt := BuildWorkoutPrompt(p, p.DayCount)

	for _, want := range []string{
		"strength and conditioning coach",
		"Age: 25\n",
		"Height: 5'8\"\n",
		"Weight: 150 lbs\n",
		"Injuries: None\n",
		"Days available: 4\n",
		"Goal: Build muscle\n",
		"Level: Intermediate\n",
		"exactly 4 distinct day names",
		"Avoid repeating the same routine",
		`"schedule": ["Day 1", "Day 2"]`,
		`"routines": [{"name": "Exercise", "sets": 3, "reps": 10}]`,
	} {
		assert.Contains(t, prompt, want)
	}
	assert.Equal(t, prompt, BuildWorkoutPrompt(p, p.DayCount), "prompt must be deterministic")
}

func TestBuildDietPrompt(t *testing.T) {
	fields := validFields()
	fields["dietary_restrictions"] = "Vegetarian, no nuts"
	p, err := Normalize(fields)
	require.NoError(t, err)

	prompt := BuildDietPrompt(p)

	assert.True(t, strings.HasPrefix(prompt, "You are a certified nutritionist."))
	assert.Contains(t, prompt, "Goal: Build muscle\n")
	assert.Contains(t, prompt, "Diet restrictions: Vegetarian, no nuts\n")
	assert.Contains(t, prompt, `"dailyCalories": 2000`)
	assert.NotContains(t, prompt, "Injuries")
	assert.Equal(t, prompt, BuildDietPrompt(p))
}

func TestBuildWorkoutPrompt_InterpolatesVerbatim(t *testing.T) {
	p, err := Normalize(validFields())
	require.NoError(t, err)
	p.Injuries = `%d "quoted" {braces}`

	prompt := BuildWorkoutPrompt(p, 2)

	assert.Contains(t, prompt, "Injuries: %d \"quoted\" {braces}\n")
	assert.Contains(t, prompt, "exactly 2 distinct day names")
}
