package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() map[string]string {
	return map[string]string{
		"user_id":              "u1",
		"age":                  "25",
		"height":               "5'8\"",
		"weight":               "150 lbs",
		"workout_days":         "4",
		"fitness_goal":         "Build muscle",
		"fitness_level":        "Intermediate",
		"dietary_restrictions": "None",
	}
}

func TestDayCount(t *testing.T) {
	cases := map[string]int{
		"10":     7,
		"7":      7,
		"4":      4,
		"4 days": 4,
		" 2":     2,
		"1":      1,
		"0":      1,
		"-2":     1,
		"":       3,
		"abc":    3,
		"three":  3,
		"+5":     5,
	}
	for in, want := range cases {
		assert.Equal(t, want, DayCount(in), "DayCount(%q)", in)
	}
	assert.Equal(t, 7, DayCount("99999999999999999999"))
}

func TestNormalize_FillsDefaults(t *testing.T) {
	fields := validFields()
	delete(fields, "workout_days")
	delete(fields, "dietary_restrictions")

	p, err := Normalize(fields)
	require.NoError(t, err)

	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "None", p.Injuries)
	assert.Equal(t, "None", p.DietaryRestrictions)
	assert.Equal(t, "3", p.WorkoutDays)
	assert.Equal(t, 3, p.DayCount)
}

func TestNormalize_KeepsCallerValues(t *testing.T) {
	fields := validFields()
	fields["injuries"] = "  bad knee "
	fields["workout_days"] = "10"

	p, err := Normalize(fields)
	require.NoError(t, err)

	assert.Equal(t, "bad knee", p.Injuries)
	assert.Equal(t, "10", p.WorkoutDays)
	assert.Equal(t, 7, p.DayCount)
	assert.Equal(t, "5'8\"", p.Height)
}

func TestNormalize_MissingGoal(t *testing.T) {
	fields := validFields()
	delete(fields, "fitness_goal")

	_, err := Normalize(fields)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"fitness_goal"}, verr.Missing)
	assert.Equal(t, "Missing: fitness_goal", err.Error())
}

func TestNormalize_ReportsEveryMissingField(t *testing.T) {
	_, err := Normalize(map[string]string{"age": "30", "weight": "   "})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"user_id", "height", "weight", "fitness_goal", "fitness_level"}, verr.Missing)
}
