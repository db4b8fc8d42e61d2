package domain

// Profile is the normalized fitness and dietary input for one generation request.
// It is built per request and never stored on its own.
type Profile struct {
	UserID              string
	Age                 string
	Height              string
	Weight              string
	Injuries            string // "None" when not provided
	WorkoutDays         string // caller's text, "3" when not provided
	DayCount            int    // WorkoutDays parsed and clamped to [1,7]
	FitnessGoal         string
	FitnessLevel        string
	DietaryRestrictions string // "None" when not provided
}
