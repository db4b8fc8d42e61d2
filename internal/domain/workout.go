package domain

// WorkoutPlan is a weekly schedule of training days and the routines for each day.
type WorkoutPlan struct {
	Schedule  []string      `bson:"schedule" json:"schedule"`   // ordered day labels, e.g. "Monday"
	Exercises []ExerciseDay `bson:"exercises" json:"exercises"` // one entry per scheduled day (not enforced)
}

// ExerciseDay groups the routines planned for one day of the schedule.
type ExerciseDay struct {
	Day      string    `bson:"day" json:"day"`
	Routines []Routine `bson:"routines" json:"routines"`
}

// Routine is a single exercise prescription.
type Routine struct {
	Name        string `bson:"name" json:"name"`
	Sets        int    `bson:"sets" json:"sets"`
	Reps        int    `bson:"reps" json:"reps"`
	Duration    string `bson:"duration,omitempty" json:"duration,omitempty"`       // e.g. "45 seconds"
	Description string `bson:"description,omitempty" json:"description,omitempty"` // free text from the model
}
