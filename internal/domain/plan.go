// internal/domain/plan.go
package domain

import (
	"time"
)

// GeneratedPlan is the persisted aggregate: one workout plan and one diet plan for a user.
// Once created it belongs to the plan store; the generator never mutates it afterwards.
type GeneratedPlan struct {
	ID          string      `bson:"_id,omitempty" json:"planId"`
	UserID      string      `bson:"userId" json:"userId"`
	Name        string      `bson:"name" json:"name"` // e.g., "Build muscle Plan - 10/18/2026"
	WorkoutPlan WorkoutPlan `bson:"workoutPlan" json:"workoutPlan"`
	DietPlan    DietPlan    `bson:"dietPlan" json:"dietPlan"`
	IsActive    bool        `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
}

// PlanName builds the display name of a generated plan.
// The date uses the US short form (M/D/YYYY).
func PlanName(fitnessGoal string, at time.Time) string {
	return fitnessGoal + " Plan - " + at.Format("1/2/2006")
}
