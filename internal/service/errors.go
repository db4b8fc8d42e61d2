package service

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrReadsUnsupported = errors.New("configured plan store cannot serve reads")
)

// ModelError wraps a failed model call for one of the two plans.
type ModelError struct {
	Plan string // "workout" or "diet"
	Err  error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("generate %s plan: %v", e.Plan, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed write to the plan store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save plan: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
