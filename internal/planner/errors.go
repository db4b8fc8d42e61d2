package planner

import (
	"fmt"
	"strings"
)

// ValidationError reports every required profile field that was missing or blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Missing: " + strings.Join(e.Missing, ", ")
}

// ParseError means the model text was not valid JSON after fence stripping.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CoercionError means the coerced plan failed an acceptance check.
type CoercionError struct {
	Plan   string // "workout" or "diet"
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s plan rejected: %s", e.Plan, e.Reason)
}
