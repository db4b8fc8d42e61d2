package repository

import (
	"context"

	"alcyxob/fitness-planner/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInvalidPlan  = RepositoryError("plan requires userId and name")
	ErrRemoteReject = RepositoryError("plan store rejected the mutation")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanRepository stores a freshly generated plan and returns its id.
// One call per request; implementations do not deduplicate.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.GeneratedPlan) (string, error)
}

// PlanReader is implemented by stores that can serve plans back to their owners.
type PlanReader interface {
	GetByID(ctx context.Context, id string) (*domain.GeneratedPlan, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.GeneratedPlan, error)
}

// PlanStore is a PlanRepository that can also read plans back.
type PlanStore interface {
	PlanRepository
	PlanReader
}
