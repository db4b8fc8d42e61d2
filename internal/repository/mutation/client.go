// Package mutation persists plans through a Convex-style HTTP mutation endpoint.
package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/repository"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	mutationEndpoint = "/api/mutation"
	maxErrorBody     = 4 << 10
)

type mutationRequest struct {
	Path   string         `json:"path"`
	Args   createPlanArgs `json:"args"`
	Format string         `json:"format"`
}

type createPlanArgs struct {
	UserID      string             `json:"userId"`
	Name        string             `json:"name"`
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
	IsActive    bool               `json:"isActive"`
}

type mutationResponse struct {
	Status       string          `json:"status"`
	Value        json.RawMessage `json:"value"`
	ErrorMessage string          `json:"errorMessage"`
}

// planRepository implements repository.PlanRepository against the mutation endpoint.
type planRepository struct {
	baseURL   string
	path      string
	authToken string
	client    *http.Client
}

// NewPlanRepository returns a PlanRepository that calls the named mutation
// (e.g. "plans:createPlan") on the deployment at baseURL.
func NewPlanRepository(baseURL, path, authToken string, timeout time.Duration) repository.PlanRepository {
	return &planRepository{
		baseURL:   strings.TrimRight(baseURL, "/"),
		path:      path,
		authToken: authToken,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Create sends exactly one mutation call. No retries.
func (r *planRepository) Create(ctx context.Context, plan *domain.GeneratedPlan) (string, error) {
	if plan.UserID == "" || plan.Name == "" {
		return "", repository.ErrInvalidPlan
	}

	payload, err := json.Marshal(mutationRequest{
		Path: r.path,
		Args: createPlanArgs{
			UserID:      plan.UserID,
			Name:        plan.Name,
			WorkoutPlan: plan.WorkoutPlan,
			DietPlan:    plan.DietPlan,
			IsActive:    plan.IsActive,
		},
		Format: "json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal mutation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+mutationEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.authToken)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mutation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("mutation returned status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out mutationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode mutation response: %w", err)
	}
	if out.Status != "success" {
		return "", fmt.Errorf("%w: %s", repository.ErrRemoteReject, out.ErrorMessage)
	}

	id, err := planID(out.Value)
	if err != nil {
		return "", err
	}
	plan.ID = id
	return id, nil
}

// planID accepts the document id either as a bare string or as {"_id": "..."}.
func planID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil && id != "" {
		return id, nil
	}
	var doc struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && doc.ID != "" {
		return doc.ID, nil
	}
	return "", fmt.Errorf("mutation returned no plan id: %s", string(raw))
}
