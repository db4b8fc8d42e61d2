package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/logger"
	"alcyxob/fitness-planner/internal/planner"
	"alcyxob/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// Generic messages returned for server-side failures.
const (
	msgGenerateFailed = "Failed to generate plan"
	msgSaveFailed     = "Failed to save plan"
	msgUnknownError   = "Unknown error"
	msgInvalidBody    = "Invalid JSON body"
)

// PlanHandler serves the voice-agent webhook and the plan read endpoints.
type PlanHandler struct {
	planService service.PlanService
	log         *logger.Logger
	now         func() time.Time
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, log: log, now: time.Now}
}

// --- Request/Response Structs ---

// webhookResponse is the envelope of every webhook answer.
type webhookResponse struct {
	Success bool                      `json:"success"`
	Data    *service.GenerationResult `json:"data,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

type probeResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// PlanResponse is the read-side view of a stored plan.
type PlanResponse struct {
	ID          string             `json:"planId"`
	Name        string             `json:"name"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
}

func mapPlanToResponse(p *domain.GeneratedPlan) PlanResponse {
	return PlanResponse{
		ID:          p.ID,
		Name:        p.Name,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		WorkoutPlan: p.WorkoutPlan,
		DietPlan:    p.DietPlan,
	}
}

// --- Handler Methods ---

// GenerateProgram handles POST /api/v1/vapi/generate-program.
// The body is a flat JSON object of profile fields.
func (h *PlanHandler) GenerateProgram(c *gin.Context) {
	log := requestLogger(c, h.log)

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, webhookResponse{Success: false, Error: msgInvalidBody})
		return
	}

	result, err := h.planService.GeneratePlan(c.Request.Context(), stringifyFields(body))
	if err != nil {
		status, message := generateErrorResponse(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
			log.Error("Plan generation request failed", "error", err)
		}
		c.JSON(status, webhookResponse{Success: false, Error: message})
		return
	}

	c.JSON(http.StatusOK, webhookResponse{Success: true, Data: result})
}

// ProbeWebhook handles POST /api/v1/vapi/test, a connectivity check for the voice platform.
func (h *PlanHandler) ProbeWebhook(c *gin.Context) {
	c.JSON(http.StatusOK, probeResponse{
		Success:   true,
		Message:   "Webhook endpoint is reachable",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// ListPlans handles GET /api/v1/plans.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		h.handleReadError(c, err)
		return
	}

	resp := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, mapPlanToResponse(&plans[i]))
	}
	c.JSON(http.StatusOK, gin.H{"plans": resp})
}

// GetPlan handles GET /api/v1/plans/:planId.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, c.Param("planId"))
	if err != nil {
		h.handleReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPlanToResponse(plan))
}

func (h *PlanHandler) handleReadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, "Plan not found")
	case errors.Is(err, service.ErrReadsUnsupported):
		abortWithError(c, http.StatusNotImplemented, "Plan reads are not available")
	default:
		requestLogger(c, h.log).Error("Failed to read plans", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to read plans")
	}
}

// generateErrorResponse maps GeneratePlan errors to a status and a caller-safe message.
func generateErrorResponse(err error) (int, string) {
	var validationErr *planner.ValidationError
	var modelErr *service.ModelError
	var persistErr *service.PersistenceError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &modelErr):
		return http.StatusInternalServerError, msgGenerateFailed
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError, msgSaveFailed
	default:
		return http.StatusInternalServerError, msgUnknownError
	}
}

// stringifyFields flattens a decoded JSON object into profile fields.
// Numbers and booleans are formatted; null and nested values are dropped.
func stringifyFields(body map[string]any) map[string]string {
	fields := make(map[string]string, len(body))
	for key, value := range body {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case float64:
			fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			fields[key] = v.String()
		case bool:
			fields[key] = strconv.FormatBool(v)
		}
	}
	return fields
}
