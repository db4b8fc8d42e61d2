package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/logger"
	"alcyxob/fitness-planner/internal/planner"
	"alcyxob/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type fakePlanService struct {
	fields  map[string]string
	result  *service.GenerationResult
	err     error
	plans   []domain.GeneratedPlan
	readErr error
	userID  string
}

func (f *fakePlanService) GeneratePlan(ctx context.Context, fields map[string]string) (*service.GenerationResult, error) {
	f.fields = fields
	return f.result, f.err
}

func (f *fakePlanService) GetPlan(ctx context.Context, userID, planID string) (*domain.GeneratedPlan, error) {
	f.userID = userID
	if f.readErr != nil {
		return nil, f.readErr
	}
	for i := range f.plans {
		if f.plans[i].ID == planID && f.plans[i].UserID == userID {
			return &f.plans[i], nil
		}
	}
	return nil, service.ErrPlanNotFound
}

func (f *fakePlanService) ListPlans(ctx context.Context, userID string) ([]domain.GeneratedPlan, error) {
	f.userID = userID
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.plans, nil
}

func newTestRouter(svc service.PlanService, cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(cfg, svc, logger.NewNop())
}

func doJSON(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGenerateProgramSuccess(t *testing.T) {
	svc := &fakePlanService{result: &service.GenerationResult{
		PlanID:      "plan-1",
		WorkoutPlan: planner.FallbackWorkoutPlan(2),
		DietPlan:    planner.FallbackDietPlan(),
	}}
	r := newTestRouter(svc, RouterConfig{})

	w := doJSON(r, http.MethodPost, "/api/v1/vapi/generate-program",
		`{"user_id":"u1","age":25,"height":"5'8\"","weight":150.5,"workout_days":4,"fitness_goal":"Build muscle","fitness_level":"Intermediate","injuries":null,"vip":true,"extra":{"a":1}}`, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")
	data := body["data"].(map[string]any)
	assert.Equal(t, "plan-1", data["planId"])
	assert.Equal(t, []any{"Monday", "Tuesday"}, data["workoutPlan"].(map[string]any)["schedule"])
	assert.Equal(t, float64(2000), data["dietPlan"].(map[string]any)["dailyCalories"])

	assert.Equal(t, map[string]string{
		"user_id":       "u1",
		"age":           "25",
		"height":        `5'8"`,
		"weight":        "150.5",
		"workout_days":  "4",
		"fitness_goal":  "Build muscle",
		"fitness_level": "Intermediate",
		"vip":           "true",
	}, svc.fields)
}

func TestGenerateProgramErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		status  int
		message string
	}{
		{"invalid json", `{"user_id":`, nil, http.StatusBadRequest, msgInvalidBody},
		{"array body", `[1,2]`, nil, http.StatusBadRequest, msgInvalidBody},
		{"validation", `{}`, &planner.ValidationError{Missing: []string{"fitness_goal"}}, http.StatusBadRequest, "Missing: fitness_goal"},
		{"model", `{}`, &service.ModelError{Plan: "workout", Err: errors.New("quota")}, http.StatusInternalServerError, msgGenerateFailed},
		{"persistence", `{}`, &service.PersistenceError{Err: errors.New("down")}, http.StatusInternalServerError, msgSaveFailed},
		{"unknown", `{}`, errors.New("boom"), http.StatusInternalServerError, msgUnknownError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&fakePlanService{err: tc.err}, RouterConfig{})

			w := doJSON(r, http.MethodPost, "/api/v1/vapi/generate-program", tc.body, nil)

			assert.Equal(t, tc.status, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["error"])
			assert.NotContains(t, body, "data")
		})
	}
}

func TestWebhookSecret(t *testing.T) {
	svc := &fakePlanService{result: &service.GenerationResult{PlanID: "p"}}
	r := newTestRouter(svc, RouterConfig{WebhookSecret: "s3cret"})

	w := doJSON(r, http.MethodPost, "/api/v1/vapi/generate-program", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
	assert.Nil(t, svc.fields)

	w = doJSON(r, http.MethodPost, "/api/v1/vapi/test", `{}`, map[string]string{HeaderVapiSecret: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/vapi/generate-program", `{}`, map[string]string{HeaderVapiSecret: "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProbeWebhook(t *testing.T) {
	r := newTestRouter(&fakePlanService{}, RouterConfig{})

	w := doJSON(r, http.MethodPost, "/api/v1/vapi/test", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])
	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
}

func TestPingAndRequestID(t *testing.T) {
	r := newTestRouter(&fakePlanService{}, RouterConfig{})

	w := doJSON(r, http.MethodGet, "/ping", "", map[string]string{HeaderRequestID: "req-42"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))

	w = doJSON(r, http.MethodGet, "/ping", "", nil)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return s
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestPlanReads(t *testing.T) {
	svc := &fakePlanService{plans: []domain.GeneratedPlan{
		{ID: "p1", UserID: "u1", Name: "Build muscle Plan - 10/18/2026", IsActive: true, DietPlan: planner.FallbackDietPlan()},
	}}
	r := newTestRouter(svc, RouterConfig{JWTSecret: testJWTSecret, EnablePlanReads: true})
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	token := signToken(t, jwtClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}})

	w := doJSON(r, http.MethodGet, "/api/v1/plans", "", bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	plans := decodeBody(t, w)["plans"].([]any)
	require.Len(t, plans, 1)
	assert.Equal(t, "p1", plans[0].(map[string]any)["planId"])
	assert.Equal(t, "u1", svc.userID)

	w = doJSON(r, http.MethodGet, "/api/v1/plans/p1", "", bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Build muscle Plan - 10/18/2026", decodeBody(t, w)["name"])

	w = doJSON(r, http.MethodGet, "/api/v1/plans/nope", "", bearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanReadsSubjectClaim(t *testing.T) {
	svc := &fakePlanService{}
	r := newTestRouter(svc, RouterConfig{JWTSecret: testJWTSecret, EnablePlanReads: true})
	token := signToken(t, jwt.RegisteredClaims{Subject: "u7"})

	w := doJSON(r, http.MethodGet, "/api/v1/plans", "", bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u7", svc.userID)
	assert.Equal(t, []any{}, decodeBody(t, w)["plans"])
}

func TestPlanReadsAuthFailures(t *testing.T) {
	r := newTestRouter(&fakePlanService{}, RouterConfig{JWTSecret: testJWTSecret, EnablePlanReads: true})
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong scheme", map[string]string{"Authorization": "Token abc"}},
		{"garbage token", bearer("abc.def.ghi")},
		{"expired", bearer(signToken(t, jwtClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past}}))},
		{"no user", bearer(signToken(t, jwt.RegisteredClaims{}))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/api/v1/plans", "", tc.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotEmpty(t, decodeBody(t, w)["error"])
		})
	}
}

func TestPlanReadsUnavailable(t *testing.T) {
	r := newTestRouter(&fakePlanService{}, RouterConfig{JWTSecret: testJWTSecret})

	w := doJSON(r, http.MethodGet, "/api/v1/plans", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc := &fakePlanService{readErr: service.ErrReadsUnsupported}
	r = newTestRouter(svc, RouterConfig{JWTSecret: testJWTSecret, EnablePlanReads: true})
	w = doJSON(r, http.MethodGet, "/api/v1/plans", "", bearer(signToken(t, jwt.RegisteredClaims{Subject: "u1"})))
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
