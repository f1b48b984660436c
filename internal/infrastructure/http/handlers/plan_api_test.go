package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitforge/backend/internal/application/planner"
	"github.com/fitforge/backend/internal/domain/plan"
	"github.com/fitforge/backend/internal/infrastructure/config"
	"github.com/fitforge/backend/internal/infrastructure/http/middleware"
	"github.com/fitforge/backend/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPlanner struct {
	gotReq  planner.PlanRequest
	diet    *plan.DietPlan
	workout *plan.WorkoutPlan
	err     error
}

func (s *stubPlanner) GenerateDiet(ctx context.Context, req planner.PlanRequest) (*plan.DietPlan, error) {
	s.gotReq = req
	return s.diet, s.err
}

func (s *stubPlanner) GenerateWorkout(ctx context.Context, req planner.PlanRequest) (*plan.WorkoutPlan, error) {
	s.gotReq = req
	return s.workout, s.err
}

func newTestRouter(p *stubPlanner, failureMode string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		App: config.AppConfig{Name: "FitForge", Environment: "test"},
		AI:  config.AIConfig{FailureMode: failureMode},
	}
	h := NewPlanAPIHandlers(p, cfg, planner.NewMetrics(prometheus.NewRegistry()), zap.NewNop())
	mw := middleware.New(cfg, zap.NewNop(), prometheus.NewRegistry())

	router := gin.New()
	// Error responses are rendered by the same middleware the server wires.
	router.Use(mw.ErrorHandler())
	router.POST("/ai/generate-diet", h.GenerateDiet)
	router.POST("/ai/generate-workout", h.GenerateWorkout)
	router.GET("/health", h.Health)
	return router
}

const validBody = `{
	"userId": "u-1",
	"fullName": "Alex Doe",
	"age": 25,
	"height_cm": 170,
	"weight_kg": 70,
	"gender": "male",
	"activity_level": "moderate",
	"goal": "lose weight",
	"allergies": "peanuts",
	"other_allergies": "shellfish",
	"preference": "home"
}`

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateDietReturnsPlan(t *testing.T) {
	stub := &stubPlanner{diet: &plan.DietPlan{Days: []plan.DietDay{{Day: 1, TotalCalories: 2135}}}}
	router := newTestRouter(stub, config.FailureModeError)

	w := postJSON(router, "/ai/generate-diet", validBody)

	require.Equal(t, http.StatusOK, w.Code)

	var got plan.DietPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Days, 1)
	assert.Equal(t, 2135, got.Days[0].TotalCalories)

	assert.Equal(t, "u-1", stub.gotReq.Profile.UserID)
	assert.Equal(t, "peanuts", stub.gotReq.Profile.Allergies)
	assert.Equal(t, "shellfish", stub.gotReq.OtherAllergies)
	assert.Equal(t, "home", stub.gotReq.Preference)
}

func TestGenerateDietRejectsInvalidBody(t *testing.T) {
	stub := &stubPlanner{}
	router := newTestRouter(stub, config.FailureModeError)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"age": `},
		{"missing age", `{"height_cm": 170, "weight_kg": 70}`},
		{"negative weight", `{"age": 25, "height_cm": 170, "weight_kg": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/ai/generate-diet", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Validation failed")
		})
	}
}

func TestValidationDetailsNamesFields(t *testing.T) {
	stub := &stubPlanner{}
	router := newTestRouter(stub, config.FailureModeError)

	w := postJSON(router, "/ai/generate-diet", `{"height_cm": 170, "weight_kg": 70}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "age is required")
}

func TestGenerateDietErrorMode(t *testing.T) {
	stub := &stubPlanner{err: errors.NewAppError(
		errors.CodeGenerationFailed,
		"Failed to generate diet plan. Please retry.",
		"upstream returned status 503",
	)}
	router := newTestRouter(stub, config.FailureModeError)

	w := postJSON(router, "/ai/generate-diet", validBody)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Failed to generate diet plan. Please retry.", got["error"])
	assert.Equal(t, "upstream returned status 503", got["details"])
}

func TestGenerateDietFallbackMode(t *testing.T) {
	stub := &stubPlanner{err: errors.NewAppError(errors.CodeGenerationFailed, "Failed to generate diet plan. Please retry.", "")}
	router := newTestRouter(stub, config.FailureModeFallback)

	w := postJSON(router, "/ai/generate-diet", validBody)

	require.Equal(t, http.StatusOK, w.Code)

	var got plan.DietPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Days, 7)
	assert.Equal(t, 2200, got.Days[0].TotalCalories)
}

func TestGenerateWorkoutReturnsPlan(t *testing.T) {
	stub := &stubPlanner{workout: &plan.WorkoutPlan{
		Gym:  plan.WorkoutVariant{Title: "Gym Workout Plan"},
		Home: plan.WorkoutVariant{Title: "Home Workout Plan"},
	}}
	router := newTestRouter(stub, config.FailureModeError)

	w := postJSON(router, "/ai/generate-workout", validBody)

	require.Equal(t, http.StatusOK, w.Code)

	var got plan.WorkoutPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Gym Workout Plan", got.Gym.Title)
	assert.Equal(t, "Home Workout Plan", got.Home.Title)
}

func TestGenerateWorkoutFallbackMode(t *testing.T) {
	stub := &stubPlanner{err: errors.NewAppError(errors.CodeContentParseFailed, "Failed to generate workout plan. Please retry.", "")}
	router := newTestRouter(stub, config.FailureModeFallback)

	w := postJSON(router, "/ai/generate-workout", validBody)

	require.Equal(t, http.StatusOK, w.Code)

	var got plan.WorkoutPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Elite 7-Day Gym Transformation", got.Gym.Title)
	require.Len(t, got.Home.Days, 7)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubPlanner{}, config.FailureModeError)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","environment":"test"}`, w.Body.String())
}
