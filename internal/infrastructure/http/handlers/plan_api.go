// Package handlers provides HTTP handlers for the plan generation API
package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fitforge/backend/internal/application/planner"
	"github.com/fitforge/backend/internal/domain/plan"
	"github.com/fitforge/backend/internal/domain/profile"
	"github.com/fitforge/backend/internal/infrastructure/config"
	"github.com/fitforge/backend/internal/ports/inbound"
	"github.com/fitforge/backend/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PlanAPIHandlers handles plan generation requests
type PlanAPIHandlers struct {
	planner inbound.PlannerService
	config  *config.Config
	metrics *planner.Metrics
	logger  *zap.Logger
}

// NewPlanAPIHandlers creates a new plan API handlers instance
func NewPlanAPIHandlers(
	plannerService inbound.PlannerService,
	cfg *config.Config,
	metrics *planner.Metrics,
	logger *zap.Logger,
) *PlanAPIHandlers {
	return &PlanAPIHandlers{
		planner: plannerService,
		config:  cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// GeneratePlanRequest represents a diet or workout generation request.
// Free-text "other" fields extend their structured counterparts.
type GeneratePlanRequest struct {
	// Wire names match the existing frontend contract: camelCase identity
	// fields, snake_case everything else.
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`

	Age      int     `json:"age" binding:"required,gt=0"`
	HeightCm float64 `json:"height_cm" binding:"required,gt=0"`
	WeightKg float64 `json:"weight_kg" binding:"required,gt=0"`

	Gender        string `json:"gender"`
	ActivityLevel string `json:"activity_level"`
	Goal          string `json:"goal"`

	HealthConditions string `json:"health_conditions"`
	Allergies        string `json:"allergies"`
	Injuries         string `json:"injuries"`
	ExperienceLevel  string `json:"experience_level"`

	OtherGoal             string `json:"other_goal"`
	OtherHealthConditions string `json:"other_health_conditions"`
	OtherAllergies        string `json:"other_allergies"`
	OtherInjuries         string `json:"other_injuries"`

	// Preference biases the workout plan toward "home" or "gym".
	Preference string `json:"preference"`
}

func (r GeneratePlanRequest) toPlanRequest() planner.PlanRequest {
	return planner.PlanRequest{
		Profile: profile.Profile{
			UserID:           r.UserID,
			FullName:         r.FullName,
			Age:              r.Age,
			HeightCm:         r.HeightCm,
			WeightKg:         r.WeightKg,
			Gender:           r.Gender,
			ActivityLevel:    r.ActivityLevel,
			Goal:             r.Goal,
			HealthConditions: r.HealthConditions,
			Allergies:        r.Allergies,
			Injuries:         r.Injuries,
			ExperienceLevel:  r.ExperienceLevel,
		},
		OtherGoal:             r.OtherGoal,
		OtherHealthConditions: r.OtherHealthConditions,
		OtherAllergies:        r.OtherAllergies,
		OtherInjuries:         r.OtherInjuries,
		Preference:            r.Preference,
	}
}

// GenerateDiet handles POST /ai/generate-diet
func (h *PlanAPIHandlers) GenerateDiet(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeValidationError(c, err)
		return
	}

	dietPlan, err := h.planner.GenerateDiet(c.Request.Context(), req.toPlanRequest())
	if err != nil {
		if h.config.AI.FailureMode == config.FailureModeFallback {
			h.logger.Warn("serving fallback diet plan",
				zap.String("request_id", c.GetString("request_id")),
				zap.Error(err),
			)
			h.metrics.RecordFallback("diet")
			c.JSON(http.StatusOK, plan.FallbackDiet())
			return
		}
		h.writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dietPlan)
}

// GenerateWorkout handles POST /ai/generate-workout
func (h *PlanAPIHandlers) GenerateWorkout(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeValidationError(c, err)
		return
	}

	workoutPlan, err := h.planner.GenerateWorkout(c.Request.Context(), req.toPlanRequest())
	if err != nil {
		if h.config.AI.FailureMode == config.FailureModeFallback {
			h.logger.Warn("serving fallback workout plan",
				zap.String("request_id", c.GetString("request_id")),
				zap.Error(err),
			)
			h.metrics.RecordFallback("workout")
			c.JSON(http.StatusOK, plan.FallbackWorkout())
			return
		}
		h.writeGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, workoutPlan)
}

// Health handles GET /health
func (h *PlanAPIHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"environment": h.config.App.Environment,
	})
}

func (h *PlanAPIHandlers) writeValidationError(c *gin.Context, err error) {
	// Rendered by the ErrorHandler middleware.
	c.Error(errors.NewValidationError(validationDetails(err)))
	c.Abort()
}

// validationDetails flattens binding errors into one readable line per field.
func validationDetails(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "gt":
			details = append(details, fmt.Sprintf("%s must be greater than %s", strings.ToLower(fe.Field()), fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(details, "; ")
}

func (h *PlanAPIHandlers) writeGenerationError(c *gin.Context, err error) {
	appErr := errors.Wrap(err, "Plan generation failed")
	h.logger.Error("plan generation failed",
		zap.String("request_id", c.GetString("request_id")),
		zap.String("code", string(appErr.Code)),
		zap.Error(err),
	)
	c.Error(appErr)
	c.Abort()
}
