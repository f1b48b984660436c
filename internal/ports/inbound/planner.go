// Package inbound defines the application-facing service contracts.
package inbound

import (
	"context"

	"github.com/fitforge/backend/internal/application/planner"
	"github.com/fitforge/backend/internal/domain/plan"
)

// PlannerService generates personalized 7-day diet and workout plans.
type PlannerService interface {
	GenerateDiet(ctx context.Context, req planner.PlanRequest) (*plan.DietPlan, error)
	GenerateWorkout(ctx context.Context, req planner.PlanRequest) (*plan.WorkoutPlan, error)
}
