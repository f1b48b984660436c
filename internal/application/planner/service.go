// Package planner orchestrates plan generation: it merges the profile,
// retrieves health constraints, builds the prompt, calls the completion
// provider and parses the result into a typed plan.
package planner

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/fitforge/backend/internal/domain/plan"
	"github.com/fitforge/backend/internal/domain/profile"
	"github.com/fitforge/backend/internal/ports/outbound"
	apperrors "github.com/fitforge/backend/pkg/errors"
	"go.uber.org/zap"
)

// DefaultMaxTokens bounds the completion output when no budget is
// configured. Observed configurations ranged 3000-16000.
const DefaultMaxTokens = 8000

const (
	planTypeDiet    = "diet"
	planTypeWorkout = "workout"

	dietFailureMessage    = "Failed to generate diet plan. Please retry."
	workoutFailureMessage = "Failed to generate workout plan. Please retry."
)

// ContextRetriever supplies the constraint summary for a free-text health
// query. Best-effort: it never fails, only returns an empty summary.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) string
}

// PlanRequest carries the profile plus the optional "other" free-text
// overrides and the workout location preference.
type PlanRequest struct {
	Profile profile.Profile

	OtherGoal             string
	OtherHealthConditions string
	OtherAllergies        string
	OtherInjuries         string

	// Preference biases the workout task ("home" or "gym"); both variants
	// are always generated.
	Preference string
}

// merged returns the profile with "other" fields concatenated onto their
// structured counterparts and the original's defaults applied.
func (r PlanRequest) merged() profile.Profile {
	p := r.Profile
	p.Goal = profile.MergeFreeText(p.Goal, r.OtherGoal)
	p.HealthConditions = profile.MergeFreeText(p.HealthConditions, r.OtherHealthConditions)
	p.Allergies = profile.MergeFreeText(p.Allergies, r.OtherAllergies)
	p.Injuries = profile.MergeFreeText(p.Injuries, r.OtherInjuries)
	if strings.TrimSpace(p.Gender) == "" {
		p.Gender = "male"
	}
	if strings.TrimSpace(p.ActivityLevel) == "" {
		p.ActivityLevel = "moderate"
	}
	return p
}

// Service generates diet and workout plans.
type Service struct {
	completion outbound.CompletionService
	retriever  ContextRetriever
	maxTokens  int
	metrics    *Metrics
	logger     *zap.Logger
}

// NewService creates a planner service. maxTokens <= 0 selects
// DefaultMaxTokens.
func NewService(
	completion outbound.CompletionService,
	retriever ContextRetriever,
	maxTokens int,
	metrics *Metrics,
	logger *zap.Logger,
) *Service {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Service{
		completion: completion,
		retriever:  retriever,
		maxTokens:  maxTokens,
		metrics:    metrics,
		logger:     logger.Named("planner"),
	}
}

// GenerateDiet produces a 7-day diet plan for the request.
func (s *Service) GenerateDiet(ctx context.Context, req PlanRequest) (*plan.DietPlan, error) {
	p := req.merged()
	s.logger.Info("diet plan requested",
		zap.String("user_id", p.UserID),
		zap.String("goal", p.Goal),
	)

	query := retrievalQuery(p.HealthConditions, p.Allergies, p.Injuries)
	vectorContext := s.retriever.Retrieve(ctx, query)

	est := profile.EstimateEnergy(p)
	task := dietTask(roundKcal(est.Target))

	content, err := s.complete(ctx, dietContext(p, est, vectorContext), task)
	if err != nil {
		s.metrics.RecordGeneration(planTypeDiet, OutcomeUpstreamError)
		return nil, apperrors.NewAppError(apperrors.CodeGenerationFailed, dietFailureMessage, err.Error()).WithCause(err)
	}

	var dietPlan plan.DietPlan
	if err := json.Unmarshal([]byte(content), &dietPlan); err != nil {
		s.metrics.RecordGeneration(planTypeDiet, OutcomeParseError)
		s.logger.Error("diet plan response was not valid JSON", zap.Error(err))
		return nil, apperrors.NewAppError(apperrors.CodeContentParseFailed, dietFailureMessage, err.Error()).WithCause(err)
	}

	s.metrics.RecordGeneration(planTypeDiet, OutcomeSuccess)
	s.logger.Info("diet plan generated",
		zap.String("user_id", p.UserID),
		zap.Int("days", len(dietPlan.Days)),
		zap.Int("target_kcal", roundKcal(est.Target)),
	)
	return &dietPlan, nil
}

// GenerateWorkout produces a 7-day gym/home workout plan for the request.
func (s *Service) GenerateWorkout(ctx context.Context, req PlanRequest) (*plan.WorkoutPlan, error) {
	p := req.merged()
	s.logger.Info("workout plan requested",
		zap.String("user_id", p.UserID),
		zap.String("preference", req.Preference),
	)

	// Allergies are irrelevant to exercise selection.
	query := retrievalQuery(p.HealthConditions, p.Injuries)
	vectorContext := s.retriever.Retrieve(ctx, query)

	content, err := s.complete(ctx, workoutContext(p, vectorContext), workoutTask(req.Preference))
	if err != nil {
		s.metrics.RecordGeneration(planTypeWorkout, OutcomeUpstreamError)
		return nil, apperrors.NewAppError(apperrors.CodeGenerationFailed, workoutFailureMessage, err.Error()).WithCause(err)
	}

	var workoutPlan plan.WorkoutPlan
	if err := json.Unmarshal([]byte(content), &workoutPlan); err != nil {
		s.metrics.RecordGeneration(planTypeWorkout, OutcomeParseError)
		s.logger.Error("workout plan response was not valid JSON", zap.Error(err))
		return nil, apperrors.NewAppError(apperrors.CodeContentParseFailed, workoutFailureMessage, err.Error()).WithCause(err)
	}

	s.metrics.RecordGeneration(planTypeWorkout, OutcomeSuccess)
	s.logger.Info("workout plan generated",
		zap.String("user_id", p.UserID),
		zap.Int("gym_days", len(workoutPlan.Gym.Days)),
		zap.Int("home_days", len(workoutPlan.Home.Days)),
	)
	return &workoutPlan, nil
}

func (s *Service) complete(ctx context.Context, promptContext, task string) (string, error) {
	messages := []outbound.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage(promptContext, task)},
	}
	completion, err := s.completion.Complete(ctx, messages, s.maxTokens)
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}

// retrievalQuery joins the non-empty health fields into one search query.
func retrievalQuery(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

func roundKcal(kcal float64) int {
	return int(math.Round(kcal))
}
