package planner

import (
	"fmt"
	"strings"

	"github.com/fitforge/backend/internal/domain/profile"
)

// systemPrompt fixes the assistant persona and the JSON-only output
// constraint for every completion call.
const systemPrompt = "You are a certified sports nutritionist and personal trainer. " +
	"You MUST return ONLY valid JSON. Accuracy is critical for user safety."

const noConstraintsFound = "No specific contraindications found in database."

// dietContext renders the profile, the derived energy values and the
// retrieved constraints into the prompt context block.
func dietContext(p profile.Profile, est profile.EnergyEstimate, vectorContext string) string {
	if vectorContext == "" {
		vectorContext = noConstraintsFound
	}
	return fmt.Sprintf(`User Profile: %s, %d years old, %s.
Metrics: %.1fkg, %.1fcm.
Goal: %s.
Reported Health: %s.
Allergies: %s.
Injuries: %s.
Calculated BMR: %d.
Calculated TDEE: %d.
Daily Calorie Target: %d.
Vector database search results for these conditions: %s`,
		p.FullName, p.Age, p.Gender,
		p.WeightKg, p.HeightCm,
		p.Goal,
		p.HealthConditions,
		p.Allergies,
		p.Injuries,
		roundKcal(est.BMR),
		roundKcal(est.TDEE),
		roundKcal(est.Target),
		vectorContext,
	)
}

// dietTask builds the diet instruction. targetCalories is the rounded
// goal-adjusted daily target; the 7-day and exact-sum requirements are a
// prompt-level contract with the model, not enforced here.
func dietTask(targetCalories int) string {
	return fmt.Sprintf(`Create a 7-day highly detailed diet plan.
Ensure the plan respects ALL health conditions, allergies, and injuries.
Return ALL 7 days. For each day, the item calories MUST sum exactly to %d.
Return ONLY JSON in this EXACT format:
{
  "days": [
    {
      "day": 1,
      "totalCalories": %d,
      "protein": "150g",
      "carbs": "200g",
      "fats": "60g",
      "meals": [
        {
          "title": "Breakfast",
          "items": [
              {"name": "...", "calories": 0}
          ]
        }
      ]
    }
  ]
}`, targetCalories, targetCalories)
}

func workoutContext(p profile.Profile, vectorContext string) string {
	if vectorContext == "" {
		vectorContext = "None"
	}
	return fmt.Sprintf(`User Profile: %s, %d years old, %s.
Goal: %s.
Health context: %s, %s.
Vector Database Constraints: %s.`,
		p.FullName, p.Age, p.Gender,
		p.Goal,
		p.HealthConditions, p.Injuries,
		vectorContext,
	)
}

// workoutTask builds the workout instruction. Both variants are always
// requested; a stated preference only asks the model for extra care on that
// variant.
func workoutTask(preference string) string {
	task := `Create a 7-day exercise plan.
For EACH day, provide TWO complete plans: one for "home" and one for "gym".
Include warm-up, main exercises, and cool-down.
Ensure exercises are safe for the provided injuries/conditions.
Return ONLY JSON in this format:
{
  "gym": {
    "title": "Gym Workout Plan",
    "days": [{"day": 1, "exercises": [{"id": 1, "name": "...", "difficulty": "Medium", "equipment": "...", "sets": "3", "reps": "12", "calories": 0}]}]
  },
  "home": {
    "title": "Home Workout Plan",
    "days": [{"day": 1, "exercises": [{"id": 1, "name": "...", "difficulty": "Medium", "equipment": "None", "sets": "3", "reps": "12", "calories": 0}]}]
  }
}`
	if preference = strings.TrimSpace(strings.ToLower(preference)); preference != "" {
		task += fmt.Sprintf("\nThe user primarily trains at %s, so design that variant with extra care.", preference)
	}
	return task
}

// userMessage joins context and task the way the completion provider
// expects them.
func userMessage(context, task string) string {
	return fmt.Sprintf("Context:\n%s\n\nTask:\n%s", context, task)
}
