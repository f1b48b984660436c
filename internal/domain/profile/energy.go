package profile

import "strings"

// Harris-Benedict (revised) constants.
const (
	maleBase     = 88.362
	maleWeight   = 13.397
	maleHeight   = 4.799
	maleAge      = 5.677
	femaleBase   = 447.593
	femaleWeight = 9.247
	femaleHeight = 3.098
	femaleAge    = 4.330
)

// Calorie adjustment applied on top of TDEE when the goal text indicates
// weight loss or muscle gain.
const goalAdjustmentKcal = 500

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very active": 1.9,
	"very-active": 1.9,
}

const defaultActivityMultiplier = 1.375

var (
	lossKeywords = []string{"lose", "cut", "fat", "loss"}
	gainKeywords = []string{"build", "gain", "bulk", "muscle"}
)

// EnergyEstimate holds the derived daily energy values in kcal.
type EnergyEstimate struct {
	BMR    float64
	TDEE   float64
	Target float64
}

// CalculateBMR computes the basal metabolic rate in kcal/day using the
// revised Harris-Benedict equations. Any gender other than "male"
// (case-insensitive) uses the female formula; there is no rejection path.
func CalculateBMR(weightKg, heightCm float64, age int, gender string) float64 {
	if strings.EqualFold(strings.TrimSpace(gender), "male") {
		return maleBase + maleWeight*weightKg + maleHeight*heightCm - maleAge*float64(age)
	}
	return femaleBase + femaleWeight*weightKg + femaleHeight*heightCm - femaleAge*float64(age)
}

// CalculateTDEE scales a BMR by the activity multiplier. Unrecognized
// activity levels fall back to the "light" multiplier.
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(activityLevel))]
	if !ok {
		m = defaultActivityMultiplier
	}
	return bmr * m
}

// GoalAdjustment returns the kcal delta implied by the goal text: -500 for
// loss keywords, +500 for gain keywords, 0 otherwise. Loss wins when both
// match.
func GoalAdjustment(goal string) float64 {
	goal = strings.ToLower(goal)
	for _, kw := range lossKeywords {
		if strings.Contains(goal, kw) {
			return -goalAdjustmentKcal
		}
	}
	for _, kw := range gainKeywords {
		if strings.Contains(goal, kw) {
			return goalAdjustmentKcal
		}
	}
	return 0
}

// EstimateEnergy derives BMR, TDEE and the goal-adjusted calorie target for
// a profile.
func EstimateEnergy(p Profile) EnergyEstimate {
	bmr := CalculateBMR(p.WeightKg, p.HeightCm, p.Age, p.Gender)
	tdee := CalculateTDEE(bmr, p.ActivityLevel)
	return EnergyEstimate{
		BMR:    bmr,
		TDEE:   tdee,
		Target: tdee + GoalAdjustment(p.Goal),
	}
}
