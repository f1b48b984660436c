// Package plan defines the generated plan payloads and the static fallback
// plans served when generation is unavailable.
package plan

// MealItem is a single named item with its calorie count.
type MealItem struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// Meal is an ordered list of items under a title such as "Breakfast".
type Meal struct {
	Title string     `json:"title"`
	Items []MealItem `json:"items"`
}

// DietDay is one day of a diet plan.
type DietDay struct {
	Day           int    `json:"day"`
	TotalCalories int    `json:"totalCalories"`
	Protein       string `json:"protein"`
	Carbs         string `json:"carbs"`
	Fats          string `json:"fats"`
	Meals         []Meal `json:"meals"`
}

// DietPlan is a 7-day diet plan as returned by the completion provider.
type DietPlan struct {
	Days []DietDay `json:"days"`
}

// Exercise is a single exercise entry within a workout day.
type Exercise struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Sets       string `json:"sets"`
	Reps       string `json:"reps"`
	Calories   int    `json:"calories"`
	Difficulty string `json:"difficulty"`
	Equipment  string `json:"equipment"`
}

// WorkoutDay is one day of a workout variant.
type WorkoutDay struct {
	Day       int        `json:"day"`
	Exercises []Exercise `json:"exercises"`
}

// WorkoutVariant is a titled 7-day sequence for one training environment.
type WorkoutVariant struct {
	Title string       `json:"title"`
	Days  []WorkoutDay `json:"days"`
}

// WorkoutPlan carries both variants of a workout plan, keyed "gym" and
// "home" on the wire.
type WorkoutPlan struct {
	Gym  WorkoutVariant `json:"gym"`
	Home WorkoutVariant `json:"home"`
}
