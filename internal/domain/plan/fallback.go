package plan

// Static plans served when generation fails and the fallback policy is
// active. Built once at startup, read-only afterwards.

const fallbackDays = 7

var (
	fallbackDiet    = buildFallbackDiet()
	fallbackWorkout = buildFallbackWorkout()
)

// FallbackDiet returns the constant 7-day diet plan (2200 kcal/day).
func FallbackDiet() DietPlan {
	return fallbackDiet
}

// FallbackWorkout returns the constant 7-day gym/home workout plan.
func FallbackWorkout() WorkoutPlan {
	return fallbackWorkout
}

func buildFallbackDiet() DietPlan {
	days := make([]DietDay, 0, fallbackDays)
	for day := 1; day <= fallbackDays; day++ {
		days = append(days, DietDay{
			Day:           day,
			TotalCalories: 2200,
			Protein:       "160g",
			Carbs:         "220g",
			Fats:          "70g",
			Meals: []Meal{
				{Title: "Breakfast", Items: []MealItem{{Name: "Oatmeal with Protein Powder & Berries", Calories: 500}}},
				{Title: "Lunch", Items: []MealItem{{Name: "Grilled Chicken Breast with Quinoa & Steamed Broccoli", Calories: 700}}},
				{Title: "Dinner", Items: []MealItem{{Name: "Baked Salmon with Sweet Potato & Asparagus", Calories: 800}}},
				{Title: "Snack", Items: []MealItem{{Name: "Greek Yogurt with Almonds", Calories: 200}}},
			},
		})
	}
	return DietPlan{Days: days}
}

func buildFallbackWorkout() WorkoutPlan {
	gymEven := []Exercise{
		{ID: 1, Name: "Bench Press", Sets: "4", Reps: "10", Calories: 150, Difficulty: "Hard", Equipment: "Barbell"},
		{ID: 2, Name: "Squats", Sets: "4", Reps: "12", Calories: 200, Difficulty: "Hard", Equipment: "Barbell"},
		{ID: 3, Name: "Deadlifts", Sets: "3", Reps: "8", Calories: 250, Difficulty: "Expert", Equipment: "Barbell"},
	}
	gymOdd := []Exercise{
		{ID: 1, Name: "Pull-ups", Sets: "3", Reps: "AMRAP", Calories: 100, Difficulty: "Medium", Equipment: "Bar"},
		{ID: 2, Name: "Shoulder Press", Sets: "3", Reps: "12", Calories: 120, Difficulty: "Medium", Equipment: "Dumbbells"},
		{ID: 3, Name: "Bicep Curls", Sets: "3", Reps: "15", Calories: 80, Difficulty: "Easy", Equipment: "Dumbbells"},
	}
	home := []Exercise{
		{ID: 1, Name: "Push-ups", Sets: "3", Reps: "20", Calories: 50, Difficulty: "Medium", Equipment: "Bodyweight"},
		{ID: 2, Name: "Bodyweight Squats", Sets: "4", Reps: "25", Calories: 80, Difficulty: "Medium", Equipment: "Bodyweight"},
		{ID: 3, Name: "Plank", Sets: "3", Reps: "60s", Calories: 30, Difficulty: "Easy", Equipment: "Bodyweight"},
		{ID: 4, Name: "Burpees", Sets: "3", Reps: "15", Calories: 100, Difficulty: "Hard", Equipment: "Bodyweight"},
	}

	gymDays := make([]WorkoutDay, 0, fallbackDays)
	homeDays := make([]WorkoutDay, 0, fallbackDays)
	for day := 1; day <= fallbackDays; day++ {
		exercises := gymOdd
		if day%2 == 0 {
			exercises = gymEven
		}
		gymDays = append(gymDays, WorkoutDay{Day: day, Exercises: exercises})
		homeDays = append(homeDays, WorkoutDay{Day: day, Exercises: home})
	}

	return WorkoutPlan{
		Gym:  WorkoutVariant{Title: "Elite 7-Day Gym Transformation", Days: gymDays},
		Home: WorkoutVariant{Title: "Ultimate 7-Day Home Fitness", Days: homeDays},
	}
}
