package program

func meal(name, time string, protein, carbs, fat float64, foods ...string) Meal {
	return Meal{Name: name, Time: time, Foods: foods, Protein: protein, Carbs: carbs, Fat: fat}
}

// tables is written once at package init and only ever read afterwards.
var tables = map[Regimen]map[DayType]Day{
	Massive: {
		DayHigh: {
			Regimen:     Massive,
			DayType:     DayHigh,
			Description: "High-carb growth day: fat removed so carbohydrate drives training and recovery.",
			MealPlan: []Meal{
				meal("Meal 1", "07:00", 30, 110, 0, "egg whites", "oats", "banana"),
				meal("Meal 2", "10:00", 30, 110, 0, "chicken breast", "white rice"),
				meal("Meal 3 (pre-workout)", "13:00", 35, 115, 0, "turkey breast", "potatoes"),
				meal("Meal 4 (post-workout)", "16:00", 30, 110, 0, "whey isolate", "rice cakes", "dextrose"),
				meal("Meal 5", "19:00", 35, 120, 0, "white fish", "white rice"),
				meal("Meal 6", "21:30", 30, 100, 0, "egg whites", "cream of rice"),
			},
			DailyTotals: Totals{Protein: 190, Carbs: 665, Fat: 0, Calories: 3420},
			Instructions: []string{
				"Keep every meal fat-free; cook with spray oil only.",
				"Spread carbohydrates evenly and put the largest portion after training.",
				"Drink at least 4 litres of water.",
			},
			Timing: []string{
				"Eat every 2.5 to 3 hours.",
				"Train between meal 3 and meal 4.",
			},
		},
		DayMed: {
			Regimen:     Massive,
			DayType:     DayMed,
			Description: "Moderate day: carbohydrate halved and some fat returned.",
			MealPlan: []Meal{
				meal("Meal 1", "07:00", 35, 70, 5, "whole eggs", "egg whites", "oats"),
				meal("Meal 2", "10:00", 30, 70, 5, "chicken breast", "basmati rice"),
				meal("Meal 3 (pre-workout)", "13:00", 35, 80, 5, "lean beef", "sweet potato"),
				meal("Meal 4 (post-workout)", "16:00", 35, 70, 10, "whey isolate", "bagel", "peanut butter"),
				meal("Meal 5", "19:00", 35, 60, 5, "salmon", "white rice", "greens"),
				meal("Meal 6", "21:30", 30, 50, 10, "greek yoghurt", "berries", "almonds"),
			},
			DailyTotals: Totals{Protein: 200, Carbs: 400, Fat: 40, Calories: 2760},
			Instructions: []string{
				"Keep fat sources whole: eggs, oily fish, nuts.",
				"Vegetables with at least three meals.",
			},
			Timing: []string{
				"Eat every 3 hours.",
				"Put meal 3 and meal 4 around training.",
			},
		},
		DayLow: {
			Regimen:     Massive,
			DayType:     DayLow,
			Description: "Low-carb rest day: protein and fat carry the calories.",
			MealPlan: []Meal{
				meal("Meal 1", "07:00", 35, 40, 10, "whole eggs", "egg whites", "oats"),
				meal("Meal 2", "10:00", 35, 40, 10, "chicken thigh", "rice"),
				meal("Meal 3", "13:00", 35, 50, 10, "lean beef", "potatoes", "greens"),
				meal("Meal 4", "16:00", 35, 30, 10, "tuna", "wholegrain wrap"),
				meal("Meal 5", "19:00", 35, 20, 10, "salmon", "vegetables"),
				meal("Meal 6", "21:30", 35, 20, 10, "cottage cheese", "walnuts"),
			},
			DailyTotals: Totals{Protein: 210, Carbs: 200, Fat: 60, Calories: 2180},
			Instructions: []string{
				"Use on rest days only.",
				"Keep most carbohydrate in the first half of the day.",
			},
			Timing: []string{
				"Eat every 3 hours.",
			},
		},
	},
	Shred: {
		DayHigh: {
			Regimen:     Shred,
			DayType:     DayHigh,
			Description: "Refeed day: carbohydrate raised to restore glycogen while fat stays minimal.",
			MealPlan: []Meal{
				meal("Meal 1", "07:00", 35, 50, 0, "egg whites", "oats"),
				meal("Meal 2", "10:00", 35, 50, 5, "chicken breast", "white rice"),
				meal("Meal 3 (pre-workout)", "13:00", 35, 60, 0, "turkey breast", "potatoes"),
				meal("Meal 4 (post-workout)", "16:00", 35, 60, 5, "whey isolate", "rice cakes"),
				meal("Meal 5", "19:00", 30, 40, 5, "white fish", "jasmine rice"),
				meal("Meal 6", "21:30", 30, 40, 5, "egg whites", "berries"),
			},
			DailyTotals: Totals{Protein: 200, Carbs: 300, Fat: 20, Calories: 2180},
			Instructions: []string{
				"Schedule on the hardest training days.",
				"Keep fat as low as possible.",
				"Drink at least 4 litres of water.",
			},
			Timing: []string{
				"Eat every 2.5 to 3 hours.",
				"Train between meal 3 and meal 4.",
			},
		},
		DayMed: {
			Regimen:     Shred,
			DayType:     DayMed,
			Description: "Moderate deficit day.",
			MealPlan: []Meal{
				meal("Meal 1", "07:00", 35, 30, 5, "egg whites", "whole egg", "oats"),
				meal("Meal 2", "10:00", 35, 30, 5, "chicken breast", "rice"),
				meal("Meal 3 (pre-workout)", "13:00", 35, 30, 5, "turkey breast", "sweet potato"),
				meal("Meal 4 (post-workout)", "16:00", 35, 30, 10, "whey isolate", "banana", "almonds"),
				meal("Meal 5", "19:00", 35, 20, 5, "white fish", "greens"),
				meal("Meal 6", "21:30", 35, 10, 10, "cottage cheese", "walnuts"),
			},
			DailyTotals: Totals{Protein: 210, Carbs: 150, Fat: 40, Calories: 1800},
			Instructions: []string{
				"Vegetables with every meal after breakfast.",
				"Place the carbohydrate around training.",
			},
			Timing: []string{
				"Eat every 3 hours.",
			},
		},
		DayLow: {
			Regimen:     Shred,
			DayType:     DayLow,
			Description: "Low-carb day: the main fat-loss lever of the cycle.",
			MealPlan: []Meal{
				meal("Meal 1", "07:00", 40, 10, 10, "whole eggs", "egg whites", "spinach"),
				meal("Meal 2", "10:00", 35, 10, 10, "chicken thigh", "green beans"),
				meal("Meal 3", "13:00", 35, 10, 10, "lean beef", "salad"),
				meal("Meal 4", "16:00", 40, 10, 10, "whey isolate", "berries", "almonds"),
				meal("Meal 5", "19:00", 35, 5, 10, "salmon", "broccoli"),
				meal("Meal 6", "21:30", 35, 5, 10, "casein", "peanut butter"),
			},
			DailyTotals: Totals{Protein: 220, Carbs: 50, Fat: 60, Calories: 1620},
			Instructions: []string{
				"Carbohydrate only from vegetables and berries.",
				"Expect lower training energy; keep sessions short.",
			},
			Timing: []string{
				"Eat every 3 hours.",
				"Do fasted cardio before meal 1 if it is part of your plan.",
			},
		},
	},
}
