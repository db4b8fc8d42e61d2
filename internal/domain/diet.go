package domain

// DietPlan is a single-day meal plan with a calorie target.
type DietPlan struct {
	DailyCalories int    `bson:"dailyCalories" json:"dailyCalories"`
	Meals         []Meal `bson:"meals" json:"meals"`
}

// Meal is a named meal and the foods it contains.
type Meal struct {
	Name  string   `bson:"name" json:"name"`
	Foods []string `bson:"foods" json:"foods"`
}
