package domain

// CalorieInput carries the fields the daily energy calculation needs.
type CalorieInput struct {
	Gender        string  // "male" or "female"
	Weight        float64 // kg
	Height        float64 // cm
	Age           int     // years
	Goal          string  // "lose-weight", "gain-muscle" or "maintain"
	ActivityLevel string  // "sedentary", "light", "moderate", "active", "very-active"
}

// CalorieTargets is the result of the daily energy calculation.
type CalorieTargets struct {
	BMR         float64 `json:"bmr"`
	Maintenance int     `json:"maintenance"`
	Target      int     `json:"target"`
	Macros      Macros  `json:"macros"`
}

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very-active": 1.9,
}

// CalculateCalorieTargets computes BMR with the Mifflin-St Jeor equation,
// scales it by the activity multiplier and adjusts for the goal.
func CalculateCalorieTargets(in CalorieInput) CalorieTargets {
	bmr := 10*in.Weight + 6.25*in.Height - 5*float64(in.Age)
	if in.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[in.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers["light"]
	}
	maintenance := roundHalfUp(bmr * multiplier)

	var factor float64
	var macros Macros
	switch in.Goal {
	case "lose-weight":
		factor = 0.85
		macros = Macros{Protein: 40, Carbs: 30, Fat: 30}
	case "gain-muscle":
		factor = 1.10
		macros = Macros{Protein: 30, Carbs: 45, Fat: 25}
	default:
		factor = 1.0
		macros = Macros{Protein: 30, Carbs: 40, Fat: 30}
	}

	return CalorieTargets{
		BMR:         bmr,
		Maintenance: maintenance,
		Target:      roundHalfUp(float64(maintenance) * factor),
		Macros:      macros,
	}
}
