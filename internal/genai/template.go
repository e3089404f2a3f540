package genai

import (
	"fmt"

	"vivafit/internal/domain"
)

// Templates is the guaranteed-success terminal variant: static per-kind
// plans used when every model variant has failed. A generation request is
// never failed back to the user because the upstream is down.
type Templates struct{}

// WorkoutPlan returns the static workout text for a kind.
func (Templates) WorkoutPlan(kind domain.ProgramKind, intake domain.Intake) string {
	switch kind {
	case domain.ProgramRehabilitation:
		return "Rehabilitation plan (week template)\n" +
			"Daily: 10 min gentle stretching of the affected areas.\n" +
			"Mon/Wed/Fri: 15 min mobility routine, stop at any sharp pain.\n" +
			"Tue/Thu: 10 min light walking plus breathing exercises.\n" +
			"Weekend: rest and heat/cold therapy as tolerated.\n" +
			"Reduce intensity whenever your pain level rises."
	case domain.ProgramSedentary:
		return "Activation plan (week template)\n" +
			"Daily: walk at least 20 minutes, split in two if needed.\n" +
			"Every hour of sitting: stand up and stretch for 2 minutes.\n" +
			"Mon/Wed/Fri: 10 squats, 10 wall push-ups, 20s plank.\n" +
			"Aim for 5000 steps a day and add 500 each week."
	default:
		days := 3
		if v, ok := intakeNumber(intake, "daysPerWeek"); ok {
			days = int(v)
		}
		return fmt.Sprintf("Training plan (week template, %d sessions)\n", days) +
			"Each session: 10 min warm-up, 35 min strength work\n" +
			"(squat, hinge, push, pull, core - 3x10 each), 10 min cool-down.\n" +
			"Increase load when you complete all sets comfortably."
	}
}

// NutritionPlan returns the static nutrition text for a kind.
func (Templates) NutritionPlan(kind domain.ProgramKind, intake domain.Intake) string {
	switch kind {
	case domain.ProgramRehabilitation:
		return "Nutrition guidance (recovery template)\n" +
			"Prioritize protein at every meal to support tissue repair.\n" +
			"Add fatty fish, leafy greens and berries; limit alcohol.\n" +
			"Drink at least 2L of water daily."
	case domain.ProgramSedentary:
		return "Nutrition guidance (activation template)\n" +
			"Three regular meals, no skipping breakfast.\n" +
			"Half the plate vegetables, a palm of protein, a fist of carbs.\n" +
			"Swap sugary drinks for water or unsweetened tea."
	default:
		diet := "balanced"
		if s, ok := intake["dietType"].(string); ok && s != "" {
			diet = s
		}
		return fmt.Sprintf("Nutrition plan (%s template)\n", diet) +
			"Breakfast: protein + whole grains. Lunch: lean protein,\n" +
			"vegetables and rice or potatoes. Dinner: light protein and salad.\n" +
			"Snack: fruit or yogurt. Adjust portions to your calorie target."
	}
}

func intakeNumber(in domain.Intake, name string) (float64, bool) {
	switch v := in[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
