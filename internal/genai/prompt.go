package genai

import (
	"fmt"
	"strings"

	"vivafit/internal/domain"
)

// Prompt building is deterministic: fields are rendered in a fixed order
// per kind, so identical profiles always produce identical prompts.

var promptFieldOrder = map[domain.ProgramKind][]string{
	domain.ProgramRehabilitation: {"painAreas", "painLevel", "injuryDescription", "medicalConditions"},
	domain.ProgramSedentary:      {"currentActivityLevel", "availableTime"},
	domain.ProgramTrainingDiet:   {"gender", "age", "weight", "height", "goal", "fitnessLevel", "daysPerWeek", "timePerDay", "dietType"},
}

// BuildWorkoutPrompt renders the workout-plan prompt for a profile.
func BuildWorkoutPrompt(kind domain.ProgramKind, intake domain.Intake) string {
	var b strings.Builder
	switch kind {
	case domain.ProgramRehabilitation:
		b.WriteString("Create a gentle 7-day rehabilitation exercise plan for a person with the following condition. ")
		b.WriteString("Prioritize safety, low impact and gradual progression.\n")
	case domain.ProgramSedentary:
		b.WriteString("Create a 7-day activity plan to help a sedentary person become gradually more active. ")
		b.WriteString("Keep sessions short and achievable.\n")
	default:
		b.WriteString("Create a weekly workout plan for a person with the following profile. ")
		b.WriteString("Structure it by day with exercises, sets and reps.\n")
	}
	writeIntakeFields(&b, kind, intake)
	return b.String()
}

// BuildNutritionPrompt renders the nutrition-plan prompt for a profile.
func BuildNutritionPrompt(kind domain.ProgramKind, intake domain.Intake) string {
	var b strings.Builder
	switch kind {
	case domain.ProgramRehabilitation:
		b.WriteString("Create simple anti-inflammatory nutrition guidance supporting recovery for the following person.\n")
	case domain.ProgramSedentary:
		b.WriteString("Create simple nutrition guidance for a sedentary person starting to move more.\n")
	default:
		b.WriteString("Create a weekly nutrition plan matching the following profile, with daily meals and approximate macros.\n")
	}
	writeIntakeFields(&b, kind, intake)
	return b.String()
}

func writeIntakeFields(b *strings.Builder, kind domain.ProgramKind, intake domain.Intake) {
	for _, name := range promptFieldOrder[kind] {
		v, ok := intake[name]
		if !ok || v == nil {
			continue
		}
		fmt.Fprintf(b, "%s: %s\n", name, formatValue(v))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(v)
	}
}
