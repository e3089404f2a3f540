package genai

import (
	"strings"
	"testing"

	"vivafit/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildWorkoutPrompt_Deterministic(t *testing.T) {
	intake := domain.Intake{
		"gender":       "male",
		"weight":       float64(80),
		"height":       float64(180),
		"goal":         "lose-weight",
		"fitnessLevel": "beginner",
		"daysPerWeek":  float64(3),
		"timePerDay":   float64(30),
		"dietType":     "balanced",
	}

	a := BuildWorkoutPrompt(domain.ProgramTrainingDiet, intake)
	b := BuildWorkoutPrompt(domain.ProgramTrainingDiet, intake)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "goal: lose-weight")
	assert.Contains(t, a, "daysPerWeek: 3")
	// fields render in declaration order, not map order
	assert.Less(t, strings.Index(a, "gender:"), strings.Index(a, "goal:"))
}

func TestBuildNutritionPrompt_SkipsMissingFields(t *testing.T) {
	intake := domain.Intake{
		"painAreas": []string{"knee"},
		"painLevel": float64(6),
	}

	prompt := BuildNutritionPrompt(domain.ProgramRehabilitation, intake)
	assert.Contains(t, prompt, "painAreas: knee")
	assert.NotContains(t, prompt, "injuryDescription")
}

func TestTemplates_NonEmptyForEveryKind(t *testing.T) {
	var tpl Templates
	for _, kind := range []domain.ProgramKind{
		domain.ProgramRehabilitation,
		domain.ProgramSedentary,
		domain.ProgramTrainingDiet,
	} {
		assert.NotEmpty(t, tpl.WorkoutPlan(kind, domain.Intake{}))
		assert.NotEmpty(t, tpl.NutritionPlan(kind, domain.Intake{}))
	}
}
