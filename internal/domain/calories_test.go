package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCalorieTargets_FemaleLoseWeight(t *testing.T) {
	targets := CalculateCalorieTargets(CalorieInput{
		Gender:        "female",
		Weight:        60,
		Height:        165,
		Age:           30,
		Goal:          "lose-weight",
		ActivityLevel: "light",
	})

	// 10*60 + 6.25*165 - 5*30 - 161
	require.InDelta(t, 1277.25, targets.BMR, 0.001)
	assert.Equal(t, 1756, targets.Maintenance)
	assert.Equal(t, 1493, targets.Target)
	assert.Equal(t, Macros{Protein: 40, Carbs: 30, Fat: 30}, targets.Macros)
}

func TestCalculateCalorieTargets_MaleMaintain(t *testing.T) {
	targets := CalculateCalorieTargets(CalorieInput{
		Gender:        "male",
		Weight:        80,
		Height:        180,
		Age:           25,
		Goal:          "maintain",
		ActivityLevel: "moderate",
	})

	// 10*80 + 6.25*180 - 5*25 + 5 = 1805
	require.InDelta(t, 1805, targets.BMR, 0.001)
	assert.Equal(t, 2798, targets.Maintenance) // round(1805 * 1.55)
	assert.Equal(t, 2798, targets.Target)
	assert.Equal(t, Macros{Protein: 30, Carbs: 40, Fat: 30}, targets.Macros)
}

func TestCalculateCalorieTargets_UnknownActivityDefaultsToLight(t *testing.T) {
	known := CalculateCalorieTargets(CalorieInput{
		Gender: "female", Weight: 60, Height: 165, Age: 30,
		Goal: "maintain", ActivityLevel: "light",
	})
	unknown := CalculateCalorieTargets(CalorieInput{
		Gender: "female", Weight: 60, Height: 165, Age: 30,
		Goal: "maintain", ActivityLevel: "no-such-level",
	})
	assert.Equal(t, known.Maintenance, unknown.Maintenance)
}

func TestCalculateCalorieTargets_GainMuscleSurplus(t *testing.T) {
	targets := CalculateCalorieTargets(CalorieInput{
		Gender: "male", Weight: 70, Height: 175, Age: 28,
		Goal: "gain-muscle", ActivityLevel: "active",
	})
	assert.Greater(t, targets.Target, targets.Maintenance)
	assert.Equal(t, Macros{Protein: 30, Carbs: 45, Fat: 25}, targets.Macros)
}
