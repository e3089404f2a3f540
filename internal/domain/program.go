package domain

import (
	"fmt"
	"math"
	"time"
)

// ProgramKind identifies which intake schema and plan template apply to a user.
type ProgramKind string

const (
	ProgramRehabilitation ProgramKind = "rehabilitation"
	ProgramSedentary      ProgramKind = "sedentary"
	ProgramTrainingDiet   ProgramKind = "training-diet"
)

// ParseProgramKind validates a raw kind string (e.g. from a URL segment).
func ParseProgramKind(s string) (ProgramKind, bool) {
	switch ProgramKind(s) {
	case ProgramRehabilitation, ProgramSedentary, ProgramTrainingDiet:
		return ProgramKind(s), true
	}
	return "", false
}

// Intake holds the kind-specific answers of the multi-step intake form.
// It is schemaless on purpose: each kind declares its own field rules.
type Intake map[string]any

// FieldType describes the expected shape of an intake field value.
type FieldType int

const (
	FieldString FieldType = iota
	FieldNumber
	FieldStringList
)

// FieldRule declares one required intake field and its constraints.
type FieldRule struct {
	Name     string
	Type     FieldType
	Min, Max float64 // numeric range, only when HasRange
	HasRange bool
	OneOf    []string // allowed values for string fields, when non-empty
}

// ValidationError reports a missing or out-of-range intake field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// KindSpec describes one program kind: required intake fields, intake
// defaults, the initial progress aggregate and the seeded activity list.
// Keeping this in one descriptor means a single upsert/recompute path
// serves all three kinds.
type KindSpec struct {
	Kind            ProgramKind
	Required        []FieldRule
	IntakeDefaults  func(Intake)
	InitialProgress func(Intake) Progress
	SeedActivities  func(Intake, time.Time) []Activity
}

var kindSpecs = map[ProgramKind]KindSpec{
	ProgramRehabilitation: {
		Kind: ProgramRehabilitation,
		Required: []FieldRule{
			{Name: "painAreas", Type: FieldStringList},
			{Name: "painLevel", Type: FieldNumber, Min: 1, Max: 10, HasRange: true},
			{Name: "injuryDescription", Type: FieldString},
		},
		InitialProgress: func(Intake) Progress {
			return Progress{CurrentPainLevel: 7}
		},
		SeedActivities: func(in Intake, now time.Time) []Activity {
			day := now.UTC().Truncate(24 * time.Hour)
			names := []string{"Gentle stretching", "Mobility routine", "Breathing and posture"}
			acts := make([]Activity, 0, len(names))
			for _, n := range names {
				acts = append(acts, Activity{Name: n, Date: day})
			}
			return acts
		},
	},
	ProgramSedentary: {
		Kind: ProgramSedentary,
		Required: []FieldRule{
			{Name: "currentActivityLevel", Type: FieldString, OneOf: []string{"sedentary", "light", "moderate"}},
			{Name: "availableTime", Type: FieldNumber, Min: 5, Max: 240, HasRange: true},
		},
		InitialProgress: func(Intake) Progress {
			return Progress{StepsGoal: 5000}
		},
		SeedActivities: func(in Intake, now time.Time) []Activity {
			day := now.UTC().Truncate(24 * time.Hour)
			return []Activity{
				{Name: "Daily walk", Date: day},
				{Name: "Stand up and stretch every hour", Date: day},
			}
		},
	},
	ProgramTrainingDiet: {
		Kind: ProgramTrainingDiet,
		Required: []FieldRule{
			{Name: "gender", Type: FieldString, OneOf: []string{"male", "female"}},
			{Name: "weight", Type: FieldNumber, Min: 20, Max: 400, HasRange: true},
			{Name: "height", Type: FieldNumber, Min: 100, Max: 250, HasRange: true},
			{Name: "goal", Type: FieldString, OneOf: []string{"lose-weight", "gain-muscle", "maintain"}},
			{Name: "fitnessLevel", Type: FieldString, OneOf: []string{"beginner", "intermediate", "advanced"}},
			{Name: "daysPerWeek", Type: FieldNumber, Min: 1, Max: 7, HasRange: true},
			{Name: "timePerDay", Type: FieldNumber, Min: 10, Max: 240, HasRange: true},
		},
		IntakeDefaults: func(in Intake) {
			if _, ok := in["dietType"]; !ok {
				in["dietType"] = "balanced"
			}
		},
		InitialProgress: func(in Intake) Progress {
			p := Progress{Macros: &Macros{Protein: 30, Carbs: 40, Fat: 30}}
			age := 30
			if v, ok := numberField(in, "age"); ok {
				age = int(v)
			}
			weight, _ := numberField(in, "weight")
			height, _ := numberField(in, "height")
			gender, _ := in["gender"].(string)
			targets := CalculateCalorieTargets(CalorieInput{
				Gender:        gender,
				Weight:        weight,
				Height:        height,
				Age:           age,
				Goal:          "maintain",
				ActivityLevel: activityLevelFromDays(in),
			})
			p.Calories = targets.Target
			return p
		},
		SeedActivities: func(in Intake, now time.Time) []Activity {
			day := now.UTC().Truncate(24 * time.Hour)
			days := 3
			if v, ok := numberField(in, "daysPerWeek"); ok {
				days = int(v)
			}
			acts := make([]Activity, 0, days)
			for i := 0; i < days; i++ {
				acts = append(acts, Activity{
					Name: fmt.Sprintf("Workout session %d", i+1),
					Date: day.AddDate(0, 0, i),
				})
			}
			return acts
		},
	},
}

// SpecFor returns the descriptor of the given program kind.
func SpecFor(kind ProgramKind) (KindSpec, bool) {
	ks, ok := kindSpecs[kind]
	return ks, ok
}

// ValidateIntake checks every declared rule against the submitted intake.
// The first violation is returned; nothing is written on failure.
func (ks KindSpec) ValidateIntake(in Intake) error {
	for _, rule := range ks.Required {
		raw, present := in[rule.Name]
		if !present || raw == nil {
			return &ValidationError{Field: rule.Name, Reason: "required field is missing"}
		}
		switch rule.Type {
		case FieldString:
			s, ok := raw.(string)
			if !ok || s == "" {
				return &ValidationError{Field: rule.Name, Reason: "must be a non-empty string"}
			}
			if len(rule.OneOf) > 0 && !contains(rule.OneOf, s) {
				return &ValidationError{Field: rule.Name, Reason: fmt.Sprintf("must be one of %v", rule.OneOf)}
			}
		case FieldNumber:
			v, ok := numberValue(raw)
			if !ok {
				return &ValidationError{Field: rule.Name, Reason: "must be a number"}
			}
			if rule.HasRange && (v < rule.Min || v > rule.Max) {
				return &ValidationError{
					Field:  rule.Name,
					Reason: fmt.Sprintf("must be between %g and %g", rule.Min, rule.Max),
				}
			}
		case FieldStringList:
			if !isNonEmptyStringList(raw) {
				return &ValidationError{Field: rule.Name, Reason: "must be a non-empty list of strings"}
			}
		}
	}
	return nil
}

// ApplyDefaults fills optional intake fields the kind declares defaults for.
func (ks KindSpec) ApplyDefaults(in Intake) {
	if ks.IntakeDefaults != nil {
		ks.IntakeDefaults(in)
	}
}

func activityLevelFromDays(in Intake) string {
	days := 3.0
	if v, ok := numberField(in, "daysPerWeek"); ok {
		days = v
	}
	switch {
	case days <= 2:
		return "light"
	case days <= 4:
		return "moderate"
	default:
		return "active"
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// numberValue normalizes the numeric types that JSON and BSON decoding
// can produce for an intake field.
func numberValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func numberField(in Intake, name string) (float64, bool) {
	raw, ok := in[name]
	if !ok {
		return 0, false
	}
	return numberValue(raw)
}

func isNonEmptyStringList(raw any) bool {
	switch list := raw.(type) {
	case []string:
		return len(list) > 0
	case []any:
		if len(list) == 0 {
			return false
		}
		for _, item := range list {
			if s, ok := item.(string); !ok || s == "" {
				return false
			}
		}
		return true
	}
	return false
}

// roundHalfUp rounds to the nearest integer, halves away from zero.
func roundHalfUp(v float64) int {
	return int(math.Round(v))
}
