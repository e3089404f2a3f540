package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanSnapshot is an immutable generated (or templated) workout/nutrition
// text pair. Every generation request appends a new snapshot; "latest" is
// defined by CreatedAt descending.
type PlanSnapshot struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	PlanType          ProgramKind        `bson:"planType" json:"planType"`
	WorkoutPlanText   string             `bson:"workoutPlanText" json:"workoutPlan"`
	NutritionPlanText string             `bson:"nutritionPlanText" json:"nutritionPlan"`
	SourceProfile     Intake             `bson:"sourceProfile" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"generatedAt"`
}
