package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is one dated exercise/activity entry in a profile. The list is
// append-only; only the Completed flag is ever toggled in place.
type Activity struct {
	Name      string    `bson:"name" json:"name"`
	Date      time.Time `bson:"date" json:"date"`
	Completed bool      `bson:"completed" json:"completed"`
}

// Macros is a protein/carbs/fat percentage split.
type Macros struct {
	Protein int `bson:"protein" json:"protein"`
	Carbs   int `bson:"carbs" json:"carbs"`
	Fat     int `bson:"fat" json:"fat"`
}

// Progress is the derived aggregate embedded in a profile. It is always
// recomputed from the activity list and the latest reported metrics,
// never hand-edited.
type Progress struct {
	CompletedCount     int     `bson:"completedCount" json:"completedCount"`
	TotalCount         int     `bson:"totalCount" json:"totalCount"`
	ProgressPercentage float64 `bson:"progressPercentage" json:"progressPercentage"`
	CurrentPainLevel   int     `bson:"currentPainLevel,omitempty" json:"currentPainLevel,omitempty"`
	StepsGoal          int     `bson:"stepsGoal,omitempty" json:"stepsGoal,omitempty"`
	Calories           int     `bson:"calories,omitempty" json:"calories,omitempty"`
	Macros             *Macros `bson:"macros,omitempty" json:"macros,omitempty"`
}

// Profile is the program-specific intake + progress document owned by a
// user. At most one exists per (userId, kind); submissions upsert.
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Kind       ProgramKind        `bson:"kind" json:"kind"`
	Intake     Intake             `bson:"intake" json:"intake"`
	Activities []Activity         `bson:"activities" json:"activities"`
	Progress   Progress           `bson:"progress" json:"progress"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecomputeProgress re-derives the completion counters from the activity
// list. Percentage is 0 when there are no activities.
func (p *Profile) RecomputeProgress() {
	completed := 0
	for _, a := range p.Activities {
		if a.Completed {
			completed++
		}
	}
	p.Progress.CompletedCount = completed
	p.Progress.TotalCount = len(p.Activities)
	if len(p.Activities) == 0 {
		p.Progress.ProgressPercentage = 0
		return
	}
	p.Progress.ProgressPercentage = float64(completed) / float64(len(p.Activities))
}

// SetActivityCompleted toggles one entry's completion state and recomputes
// the aggregate. Reports false when the index is out of range.
func (p *Profile) SetActivityCompleted(index int, completed bool) bool {
	if index < 0 || index >= len(p.Activities) {
		return false
	}
	p.Activities[index].Completed = completed
	p.RecomputeProgress()
	return true
}

// ApplyPainLevel records a new pain level and rolls today's exercise list
// forward: every entry dated today (UTC) is cloned to tomorrow with
// Completed reset, giving the user a fresh daily list. Entries from other
// days are left untouched.
func (p *Profile) ApplyPainLevel(level int, now time.Time) {
	p.Progress.CurrentPainLevel = level

	today := now.UTC().Truncate(24 * time.Hour)
	var clones []Activity
	for _, a := range p.Activities {
		if a.Date.UTC().Truncate(24 * time.Hour).Equal(today) {
			clones = append(clones, Activity{
				Name: a.Name,
				Date: today.AddDate(0, 0, 1),
			})
		}
	}
	p.Activities = append(p.Activities, clones...)
	p.RecomputeProgress()
}

// AppendActivity adds a new dated entry and recomputes the aggregate.
func (p *Profile) AppendActivity(name string, date time.Time) {
	p.Activities = append(p.Activities, Activity{Name: name, Date: date.UTC().Truncate(24 * time.Hour)})
	p.RecomputeProgress()
}
