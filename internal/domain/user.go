package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. A user selects at most one active
// program at a time; Program is empty until the first intake submission.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Birthdate    *time.Time         `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Program      ProgramKind        `bson:"program,omitempty" json:"program,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Age returns the user's age in full years at the given instant,
// or 0 when no birthdate is recorded.
func (u *User) Age(now time.Time) int {
	if u.Birthdate == nil {
		return 0
	}
	years := now.Year() - u.Birthdate.Year()
	anniversary := u.Birthdate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
