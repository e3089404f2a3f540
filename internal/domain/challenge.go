package domain

import (
	"crypto/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckInPoints is awarded for every accepted daily check-in.
const CheckInPoints = 1

// ChallengeCodeLength is the fixed length of a join code.
const ChallengeCodeLength = 6

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Participant is one member of a challenge. Points is a denormalized cache;
// the sum of the member's check-in entries is authoritative.
type Participant struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Name     string             `bson:"name" json:"name"`
	PhotoURL string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Points   int                `bson:"points" json:"points"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
}

// Challenge is a join-by-code group with a daily photo check-in ledger.
// Deactivation is one-way: active -> inactive, no reactivation.
type Challenge struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code         string             `bson:"code" json:"code"` // unique, 6 uppercase alphanumerics
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	AdminUserID  primitive.ObjectID `bson:"adminUserId" json:"adminUserId"`
	Participants []Participant      `bson:"participants" json:"participants"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	EndDate      *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
}

// HasParticipant reports whether the user is already a member.
func (c *Challenge) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// CheckIn is one accepted daily check-in. The (ChallengeCode, UserID, Day)
// triple is unique at the storage layer, which is what actually enforces
// the one-check-in-per-day rule under concurrent requests.
type CheckIn struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChallengeCode string             `bson:"challengeCode" json:"challengeCode"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Day           string             `bson:"day" json:"day"` // UTC calendar day, "2006-01-02"
	PhotoKey      string             `bson:"photoKey,omitempty" json:"photoKey,omitempty"`
	Points        int                `bson:"points" json:"points"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// CheckInDay buckets an instant into the canonical check-in window.
// The window is [UTC midnight, next UTC midnight).
func CheckInDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NewChallengeCode draws a random 6-character uppercase alphanumeric code.
// Collisions against existing challenges are resolved by the caller
// retrying against the unique index.
func NewChallengeCode() string {
	buf := make([]byte, ChallengeCodeLength)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = codeCharset[int(buf[i])%len(codeCharset)]
	}
	return string(buf)
}
