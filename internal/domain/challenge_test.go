package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewChallengeCode_Format(t *testing.T) {
	codePattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 500; i++ {
		code := NewChallengeCode()
		require.True(t, codePattern.MatchString(code), "bad code: %q", code)
	}
}

func TestCheckInDay_UTCWindow(t *testing.T) {
	// 23:59 UTC and 00:01 UTC the next day fall in different windows
	assert.Equal(t, "2026-09-01", CheckInDay(time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2026-09-02", CheckInDay(time.Date(2026, 9, 2, 0, 1, 0, 0, time.UTC)))

	// non-UTC times are bucketed by their UTC day
	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, "2026-09-02", CheckInDay(time.Date(2026, 9, 1, 20, 0, 0, 0, est)))
}

func TestHasParticipant(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := &Challenge{Participants: []Participant{{UserID: a}}}

	assert.True(t, c.HasParticipant(a))
	assert.False(t, c.HasParticipant(b))
}
