package repository

import (
	"context"

	"vivafit/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// SetProgram points the user at their active program kind. Idempotent;
	// it deliberately does not check that a matching profile exists yet.
	SetProgram(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind) error
}

// ProfileRepository stores one profile document per (userId, kind),
// enforced by a unique index.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	Get(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind) (*domain.Profile, error)
	// ReplaceIntake overwrites the intake fields and updatedAt only;
	// activities and progress are untouched.
	ReplaceIntake(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind, intake domain.Intake) error
	// Update replaces the activity list and progress aggregate after a
	// progress event.
	Update(ctx context.Context, profile *domain.Profile) error
}

// PlanRepository is append-only: snapshots are never mutated.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.PlanSnapshot) (primitive.ObjectID, error)
	GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PlanSnapshot, error)
}

// ChallengeRepository defines the interface for challenge group data.
type ChallengeRepository interface {
	// Create inserts a new challenge; a code collision returns ErrDuplicate.
	Create(ctx context.Context, challenge *domain.Challenge) (primitive.ObjectID, error)
	GetByCode(ctx context.Context, code string) (*domain.Challenge, error)
	// AddParticipant appends the participant iff the challenge is active and
	// the user is not already a member (single atomic update). ErrNotFound
	// means no document matched; the caller disambiguates why.
	AddParticipant(ctx context.Context, code string, participant domain.Participant) error
	// IncrementPoints bumps the denormalized points cache of one participant.
	IncrementPoints(ctx context.Context, code string, userID primitive.ObjectID, delta int) error
	ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]domain.Challenge, error)
	Deactivate(ctx context.Context, code string, adminUserID primitive.ObjectID) error
}

// CheckInRepository stores the daily check-in ledger. The unique index on
// (challengeCode, userId, day) is the real one-per-day guarantee.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error)
	ListByChallenge(ctx context.Context, code string) ([]domain.CheckIn, error)
	SumPoints(ctx context.Context, code string, userID primitive.ObjectID) (int, error)
}
