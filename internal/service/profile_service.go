package service

import (
	"context"
	"errors"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrUnknownKind      = errors.New("unknown program kind")
	ErrUnknownEventType = errors.New("unknown progress event type")
)

// ProgressEvent mutates only the progress aggregate and/or one activity
// entry's completion flag. Intake fields are never touched by events.
type ProgressEvent struct {
	Type          string // "complete-activity", "pain-level" or "add-activity"
	ActivityIndex int
	Completed     bool
	PainLevel     int
	ActivityName  string
	ActivityDate  time.Time
}

const (
	EventCompleteActivity = "complete-activity"
	EventPainLevel        = "pain-level"
	EventAddActivity      = "add-activity"
)

type ProfileService interface {
	// UpsertProfile validates the intake, points the user's active program
	// at the kind and creates or overwrites the (userID, kind) profile.
	UpsertProfile(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind, intake domain.Intake) (*domain.Profile, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind) (*domain.Profile, error)
	RecordProgressEvent(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind, event ProgressEvent) (*domain.Profile, error)
	SetActiveProgram(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind) error
	GetActiveProgram(ctx context.Context, userID primitive.ObjectID) (domain.ProgramKind, error)
}

// profileService implements ProfileService; one code path covers all three
// program kinds through their KindSpec descriptors.
type profileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// UpsertProfile is the intake submission path. Validation happens before
// any write; on resubmission only the intake fields are overwritten and
// the activity history is untouched.
func (s *profileService) UpsertProfile(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind, intake domain.Intake) (*domain.Profile, error) {
	spec, ok := domain.SpecFor(kind)
	if !ok {
		return nil, ErrUnknownKind
	}
	if intake == nil {
		intake = domain.Intake{}
	}
	if err := spec.ValidateIntake(intake); err != nil {
		return nil, err
	}
	spec.ApplyDefaults(intake)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// The calorie targets need an age; take it from the account birthdate
	// unless the intake carries one explicitly.
	if _, ok := intake["age"]; !ok && user.Birthdate != nil {
		intake["age"] = user.Age(s.now())
	}

	// The program pointer races ahead of the profile write on purpose:
	// "program set, profile missing" is a valid transient state.
	if err := s.userRepo.SetProgram(ctx, userID, kind); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	err = s.profileRepo.ReplaceIntake(ctx, userID, kind, intake)
	if err == nil {
		return s.profileRepo.Get(ctx, userID, kind)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// First submission for this kind: create with kind defaults.
	now := s.now()
	profile := &domain.Profile{
		UserID:   userID,
		Kind:     kind,
		Intake:   intake,
		Progress: spec.InitialProgress(intake),
	}
	if spec.SeedActivities != nil {
		profile.Activities = spec.SeedActivities(intake, now)
	}
	// Only the counters change here; the kind defaults stay in place.
	profile.RecomputeProgress()

	if _, err := s.profileRepo.Create(ctx, profile); err != nil {
		// A concurrent first submission won the insert; fall back to the
		// update path so both requests converge on one document.
		if errors.Is(err, repository.ErrDuplicate) {
			if err := s.profileRepo.ReplaceIntake(ctx, userID, kind, intake); err != nil {
				return nil, err
			}
			return s.profileRepo.Get(ctx, userID, kind)
		}
		return nil, err
	}
	return profile, nil
}

// GetProfile retrieves the (userID, kind) profile.
func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind) (*domain.Profile, error) {
	if _, ok := domain.SpecFor(kind); !ok {
		return nil, ErrUnknownKind
	}
	profile, err := s.profileRepo.Get(ctx, userID, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// RecordProgressEvent applies one event and persists the recomputed
// aggregate. The intake fields are never modified here.
func (s *profileService) RecordProgressEvent(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind, event ProgressEvent) (*domain.Profile, error) {
	if _, ok := domain.SpecFor(kind); !ok {
		return nil, ErrUnknownKind
	}
	profile, err := s.profileRepo.Get(ctx, userID, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	switch event.Type {
	case EventCompleteActivity:
		if !profile.SetActivityCompleted(event.ActivityIndex, event.Completed) {
			return nil, &domain.ValidationError{Field: "activityIndex", Reason: "out of range"}
		}
	case EventPainLevel:
		if event.PainLevel < 1 || event.PainLevel > 10 {
			return nil, &domain.ValidationError{Field: "painLevel", Reason: "must be between 1 and 10"}
		}
		if kind == domain.ProgramRehabilitation {
			// A new pain level rolls today's exercise list forward to
			// tomorrow so the user starts fresh.
			profile.ApplyPainLevel(event.PainLevel, s.now())
		} else {
			profile.Progress.CurrentPainLevel = event.PainLevel
		}
	case EventAddActivity:
		if event.ActivityName == "" {
			return nil, &domain.ValidationError{Field: "activityName", Reason: "required field is missing"}
		}
		date := event.ActivityDate
		if date.IsZero() {
			date = s.now()
		}
		profile.AppendActivity(event.ActivityName, date)
	default:
		return nil, ErrUnknownEventType
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SetActiveProgram updates the user's program pointer. Idempotent, and it
// does not require a profile to exist yet.
func (s *profileService) SetActiveProgram(ctx context.Context, userID primitive.ObjectID, kind domain.ProgramKind) error {
	if _, ok := domain.SpecFor(kind); !ok {
		return ErrUnknownKind
	}
	if err := s.userRepo.SetProgram(ctx, userID, kind); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// GetActiveProgram returns the user's program pointer, empty when none.
func (s *profileService) GetActiveProgram(ctx context.Context, userID primitive.ObjectID) (domain.ProgramKind, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return user.Program, nil
}
