package service

import (
	"context"
	"fmt"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the storage-layer guarantees the
// mongo implementations provide (unique indexes, atomic update filters) so
// the service invariants can be exercised without a database.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) SetProgram(_ context.Context, userID primitive.ObjectID, kind domain.ProgramKind) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Program = kind
	return nil
}

func (r *fakeUserRepo) add(name, email string) primitive.ObjectID {
	id, _ := r.Create(context.Background(), &domain.User{Name: name, Email: email, PasswordHash: "x"})
	return id
}

type profileKey struct {
	userID primitive.ObjectID
	kind   domain.ProgramKind
}

type fakeProfileRepo struct {
	profiles map[profileKey]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[profileKey]*domain.Profile{}}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	clone := *p
	clone.Intake = domain.Intake{}
	for k, v := range p.Intake {
		clone.Intake[k] = v
	}
	clone.Activities = append([]domain.Activity(nil), p.Activities...)
	if p.Progress.Macros != nil {
		m := *p.Progress.Macros
		clone.Progress.Macros = &m
	}
	return &clone
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	key := profileKey{profile.UserID, profile.Kind}
	if _, exists := r.profiles[key]; exists {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now().UTC()
	profile.UpdatedAt = profile.CreatedAt
	r.profiles[key] = cloneProfile(profile)
	return profile.ID, nil
}

func (r *fakeProfileRepo) Get(_ context.Context, userID primitive.ObjectID, kind domain.ProgramKind) (*domain.Profile, error) {
	p, ok := r.profiles[profileKey{userID, kind}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *fakeProfileRepo) ReplaceIntake(_ context.Context, userID primitive.ObjectID, kind domain.ProgramKind, intake domain.Intake) error {
	p, ok := r.profiles[profileKey{userID, kind}]
	if !ok {
		return repository.ErrNotFound
	}
	p.Intake = intake
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	p, ok := r.profiles[profileKey{profile.UserID, profile.Kind}]
	if !ok {
		return repository.ErrNotFound
	}
	p.Activities = append([]domain.Activity(nil), profile.Activities...)
	p.Progress = profile.Progress
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeProfileRepo) count() int {
	return len(r.profiles)
}

type fakePlanRepo struct {
	plans []*domain.PlanSnapshot
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.PlanSnapshot) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	clone := *plan
	r.plans = append(r.plans, &clone)
	return plan.ID, nil
}

func (r *fakePlanRepo) GetLatestByUserID(_ context.Context, userID primitive.ObjectID) (*domain.PlanSnapshot, error) {
	var latest *domain.PlanSnapshot
	for _, p := range r.plans {
		if p.UserID != userID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	clone := *latest
	return &clone, nil
}

type fakeChallengeRepo struct {
	challenges map[string]*domain.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: map[string]*domain.Challenge{}}
}

func (r *fakeChallengeRepo) Create(_ context.Context, challenge *domain.Challenge) (primitive.ObjectID, error) {
	if _, exists := r.challenges[challenge.Code]; exists {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	challenge.ID = primitive.NewObjectID()
	challenge.CreatedAt = time.Now().UTC()
	clone := *challenge
	clone.Participants = append([]domain.Participant(nil), challenge.Participants...)
	r.challenges[challenge.Code] = &clone
	return challenge.ID, nil
}

func (r *fakeChallengeRepo) GetByCode(_ context.Context, code string) (*domain.Challenge, error) {
	ch, ok := r.challenges[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *ch
	clone.Participants = append([]domain.Participant(nil), ch.Participants...)
	return &clone, nil
}

// AddParticipant mimics the atomic mongo update filter: no match unless the
// challenge is active and the user is not yet a member.
func (r *fakeChallengeRepo) AddParticipant(_ context.Context, code string, participant domain.Participant) error {
	ch, ok := r.challenges[code]
	if !ok || !ch.Active || ch.HasParticipant(participant.UserID) {
		return repository.ErrNotFound
	}
	ch.Participants = append(ch.Participants, participant)
	return nil
}

func (r *fakeChallengeRepo) IncrementPoints(_ context.Context, code string, userID primitive.ObjectID, delta int) error {
	ch, ok := r.challenges[code]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range ch.Participants {
		if ch.Participants[i].UserID == userID {
			ch.Participants[i].Points += delta
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeChallengeRepo) ListByParticipant(_ context.Context, userID primitive.ObjectID) ([]domain.Challenge, error) {
	var out []domain.Challenge
	for _, ch := range r.challenges {
		if ch.Active && ch.HasParticipant(userID) {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (r *fakeChallengeRepo) Deactivate(_ context.Context, code string, adminUserID primitive.ObjectID) error {
	ch, ok := r.challenges[code]
	if !ok || ch.AdminUserID != adminUserID {
		return repository.ErrNotFound
	}
	ch.Active = false
	return nil
}

type checkInKey struct {
	code string
	user primitive.ObjectID
	day  string
}

type fakeCheckInRepo struct {
	checkIns map[checkInKey]*domain.CheckIn
}

func newFakeCheckInRepo() *fakeCheckInRepo {
	return &fakeCheckInRepo{checkIns: map[checkInKey]*domain.CheckIn{}}
}

// Create mimics the unique (challengeCode, userId, day) index.
func (r *fakeCheckInRepo) Create(_ context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	key := checkInKey{checkIn.ChallengeCode, checkIn.UserID, checkIn.Day}
	if _, exists := r.checkIns[key]; exists {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	checkIn.ID = primitive.NewObjectID()
	checkIn.CreatedAt = time.Now().UTC()
	clone := *checkIn
	r.checkIns[key] = &clone
	return checkIn.ID, nil
}

func (r *fakeCheckInRepo) ListByChallenge(_ context.Context, code string) ([]domain.CheckIn, error) {
	var out []domain.CheckIn
	for _, ci := range r.checkIns {
		if ci.ChallengeCode == code {
			out = append(out, *ci)
		}
	}
	return out, nil
}

func (r *fakeCheckInRepo) SumPoints(_ context.Context, code string, userID primitive.ObjectID) (int, error) {
	total := 0
	for _, ci := range r.checkIns {
		if ci.ChallengeCode == code && ci.UserID == userID {
			total += ci.Points
		}
	}
	return total, nil
}

type fakePhotoStorage struct {
	uploads int
}

func (s *fakePhotoStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	s.uploads++
	return fmt.Sprintf("https://storage.test/upload/%s", objectKey), nil
}

func (s *fakePhotoStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/get/%s", objectKey), nil
}

func (s *fakePhotoStorage) DeleteObject(_ context.Context, _ string) error {
	return nil
}
