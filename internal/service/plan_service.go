package service

import (
	"context"
	"errors"
	"log"

	"vivafit/internal/domain"
	"vivafit/internal/genai"
	"vivafit/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoActiveProgram = errors.New("user has no active program")
	ErrPlanNotFound    = errors.New("no plan has been generated yet")
	ErrPlanPersistence = errors.New("failed to store generated plan")
)

type PlanService interface {
	// GeneratePlan builds prompts from the user's current profile, runs the
	// generation chain and appends an immutable snapshot. Upstream failures
	// never reach the caller; the static templates are the terminal variant.
	GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanSnapshot, error)
	GetLatestPlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanSnapshot, error)
}

// planService implements the PlanService interface.
type planService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	planRepo    repository.PlanRepository
	generator   genai.TextGenerator
	templates   genai.Templates
}

// NewPlanService creates a new instance of planService. The generator may
// be nil, in which case every plan comes from the static templates.
func NewPlanService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	planRepo repository.PlanRepository,
	generator genai.TextGenerator,
) PlanService {
	return &planService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		planRepo:    planRepo,
		generator:   generator,
	}
}

// GeneratePlan reads the active program and its profile, generates the two
// text blobs and persists the snapshot. Only persistence failure aborts.
func (s *planService) GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanSnapshot, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Program == "" {
		return nil, ErrNoActiveProgram
	}

	profile, err := s.profileRepo.Get(ctx, userID, user.Program)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	workout := s.generate(ctx, genai.BuildWorkoutPrompt(profile.Kind, profile.Intake), func() string {
		return s.templates.WorkoutPlan(profile.Kind, profile.Intake)
	})
	nutrition := s.generate(ctx, genai.BuildNutritionPrompt(profile.Kind, profile.Intake), func() string {
		return s.templates.NutritionPlan(profile.Kind, profile.Intake)
	})

	snapshot := &domain.PlanSnapshot{
		UserID:            userID,
		PlanType:          profile.Kind,
		WorkoutPlanText:   workout,
		NutritionPlanText: nutrition,
		SourceProfile:     profile.Intake,
	}
	if _, err := s.planRepo.Create(ctx, snapshot); err != nil {
		log.Printf("ERROR: failed to persist plan snapshot for user %s: %v", userID.Hex(), err)
		return nil, ErrPlanPersistence
	}
	return snapshot, nil
}

// generate runs the chain and falls back to the static template. "No plan"
// is not a valid outcome once generation has been requested.
func (s *planService) generate(ctx context.Context, prompt string, fallback func() string) string {
	if s.generator != nil {
		text, err := s.generator.GenerateText(ctx, prompt)
		if err == nil && text != "" {
			return text
		}
		log.Printf("WARN: plan generation fell back to static template: %v", err)
	}
	return fallback()
}

// GetLatestPlan returns the newest snapshot for the user.
func (s *planService) GetLatestPlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanSnapshot, error) {
	plan, err := s.planRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}
