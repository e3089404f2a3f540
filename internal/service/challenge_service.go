package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/repository"
	"vivafit/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrChallengeInactive     = errors.New("challenge is no longer active")
	ErrAlreadyJoined         = errors.New("user already joined this challenge")
	ErrNotAParticipant       = errors.New("user is not a participant of this challenge")
	ErrAlreadyCheckedInToday = errors.New("already checked in today")
	ErrCodeSpaceExhausted    = errors.New("could not allocate a unique challenge code")
	ErrNotChallengeAdmin     = errors.New("only the challenge admin may do this")
)

// maxCodeAttempts caps the redraw loop on code collisions.
const maxCodeAttempts = 100

// UploadURLResponse carries a presigned PUT URL and the object key the
// client reports back when checking in.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// CheckInView is a check-in entry enriched with a temporary photo URL.
type CheckInView struct {
	domain.CheckIn
	PhotoURL string `json:"photoUrl,omitempty"`
}

type ChallengeService interface {
	CreateChallenge(ctx context.Context, adminUserID primitive.ObjectID, name, description string, endDate *time.Time) (*domain.Challenge, error)
	JoinChallenge(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Challenge, error)
	// CheckInPhotoUploadURL hands the participant a presigned PUT URL; the
	// returned object key is what CheckIn stores.
	CheckInPhotoUploadURL(ctx context.Context, userID primitive.ObjectID, code, contentType string) (*UploadURLResponse, error)
	CheckIn(ctx context.Context, userID primitive.ObjectID, code, photoKey string) (int, error)
	ListUserChallenges(ctx context.Context, userID primitive.ObjectID) ([]domain.Challenge, error)
	ChallengeLeaderboard(ctx context.Context, userID primitive.ObjectID, code string) ([]domain.Participant, error)
	ListChallengeCheckIns(ctx context.Context, userID primitive.ObjectID, code string) ([]CheckInView, error)
	DeactivateChallenge(ctx context.Context, adminUserID primitive.ObjectID, code string) error
}

// challengeService implements the ChallengeService interface.
type challengeService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
	checkInRepo   repository.CheckInRepository
	photoStorage  storage.PhotoStorage
	now           func() time.Time
}

// NewChallengeService creates a new instance of challengeService.
func NewChallengeService(
	userRepo repository.UserRepository,
	challengeRepo repository.ChallengeRepository,
	checkInRepo repository.CheckInRepository,
	photoStorage storage.PhotoStorage,
) ChallengeService {
	return &challengeService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		checkInRepo:   checkInRepo,
		photoStorage:  photoStorage,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateChallenge draws join codes until one does not collide, capped at
// maxCodeAttempts. The admin is auto-enrolled as participant #1.
func (s *challengeService) CreateChallenge(ctx context.Context, adminUserID primitive.ObjectID, name, description string, endDate *time.Time) (*domain.Challenge, error) {
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "required field is missing"}
	}

	admin, err := s.userRepo.GetByID(ctx, adminUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		challenge := &domain.Challenge{
			Code:        domain.NewChallengeCode(),
			Name:        name,
			Description: description,
			AdminUserID: adminUserID,
			Active:      true,
			EndDate:     endDate,
			Participants: []domain.Participant{
				{
					UserID:   adminUserID,
					Name:     admin.Name,
					Points:   0,
					JoinedAt: s.now(),
				},
			},
		}

		_, err := s.challengeRepo.Create(ctx, challenge)
		if err == nil {
			return challenge, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		// Code collision: redraw.
	}
	return nil, ErrCodeSpaceExhausted
}

// JoinChallenge adds the caller as a participant. Code lookup is
// case-insensitive. The membership check happens atomically in the store.
func (s *challengeService) JoinChallenge(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Challenge, error) {
	code = normalizeCode(code)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	participant := domain.Participant{
		UserID:   userID,
		Name:     user.Name,
		Points:   0,
		JoinedAt: s.now(),
	}

	err = s.challengeRepo.AddParticipant(ctx, code, participant)
	if err == nil {
		return s.challengeRepo.GetByCode(ctx, code)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// The atomic filter did not match; find out why.
	challenge, getErr := s.challengeRepo.GetByCode(ctx, code)
	if getErr != nil {
		if errors.Is(getErr, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, getErr
	}
	if challenge.HasParticipant(userID) {
		return nil, ErrAlreadyJoined
	}
	// The atomic write saw an inactive or missing challenge even though the
	// re-read disagrees; treat the state at write time as authoritative.
	return nil, ErrChallengeInactive
}

// CheckInPhotoUploadURL verifies membership and returns a presigned PUT
// URL for the day's photo.
func (s *challengeService) CheckInPhotoUploadURL(ctx context.Context, userID primitive.ObjectID, code, contentType string) (*UploadURLResponse, error) {
	code = normalizeCode(code)
	if contentType == "" {
		contentType = "image/jpeg"
	}

	if _, err := s.requireParticipant(ctx, userID, code); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("checkins/%s/%s/%s", code, userID.Hex(), uuid.New().String())
	uploadURL, err := s.photoStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// CheckIn appends today's check-in entry. The unique (code, user, day)
// index in the store is what actually rejects the second attempt, so a
// concurrent duplicate loses cleanly at the write.
func (s *challengeService) CheckIn(ctx context.Context, userID primitive.ObjectID, code, photoKey string) (int, error) {
	code = normalizeCode(code)

	challenge, err := s.requireParticipant(ctx, userID, code)
	if err != nil {
		return 0, err
	}
	if !challenge.Active {
		return 0, ErrChallengeInactive
	}

	now := s.now()
	checkIn := &domain.CheckIn{
		ChallengeCode: code,
		UserID:        userID,
		Day:           domain.CheckInDay(now),
		PhotoKey:      photoKey,
		Points:        domain.CheckInPoints,
	}
	if _, err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrAlreadyCheckedInToday
		}
		return 0, err
	}

	// The participant total is a cache; the check-in ledger is the source
	// of truth, so a failed increment is logged and not surfaced.
	if err := s.challengeRepo.IncrementPoints(ctx, code, userID, domain.CheckInPoints); err != nil {
		log.Printf("WARN: failed to update points cache for user %s in challenge %s: %v", userID.Hex(), code, err)
	}

	return domain.CheckInPoints, nil
}

// ListUserChallenges returns the active challenges the user belongs to.
func (s *challengeService) ListUserChallenges(ctx context.Context, userID primitive.ObjectID) ([]domain.Challenge, error) {
	return s.challengeRepo.ListByParticipant(ctx, userID)
}

// ChallengeLeaderboard returns the participants ranked by points. Totals are
// re-derived from the check-in ledger, not read from the cached counters, so
// a missed cache increment never shows up here.
func (s *challengeService) ChallengeLeaderboard(ctx context.Context, userID primitive.ObjectID, code string) ([]domain.Participant, error) {
	code = normalizeCode(code)

	challenge, err := s.requireParticipant(ctx, userID, code)
	if err != nil {
		return nil, err
	}

	board := make([]domain.Participant, len(challenge.Participants))
	copy(board, challenge.Participants)
	for i := range board {
		total, err := s.checkInRepo.SumPoints(ctx, code, board[i].UserID)
		if err != nil {
			return nil, err
		}
		board[i].Points = total
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Points > board[j].Points })
	return board, nil
}

// ListChallengeCheckIns returns the challenge ledger with temporary photo
// URLs resolved for entries that have one.
func (s *challengeService) ListChallengeCheckIns(ctx context.Context, userID primitive.ObjectID, code string) ([]CheckInView, error) {
	code = normalizeCode(code)

	if _, err := s.requireParticipant(ctx, userID, code); err != nil {
		return nil, err
	}

	checkIns, err := s.checkInRepo.ListByChallenge(ctx, code)
	if err != nil {
		return nil, err
	}

	views := make([]CheckInView, 0, len(checkIns))
	for _, ci := range checkIns {
		view := CheckInView{CheckIn: ci}
		if ci.PhotoKey != "" && s.photoStorage != nil {
			url, err := s.photoStorage.GeneratePresignedDownloadURL(ctx, ci.PhotoKey, storage.DefaultPresignedURLExpiry)
			if err != nil {
				log.Printf("WARN: failed to presign photo %s: %v", ci.PhotoKey, err)
			} else {
				view.PhotoURL = url
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// DeactivateChallenge flips the challenge inactive. One-way; there is no
// reactivation.
func (s *challengeService) DeactivateChallenge(ctx context.Context, adminUserID primitive.ObjectID, code string) error {
	code = normalizeCode(code)

	err := s.challengeRepo.Deactivate(ctx, code, adminUserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, getErr := s.challengeRepo.GetByCode(ctx, code); getErr != nil {
		if errors.Is(getErr, repository.ErrNotFound) {
			return ErrChallengeNotFound
		}
		return getErr
	}
	return ErrNotChallengeAdmin
}

// requireParticipant loads the challenge and checks membership.
func (s *challengeService) requireParticipant(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Challenge, error) {
	challenge, err := s.challengeRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	if !challenge.HasParticipant(userID) {
		return nil, ErrNotAParticipant
	}
	return challenge, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
