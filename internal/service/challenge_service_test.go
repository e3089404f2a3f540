package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type challengeFixture struct {
	userRepo      *fakeUserRepo
	challengeRepo *fakeChallengeRepo
	checkInRepo   *fakeCheckInRepo
	storage       *fakePhotoStorage
	svc           *challengeService
	adminID       primitive.ObjectID
	memberID      primitive.ObjectID
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()
	f := &challengeFixture{
		userRepo:      newFakeUserRepo(),
		challengeRepo: newFakeChallengeRepo(),
		checkInRepo:   newFakeCheckInRepo(),
		storage:       &fakePhotoStorage{},
	}
	f.svc = &challengeService{
		userRepo:      f.userRepo,
		challengeRepo: f.challengeRepo,
		checkInRepo:   f.checkInRepo,
		photoStorage:  f.storage,
		now:           func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) },
	}
	f.adminID = f.userRepo.add("Admin", "admin@example.com")
	f.memberID = f.userRepo.add("Member", "member@example.com")
	return f
}

func TestCreateChallenge_AdminAutoEnrolled(t *testing.T) {
	f := newChallengeFixture(t)

	challenge, err := f.svc.CreateChallenge(context.Background(), f.adminID, "30 days of squats", "one photo a day", nil)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), challenge.Code)
	assert.True(t, challenge.Active)
	require.Len(t, challenge.Participants, 1)
	assert.Equal(t, f.adminID, challenge.Participants[0].UserID)
	assert.Zero(t, challenge.Participants[0].Points)
}

func TestCreateChallenge_MissingName(t *testing.T) {
	f := newChallengeFixture(t)
	_, err := f.svc.CreateChallenge(context.Background(), f.adminID, "", "desc", nil)
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestJoinChallenge_CaseInsensitiveCode(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	joined, err := f.svc.JoinChallenge(ctx, f.memberID, strings.ToLower(created.Code))
	require.NoError(t, err)
	assert.Len(t, joined.Participants, 2)
}

func TestJoinChallenge_TwiceRejected(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	_, err = f.svc.JoinChallenge(ctx, f.memberID, created.Code)
	require.NoError(t, err)

	_, err = f.svc.JoinChallenge(ctx, f.memberID, created.Code)
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	// participant list length unchanged
	challenge, _ := f.challengeRepo.GetByCode(ctx, created.Code)
	assert.Len(t, challenge.Participants, 2)
}

// lostUpdateChallengeRepo makes the membership write lose while the re-read
// still sees an active challenge, as when a deactivation lands in between.
type lostUpdateChallengeRepo struct {
	*fakeChallengeRepo
}

func (r *lostUpdateChallengeRepo) AddParticipant(_ context.Context, _ string, _ domain.Participant) error {
	return repository.ErrNotFound
}

func TestJoinChallenge_WriteReadRaceMapsToInactive(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	f.svc.challengeRepo = &lostUpdateChallengeRepo{fakeChallengeRepo: f.challengeRepo}
	_, err = f.svc.JoinChallenge(ctx, f.memberID, created.Code)
	assert.ErrorIs(t, err, ErrChallengeInactive)
}

func TestJoinChallenge_UnknownCode(t *testing.T) {
	f := newChallengeFixture(t)
	_, err := f.svc.JoinChallenge(context.Background(), f.memberID, "ZZZZZZ")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestJoinChallenge_InactiveRejected(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeactivateChallenge(ctx, f.adminID, created.Code))

	_, err = f.svc.JoinChallenge(ctx, f.memberID, created.Code)
	assert.ErrorIs(t, err, ErrChallengeInactive)
}

func TestCheckIn_SecondSameDayRejected(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)
	_, err = f.svc.JoinChallenge(ctx, f.memberID, created.Code)
	require.NoError(t, err)

	points, err := f.svc.CheckIn(ctx, f.memberID, created.Code, "checkins/photo-1")
	require.NoError(t, err)
	assert.Equal(t, 1, points)

	_, err = f.svc.CheckIn(ctx, f.memberID, created.Code, "checkins/photo-2")
	assert.ErrorIs(t, err, ErrAlreadyCheckedInToday)

	// exactly one entry for that (user, day)
	sum, err := f.checkInRepo.SumPoints(ctx, created.Code, f.memberID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum)
}

func TestCheckIn_NextDayAllowed(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.adminID, created.Code, "")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Date(2026, 9, 2, 0, 1, 0, 0, time.UTC) }
	_, err = f.svc.CheckIn(ctx, f.adminID, created.Code, "")
	require.NoError(t, err)

	sum, _ := f.checkInRepo.SumPoints(ctx, created.Code, f.adminID)
	assert.Equal(t, 2, sum)
}

func TestCheckIn_NotAParticipant(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.memberID, created.Code, "")
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestCheckIn_PointsCacheStaysInSync(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.adminID, created.Code, "")
	require.NoError(t, err)

	challenge, _ := f.challengeRepo.GetByCode(ctx, created.Code)
	require.Len(t, challenge.Participants, 1)
	cached := challenge.Participants[0].Points
	sum, _ := f.checkInRepo.SumPoints(ctx, created.Code, f.adminID)
	assert.Equal(t, sum, cached)
}

func TestCheckInPhotoUploadURL_ScopedObjectKey(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	resp, err := f.svc.CheckInPhotoUploadURL(ctx, f.adminID, created.Code, "image/png")
	require.NoError(t, err)
	assert.Contains(t, resp.ObjectKey, "checkins/"+created.Code+"/"+f.adminID.Hex()+"/")
	assert.NotEmpty(t, resp.UploadURL)
	assert.Equal(t, 1, f.storage.uploads)
}

func TestCheckInPhotoUploadURL_NonMemberRejected(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	_, err = f.svc.CheckInPhotoUploadURL(ctx, f.memberID, created.Code, "image/png")
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestListUserChallenges_ActiveMembershipOnly(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateChallenge(ctx, f.adminID, "first", "", nil)
	require.NoError(t, err)
	_, err = f.svc.CreateChallenge(ctx, f.adminID, "second", "", nil)
	require.NoError(t, err)
	_, err = f.svc.JoinChallenge(ctx, f.memberID, first.Code)
	require.NoError(t, err)

	adminList, err := f.svc.ListUserChallenges(ctx, f.adminID)
	require.NoError(t, err)
	assert.Len(t, adminList, 2)

	memberList, err := f.svc.ListUserChallenges(ctx, f.memberID)
	require.NoError(t, err)
	assert.Len(t, memberList, 1)

	// deactivation removes it from the listing
	require.NoError(t, f.svc.DeactivateChallenge(ctx, f.adminID, first.Code))
	memberList, err = f.svc.ListUserChallenges(ctx, f.memberID)
	require.NoError(t, err)
	assert.Empty(t, memberList)
}

func TestChallengeLeaderboard_DerivedFromCheckInLedger(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)
	_, err = f.svc.JoinChallenge(ctx, f.memberID, created.Code)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.memberID, created.Code, "")
	require.NoError(t, err)

	// a drifted points cache must not leak into the ranking
	challenge := f.challengeRepo.challenges[created.Code]
	for i := range challenge.Participants {
		challenge.Participants[i].Points = 99
	}

	board, err := f.svc.ChallengeLeaderboard(ctx, f.memberID, created.Code)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, f.memberID, board[0].UserID)
	assert.Equal(t, 1, board[0].Points)
	assert.Zero(t, board[1].Points)
}

func TestChallengeLeaderboard_NonMemberRejected(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)

	_, err = f.svc.ChallengeLeaderboard(ctx, f.memberID, created.Code)
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestListChallengeCheckIns_ResolvesPhotoURLs(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, f.adminID, created.Code, "checkins/abc")
	require.NoError(t, err)

	views, err := f.svc.ListChallengeCheckIns(ctx, f.adminID, created.Code)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "https://storage.test/get/checkins/abc", views[0].PhotoURL)
}

func TestDeactivateChallenge_AdminOnly(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateChallenge(ctx, f.adminID, "walkathon", "", nil)
	require.NoError(t, err)
	_, err = f.svc.JoinChallenge(ctx, f.memberID, created.Code)
	require.NoError(t, err)

	err = f.svc.DeactivateChallenge(ctx, f.memberID, created.Code)
	assert.ErrorIs(t, err, ErrNotChallengeAdmin)

	require.NoError(t, f.svc.DeactivateChallenge(ctx, f.adminID, created.Code))
	challenge, _ := f.challengeRepo.GetByCode(ctx, created.Code)
	assert.False(t, challenge.Active)
}
