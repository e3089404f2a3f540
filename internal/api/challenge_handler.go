package api

import (
	"errors"
	"net/http"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/service"

	"github.com/gin-gonic/gin"
)

// ChallengeHandler holds the challenge service dependency.
type ChallengeHandler struct {
	challengeService service.ChallengeService
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challengeService service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// --- Request Structs ---

type CreateChallengeRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	EndDate     *time.Time `json:"endDate"`
}

type JoinChallengeRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

type CheckInRequest struct {
	PhotoObjectKey string `json:"photoObjectKey"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType"`
}

// --- Handler Methods ---

// CreateChallenge creates a group and auto-enrolls the caller as admin.
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
		return
	}

	challenge, err := h.challengeService.CreateChallenge(c.Request.Context(), userID, req.Name, req.Description, req.EndDate)
	if err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": challenge})
}

// JoinChallenge adds the caller to a challenge by code.
func (h *ChallengeHandler) JoinChallenge(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	var req JoinChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
		return
	}

	challenge, err := h.challengeService.JoinChallenge(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Joined challenge",
		"challenge": gin.H{
			"code": challenge.Code,
			"name": challenge.Name,
		},
	})
}

// CheckInPhotoUploadURL hands the caller a presigned PUT URL for today's
// photo; the returned objectKey goes into the subsequent check-in.
func (h *ChallengeHandler) CheckInPhotoUploadURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
		return
	}

	resp, err := h.challengeService.CheckInPhotoUploadURL(c.Request.Context(), userID, c.Param("code"), req.ContentType)
	if err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

// CheckIn records today's check-in and awards the daily point.
func (h *ChallengeHandler) CheckIn(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
		return
	}

	points, err := h.challengeService.CheckIn(c.Request.Context(), userID, c.Param("code"), req.PhotoObjectKey)
	if err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Checked in",
		"points":  points,
	})
}

// ListUserChallenges returns the caller's active challenges.
func (h *ChallengeHandler) ListUserChallenges(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	challenges, err := h.challengeService.ListUserChallenges(c.Request.Context(), userID)
	if err != nil {
		respondChallengeError(c, err)
		return
	}
	if challenges == nil {
		challenges = []domain.Challenge{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": challenges})
}

// ChallengeLeaderboard returns the participants ranked by check-in points.
func (h *ChallengeHandler) ChallengeLeaderboard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	board, err := h.challengeService.ChallengeLeaderboard(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": board})
}

// ListChallengeCheckIns returns the check-in ledger with temporary photo URLs.
func (h *ChallengeHandler) ListChallengeCheckIns(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	checkIns, err := h.challengeService.ListChallengeCheckIns(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": checkIns})
}

// DeactivateChallenge soft-deactivates a challenge (admin only).
func (h *ChallengeHandler) DeactivateChallenge(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	if err := h.challengeService.DeactivateChallenge(c.Request.Context(), userID, c.Param("code")); err != nil {
		respondChallengeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Challenge deactivated"})
}

func respondChallengeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, validationErr.Error())
	case errors.Is(err, service.ErrChallengeNotFound), errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, ReasonNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyJoined):
		abortWithError(c, http.StatusConflict, ReasonAlreadyJoined, err.Error())
	case errors.Is(err, service.ErrAlreadyCheckedInToday):
		abortWithError(c, http.StatusConflict, ReasonAlreadyCheckedIn, err.Error())
	case errors.Is(err, service.ErrNotAParticipant):
		abortWithError(c, http.StatusForbidden, ReasonNotAParticipant, err.Error())
	case errors.Is(err, service.ErrChallengeInactive):
		abortWithError(c, http.StatusConflict, ReasonConflict, err.Error())
	case errors.Is(err, service.ErrNotChallengeAdmin):
		abortWithError(c, http.StatusForbidden, ReasonConflict, err.Error())
	case errors.Is(err, service.ErrCodeSpaceExhausted):
		abortWithError(c, http.StatusConflict, ReasonCodeSpaceExhausted, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "An unexpected error occurred")
	}
}
