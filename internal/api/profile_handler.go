package api

import (
	"errors"
	"net/http"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request Structs ---

type ProgressEventRequest struct {
	Type          string     `json:"type" binding:"required,oneof=complete-activity pain-level add-activity"`
	ActivityIndex int        `json:"activityIndex"`
	Completed     bool       `json:"completed"`
	PainLevel     int        `json:"painLevel"`
	ActivityName  string     `json:"activityName"`
	ActivityDate  *time.Time `json:"activityDate"`
}

// --- Handler Methods ---

// UpsertProfile submits (or resubmits) the intake form for one program
// kind. The body is the kind-specific intake object.
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	kind, ok := domain.ParseProgramKind(c.Param("kind"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, "Unknown program kind")
		return
	}

	var intake domain.Intake
	if err := c.ShouldBindJSON(&intake); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, "Request body must be a JSON object")
		return
	}

	profile, err := h.profileService.UpsertProfile(c.Request.Context(), userID, kind, intake)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

// GetProfile returns the caller's profile for one kind.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	kind, ok := domain.ParseProgramKind(c.Param("kind"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, "Unknown program kind")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID, kind)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

// RecordProgressEvent applies a completion toggle, pain-level update or
// activity append to the caller's profile.
func (h *ProfileHandler) RecordProgressEvent(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	kind, ok := domain.ParseProgramKind(c.Param("kind"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, "Unknown program kind")
		return
	}

	var req ProgressEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
		return
	}

	event := service.ProgressEvent{
		Type:          req.Type,
		ActivityIndex: req.ActivityIndex,
		Completed:     req.Completed,
		PainLevel:     req.PainLevel,
		ActivityName:  req.ActivityName,
	}
	if req.ActivityDate != nil {
		event.ActivityDate = *req.ActivityDate
	}

	profile, err := h.profileService.RecordProgressEvent(c.Request.Context(), userID, kind, event)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

// GetActiveProgram returns the caller's active program pointer.
func (h *ProfileHandler) GetActiveProgram(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	kind, err := h.profileService.GetActiveProgram(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"program": kind}})
}

func respondProfileError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, validationErr.Error())
	case errors.Is(err, service.ErrUnknownKind), errors.Is(err, service.ErrUnknownEventType):
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrProfileNotFound):
		abortWithError(c, http.StatusNotFound, ReasonNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "An unexpected error occurred")
	}
}
