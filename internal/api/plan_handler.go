package api

import (
	"errors"
	"net/http"

	"vivafit/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// GeneratePlan generates and stores a new plan snapshot for the caller.
// Upstream generation failure never surfaces here; only a missing
// profile/program or a persistence failure can.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
		"workoutPlan":   plan.WorkoutPlanText,
		"nutritionPlan": plan.NutritionPlanText,
		"planType":      plan.PlanType,
		"generatedAt":   plan.CreatedAt,
	}})
}

// GetLatestPlan returns the caller's newest plan snapshot.
func (h *PlanHandler) GetLatestPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid session")
		return
	}

	plan, err := h.planService.GetLatestPlan(c.Request.Context(), userID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"workoutPlan":   plan.WorkoutPlanText,
		"nutritionPlan": plan.NutritionPlanText,
		"planType":      plan.PlanType,
		"generatedAt":   plan.CreatedAt,
	}})
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveProgram):
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, ReasonNotFound, err.Error())
	case errors.Is(err, service.ErrPlanPersistence):
		abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "Could not store the generated plan")
	default:
		abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "An unexpected error occurred")
	}
}
