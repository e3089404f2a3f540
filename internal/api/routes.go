package api

import (
	"net/http"

	"vivafit/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	profileService service.ProfileService,
	planService service.PlanService,
	challengeService service.ChallengeService,
) {
	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	planHandler := NewPlanHandler(planService)
	challengeHandler := NewChallengeHandler(challengeService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", profileHandler.GetActiveProgram)

		// --- Profile / Program Routes ---
		profileGroup := protected.Group("/profiles")
		{
			profileGroup.PUT("/:kind", profileHandler.UpsertProfile)
			profileGroup.GET("/:kind", profileHandler.GetProfile)
			profileGroup.POST("/:kind/events", profileHandler.RecordProgressEvent)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("/latest", planHandler.GetLatestPlan)
		}

		// --- Challenge Routes ---
		challengeGroup := protected.Group("/challenges")
		{
			challengeGroup.POST("", challengeHandler.CreateChallenge)
			challengeGroup.GET("", challengeHandler.ListUserChallenges)
			challengeGroup.POST("/join", challengeHandler.JoinChallenge)
			challengeGroup.GET("/:code/checkins", challengeHandler.ListChallengeCheckIns)
			challengeGroup.GET("/:code/leaderboard", challengeHandler.ChallengeLeaderboard)
			challengeGroup.POST("/:code/checkin/upload-url", challengeHandler.CheckInPhotoUploadURL)
			challengeGroup.POST("/:code/checkin", challengeHandler.CheckIn)
			challengeGroup.DELETE("/:code", challengeHandler.DeactivateChallenge)
		}
	}
}
